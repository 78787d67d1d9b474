// Copyright 2025 ByteDance Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package runner

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"time"

	"github.com/pkg/errors"

	"github.com/cloudwego/idl2sdk/internal/log"
)

const defaultMaxOutputBytes = 1 << 20

// ExecRunner runs commands on the host with os/exec. There is no timeout;
// the caller's context is the only way to stop a hung tool.
type ExecRunner struct {
	// Stdout and Stderr receive inherited streams. Default os.Stdout / os.Stderr.
	Stdout io.Writer
	Stderr io.Writer

	// MaxOutputBytes caps each captured stream. Zero means 1MiB.
	MaxOutputBytes int64
}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (r *ExecRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Binary == "" {
		return nil, errors.New("binary is required")
	}

	var c *exec.Cmd
	if cmd.Shell {
		c = shellCommand(ctx, cmd)
	} else {
		c = exec.CommandContext(ctx, cmd.Binary, cmd.Args...)
	}
	c.Dir = cmd.Dir
	if cmd.Env != nil {
		c.Env = cmd.Env
	}

	max := r.MaxOutputBytes
	if max <= 0 {
		max = defaultMaxOutputBytes
	}
	var stdoutBuf, stderrBuf bytes.Buffer
	stdoutLimited := &limitedWriter{w: &stdoutBuf, max: max}
	stderrLimited := &limitedWriter{w: &stderrBuf, max: max}
	if cmd.Inherit {
		c.Stdout = orDefault(r.Stdout, os.Stdout)
		c.Stderr = orDefault(r.Stderr, os.Stderr)
	} else {
		c.Stdout = stdoutLimited
		c.Stderr = stderrLimited
	}

	log.Debug("exec: %s (dir=%s, shell=%v, inherit=%v)", cmd.String(), cmd.Dir, cmd.Shell, cmd.Inherit)

	result := &Result{ExitCode: -1, StartedAt: time.Now()}
	err := c.Run()
	result.Duration = time.Since(result.StartedAt)
	result.Stdout = stdoutBuf.String()
	result.Stderr = stderrBuf.String()
	result.Truncated = stdoutLimited.truncated || stderrLimited.truncated

	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			result.ExitCode = exitErr.ExitCode()
			if cmd.Shell && shellNotFound(result.ExitCode) {
				return nil, errors.Wrapf(ErrNotFound, "%s (shell exit %d)", cmd.Binary, result.ExitCode)
			}
			log.Debug("exec: %s exited %d after %s", cmd.Binary, result.ExitCode, result.Duration)
			return result, nil
		case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
			return nil, errors.Wrapf(ErrNotFound, "%s: %v", cmd.Binary, err)
		default:
			return nil, errors.Wrapf(err, "start %s", cmd.Binary)
		}
	}

	result.ExitCode = 0
	log.Debug("exec: %s succeeded in %s", cmd.Binary, result.Duration)
	return result, nil
}

func orDefault(w, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}

// limitedWriter keeps the first max bytes and silently drops the rest.
type limitedWriter struct {
	w         io.Writer
	max       int64
	written   int64
	truncated bool
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)
	if lw.written >= lw.max {
		lw.truncated = true
		return n, nil
	}
	remaining := lw.max - lw.written
	if int64(n) > remaining {
		lw.truncated = true
		written, err := lw.w.Write(p[:remaining])
		lw.written += int64(written)
		// report the full length so the child does not see a short write
		return n, err
	}
	written, err := lw.w.Write(p)
	lw.written += int64(written)
	return written, err
}
