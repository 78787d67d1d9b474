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

// Package runner is the single place where external tools are started.
// Platform quoting and shell wrapping stay behind Runner so callers get one
// contract: an error means the tool could not be run at all, a Result means it
// ran and ExitCode tells how it went.
package runner

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned (wrapped) when the executable cannot be resolved or started
// because it does not exist.
var ErrNotFound = errors.New("executable not found")

// Command describes one external tool invocation.
type Command struct {
	// Binary is an executable path or a bare name resolved through PATH.
	Binary string
	Args   []string

	// Dir is the working directory; empty means the runner's process cwd.
	Dir string

	// Env in KEY=VALUE form. Nil inherits the runner process environment.
	Env []string

	// Shell runs the command line through the platform shell. Needed for
	// Windows .cmd shims such as npx.cmd.
	Shell bool

	// Inherit streams stdout/stderr to the runner's writers instead of capturing.
	Inherit bool
}

// String returns the command line for display.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Binary
	}
	return c.Binary + " " + strings.Join(c.Args, " ")
}

// Result of a command that started. A non-zero ExitCode is not an error.
type Result struct {
	ExitCode  int
	Stdout    string
	Stderr    string
	Truncated bool
	StartedAt time.Time
	Duration  time.Duration
}

func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

// Runner executes external tools.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, cmd Command) (*Result, error)

func (f RunnerFunc) Run(ctx context.Context, cmd Command) (*Result, error) {
	return f(ctx, cmd)
}

// IsNotFound reports whether err means the executable does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
