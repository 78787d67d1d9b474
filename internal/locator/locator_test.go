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

package locator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/idl2sdk/internal/env"
	"github.com/cloudwego/idl2sdk/internal/runner"
)

// probeRunner answers which/where probes and records them.
type probeRunner struct {
	found  map[string]bool
	err    error
	probes []runner.Command
}

func (p *probeRunner) Run(ctx context.Context, cmd runner.Command) (*runner.Result, error) {
	p.probes = append(p.probes, cmd)
	if p.err != nil {
		return nil, p.err
	}
	if len(cmd.Args) == 1 && p.found[cmd.Args[0]] {
		return &runner.Result{ExitCode: 0}, nil
	}
	return &runner.Result{ExitCode: 1}, nil
}

func touch(t *testing.T, path string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), mode))
}

func newLocator(t *testing.T, goos string, r runner.Runner, globals []string) (*Locator, string) {
	t.Helper()
	wd := t.TempDir()
	l := New(env.New(wd, goos, map[string]string{"HOME": t.TempDir()}), r)
	l.GlobalDirs = globals
	return l, wd
}

func TestLocate_LocalBinWinsOverEverything(t *testing.T) {
	global := t.TempDir()
	touch(t, filepath.Join(global, DefaultTool), 0o755)
	probe := &probeRunner{found: map[string]bool{DefaultTool: true}}
	l, wd := newLocator(t, "linux", probe, []string{global})
	local := filepath.Join(wd, "node_modules", ".bin", DefaultTool)
	touch(t, local, 0o755)

	loc := l.Locate(context.Background())

	assert.Equal(t, ToolLocation{Executable: local, Source: SourceLocal}, loc)
	assert.Empty(t, probe.probes, "PATH must not be probed once a local binary matched")
}

func TestLocate_LocalNonExecutableIsSkipped(t *testing.T) {
	probe := &probeRunner{found: map[string]bool{DefaultTool: true}}
	l, wd := newLocator(t, "linux", probe, []string{})
	touch(t, filepath.Join(wd, "node_modules", ".bin", DefaultTool), 0o644)

	loc := l.Locate(context.Background())
	assert.Equal(t, SourcePath, loc.Source)
}

func TestLocate_PathBeforeGlobal(t *testing.T) {
	global := t.TempDir()
	touch(t, filepath.Join(global, DefaultTool), 0o755)
	probe := &probeRunner{found: map[string]bool{DefaultTool: true}}
	l, wd := newLocator(t, "linux", probe, []string{global})

	loc := l.Locate(context.Background())

	assert.Equal(t, ToolLocation{Executable: DefaultTool, Source: SourcePath}, loc)
	require.Len(t, probe.probes, 1)
	assert.Equal(t, "which", probe.probes[0].Binary)
	assert.Equal(t, wd, probe.probes[0].Dir)
}

func TestLocate_GlobalDirsInOrder(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	touch(t, filepath.Join(second, DefaultTool), 0o755)
	l, _ := newLocator(t, "linux", &probeRunner{}, []string{first, filepath.Join(first, "missing"), second})

	loc := l.Locate(context.Background())
	assert.Equal(t, ToolLocation{Executable: filepath.Join(second, DefaultTool), Source: SourceGlobal}, loc)
}

func TestLocate_ProbeErrorsAreNotFound(t *testing.T) {
	l, _ := newLocator(t, "linux", &probeRunner{err: errors.New("which: exec format error")}, []string{})
	loc := l.Locate(context.Background())
	assert.Equal(t, SourceFallback, loc.Source)
}

func TestLocate_FallbackWhenNothingResolves(t *testing.T) {
	l, _ := newLocator(t, "linux", &probeRunner{}, []string{t.TempDir()})

	loc := l.Locate(context.Background())

	want := ToolLocation{Executable: "npx", ArgsPrefix: []string{"--yes", DefaultPackage}, Source: SourceFallback}
	if diff := cmp.Diff(want, loc); diff != "" {
		t.Errorf("fallback mismatch (-want +got):\n%s", diff)
	}
}

func TestLocate_NilRunnerStillTotal(t *testing.T) {
	l, _ := newLocator(t, "linux", nil, []string{})
	assert.Equal(t, SourceFallback, l.Locate(context.Background()).Source)
}

func TestLocate_Windows(t *testing.T) {
	global := t.TempDir()
	touch(t, filepath.Join(global, DefaultTool), 0o755)

	t.Run("local cmd shim needs shell", func(t *testing.T) {
		l, wd := newLocator(t, "windows", &probeRunner{}, []string{global})
		shim := filepath.Join(wd, "node_modules", ".bin", DefaultTool+".cmd")
		touch(t, shim, 0o644)
		assert.Equal(t, ToolLocation{Executable: shim, Shell: true, Source: SourceLocal}, l.Locate(context.Background()))
	})

	t.Run("where probe", func(t *testing.T) {
		probe := &probeRunner{found: map[string]bool{DefaultTool: true}}
		l, _ := newLocator(t, "windows", probe, []string{global})
		loc := l.Locate(context.Background())
		assert.Equal(t, ToolLocation{Executable: DefaultTool, Shell: true, Source: SourcePath}, loc)
		assert.Equal(t, "where", probe.probes[0].Binary)
	})

	t.Run("global dirs skipped", func(t *testing.T) {
		l, _ := newLocator(t, "windows", &probeRunner{}, []string{global})
		loc := l.Locate(context.Background())
		assert.Equal(t, SourceFallback, loc.Source)
		assert.True(t, loc.Shell)
	})
}

func TestDefaultGlobalDirs(t *testing.T) {
	e := env.New("/w", "linux", map[string]string{"HOME": "/home/dev", "NVM_BIN": "/home/dev/.nvm/versions/node/v20/bin"})
	want := []string{
		"/usr/local/bin", "/usr/bin", "/opt/homebrew/bin",
		"/home/dev/.npm-global/bin", "/home/dev/.yarn/bin", "/home/dev/.local/share/pnpm", "/home/dev/.bun/bin",
		"/home/dev/.nvm/versions/node/v20/bin",
	}
	if diff := cmp.Diff(want, DefaultGlobalDirs(e)); diff != "" {
		t.Errorf("DefaultGlobalDirs mismatch (-want +got):\n%s", diff)
	}

	bare := env.New("/w", "linux", nil)
	assert.Equal(t, []string{"/usr/local/bin", "/usr/bin", "/opt/homebrew/bin"}, DefaultGlobalDirs(bare))
}

func TestToolLocationCommand(t *testing.T) {
	loc := ToolLocation{Executable: "npx", ArgsPrefix: []string{"--yes", "anchor-client-gen"}, Shell: true}
	cmd := loc.Command("/idl.json", "/tmp", "--program-id", "X")
	assert.Equal(t, "npx", cmd.Binary)
	assert.Equal(t, []string{"--yes", "anchor-client-gen", "/idl.json", "/tmp", "--program-id", "X"}, cmd.Args)
	assert.True(t, cmd.Shell)
	// the prefix slice must not be aliased by Command
	assert.Equal(t, []string{"--yes", "anchor-client-gen"}, loc.ArgsPrefix)
}
