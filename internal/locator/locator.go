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

// Package locator finds the IDL client generator however the host installed it.
package locator

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cloudwego/idl2sdk/internal/env"
	"github.com/cloudwego/idl2sdk/internal/log"
	"github.com/cloudwego/idl2sdk/internal/runner"
)

const (
	DefaultTool    = "anchor-client-gen"
	DefaultPackage = "anchor-client-gen"
)

// Source tells which search tier produced a ToolLocation.
type Source string

const (
	SourceLocal    Source = "local"    // <workdir>/node_modules/.bin
	SourcePath     Source = "path"     // resolved through PATH
	SourceGlobal   Source = "global"   // conventional global bin directory
	SourceFallback Source = "fallback" // npx fetch-and-run
)

// ToolLocation says how to invoke the generator.
type ToolLocation struct {
	Executable string   `json:"executable"`
	ArgsPrefix []string `json:"args_prefix,omitempty"`
	Shell      bool     `json:"shell"`
	Source     Source   `json:"source"`
}

// Command builds the runner command for this location followed by args.
func (l ToolLocation) Command(args ...string) runner.Command {
	full := make([]string, 0, len(l.ArgsPrefix)+len(args))
	full = append(full, l.ArgsPrefix...)
	full = append(full, args...)
	return runner.Command{Binary: l.Executable, Args: full, Shell: l.Shell}
}

// Locator searches, in order: the local dependency bin directory, PATH, the
// global install directories (non-Windows), and finally falls back to npx.
// Probes never fail the search; a failed probe just means "not here".
type Locator struct {
	Env    *env.Environment
	Runner runner.Runner

	// Tool is the executable name, Package the npm package npx fetches.
	Tool    string
	Package string

	// GlobalDirs overrides DefaultGlobalDirs when non-nil.
	GlobalDirs []string
}

func New(e *env.Environment, r runner.Runner) *Locator {
	return &Locator{Env: e, Runner: r, Tool: DefaultTool, Package: DefaultPackage}
}

// Locate always returns a usable location.
func (l *Locator) Locate(ctx context.Context) ToolLocation {
	tool := l.tool()

	if loc, ok := l.local(tool); ok {
		log.Debug("locator: using local %s", loc.Executable)
		return loc
	}
	if l.onPath(ctx, tool) {
		log.Debug("locator: %s resolved on PATH", tool)
		return ToolLocation{Executable: tool, Shell: l.Env.IsWindows(), Source: SourcePath}
	}
	if !l.Env.IsWindows() {
		for _, dir := range l.globalDirs() {
			candidate := filepath.Join(dir, tool)
			if isExecutable(candidate) {
				log.Debug("locator: using global %s", candidate)
				return ToolLocation{Executable: candidate, Source: SourceGlobal}
			}
		}
	}
	loc := l.Fallback()
	log.Debug("locator: %s not installed, falling back to %s %v", tool, loc.Executable, loc.ArgsPrefix)
	return loc
}

// Fallback is the fetch-and-run descriptor. --yes keeps npx from prompting.
func (l *Locator) Fallback() ToolLocation {
	pkg := l.Package
	if pkg == "" {
		pkg = l.tool()
	}
	return ToolLocation{
		Executable: "npx",
		ArgsPrefix: []string{"--yes", pkg},
		Shell:      l.Env.IsWindows(),
		Source:     SourceFallback,
	}
}

func (l *Locator) tool() string {
	if l.Tool == "" {
		return DefaultTool
	}
	return l.Tool
}

func (l *Locator) local(tool string) (ToolLocation, bool) {
	binDir := filepath.Join(l.Env.WorkDir, "node_modules", ".bin")
	if l.Env.IsWindows() {
		candidate := filepath.Join(binDir, tool+".cmd")
		if isFile(candidate) {
			return ToolLocation{Executable: candidate, Shell: true, Source: SourceLocal}, true
		}
		return ToolLocation{}, false
	}
	candidate := filepath.Join(binDir, tool)
	if isExecutable(candidate) {
		return ToolLocation{Executable: candidate, Source: SourceLocal}, true
	}
	return ToolLocation{}, false
}

// onPath asks the platform resolver (which / where) in a subprocess.
func (l *Locator) onPath(ctx context.Context, tool string) bool {
	if l.Runner == nil {
		return false
	}
	probe := "which"
	if l.Env.IsWindows() {
		probe = "where"
	}
	res, err := l.Runner.Run(ctx, runner.Command{
		Binary: probe,
		Args:   []string{tool},
		Dir:    l.Env.WorkDir,
		Env:    l.Env.CommandEnv(),
	})
	if err != nil {
		log.Debug("locator: %s probe failed: %v", probe, err)
		return false
	}
	return res.Success()
}

func (l *Locator) globalDirs() []string {
	if l.GlobalDirs != nil {
		return l.GlobalDirs
	}
	return DefaultGlobalDirs(l.Env)
}

// DefaultGlobalDirs lists where npm, yarn, pnpm, bun and nvm usually put global
// binaries. Entries whose variable is unset are skipped.
func DefaultGlobalDirs(e *env.Environment) []string {
	dirs := []string{"/usr/local/bin", "/usr/bin", "/opt/homebrew/bin"}
	if home := e.HomeDir(); home != "" {
		dirs = append(dirs,
			filepath.Join(home, ".npm-global", "bin"),
			filepath.Join(home, ".yarn", "bin"),
			filepath.Join(home, ".local", "share", "pnpm"),
			filepath.Join(home, ".bun", "bin"),
		)
	}
	if nvm := e.Getenv("NVM_BIN"); nvm != "" {
		dirs = append(dirs, nvm)
	}
	return dirs
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Mode().Perm()&0o111 != 0
}
