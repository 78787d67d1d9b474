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

// Package transpile turns generated TypeScript into JavaScript, one output per
// input file.
package transpile

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Format is the module convention of the emitted JavaScript.
type Format string

const (
	FormatESM Format = "esm"
	FormatCJS Format = "cjs"
)

const DefaultTarget = "es2022"

// ParseFormat accepts "esm" or "cjs", case-insensitively. Empty means esm.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatESM, "":
		return FormatESM, nil
	case FormatCJS:
		return FormatCJS, nil
	default:
		return "", fmt.Errorf("unsupported module format %q (want esm or cjs)", s)
	}
}

func (f Format) String() string { return string(f) }

// Options for one batch. Files are absolute; their layout relative to BaseDir
// is reproduced under OutDir.
type Options struct {
	Files   []string
	BaseDir string
	OutDir  string
	Format  Format
	Target  string
}

// Transpiler compiles every file independently; no bundling.
type Transpiler interface {
	Transpile(ctx context.Context, opts Options) ([]string, error)
}

// Diagnostic is one compiler message.
type Diagnostic struct {
	File   string
	Line   int
	Column int
	Text   string
}

func (d Diagnostic) String() string {
	if d.File == "" {
		return d.Text
	}
	return fmt.Sprintf("%s:%d:%d: %s", d.File, d.Line, d.Column, d.Text)
}

// DiagnosticsError carries every error the compiler reported.
type DiagnosticsError struct {
	Diagnostics []Diagnostic
}

func (e *DiagnosticsError) Error() string {
	lines := make([]string, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		lines = append(lines, d.String())
	}
	return fmt.Sprintf("%d compile error(s):\n%s", len(e.Diagnostics), strings.Join(lines, "\n"))
}

// SupportedTargets lists the language levels the compiler accepts.
func SupportedTargets() []string {
	out := make([]string, 0, len(targets))
	for k := range targets {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
