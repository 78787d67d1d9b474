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

//go:build windows

package runner

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// cmd.exe does not follow CommandLineToArgvW rules, so the raw command line is
// handed over untouched through SysProcAttr.CmdLine.
func shellCommand(ctx context.Context, cmd Command) *exec.Cmd {
	comspec := os.Getenv("COMSPEC")
	if comspec == "" {
		comspec = "cmd.exe"
	}
	c := exec.CommandContext(ctx, comspec)
	c.SysProcAttr = &syscall.SysProcAttr{
		CmdLine: `/d /s /c "` + CommandLine(cmd.Binary, cmd.Args) + `"`,
	}
	return c
}

// 9009 is cmd.exe's "is not recognized as an internal or external command".
func shellNotFound(code int) bool {
	return code == 9009
}

// CommandLine joins binary and args into one cmd.exe line.
func CommandLine(binary string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteArg(binary))
	for _, a := range args {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}

func quoteArg(s string) string {
	if s == "" {
		return `""`
	}
	if !strings.ContainsAny(s, " \t\"&|<>^%") {
		return s
	}
	s = strings.ReplaceAll(s, `"`, `""`)
	return `"` + s + `"`
}
