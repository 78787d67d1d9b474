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

package pipeline

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorKind classifies why a run failed.
type ErrorKind string

const (
	SourceNotFound      ErrorKind = "SourceNotFound"
	DirectoryPrepFailed ErrorKind = "DirectoryPrepFailed"
	GenerationFailed    ErrorKind = "GenerationFailed"
	EnumerationFailed   ErrorKind = "EnumerationFailed"
	TranspileFailed     ErrorKind = "TranspileFailed"

	// CleanupWarning is only ever tolerated.
	CleanupWarning ErrorKind = "CleanupWarning"
)

// Error is a classified pipeline failure. For GenerationFailed, ExitCode and
// Output hold the generator's exit status and captured stderr.
type Error struct {
	Kind     ErrorKind
	ExitCode int
	Output   string
	Err      error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	if e.Kind == GenerationFailed {
		fmt.Fprintf(&sb, " (exit code %d)", e.ExitCode)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		sb.WriteString("\n")
		sb.WriteString(out)
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}

// IsKind reports whether err's chain holds an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
