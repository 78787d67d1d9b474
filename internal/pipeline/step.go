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

import "context"

// Step is one phase of a generation run. It reads and mutates st directly.
type Step interface {
	Name() string
	Run(ctx context.Context, st *PipelineState) (*StepResult, error)
}

// StepResult is what a step reports back to the pipeline.
// Recoverable failures are tolerated: the run goes on and the failure is kept as a warning.
type StepResult struct {
	Status      StepStatus
	Recoverable bool
}

// OK is the result of a step that finished normally.
func OK() (*StepResult, error) {
	return &StepResult{Status: StepOK}, nil
}

// Fatal fails the step with a classified error that aborts the run.
func Fatal(kind ErrorKind, err error) (*StepResult, error) {
	return &StepResult{Status: StepFailed}, newError(kind, err)
}

// Tolerated fails the step without stopping the run.
func Tolerated(kind ErrorKind, err error) (*StepResult, error) {
	return &StepResult{Status: StepFailed, Recoverable: true}, newError(kind, err)
}

func newError(kind ErrorKind, err error) error {
	if pe, ok := err.(*Error); ok {
		return pe
	}
	return &Error{Kind: kind, Err: err}
}
