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
	"time"

	"github.com/google/uuid"

	"github.com/cloudwego/idl2sdk/internal/locator"
	"github.com/cloudwego/idl2sdk/internal/log"
	"github.com/cloudwego/idl2sdk/internal/transpile"
)

// Request is the caller's configuration for one run. Paths may be relative
// until the validate step makes them absolute.
type Request struct {
	SourcePath string
	ProgramID  string // optional override
	TempDir    string
	OutputDir  string
	Format     transpile.Format
	Target     string
	Verbose    bool
}

// ProgramIDSource records where the program id came from.
type ProgramIDSource string

const (
	ProgramIDOverride   ProgramIDSource = "override"
	ProgramIDDescriptor ProgramIDSource = "descriptor"
	ProgramIDDefault    ProgramIDSource = "default"
)

// PipelineState is the single source of truth for one run. Steps fill it in order;
// nothing in it outlives the run.
type PipelineState struct {
	RunID   string
	Request Request

	ProgramID       string
	ProgramIDSource ProgramIDSource

	Descriptor *Snapshot // raw IDL bytes, set by validate
	Tool       *locator.ToolLocation

	Generated []string            // intermediate .ts files, absolute, sorted
	Exports   map[string][]string // intermediate file -> exported names
	Compiled  []string            // emitted .js files, absolute, sorted

	Warnings []string
	History  []StepRecord
}

func NewPipelineState(req Request) *PipelineState {
	return &PipelineState{
		RunID:   uuid.NewString(),
		Request: req,
		Exports: make(map[string][]string),
	}
}

// Warn records a non-fatal diagnostic and logs it.
func (s *PipelineState) Warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	s.Warnings = append(s.Warnings, msg)
	log.Warn("%s", msg)
}

// StepRecord is an immutable log entry for one step execution.
type StepRecord struct {
	StepName string
	Status   StepStatus
	Error    string
	Time     time.Time
	Duration time.Duration
}

// StepStatus is the outcome of a step run.
type StepStatus string

const (
	StepRunning StepStatus = "running"
	StepOK      StepStatus = "ok"
	StepWarning StepStatus = "warning"
	StepFailed  StepStatus = "failed"
)
