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

package steps

import (
	"context"
	"strings"

	"github.com/cloudwego/idl2sdk/internal/idl"
	"github.com/cloudwego/idl2sdk/internal/log"
	"github.com/cloudwego/idl2sdk/internal/pipeline"
)

// ResolveProgramIDStep picks the program id: the caller's override, else the
// address declared in the IDL, else idl.DefaultProgramID. It never fails.
type ResolveProgramIDStep struct{}

// Name implements pipeline.Step.
func (s *ResolveProgramIDStep) Name() string { return "resolve-id" }

// Run implements pipeline.Step.
func (s *ResolveProgramIDStep) Run(ctx context.Context, st *pipeline.PipelineState) (*pipeline.StepResult, error) {
	if override := strings.TrimSpace(st.Request.ProgramID); override != "" {
		st.ProgramID, st.ProgramIDSource = override, pipeline.ProgramIDOverride
	} else {
		id, ok, diag := idl.ExtractProgramID(st.Request.SourcePath)
		if diag != nil {
			st.Warn("program id: %v", diag)
		}
		if ok {
			st.ProgramID, st.ProgramIDSource = id, pipeline.ProgramIDDescriptor
		} else {
			st.ProgramID, st.ProgramIDSource = idl.DefaultProgramID, pipeline.ProgramIDDefault
			st.Warn("no program address in %s, using placeholder %s", st.Request.SourcePath, idl.DefaultProgramID)
		}
	}

	if err := idl.ValidateProgramID(st.ProgramID); err != nil {
		st.Warn("program id %q: %v", st.ProgramID, err)
	}
	name := "program"
	if d, err := idl.Load(st.Request.SourcePath); err == nil && d.ProgramName() != "" {
		name = d.ProgramName() + " " + d.ProgramVersion()
	}
	log.Info("%s: program id %s (%s)", strings.TrimSpace(name), st.ProgramID, st.ProgramIDSource)
	return pipeline.OK()
}
