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
	"os"

	"github.com/cloudwego/idl2sdk/internal/pipeline"
)

// InspectStep records the exported names of each generated file. It is
// informational; unreadable or unparsable files only produce warnings.
type InspectStep struct {
	Scanner ExportScanner
}

// Name implements pipeline.Step.
func (s *InspectStep) Name() string { return "inspect" }

// Run implements pipeline.Step.
func (s *InspectStep) Run(ctx context.Context, st *pipeline.PipelineState) (*pipeline.StepResult, error) {
	if s.Scanner == nil {
		return pipeline.OK()
	}
	if st.Exports == nil {
		st.Exports = make(map[string][]string, len(st.Generated))
	}
	for _, file := range st.Generated {
		if err := ctx.Err(); err != nil {
			st.Warn("inspect: %v", err)
			break
		}
		src, err := os.ReadFile(file)
		if err != nil {
			st.Warn("inspect %s: %v", file, err)
			continue
		}
		names, err := s.Scanner.Exports(ctx, file, src)
		if err != nil {
			st.Warn("inspect %s: %v", file, err)
		}
		st.Exports[file] = names
	}
	return pipeline.OK()
}
