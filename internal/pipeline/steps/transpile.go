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

	"github.com/pkg/errors"

	"github.com/cloudwego/idl2sdk/internal/pipeline"
	"github.com/cloudwego/idl2sdk/internal/transpile"
)

// TranspileStep compiles the enumerated files into the output directory,
// keeping their layout relative to the temp directory.
type TranspileStep struct {
	Transpiler transpile.Transpiler
}

// Name implements pipeline.Step.
func (s *TranspileStep) Name() string { return "transpile" }

// Run implements pipeline.Step.
func (s *TranspileStep) Run(ctx context.Context, st *pipeline.PipelineState) (*pipeline.StepResult, error) {
	if s.Transpiler == nil {
		return pipeline.Fatal(pipeline.TranspileFailed, errors.New("no transpiler configured"))
	}
	req := st.Request
	out, err := s.Transpiler.Transpile(ctx, transpile.Options{
		Files:   st.Generated,
		BaseDir: req.TempDir,
		OutDir:  req.OutputDir,
		Format:  req.Format,
		Target:  req.Target,
	})
	if err != nil {
		return pipeline.Fatal(pipeline.TranspileFailed, err)
	}
	st.Compiled = out
	return pipeline.OK()
}
