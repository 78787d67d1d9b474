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

	"github.com/cloudwego/idl2sdk/internal/env"
	"github.com/cloudwego/idl2sdk/internal/locator"
	"github.com/cloudwego/idl2sdk/internal/log"
	"github.com/cloudwego/idl2sdk/internal/pipeline"
	"github.com/cloudwego/idl2sdk/internal/runner"
)

// GenerateStep runs the external client generator:
//
//	<tool> <idl> <temp dir> --program-id <id>
//
// A located tool that turns out not to exist is retried once through the
// fetch-and-run fallback.
type GenerateStep struct {
	Locator ToolLocator
	Runner  runner.Runner
	Env     *env.Environment
}

// Name implements pipeline.Step.
func (s *GenerateStep) Name() string { return "generate" }

// Run implements pipeline.Step.
func (s *GenerateStep) Run(ctx context.Context, st *pipeline.PipelineState) (*pipeline.StepResult, error) {
	if s.Locator == nil || s.Runner == nil {
		return pipeline.Fatal(pipeline.GenerationFailed, errors.New("generate step is missing its locator or runner"))
	}
	args := []string{st.Request.SourcePath, st.Request.TempDir, "--program-id", st.ProgramID}

	loc := s.Locator.Locate(ctx)
	res, err := s.invoke(ctx, st, loc, args)
	if runner.IsNotFound(err) && loc.Source != locator.SourceFallback {
		fb := s.Locator.Fallback()
		st.Warn("%s (%s) could not be started, retrying with %s", loc.Executable, loc.Source, fb.Executable)
		loc = fb
		res, err = s.invoke(ctx, st, loc, args)
	}
	st.Tool = &loc
	if err != nil {
		return pipeline.Fatal(pipeline.GenerationFailed, errors.Wrapf(err, "run %s", loc.Executable))
	}
	if !res.Success() {
		return &pipeline.StepResult{Status: pipeline.StepFailed}, &pipeline.Error{
			Kind:     pipeline.GenerationFailed,
			ExitCode: res.ExitCode,
			Output:   res.Stderr,
			Err:      errors.Errorf("%s exited with code %d", loc.Executable, res.ExitCode),
		}
	}
	log.Debug("generate: %s finished in %s", loc.Executable, res.Duration)
	return pipeline.OK()
}

func (s *GenerateStep) invoke(ctx context.Context, st *pipeline.PipelineState, loc locator.ToolLocation, args []string) (*runner.Result, error) {
	cmd := loc.Command(args...)
	cmd.Inherit = st.Request.Verbose
	if s.Env != nil {
		cmd.Dir = s.Env.WorkDir
		cmd.Env = s.Env.CommandEnv()
	}
	log.Info("generate: %s", cmd)
	return s.Runner.Run(ctx, cmd)
}
