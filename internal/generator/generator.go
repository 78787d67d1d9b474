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

// Package generator turns an IDL file into a compiled JavaScript SDK by
// driving the external client generator and the in-process transpiler.
package generator

import (
	"context"
	"sync"

	"github.com/cloudwego/idl2sdk/internal/env"
	"github.com/cloudwego/idl2sdk/internal/inspect"
	"github.com/cloudwego/idl2sdk/internal/locator"
	"github.com/cloudwego/idl2sdk/internal/log"
	"github.com/cloudwego/idl2sdk/internal/pipeline"
	"github.com/cloudwego/idl2sdk/internal/pipeline/steps"
	"github.com/cloudwego/idl2sdk/internal/runner"
	"github.com/cloudwego/idl2sdk/internal/transpile"
)

// Result describes a finished run.
type Result struct {
	OutputDir       string                   `json:"output_dir"`
	RunID           string                   `json:"run_id"`
	ProgramID       string                   `json:"program_id"`
	ProgramIDSource pipeline.ProgramIDSource `json:"program_id_source"`
	Tool            *locator.ToolLocation    `json:"tool,omitempty"`
	Files           []string                 `json:"files"`
	Exports         map[string][]string      `json:"exports,omitempty"`
	DescriptorHash  string                   `json:"descriptor_hash,omitempty"`
	Warnings        []string                 `json:"warnings,omitempty"`
	History         []pipeline.StepRecord    `json:"-"`
}

// Generator runs one generation at a time; concurrent calls to Generate are
// serialized because they usually share the same directories.
type Generator struct {
	Env        *env.Environment
	Runner     runner.Runner
	Locator    steps.ToolLocator
	Transpiler transpile.Transpiler
	Scanner    steps.ExportScanner

	// Agent decides on step failures; nil means pipeline.DefaultAgent.
	Agent      pipeline.Agent
	OnProgress func(pipeline.StepRecord)

	mu sync.Mutex
}

const scanCacheSize = 1024

// New wires the production collaborators around e.
func New(e *env.Environment) *Generator {
	r := runner.NewExecRunner()
	g := &Generator{
		Env:        e,
		Runner:     r,
		Locator:    locator.New(e, r),
		Transpiler: transpile.NewEsbuild(),
		Scanner:    inspect.NewScanner(),
	}
	if cached, err := inspect.NewCachingScanner(scanCacheSize); err == nil {
		g.Scanner = cached
	}
	return g
}

// Generate runs every phase for req. On failure the returned error carries a
// pipeline.ErrorKind and the partial Result still holds the step history.
func (g *Generator) Generate(ctx context.Context, req pipeline.Request) (*Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	st := pipeline.NewPipelineState(req)
	pl := &pipeline.Pipeline{
		Steps: steps.Default(steps.Deps{
			Env:        g.Env,
			Locator:    g.Locator,
			Runner:     g.Runner,
			Transpiler: g.Transpiler,
			Scanner:    g.Scanner,
		}),
		Agent:      g.Agent,
		OnProgress: g.OnProgress,
	}

	log.Info("run %s: %s -> %s", st.RunID, req.SourcePath, req.OutputDir)
	err := pl.Run(ctx, st)
	res := resultOf(st)
	if err != nil {
		log.Error("run %s failed: %v", st.RunID, err)
		return res, err
	}
	log.Info("run %s: wrote %d file(s) to %s", st.RunID, len(res.Files), res.OutputDir)
	return res, nil
}

func resultOf(st *pipeline.PipelineState) *Result {
	res := &Result{
		OutputDir:       st.Request.OutputDir,
		RunID:           st.RunID,
		ProgramID:       st.ProgramID,
		ProgramIDSource: st.ProgramIDSource,
		Tool:            st.Tool,
		Files:           st.Compiled,
		Exports:         st.Exports,
		Warnings:        st.Warnings,
		History:         st.History,
	}
	if st.Descriptor != nil {
		res.DescriptorHash = st.Descriptor.Hash
	}
	return res
}
