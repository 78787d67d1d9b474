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

package mcp

import (
	"context"

	"github.com/pkg/errors"

	"github.com/cloudwego/idl2sdk/internal/config"
	"github.com/cloudwego/idl2sdk/internal/generator"
	"github.com/cloudwego/idl2sdk/internal/locator"
)

type GenerateSDKReq struct {
	Source    string `json:"source,omitempty" jsonschema:"description=path to the Anchor IDL JSON file"`
	ProgramID string `json:"program_id,omitempty" jsonschema:"description=program id override; read from the IDL when omitted"`
	OutputDir string `json:"output_dir,omitempty" jsonschema:"description=directory that receives the compiled JavaScript (it is cleared first)"`
	TempDir   string `json:"temp_dir,omitempty" jsonschema:"description=scratch directory for generated TypeScript"`
	Format    string `json:"format,omitempty" jsonschema:"description=module format of the emitted JavaScript,enum=esm,enum=cjs"`
	Target    string `json:"target,omitempty" jsonschema:"description=ECMAScript language target such as es2022"`
}

type LocateGeneratorReq struct{}

type tools struct {
	opts ServerOptions
}

func newTools(opts ServerOptions) []Tool {
	t := &tools{opts: opts}
	return []Tool{
		NewTool(ToolGenerateSDK, DescGenerateSDK, t.GenerateSDK),
		NewTool(ToolLocateGenerator, DescLocateGenerator, t.LocateGenerator),
	}
}

func (t *tools) GenerateSDK(ctx context.Context, req GenerateSDKReq) (*generator.Result, error) {
	if t.opts.Generator == nil {
		return nil, errors.New("no generator configured")
	}
	cfg := config.Default()
	if t.opts.Defaults != nil {
		c := *t.opts.Defaults
		cfg = &c
	}
	override(&cfg.Source, req.Source)
	override(&cfg.ProgramID, req.ProgramID)
	override(&cfg.OutputDir, req.OutputDir)
	override(&cfg.TempDir, req.TempDir)
	override(&cfg.Format, req.Format)
	override(&cfg.Target, req.Target)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := cfg.ToRequest()
	// stdout carries the protocol; the generator must not write to it
	r.Verbose = false
	return t.opts.Generator.Generate(ctx, r)
}

func (t *tools) LocateGenerator(ctx context.Context, _ LocateGeneratorReq) (*locator.ToolLocation, error) {
	if t.opts.Locator == nil {
		return nil, errors.New("no locator configured")
	}
	loc := t.opts.Locator.Locate(ctx)
	return &loc, nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
