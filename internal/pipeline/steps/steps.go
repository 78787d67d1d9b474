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

// Package steps holds the phases of one generation run in the order Default
// returns them: validate, resolve-id, prepare, generate, enumerate, inspect,
// transpile, cleanup.
package steps

import (
	"context"

	"github.com/cloudwego/idl2sdk/internal/env"
	"github.com/cloudwego/idl2sdk/internal/locator"
	"github.com/cloudwego/idl2sdk/internal/pipeline"
	"github.com/cloudwego/idl2sdk/internal/runner"
	"github.com/cloudwego/idl2sdk/internal/transpile"
)

// ToolLocator is the part of locator.Locator the generate step needs.
type ToolLocator interface {
	Locate(ctx context.Context) locator.ToolLocation
	Fallback() locator.ToolLocation
}

// ExportScanner lists the names a TypeScript file exports.
type ExportScanner interface {
	Exports(ctx context.Context, path string, src []byte) ([]string, error)
}

// Deps are the collaborators shared by the steps.
type Deps struct {
	Env        *env.Environment
	Locator    ToolLocator
	Runner     runner.Runner
	Transpiler transpile.Transpiler
	Scanner    ExportScanner // optional
}

// Default returns the full phase list.
func Default(d Deps) []pipeline.Step {
	return []pipeline.Step{
		&ValidateStep{Env: d.Env},
		&ResolveProgramIDStep{},
		&PrepareStep{},
		&GenerateStep{Locator: d.Locator, Runner: d.Runner, Env: d.Env},
		&EnumerateStep{},
		&InspectStep{Scanner: d.Scanner},
		&TranspileStep{Transpiler: d.Transpiler},
		&CleanupStep{},
	}
}
