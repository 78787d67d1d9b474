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
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/cloudwego/idl2sdk/internal/pipeline"
)

// EnumerateStep collects every .ts file the generator wrote, recursively.
// A generator that succeeded but wrote nothing is treated as a failure.
type EnumerateStep struct{}

// Name implements pipeline.Step.
func (s *EnumerateStep) Name() string { return "enumerate" }

// Run implements pipeline.Step.
func (s *EnumerateStep) Run(ctx context.Context, st *pipeline.PipelineState) (*pipeline.StepResult, error) {
	var files []string
	err := filepath.WalkDir(st.Request.TempDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isSource(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return pipeline.Fatal(pipeline.EnumerationFailed, errors.Wrapf(err, "walk %s", st.Request.TempDir))
	}
	if len(files) == 0 {
		return pipeline.Fatal(pipeline.EnumerationFailed,
			errors.Errorf("generator wrote no .ts files to %s", st.Request.TempDir))
	}
	sort.Strings(files)
	st.Generated = files
	return pipeline.OK()
}

// isSource reports whether name is a TypeScript module. Declaration files
// carry no code to compile.
func isSource(name string) bool {
	return strings.HasSuffix(name, ".ts") && !strings.HasSuffix(name, ".d.ts")
}
