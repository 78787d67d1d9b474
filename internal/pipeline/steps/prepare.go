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

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/cloudwego/idl2sdk/internal/pipeline"
)

// PrepareStep empties the temp and output directories. Both removals finish
// before either directory is recreated.
type PrepareStep struct{}

// Name implements pipeline.Step.
func (s *PrepareStep) Name() string { return "prepare" }

// Run implements pipeline.Step.
func (s *PrepareStep) Run(ctx context.Context, st *pipeline.PipelineState) (*pipeline.StepResult, error) {
	dirs := []string{st.Request.TempDir, st.Request.OutputDir}

	if err := eachDir(dirs, os.RemoveAll, "remove"); err != nil {
		return pipeline.Fatal(pipeline.DirectoryPrepFailed, err)
	}
	mkdir := func(dir string) error { return os.MkdirAll(dir, 0o755) }
	if err := eachDir(dirs, mkdir, "create"); err != nil {
		return pipeline.Fatal(pipeline.DirectoryPrepFailed, err)
	}
	return pipeline.OK()
}

// eachDir runs fn on every dir concurrently and waits for all of them.
func eachDir(dirs []string, fn func(string) error, verb string) error {
	var g errgroup.Group
	for _, dir := range dirs {
		dir := dir
		g.Go(func() error {
			return errors.Wrapf(fn(dir), "%s %s", verb, dir)
		})
	}
	return g.Wait()
}
