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
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/cloudwego/idl2sdk/internal/env"
	"github.com/cloudwego/idl2sdk/internal/pipeline"
)

// ValidateStep makes every request path absolute, checks that the IDL exists
// and snapshots its bytes. It also rejects directory layouts that the prepare
// or cleanup phases would destroy.
type ValidateStep struct {
	Env *env.Environment
}

// Name implements pipeline.Step.
func (s *ValidateStep) Name() string { return "validate" }

// Run implements pipeline.Step.
func (s *ValidateStep) Run(ctx context.Context, st *pipeline.PipelineState) (*pipeline.StepResult, error) {
	req := &st.Request
	if strings.TrimSpace(req.SourcePath) == "" {
		return pipeline.Fatal(pipeline.SourceNotFound, errors.New("no IDL path given"))
	}
	if req.TempDir == "" || req.OutputDir == "" {
		return pipeline.Fatal(pipeline.DirectoryPrepFailed, errors.New("temp and output directories are required"))
	}

	req.SourcePath = s.abs(req.SourcePath)
	req.TempDir = s.abs(req.TempDir)
	req.OutputDir = s.abs(req.OutputDir)

	snap, err := pipeline.SnapshotFile(req.SourcePath)
	if err != nil {
		return pipeline.Fatal(pipeline.SourceNotFound, errors.Wrapf(err, "read IDL %s", req.SourcePath))
	}
	st.Descriptor = snap

	switch {
	case req.TempDir == req.OutputDir:
		return pipeline.Fatal(pipeline.DirectoryPrepFailed,
			errors.Errorf("temp and output directory are both %s", req.TempDir))
	case within(req.TempDir, req.OutputDir):
		return pipeline.Fatal(pipeline.DirectoryPrepFailed,
			errors.Errorf("output directory %s lies inside temp directory %s", req.OutputDir, req.TempDir))
	case within(req.TempDir, req.SourcePath), within(req.OutputDir, req.SourcePath):
		return pipeline.Fatal(pipeline.DirectoryPrepFailed,
			errors.Errorf("IDL %s lies inside a directory that is cleared before generation", req.SourcePath))
	}
	return pipeline.OK()
}

func (s *ValidateStep) abs(p string) string {
	if s.Env != nil {
		return s.Env.Abs(p)
	}
	if a, err := filepath.Abs(p); err == nil {
		return a
	}
	return p
}

// within reports whether child is strictly below parent.
func within(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
