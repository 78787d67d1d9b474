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

	"github.com/cloudwego/idl2sdk/internal/pipeline"
)

// CleanupStep removes the temp directory. Failure leaves the output intact
// and is reported as a warning.
type CleanupStep struct {
	// Remove defaults to os.RemoveAll.
	Remove func(path string) error
}

// Name implements pipeline.Step.
func (s *CleanupStep) Name() string { return "cleanup" }

// Run implements pipeline.Step.
func (s *CleanupStep) Run(ctx context.Context, st *pipeline.PipelineState) (*pipeline.StepResult, error) {
	remove := s.Remove
	if remove == nil {
		remove = os.RemoveAll
	}
	if err := remove(st.Request.TempDir); err != nil {
		return pipeline.Tolerated(pipeline.CleanupWarning, errors.Wrapf(err, "remove %s", st.Request.TempDir))
	}
	return pipeline.OK()
}
