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

package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/cloudwego/idl2sdk/internal/log"
)

// Pipeline runs steps strictly in sequence. A step never starts before the
// previous one has settled, and there is no way back to an earlier step.
type Pipeline struct {
	Steps []Step
	Agent Agent

	// OnProgress, if set, is called when a step starts and when it settles.
	OnProgress func(StepRecord)
}

// Run executes all steps. The first failure the Agent does not tolerate aborts
// the remaining steps and is returned wrapped with the step name.
func (p *Pipeline) Run(ctx context.Context, st *PipelineState) error {
	if st == nil {
		return errors.New("pipeline: initial state is nil")
	}
	if p.Agent == nil {
		p.Agent = &DefaultAgent{}
	}
	for i, step := range p.Steps {
		if step == nil {
			return errors.Errorf("pipeline: step %d is nil", i)
		}
		if err := p.runStep(ctx, step, st); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) runStep(ctx context.Context, step Step, st *PipelineState) error {
	start := time.Now()
	p.notify(StepRecord{StepName: step.Name(), Status: StepRunning, Time: start})
	log.Debug("step %s: start (run %s)", step.Name(), st.RunID)

	result, err := step.Run(ctx, st)
	if err == nil && result != nil && result.Status == StepOK {
		p.record(st, StepRecord{StepName: step.Name(), Status: StepOK, Time: start, Duration: time.Since(start)})
		return nil
	}

	if result == nil {
		result = &StepResult{Status: StepFailed}
	}
	if result.Status == StepOK {
		// an error with an OK status is still a failure, and not a recoverable one
		result = &StepResult{Status: StepFailed}
	}
	if err == nil {
		err = errors.Errorf("step %s failed without an error", step.Name())
	}

	switch p.Agent.OnStepFailure(ctx, step, st, result, err) {
	case DecisionContinue:
		st.Warn("step %s: %v", step.Name(), err)
		p.record(st, StepRecord{StepName: step.Name(), Status: StepWarning, Error: err.Error(), Time: start, Duration: time.Since(start)})
		return nil
	default:
		p.record(st, StepRecord{StepName: step.Name(), Status: StepFailed, Error: err.Error(), Time: start, Duration: time.Since(start)})
		return errors.WithMessagef(err, "step %s", step.Name())
	}
}

func (p *Pipeline) record(st *PipelineState, rec StepRecord) {
	st.History = append(st.History, rec)
	log.Debug("step %s: %s in %s", rec.StepName, rec.Status, rec.Duration)
	p.notify(rec)
}

func (p *Pipeline) notify(rec StepRecord) {
	if p.OnProgress != nil {
		p.OnProgress(rec)
	}
}
