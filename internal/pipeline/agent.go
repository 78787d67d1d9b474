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
)

// Agent decides what happens after a step fails.
type Agent interface {
	OnStepFailure(
		ctx context.Context,
		step Step,
		st *PipelineState,
		result *StepResult,
		err error,
	) AgentDecision
}

// AgentDecision is the Agent's response to a failed step.
type AgentDecision string

const (
	DecisionContinue AgentDecision = "continue"
	DecisionAbort    AgentDecision = "abort"
)

// DefaultAgent tolerates recoverable failures and aborts on everything else.
// Nothing is retried.
type DefaultAgent struct{}

func (a *DefaultAgent) OnStepFailure(
	ctx context.Context,
	step Step,
	st *PipelineState,
	result *StepResult,
	err error,
) AgentDecision {
	if result != nil && result.Recoverable {
		return DecisionContinue
	}
	return DecisionAbort
}

// StrictAgent aborts on any failure, including tolerated ones.
type StrictAgent struct{}

func (a *StrictAgent) OnStepFailure(context.Context, Step, *PipelineState, *StepResult, error) AgentDecision {
	return DecisionAbort
}
