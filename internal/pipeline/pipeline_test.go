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
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStepOK struct {
	name string
	ran  *[]string
}

func (m *mockStepOK) Name() string {
	if m.name != "" {
		return m.name
	}
	return "mock-ok"
}

func (m *mockStepOK) Run(ctx context.Context, st *PipelineState) (*StepResult, error) {
	if m.ran != nil {
		*m.ran = append(*m.ran, m.Name())
	}
	return OK()
}

type mockStepFail struct {
	name        string
	kind        ErrorKind
	recoverable bool
}

func (m *mockStepFail) Name() string { return m.name }

func (m *mockStepFail) Run(ctx context.Context, st *PipelineState) (*StepResult, error) {
	if m.recoverable {
		return Tolerated(m.kind, errors.New("cannot remove temp dir"))
	}
	return Fatal(m.kind, errors.New("boom"))
}

type mockStepBroken struct {
	result *StepResult
	err    error
}

func (m *mockStepBroken) Name() string { return "broken" }

func (m *mockStepBroken) Run(ctx context.Context, st *PipelineState) (*StepResult, error) {
	return m.result, m.err
}

func TestPipeline_Run_Success(t *testing.T) {
	var ran []string
	var progress []StepRecord
	st := NewPipelineState(Request{SourcePath: "idl.json"})
	pl := &Pipeline{
		Steps: []Step{
			&mockStepOK{name: "validate", ran: &ran},
			&mockStepOK{name: "generate", ran: &ran},
		},
		OnProgress: func(rec StepRecord) { progress = append(progress, rec) },
	}

	require.NoError(t, pl.Run(context.Background(), st))

	assert.Equal(t, []string{"validate", "generate"}, ran)
	require.Len(t, st.History, 2)
	assert.Equal(t, StepOK, st.History[0].Status)
	assert.NotEmpty(t, st.RunID)

	require.Len(t, progress, 4)
	assert.Equal(t, StepRunning, progress[0].Status)
	assert.Equal(t, "validate", progress[1].StepName)
	assert.Equal(t, StepOK, progress[1].Status)
}

func TestPipeline_Run_AbortStopsRemainingSteps(t *testing.T) {
	var ran []string
	st := NewPipelineState(Request{})
	pl := &Pipeline{
		Steps: []Step{
			&mockStepOK{name: "validate", ran: &ran},
			&mockStepFail{name: "generate", kind: GenerationFailed},
			&mockStepOK{name: "transpile", ran: &ran},
		},
	}

	err := pl.Run(context.Background(), st)

	require.Error(t, err)
	assert.True(t, IsKind(err, GenerationFailed))
	assert.True(t, strings.HasPrefix(err.Error(), "step generate: GenerationFailed"), err.Error())
	assert.Equal(t, []string{"validate"}, ran)
	require.Len(t, st.History, 2)
	assert.Equal(t, StepFailed, st.History[1].Status)
}

func TestPipeline_Run_ToleratedFailureContinues(t *testing.T) {
	var ran []string
	st := NewPipelineState(Request{})
	pl := &Pipeline{
		Steps: []Step{
			&mockStepFail{name: "cleanup", kind: CleanupWarning, recoverable: true},
			&mockStepOK{name: "after", ran: &ran},
		},
	}

	require.NoError(t, pl.Run(context.Background(), st))
	assert.Equal(t, []string{"after"}, ran)
	assert.Equal(t, StepWarning, st.History[0].Status)
	require.Len(t, st.Warnings, 1)
	assert.Contains(t, st.Warnings[0], "CleanupWarning")
}

func TestPipeline_Run_StrictAgentAbortsOnTolerated(t *testing.T) {
	st := NewPipelineState(Request{})
	pl := &Pipeline{
		Steps: []Step{&mockStepFail{name: "cleanup", kind: CleanupWarning, recoverable: true}},
		Agent: &StrictAgent{},
	}
	err := pl.Run(context.Background(), st)
	assert.True(t, IsKind(err, CleanupWarning))
}

func TestPipeline_Run_MalformedResults(t *testing.T) {
	t.Run("error with ok status is fatal", func(t *testing.T) {
		pl := &Pipeline{Steps: []Step{&mockStepBroken{
			result: &StepResult{Status: StepOK, Recoverable: true},
			err:    errors.New("oops"),
		}}}
		assert.Error(t, pl.Run(context.Background(), NewPipelineState(Request{})))
	})
	t.Run("failed status without error", func(t *testing.T) {
		pl := &Pipeline{Steps: []Step{&mockStepBroken{result: &StepResult{Status: StepFailed}}}}
		err := pl.Run(context.Background(), NewPipelineState(Request{}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "without an error")
	})
	t.Run("nil step", func(t *testing.T) {
		pl := &Pipeline{Steps: []Step{nil}}
		assert.Error(t, pl.Run(context.Background(), NewPipelineState(Request{})))
	})
	t.Run("nil state", func(t *testing.T) {
		assert.Error(t, (&Pipeline{}).Run(context.Background(), nil))
	})
}

func TestDefaultAgent_OnStepFailure(t *testing.T) {
	ctx := context.Background()
	agent := &DefaultAgent{}

	assert.Equal(t, DecisionAbort, agent.OnStepFailure(ctx, nil, nil, &StepResult{Recoverable: false}, nil))
	assert.Equal(t, DecisionContinue, agent.OnStepFailure(ctx, nil, nil, &StepResult{Recoverable: true}, nil))
	assert.Equal(t, DecisionAbort, agent.OnStepFailure(ctx, nil, nil, nil, nil))
}

func TestError_Message(t *testing.T) {
	err := &Error{Kind: GenerationFailed, ExitCode: 1, Output: "bad idl\n", Err: errors.New("anchor-client-gen exited with code 1")}
	assert.Equal(t, "GenerationFailed: anchor-client-gen exited with code 1 (exit code 1)\nbad idl", err.Error())

	wrapped := errors.Join(errors.New("ctx"), err)
	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, GenerationFailed, kind)
	assert.False(t, IsKind(errors.New("plain"), GenerationFailed))
}

func TestFatal_KeepsExistingClassification(t *testing.T) {
	inner := &Error{Kind: GenerationFailed, ExitCode: 2}
	_, err := Fatal(TranspileFailed, inner)
	assert.True(t, IsKind(err, GenerationFailed))
}

func TestSnapshot(t *testing.T) {
	a := NewSnapshot("idl.json", []byte(`{"address":"X"}`))
	b := NewSnapshot("idl.json", []byte(`{"address":"X"}`))
	c := NewSnapshot("idl.json", []byte(`{"address":"Y"}`))
	assert.Equal(t, a.Hash, b.Hash)
	assert.NotEqual(t, a.Hash, c.Hash)
	assert.Len(t, a.Hash, 64)
	assert.Equal(t, 15, a.Size)
}
