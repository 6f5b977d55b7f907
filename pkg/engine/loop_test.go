package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reactor-labs/reactor/pkg/eventlog"
	"github.com/reactor-labs/reactor/pkg/llmclient"
	"github.com/reactor-labs/reactor/pkg/projection"
	"github.com/reactor-labs/reactor/pkg/tools"
)

// scenario 1: single user turn, no tools (spec §8).
func TestProcessThreadSingleTurnNoTools(t *testing.T) {
	e, fs := newTestEngine(t, llmclient.Response{Text: "Hi!"})
	ctx := context.Background()

	threadID, err := e.StartSession(ctx, "Hello")
	require.NoError(t, err)

	state, err := e.ProcessThread(ctx, threadID, 10)
	require.NoError(t, err)
	assert.Equal(t, projection.StatusActive, state.Status, "no SessionCompleted was written — the stream's last event is an assistant turn")

	stream, _ := e.streamName(threadID)
	events, _ := fs.Read(ctx, stream, 0)
	kinds := eventKinds(events)
	assert.Equal(t, []string{
		eventlog.KindSessionStarted,
		eventlog.KindUserMessageAdded,
		eventlog.KindLLMResponseReceived,
	}, kinds)
	assert.Equal(t, projection.StepTermination, projection.NextStep(events))
}

// scenario 2: single tool call, round-tripped through get_current_time.
func TestProcessThreadSingleToolCall(t *testing.T) {
	registry := tools.NewRegistry()
	registry.MustRegister(tools.GetCurrentTime())

	adapter := &llmclient.StubAdapter{Responses: []llmclient.Response{
		{ToolCalls: []llmclient.ToolCall{{ID: "call_1", Name: "get_current_time", Arguments: map[string]any{}}}},
		{Text: "It is some time."},
	}}
	fs := newFakeStore()
	e := New(fs, registry, adapter, DefaultConfig(), nil)
	ctx := context.Background()

	threadID, err := e.StartSession(ctx, "what is the current time?")
	require.NoError(t, err)

	_, err = e.ProcessThread(ctx, threadID, 10)
	require.NoError(t, err)

	stream, _ := e.streamName(threadID)
	events, _ := fs.Read(ctx, stream, 0)
	assert.Equal(t, []string{
		eventlog.KindSessionStarted,
		eventlog.KindUserMessageAdded,
		eventlog.KindLLMResponseReceived,
		eventlog.KindToolExecutionRequested,
		eventlog.KindToolExecutionCompleted,
		eventlog.KindLLMResponseReceived,
	}, eventKinds(events))
}

// scenario 4: malicious arithmetic is rejected, and the engine continues.
func TestProcessThreadMaliciousCalculateRejectedButEngineContinues(t *testing.T) {
	registry := tools.NewRegistry()
	registry.MustRegister(tools.Calculate())

	adapter := &llmclient.StubAdapter{Responses: []llmclient.Response{
		{ToolCalls: []llmclient.ToolCall{{ID: "call_1", Name: "calculate", Arguments: map[string]any{"expression": "__import__('os').system('ls')"}}}},
		{Text: "could not compute that"},
	}}
	fs := newFakeStore()
	e := New(fs, registry, adapter, DefaultConfig(), nil)
	ctx := context.Background()

	threadID, err := e.StartSession(ctx, "compute something dangerous")
	require.NoError(t, err)

	_, err = e.ProcessThread(ctx, threadID, 10)
	require.NoError(t, err)

	stream, _ := e.streamName(threadID)
	events, _ := fs.Read(ctx, stream, 0)
	assert.Contains(t, eventKinds(events), eventlog.KindToolExecutionFailed)

	for _, ev := range events {
		if ev.Kind == eventlog.KindToolExecutionFailed {
			payload, err := eventlog.DecodeData[eventlog.ToolExecutionFailedPayload](ev.Data)
			require.NoError(t, err)
			assert.Equal(t, "calculate", payload.ToolName)
			assert.NotEmpty(t, payload.ErrorMessage)
		}
	}
}

// scenario 5: LLM fails repeatedly, exhausts retries, records one
// LLMCallFailed{retry_count:2}, then a subsequent pass with a working
// adapter produces a normal LLMResponseReceived. The failing pass is a
// single LLM step: a whole ProcessThread run against an adapter that never
// succeeds keeps stepping until max_iterations and then closes the stream
// with SessionCompleted{timeout}.
func TestProcessThreadLLMRetryThenFailureThenRecovery(t *testing.T) {
	fs := newFakeStore()
	failing := &alwaysFailAdapter{err: &llmclient.APIError{Provider: "test", Err: errors.New("boom")}}
	e := New(fs, nil, failing, DefaultConfig(), nil)
	ctx := context.Background()

	threadID, err := e.StartSession(ctx, "hello")
	require.NoError(t, err)

	stream, _ := e.streamName(threadID)
	events, _ := fs.Read(ctx, stream, 0)
	err = e.executeLLMStep(ctx, stream, events, currentVersion(events))
	require.NoError(t, err, "exhausted retries are recorded as an event, not returned")

	events, _ = fs.Read(ctx, stream, 0)
	last := events[len(events)-1]
	assert.Equal(t, eventlog.KindLLMCallFailed, last.Kind)

	payload, err := eventlog.DecodeData[eventlog.LLMCallFailedPayload](last.Data)
	require.NoError(t, err)
	assert.Equal(t, 2, payload.RetryCount)
	assert.Equal(t, projection.StepLLMCall, projection.NextStep(events))

	// Recovery: swap in a working adapter and reprocess.
	e2 := New(fs, nil, &llmclient.StubAdapter{Responses: []llmclient.Response{{Text: "Hi!"}}}, DefaultConfig(), nil)
	_, err = e2.ProcessThread(ctx, threadID, 10)
	require.NoError(t, err)

	events, _ = fs.Read(ctx, stream, 0)
	assert.Equal(t, eventlog.KindLLMResponseReceived, events[len(events)-1].Kind)
}

// scenario 6: iteration cap — engine runs maxIterations steps then appends
// SessionCompleted{timeout} and returns MaxIterationsExceeded.
func TestProcessThreadMaxIterationsExceeded(t *testing.T) {
	registry := tools.NewRegistry()
	registry.MustRegister(tools.Echo())

	alwaysCallsTool := &loopingToolAdapter{}
	fs := newFakeStore()
	e := New(fs, registry, alwaysCallsTool, DefaultConfig(), nil)
	ctx := context.Background()

	threadID, err := e.StartSession(ctx, "loop forever")
	require.NoError(t, err)

	_, err = e.ProcessThread(ctx, threadID, 3)
	require.Error(t, err)
	var maxExceeded *MaxIterationsExceeded
	require.ErrorAs(t, err, &maxExceeded)

	stream, _ := e.streamName(threadID)
	events, _ := fs.Read(ctx, stream, 0)
	last := events[len(events)-1]
	require.Equal(t, eventlog.KindSessionCompleted, last.Kind)

	payload, err := eventlog.DecodeData[eventlog.SessionCompletedPayload](last.Data)
	require.NoError(t, err)
	assert.Equal(t, eventlog.CompletionTimeout, payload.CompletionReason)
}

func TestProcessThreadInvokesObservabilityHooks(t *testing.T) {
	registry := tools.NewRegistry()
	registry.MustRegister(tools.Echo())

	adapter := &llmclient.StubAdapter{Responses: []llmclient.Response{
		{ToolCalls: []llmclient.ToolCall{{ID: "call_1", Name: "echo", Arguments: map[string]any{"message": "hi"}}}},
		{Text: "done"},
	}}
	fs := newFakeStore()
	cfg := DefaultConfig()

	var steps []string
	var toolOutcomes []string
	cfg.OnStep = func(step string) { steps = append(steps, step) }
	cfg.OnToolExecution = func(tool, outcome string) { toolOutcomes = append(toolOutcomes, tool+":"+outcome) }

	e := New(fs, registry, adapter, cfg, nil)
	ctx := context.Background()

	threadID, err := e.StartSession(ctx, "hello")
	require.NoError(t, err)

	_, err = e.ProcessThread(ctx, threadID, 10)
	require.NoError(t, err)

	assert.Contains(t, steps, string(projection.StepLLMCall))
	assert.Contains(t, steps, string(projection.StepToolExecution))
	assert.Contains(t, steps, string(projection.StepTermination))
	assert.Equal(t, []string{"echo:completed"}, toolOutcomes)
}

func eventKinds(events []eventlog.Envelope) []string {
	kinds := make([]string, len(events))
	for i, e := range events {
		kinds[i] = e.Kind
	}
	return kinds
}

// alwaysFailAdapter always returns err, letting retry tests assert on
// exhausted-retry behavior deterministically.
type alwaysFailAdapter struct{ err error }

func (a *alwaysFailAdapter) Call(_ context.Context, _ []projection.Message, _ []llmclient.ToolDeclaration, _ string) (llmclient.Response, error) {
	return llmclient.Response{}, a.err
}

// loopingToolAdapter always asks for the same echo tool call, so the step
// loop never reaches TERMINATION on its own and max_iterations must kick
// in.
type loopingToolAdapter struct{ calls int }

func (a *loopingToolAdapter) Call(_ context.Context, _ []projection.Message, _ []llmclient.ToolDeclaration, _ string) (llmclient.Response, error) {
	a.calls++
	return llmclient.Response{ToolCalls: []llmclient.ToolCall{
		{ID: fmt.Sprintf("call_%d", a.calls), Name: "echo", Arguments: map[string]any{"message": "again"}},
	}}, nil
}
