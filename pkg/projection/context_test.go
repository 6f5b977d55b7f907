package projection

import (
	"testing"

	"github.com/reactor-labs/reactor/pkg/eventlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMContextOrdersMessagesByPosition(t *testing.T) {
	userMsg, err := eventlog.NewUserMessageAddedPayload("what time is it?", "2026-07-31T00:00:00Z")
	require.NoError(t, err)

	resp, err := eventlog.NewLLMResponseReceivedPayload("", []eventlog.ToolCall{{ID: "call-1", Name: "get_current_time"}}, "gpt-4o", eventlog.TokenUsage{})
	require.NoError(t, err)

	completed := eventlog.ToolExecutionCompletedPayload{ToolName: "get_current_time", Result: "2026-07-31T00:00:00Z"}

	events := []eventlog.Envelope{
		{Kind: eventlog.KindUserMessageAdded, Data: mustData(t, userMsg)},
		{Kind: eventlog.KindLLMResponseReceived, Data: mustData(t, resp)},
		{Kind: eventlog.KindToolExecutionCompleted, Data: mustData(t, completed), Metadata: map[string]any{"tool_call_id": "call-1"}},
	}

	messages := LLMContext(events)
	require.Len(t, messages, 3)
	assert.Equal(t, RoleUser, messages[0].Role)
	assert.Equal(t, "what time is it?", messages[0].Content)

	assert.Equal(t, RoleAssistant, messages[1].Role)
	require.Len(t, messages[1].ToolCalls, 1)
	assert.Equal(t, "call-1", messages[1].ToolCalls[0].ID)

	assert.Equal(t, RoleTool, messages[2].Role)
	assert.Equal(t, "call-1", messages[2].ToolCallID)
	assert.Equal(t, "2026-07-31T00:00:00Z", messages[2].Content)
}

func TestLLMContextToolFailureBecomesErrorText(t *testing.T) {
	failed := eventlog.ToolExecutionFailedPayload{ToolName: "calculate", ErrorMessage: "division by zero"}
	events := []eventlog.Envelope{
		{Kind: eventlog.KindToolExecutionFailed, Data: mustData(t, failed), Metadata: map[string]any{"tool_call_id": "call-9"}},
	}

	messages := LLMContext(events)
	require.Len(t, messages, 1)
	assert.Equal(t, RoleTool, messages[0].Role)
	assert.Contains(t, messages[0].Content, "division by zero")
	assert.Equal(t, "call-9", messages[0].ToolCallID)
}

func TestLLMContextIgnoresUnrelatedKinds(t *testing.T) {
	events := []eventlog.Envelope{
		{Kind: eventlog.KindSessionStarted},
		{Kind: eventlog.KindToolExecutionRequested},
	}
	assert.Empty(t, LLMContext(events))
}

func TestLLMContextPurity(t *testing.T) {
	userMsg, err := eventlog.NewUserMessageAddedPayload("hello", "2026-07-31T00:00:00Z")
	require.NoError(t, err)
	events := []eventlog.Envelope{{Kind: eventlog.KindUserMessageAdded, Data: mustData(t, userMsg)}}

	a := LLMContext(events)
	b := LLMContext(events)
	assert.Equal(t, a, b)
}
