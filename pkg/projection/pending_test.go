package projection

import (
	"testing"

	"github.com/reactor-labs/reactor/pkg/eventlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingToolCallsNoResponseYet(t *testing.T) {
	assert.Empty(t, PendingToolCalls(nil))

	userMsg, err := eventlog.NewUserMessageAddedPayload("hi", "2026-07-31T00:00:00Z")
	require.NoError(t, err)
	events := []eventlog.Envelope{{Kind: eventlog.KindUserMessageAdded, Data: mustData(t, userMsg)}}
	assert.Empty(t, PendingToolCalls(events))
}

func TestPendingToolCallsAllResolved(t *testing.T) {
	resp, err := eventlog.NewLLMResponseReceivedPayload("", []eventlog.ToolCall{{ID: "call-1", Name: "echo"}}, "gpt-4o", eventlog.TokenUsage{})
	require.NoError(t, err)

	events := []eventlog.Envelope{
		{Kind: eventlog.KindLLMResponseReceived, Data: mustData(t, resp)},
		{
			Kind:     eventlog.KindToolExecutionFailed,
			Data:     mustData(t, eventlog.ToolExecutionFailedPayload{ToolName: "echo", ErrorMessage: "boom"}),
			Metadata: map[string]any{"tool_call_id": "call-1"},
		},
	}

	assert.Empty(t, PendingToolCalls(events))
}

func TestPendingToolCallsOnlyLooksAfterMostRecentResponse(t *testing.T) {
	firstResp, err := eventlog.NewLLMResponseReceivedPayload("", []eventlog.ToolCall{{ID: "call-1", Name: "echo"}}, "gpt-4o", eventlog.TokenUsage{})
	require.NoError(t, err)
	secondResp, err := eventlog.NewLLMResponseReceivedPayload("", []eventlog.ToolCall{{ID: "call-2", Name: "echo"}}, "gpt-4o", eventlog.TokenUsage{})
	require.NoError(t, err)

	events := []eventlog.Envelope{
		{Kind: eventlog.KindLLMResponseReceived, Data: mustData(t, firstResp)},
		{
			Kind:     eventlog.KindToolExecutionCompleted,
			Data:     mustData(t, eventlog.ToolExecutionCompletedPayload{ToolName: "echo", Result: "x"}),
			Metadata: map[string]any{"tool_call_id": "call-1"},
		},
		{Kind: eventlog.KindLLMResponseReceived, Data: mustData(t, secondResp)},
	}

	pending := PendingToolCalls(events)
	require.Len(t, pending, 1)
	assert.Equal(t, "call-2", pending[0].ID)
}
