package projection

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/reactor-labs/reactor/pkg/eventlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStateOfAggregatesAndParsesThreadID(t *testing.T) {
	threadID := uuid.NewString()
	stream, err := eventlog.StreamName(eventlog.DefaultCategory, eventlog.DefaultVersion, threadID)
	require.NoError(t, err)

	start := time.Now().Add(-time.Minute)
	userMsg, err := eventlog.NewUserMessageAddedPayload("hi", start.Format(time.RFC3339))
	require.NoError(t, err)
	resp, err := eventlog.NewLLMResponseReceivedPayload("hello back", nil, "gpt-4o", eventlog.TokenUsage{Total: 10})
	require.NoError(t, err)
	completedPayload, err := eventlog.NewSessionCompletedPayload(eventlog.CompletionSuccess)
	require.NoError(t, err)

	events := []eventlog.Envelope{
		{Kind: eventlog.KindUserMessageAdded, Data: mustData(t, userMsg), Time: start},
		{Kind: eventlog.KindLLMResponseReceived, Data: mustData(t, resp), Time: start.Add(time.Second)},
		{Kind: eventlog.KindSessionCompleted, Data: mustData(t, completedPayload), Time: start.Add(2 * time.Second)},
	}

	state := SessionStateOf(stream, events)
	assert.Equal(t, threadID, state.ThreadID)
	assert.Equal(t, StatusCompleted, state.Status)
	assert.Equal(t, 1, state.UserMessageCount)
	assert.Equal(t, 1, state.LLMResponseCount)
	assert.Equal(t, 0, state.ToolCallCount)
	assert.Equal(t, 0, state.ErrorCount)
	require.NotNil(t, state.EndedAt)
}

func TestSessionStateOfFailureReason(t *testing.T) {
	payload, err := eventlog.NewSessionCompletedPayload(eventlog.CompletionTimeout)
	require.NoError(t, err)
	events := []eventlog.Envelope{{Kind: eventlog.KindSessionCompleted, Data: mustData(t, payload)}}

	state := SessionStateOf("agent:v0-"+uuid.NewString(), events)
	assert.Equal(t, StatusFailed, state.Status)
}

func TestSessionStateOfCountsErrors(t *testing.T) {
	llmFailed := eventlog.LLMCallFailedPayload{ErrorMessage: "rate limited", RetryCount: 2}
	toolFailed := eventlog.ToolExecutionFailedPayload{ToolName: "calculate", ErrorMessage: "bad expr"}

	events := []eventlog.Envelope{
		{Kind: eventlog.KindLLMCallFailed, Data: mustData(t, llmFailed)},
		{Kind: eventlog.KindToolExecutionFailed, Data: mustData(t, toolFailed)},
	}

	state := SessionStateOf("agent:v0-"+uuid.NewString(), events)
	assert.Equal(t, 2, state.ErrorCount)
	assert.Equal(t, StatusActive, state.Status)
}
