package projection

import (
	"time"

	"github.com/reactor-labs/reactor/pkg/eventlog"
)

// Status is the coarse lifecycle status of a session (spec §4.3.4).
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusTerminated Status = "terminated"
)

// SessionState is the single-pass aggregation spec §4.3.4 describes.
type SessionState struct {
	ThreadID          string
	Status            Status
	UserMessageCount  int
	LLMResponseCount  int
	ToolCallCount     int
	ErrorCount        int
	StartedAt         time.Time
	LastActivityAt    time.Time
	EndedAt           *time.Time
}

// SessionStateOf aggregates events into SessionState in a single O(n) pass.
// stream is parsed only for the thread id; all other state comes from the
// events themselves.
func SessionStateOf(stream string, events []eventlog.Envelope) SessionState {
	state := SessionState{Status: StatusActive}

	if _, _, threadID, err := eventlog.ParseStreamName(stream); err == nil {
		state.ThreadID = threadID
	}

	for i, e := range events {
		if i == 0 {
			state.StartedAt = e.Time
		}
		state.LastActivityAt = e.Time

		switch e.Kind {
		case eventlog.KindUserMessageAdded:
			state.UserMessageCount++

		case eventlog.KindLLMResponseReceived:
			state.LLMResponseCount++
			if resp, err := eventlog.DecodeData[eventlog.LLMResponseReceivedPayload](e.Data); err == nil {
				state.ToolCallCount += len(resp.ToolCalls)
			}

		case eventlog.KindLLMCallFailed, eventlog.KindToolExecutionFailed:
			state.ErrorCount++

		case eventlog.KindSessionTerminationRequested:
			state.Status = StatusTerminated
			endedAt := e.Time
			state.EndedAt = &endedAt

		case eventlog.KindSessionCompleted:
			endedAt := e.Time
			state.EndedAt = &endedAt
			if completed, err := eventlog.DecodeData[eventlog.SessionCompletedPayload](e.Data); err == nil {
				switch completed.CompletionReason {
				case eventlog.CompletionSuccess:
					state.Status = StatusCompleted
				case eventlog.CompletionUserTerminated:
					state.Status = StatusTerminated
				default:
					state.Status = StatusFailed
				}
			} else {
				state.Status = StatusFailed
			}
		}
	}

	return state
}
