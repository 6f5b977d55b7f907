package projection

import "github.com/reactor-labs/reactor/pkg/eventlog"

// PendingToolCalls finds the most recent LLMResponseReceived event and
// returns its tool_calls, filtering out any whose matching completion or
// failure event (matched by tool_call_id in Metadata) already appears after
// that response (spec §4.3.2). Returns nil when there is nothing pending.
func PendingToolCalls(events []eventlog.Envelope) []eventlog.ToolCall {
	lastIdx := -1
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Kind == eventlog.KindLLMResponseReceived {
			lastIdx = i
			break
		}
	}
	if lastIdx < 0 {
		return nil
	}

	resp, err := eventlog.DecodeData[eventlog.LLMResponseReceivedPayload](events[lastIdx].Data)
	if err != nil || len(resp.ToolCalls) == 0 {
		return nil
	}

	resolved := make(map[string]bool, len(resp.ToolCalls))
	for _, e := range events[lastIdx+1:] {
		switch e.Kind {
		case eventlog.KindToolExecutionCompleted, eventlog.KindToolExecutionFailed:
			if id := e.MetadataString("tool_call_id"); id != "" {
				resolved[id] = true
			}
		}
	}

	var pending []eventlog.ToolCall
	for _, tc := range resp.ToolCalls {
		if !resolved[tc.ID] {
			pending = append(pending, tc)
		}
	}
	return pending
}
