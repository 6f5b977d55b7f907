package engine

import (
	"context"
	"fmt"

	"github.com/reactor-labs/reactor/pkg/eventlog"
	"github.com/reactor-labs/reactor/pkg/projection"
	"github.com/reactor-labs/reactor/pkg/store"
	"github.com/reactor-labs/reactor/pkg/tools"
)

// executeToolStep implements spec §4.6.4: every call still pending from
// the last LLM response is requested, invoked, and resolved in order. The
// step is deliberately not atomic across calls — PendingToolCalls (spec
// §4.3.2) is what lets the next loop iteration pick up where a crash left
// off.
func (e *Engine) executeToolStep(ctx context.Context, stream string, events []eventlog.Envelope, version int64) error {
	pending := projection.PendingToolCalls(events)

	for i, call := range pending {
		requestPayload := eventlog.ToolExecutionRequestedPayload{ToolName: call.Name, Arguments: call.Arguments}
		data, err := eventlog.ToData(requestPayload)
		if err != nil {
			return fmt.Errorf("engine: encode ToolExecutionRequested: %w", err)
		}

		version, err = e.store.Append(ctx, stream, version, []store.NewEvent{
			{
				Kind:     eventlog.KindToolExecutionRequested,
				Data:     data,
				Metadata: map[string]any{"tool_call_id": call.ID, "tool_index": i},
			},
		})
		if err != nil {
			return fmt.Errorf("engine: append ToolExecutionRequested: %w", err)
		}

		result := tools.Execute(e.registry, call.Name, call.Arguments)

		var resultKind string
		var resultData map[string]any
		if result.Success {
			resultKind = eventlog.KindToolExecutionCompleted
			resultData, err = eventlog.ToData(eventlog.ToolExecutionCompletedPayload{
				ToolName:        result.ToolName,
				Result:          result.Result,
				ExecutionTimeMS: result.ExecutionTimeMS,
			})
		} else {
			resultKind = eventlog.KindToolExecutionFailed
			resultData, err = eventlog.ToData(eventlog.ToolExecutionFailedPayload{
				ToolName:     result.ToolName,
				ErrorMessage: result.Error,
				RetryCount:   0,
			})
		}
		if err != nil {
			return fmt.Errorf("engine: encode tool result event: %w", err)
		}
		if result.Success {
			e.recordToolExecution(call.Name, "completed")
		} else {
			e.recordToolExecution(call.Name, "failed")
		}

		version, err = e.store.Append(ctx, stream, version, []store.NewEvent{
			{
				Kind:     resultKind,
				Data:     resultData,
				Metadata: map[string]any{"tool_call_id": call.ID, "tool_index": i},
			},
		})
		if err != nil {
			return fmt.Errorf("engine: append tool result: %w", err)
		}
	}

	return nil
}
