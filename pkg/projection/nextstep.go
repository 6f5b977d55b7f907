package projection

import "github.com/reactor-labs/reactor/pkg/eventlog"

// Step is the processing engine's next action, decided purely from the
// stream's event history (spec §4.3.3). The engine never inspects events
// directly — it only ever asks NextStep what to do (spec §4.6.5).
type Step string

const (
	StepLLMCall        Step = "LLM_CALL"
	StepToolExecution   Step = "TOOL_EXECUTION"
	StepTermination     Step = "TERMINATION"
)

// NextStep implements the "last event wins, subject to the pending-tool-call
// tie-break" state machine of spec §4.3.3.
func NextStep(events []eventlog.Envelope) Step {
	if len(events) == 0 {
		// Open Question (spec §9): forward progress, not rejection.
		return StepLLMCall
	}

	if pending := PendingToolCalls(events); len(pending) > 0 {
		return StepToolExecution
	}

	last := events[len(events)-1]
	switch last.Kind {
	case eventlog.KindUserMessageAdded:
		return StepLLMCall

	case eventlog.KindLLMResponseReceived:
		// PendingToolCalls already returned empty above, so either there
		// were no tool calls at all, or they're all resolved — either way
		// the agent's turn is over.
		return StepTermination

	case eventlog.KindToolExecutionCompleted, eventlog.KindToolExecutionFailed:
		return StepLLMCall

	case eventlog.KindLLMCallFailed:
		return StepLLMCall

	case eventlog.KindSessionTerminationRequested, eventlog.KindSessionCompleted:
		return StepTermination

	default:
		return StepLLMCall
	}
}
