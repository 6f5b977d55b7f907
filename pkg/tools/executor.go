package tools

import (
	"fmt"
	"time"
)

// ErrToolNotFound describes a tool name the registry does not know (spec
// §4.4, point 1; spec §7). Execute does not return it; its message becomes
// the failed ExecutionResult's Error.
type ErrToolNotFound struct {
	Name string
}

func (e *ErrToolNotFound) Error() string {
	return fmt.Sprintf("tools: tool %q not found", e.Name)
}

// ExecutionResult is the outcome of one tool invocation, carrying enough to
// become either a ToolExecutionCompleted or ToolExecutionFailed event.
type ExecutionResult struct {
	ToolName        string
	Success         bool
	Result          any
	Error           string
	ExecutionTimeMS int64
}

// Execute runs tool_name against registry with the given arguments. It never
// returns a Go error for a tool-level failure — those are folded into
// ExecutionResult.Error so the engine can always append a well-formed event
// (spec §4.4: "the executor itself never throws for tool failures"). An
// unknown tool name is reported the same way, as a failed result carrying
// ErrToolNotFound's message.
func Execute(registry *Registry, toolName string, args map[string]any) ExecutionResult {
	def, ok := registry.Lookup(toolName)
	if !ok {
		return ExecutionResult{
			ToolName: toolName,
			Success:  false,
			Error:    (&ErrToolNotFound{Name: toolName}).Error(),
		}
	}

	start := time.Now()
	result, err := invokeSafely(def.Invoke, args)
	elapsed := time.Since(start)

	if err != nil {
		return ExecutionResult{
			ToolName:        toolName,
			Success:         false,
			Error:           err.Error(),
			ExecutionTimeMS: elapsed.Milliseconds(),
		}
	}

	return ExecutionResult{
		ToolName:        toolName,
		Success:         true,
		Result:          result,
		ExecutionTimeMS: elapsed.Milliseconds(),
	}
}

// invokeSafely calls fn and recovers any panic, converting it into an error
// of the same "<Class>: <message>" shape a caught exception would have
// (spec §4.4, point 4).
func invokeSafely(fn Invoke, args map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(args)
}
