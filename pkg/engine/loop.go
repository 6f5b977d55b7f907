package engine

import (
	"context"
	"fmt"

	"github.com/reactor-labs/reactor/pkg/eventlog"
	"github.com/reactor-labs/reactor/pkg/projection"
)

const defaultMaxIterations = 100

// ProcessThread implements spec §4.6.2's process_thread: repeatedly read,
// project the next step, and execute it, until the stream reaches a
// terminal state or max_iterations is exhausted. It never inspects events
// itself beyond handing them to pkg/projection (spec §4.6.5).
func (e *Engine) ProcessThread(ctx context.Context, threadID string, maxIterations int) (projection.SessionState, error) {
	if maxIterations <= 0 {
		maxIterations = defaultMaxIterations
	}

	stream, err := e.streamName(threadID)
	if err != nil {
		return projection.SessionState{}, err
	}

	for i := 0; i < maxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return projection.SessionState{}, err
		}

		events, err := e.store.Read(ctx, stream, 0)
		if err != nil {
			return projection.SessionState{}, fmt.Errorf("engine: read stream: %w", err)
		}

		step := projection.NextStep(events)
		e.log.Debug("processing step", "thread_id", threadID, "iteration", i, "step", step)
		e.recordStep(string(step))

		switch step {
		case projection.StepTermination:
			return projection.SessionStateOf(stream, events), nil

		case projection.StepLLMCall:
			if err := e.executeLLMStep(ctx, stream, events, currentVersion(events)); err != nil {
				return projection.SessionState{}, fmt.Errorf("engine: llm step: %w", err)
			}

		case projection.StepToolExecution:
			if err := e.executeToolStep(ctx, stream, events, currentVersion(events)); err != nil {
				return projection.SessionState{}, fmt.Errorf("engine: tool step: %w", err)
			}
		}
	}

	// max_iterations exhausted without a terminal event (spec §4.6.2).
	events, err := e.store.Read(ctx, stream, 0)
	if err != nil {
		return projection.SessionState{}, fmt.Errorf("engine: read stream after timeout: %w", err)
	}
	if len(events) == 0 || !eventlog.IsTerminal(events[len(events)-1].Kind) {
		if err := e.appendTimeout(ctx, stream, currentVersion(events)); err != nil {
			return projection.SessionState{}, err
		}
	}

	return projection.SessionState{}, &MaxIterationsExceeded{ThreadID: threadID, MaxIterations: maxIterations}
}
