package engine

import "fmt"

// MaxIterationsExceeded is raised by ProcessThread when the step loop
// reaches its iteration budget without the stream reaching a terminal
// event (spec §4.6.2). The caller observes both this error and a
// SessionCompleted{completion_reason:"timeout"} event the engine appended
// before returning.
type MaxIterationsExceeded struct {
	ThreadID      string
	MaxIterations int
}

func (e *MaxIterationsExceeded) Error() string {
	return fmt.Sprintf("engine: thread %s exceeded max_iterations (%d) without reaching a terminal state", e.ThreadID, e.MaxIterations)
}
