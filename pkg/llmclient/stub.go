package llmclient

import (
	"context"
	"fmt"

	"github.com/reactor-labs/reactor/pkg/projection"
)

// StubAdapter is a deterministic, no-network Adapter for engine tests and
// local runs without provider credentials. It returns a fixed queue of
// responses in call order and errors once the queue is exhausted.
type StubAdapter struct {
	Responses []Response
	calls     int
}

func (a *StubAdapter) Call(_ context.Context, _ []projection.Message, _ []ToolDeclaration, _ string) (Response, error) {
	if a.calls >= len(a.Responses) {
		return Response{}, &GenericError{Err: fmt.Errorf("stub adapter: call %d exceeds %d queued responses", a.calls+1, len(a.Responses))}
	}
	resp := a.Responses[a.calls]
	a.calls++
	return resp, nil
}
