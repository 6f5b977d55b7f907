package llmclient

import "fmt"

// APIError wraps network, authentication, and rate-limit failures from the
// provider's transport (spec §4.5, §7). It is retriable by the engine up to
// a configured budget.
type APIError struct {
	Provider string
	Err      error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llmclient: %s API error: %v", e.Provider, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// ResponseError wraps malformed provider output — a response the adapter
// cannot normalize into Response. Also retriable by the engine.
type ResponseError struct {
	Provider string
	Err      error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("llmclient: %s malformed response: %v", e.Provider, e.Err)
}

func (e *ResponseError) Unwrap() error { return e.Err }

// GenericError wraps anything that doesn't fit the two classes above — it
// surfaces to the engine as an opaque, still-retriable LLMError (spec §4.5).
type GenericError struct {
	Err error
}

func (e *GenericError) Error() string {
	return fmt.Sprintf("llmclient: error: %v", e.Err)
}

func (e *GenericError) Unwrap() error { return e.Err }
