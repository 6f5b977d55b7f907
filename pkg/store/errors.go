package store

import "fmt"

// ConcurrencyConflict is returned when an append's expected_version does
// not match the stream's current head (spec §4.1, invariant 7 in §8). The
// caller is expected to re-read the stream and retry its decision.
type ConcurrencyConflict struct {
	Stream          string
	ExpectedVersion int64
}

func (e *ConcurrencyConflict) Error() string {
	return fmt.Sprintf("store: concurrency conflict on stream %q at expected_version %d", e.Stream, e.ExpectedVersion)
}

// StoreError wraps any other database failure (connection loss, constraint
// violation unrelated to OCC, context cancellation) the store primitive
// surfaces (spec §4.1).
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
