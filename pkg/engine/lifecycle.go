package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/reactor-labs/reactor/pkg/eventlog"
	"github.com/reactor-labs/reactor/pkg/projection"
	"github.com/reactor-labs/reactor/pkg/store"
)

// nowFunc is overridden in tests; production always uses time.Now.
var nowFunc = time.Now

// StartSession implements spec §4.6.1's start_session: generate a thread
// id, open its stream with SessionStarted, then record the caller's
// opening message.
func (e *Engine) StartSession(ctx context.Context, initialMessage string) (string, error) {
	threadID := eventlog.NewThreadID()
	stream, err := e.streamName(threadID)
	if err != nil {
		return "", err
	}

	started := eventlog.SessionStartedPayload{ThreadID: threadID}
	startedData, err := eventlog.ToData(started)
	if err != nil {
		return "", fmt.Errorf("engine: encode SessionStarted: %w", err)
	}

	version, err := e.store.Append(ctx, stream, store.UnsetExpectedVersion, []store.NewEvent{
		{Kind: eventlog.KindSessionStarted, Data: startedData},
	})
	if err != nil {
		return "", fmt.Errorf("engine: append SessionStarted: %w", err)
	}

	msg, err := eventlog.NewUserMessageAddedPayload(initialMessage, nowFunc().UTC().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	msgData, err := eventlog.ToData(msg)
	if err != nil {
		return "", fmt.Errorf("engine: encode UserMessageAdded: %w", err)
	}

	if _, err := e.store.Append(ctx, stream, version, []store.NewEvent{
		{Kind: eventlog.KindUserMessageAdded, Data: msgData},
	}); err != nil {
		return "", fmt.Errorf("engine: append initial UserMessageAdded: %w", err)
	}

	return threadID, nil
}

// AddUserMessage implements spec §4.6.1's add_user_message: append a new
// UserMessageAdded to an already-started stream, reading the current head
// to satisfy the store's expected_version requirement.
func (e *Engine) AddUserMessage(ctx context.Context, threadID, message string) error {
	stream, err := e.streamName(threadID)
	if err != nil {
		return err
	}

	events, err := e.store.Read(ctx, stream, 0)
	if err != nil {
		return fmt.Errorf("engine: read stream for AddUserMessage: %w", err)
	}
	version := currentVersion(events)

	msg, err := eventlog.NewUserMessageAddedPayload(message, nowFunc().UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}
	data, err := eventlog.ToData(msg)
	if err != nil {
		return fmt.Errorf("engine: encode UserMessageAdded: %w", err)
	}

	if _, err := e.store.Append(ctx, stream, version, []store.NewEvent{
		{Kind: eventlog.KindUserMessageAdded, Data: data},
	}); err != nil {
		return fmt.Errorf("engine: append UserMessageAdded: %w", err)
	}
	return nil
}

// TerminateSession implements spec §4.6.1's terminate_session: append
// SessionCompleted{reason}, idempotent when the stream is already
// terminal.
func (e *Engine) TerminateSession(ctx context.Context, threadID, reason string) error {
	stream, err := e.streamName(threadID)
	if err != nil {
		return err
	}

	events, err := e.store.Read(ctx, stream, 0)
	if err != nil {
		return fmt.Errorf("engine: read stream for TerminateSession: %w", err)
	}
	if len(events) > 0 && eventlog.IsTerminal(events[len(events)-1].Kind) {
		return nil
	}

	payload, err := eventlog.NewSessionCompletedPayload(reason)
	if err != nil {
		return err
	}
	data, err := eventlog.ToData(payload)
	if err != nil {
		return fmt.Errorf("engine: encode SessionCompleted: %w", err)
	}

	if _, err := e.store.Append(ctx, stream, currentVersion(events), []store.NewEvent{
		{Kind: eventlog.KindSessionCompleted, Data: data},
	}); err != nil {
		return fmt.Errorf("engine: append SessionCompleted: %w", err)
	}
	return nil
}

// Show returns the current projected SessionState for threadID — a
// supplemented read-side operation (SPEC_FULL §9) built directly on
// pkg/projection, not a new projection of its own.
func (e *Engine) Show(ctx context.Context, threadID string) (projection.SessionState, error) {
	stream, err := e.streamName(threadID)
	if err != nil {
		return projection.SessionState{}, err
	}
	events, err := e.store.Read(ctx, stream, 0)
	if err != nil {
		return projection.SessionState{}, fmt.Errorf("engine: read stream for Show: %w", err)
	}
	return projection.SessionStateOf(stream, events), nil
}

// appendTimeout appends SessionCompleted{completion_reason:"timeout"} when
// ProcessThread exhausts max_iterations without reaching a terminal event
// (spec §4.6.2).
func (e *Engine) appendTimeout(ctx context.Context, stream string, version int64) error {
	payload, err := eventlog.NewSessionCompletedPayload(eventlog.CompletionTimeout)
	if err != nil {
		return err
	}
	data, err := eventlog.ToData(payload)
	if err != nil {
		return fmt.Errorf("engine: encode timeout SessionCompleted: %w", err)
	}
	if _, err := e.store.Append(ctx, stream, version, []store.NewEvent{
		{Kind: eventlog.KindSessionCompleted, Data: data},
	}); err != nil {
		return fmt.Errorf("engine: append timeout SessionCompleted: %w", err)
	}
	return nil
}

// currentVersion returns the position of the last event, or
// store.UnsetExpectedVersion for an empty stream.
func currentVersion(events []eventlog.Envelope) int64 {
	if len(events) == 0 {
		return store.UnsetExpectedVersion
	}
	return events[len(events)-1].Position
}
