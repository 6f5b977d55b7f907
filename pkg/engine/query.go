package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/reactor-labs/reactor/pkg/eventlog"
	"github.com/reactor-labs/reactor/pkg/projection"
)

// Transcript renders a stream's LLM-context messages as a human-readable
// conversation, for the CLI's `show` subcommand (spec §6, SPEC_FULL §9).
type Transcript struct {
	ThreadID string
	State    projection.SessionState
	Messages []projection.Message
}

// ShowTranscript replays threadID's stream into a transcript combining the session
// state projection and the LLM-context projection — a supplemented
// read-side convenience, not a new projection of its own.
func (e *Engine) ShowTranscript(ctx context.Context, threadID string) (Transcript, error) {
	stream, err := e.streamName(threadID)
	if err != nil {
		return Transcript{}, err
	}
	events, err := e.store.Read(ctx, stream, 0)
	if err != nil {
		return Transcript{}, fmt.Errorf("engine: read stream for transcript: %w", err)
	}
	return Transcript{
		ThreadID: threadID,
		State:    projection.SessionStateOf(stream, events),
		Messages: projection.LLMContext(events),
	}, nil
}

// List returns up to limit of the most recently active thread ids within
// this engine's stream category, for the CLI's `list` subcommand.
func (e *Engine) List(ctx context.Context, limit int) ([]string, error) {
	prefix := fmt.Sprintf("%s:%s-", e.cfg.Category, e.cfg.Version)
	streams, err := e.store.ListStreams(ctx, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("engine: list streams: %w", err)
	}

	threadIDs := make([]string, 0, len(streams))
	for _, s := range streams {
		_, _, threadID, perr := eventlog.ParseStreamName(s)
		if perr != nil {
			continue
		}
		threadIDs = append(threadIDs, threadID)
	}
	return threadIDs, nil
}

// FormatTranscript renders a Transcript as plain text, the CLI's
// `show --full` text format.
func FormatTranscript(t Transcript) string {
	var b strings.Builder
	fmt.Fprintf(&b, "thread: %s\nstatus: %s\n\n", t.ThreadID, t.State.Status)
	for _, m := range t.Messages {
		fmt.Fprintf(&b, "[%s] %s\n", m.Role, m.Content)
		for _, tc := range m.ToolCalls {
			fmt.Fprintf(&b, "  -> tool_call %s(%v)\n", tc.Name, tc.Arguments)
		}
	}
	return b.String()
}
