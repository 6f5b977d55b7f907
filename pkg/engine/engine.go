// Package engine is the stateless processing engine (spec §4.6): the step
// loop, the LLM and tool step executors, session lifecycle operations, and
// the retry policy around transient LLM failures. It never inspects events
// directly — every decision is delegated to pkg/projection (spec §4.6.5).
package engine

import (
	"context"
	"log/slog"

	"github.com/reactor-labs/reactor/pkg/eventlog"
	"github.com/reactor-labs/reactor/pkg/llmclient"
	"github.com/reactor-labs/reactor/pkg/store"
	"github.com/reactor-labs/reactor/pkg/tools"
)

// EventStore is the subset of pkg/store's Store the engine depends on. It
// is declared here, at the consumer, so tests can substitute an in-memory
// fake without standing up Postgres.
type EventStore interface {
	Append(ctx context.Context, stream string, expectedVersion int64, events []store.NewEvent) (int64, error)
	Read(ctx context.Context, stream string, fromPosition int64) ([]eventlog.Envelope, error)
	ListStreams(ctx context.Context, categoryPrefix string, limit int) ([]string, error)
}

// Config bundles the tunables the spec calls out: the stream category/
// version namespace (spec §4.6.1) and the LLM step's retry budget and
// system prompt (spec §4.6.3).
type Config struct {
	Category     string
	Version      string
	SystemPrompt string
	RetryConfig  retryConfig

	// OnStep and OnToolExecution are optional observability hooks: OnStep
	// is called with each step the loop decides on, before that step runs;
	// OnToolExecution after each tool execution completes. nil is a valid
	// no-op.
	// Kept as plain callbacks rather than an internal/telemetry import so
	// the engine stays decoupled from how the caller reports metrics.
	OnStep          func(step string)
	OnToolExecution func(tool, outcome string)
	OnLLMCall       func(outcome string)
}

// DefaultConfig returns the spec's stated defaults: category "agent",
// version "v0", max_retries=2 (3 total attempts).
func DefaultConfig() Config {
	return Config{
		Category:    eventlog.DefaultCategory,
		Version:     eventlog.DefaultVersion,
		RetryConfig: defaultRetryConfig(),
	}
}

// Engine wires together the store, the tool registry, and the LLM adapter
// behind the processing-engine contract (spec §4.6). It holds no
// per-session state; all state lives in the event stream (spec §4.6.5).
type Engine struct {
	store    EventStore
	registry *tools.Registry
	adapter  llmclient.Adapter
	cfg      Config
	log      *slog.Logger
}

// New builds an Engine. log may be nil, in which case slog.Default() is
// used — matching the teacher's logging convention of a nil-safe logger
// field.
func New(store EventStore, registry *tools.Registry, adapter llmclient.Adapter, cfg Config, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Category == "" {
		cfg.Category = eventlog.DefaultCategory
	}
	if cfg.Version == "" {
		cfg.Version = eventlog.DefaultVersion
	}
	if cfg.RetryConfig.MaxAttempts == 0 {
		cfg.RetryConfig = defaultRetryConfig()
	}
	return &Engine{store: store, registry: registry, adapter: adapter, cfg: cfg, log: log}
}

func (e *Engine) streamName(threadID string) (string, error) {
	return eventlog.StreamName(e.cfg.Category, e.cfg.Version, threadID)
}

func (e *Engine) recordStep(step string) {
	if e.cfg.OnStep != nil {
		e.cfg.OnStep(step)
	}
}

func (e *Engine) recordToolExecution(tool, outcome string) {
	if e.cfg.OnToolExecution != nil {
		e.cfg.OnToolExecution(tool, outcome)
	}
}

func (e *Engine) recordLLMCall(outcome string) {
	if e.cfg.OnLLMCall != nil {
		e.cfg.OnLLMCall(outcome)
	}
}
