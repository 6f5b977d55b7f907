package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks the engine's step loop and tool executions (SPEC_FULL.md's
// observability addition over the distilled spec). Labels mirror nexus's
// own convention of a status/outcome label alongside the subject label.
type Metrics struct {
	// StepCounter counts engine steps by kind (LLM_CALL|TOOL_EXECUTION|TERMINATION).
	StepCounter *prometheus.CounterVec

	// ToolExecutionCounter counts tool invocations by tool name and outcome
	// (completed|failed).
	ToolExecutionCounter *prometheus.CounterVec

	// LLMCallCounter counts LLM adapter calls by outcome (success|retried|failed).
	LLMCallCounter *prometheus.CounterVec
}

// NewMetrics registers the engine's Prometheus collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		StepCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reactor_engine_steps_total",
				Help: "Total number of engine steps processed, by step kind",
			},
			[]string{"step"},
		),
		ToolExecutionCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reactor_tool_executions_total",
				Help: "Total number of tool executions, by tool name and outcome",
			},
			[]string{"tool", "outcome"},
		),
		LLMCallCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reactor_llm_calls_total",
				Help: "Total number of LLM adapter calls, by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// Handler exposes the registered collectors for a /metrics endpoint. The
// caller decides whether to mount it — the engine's core loop never starts
// an HTTP server itself (spec §6: the CLI is thin, not part of core).
func Handler() http.Handler {
	return promhttp.Handler()
}
