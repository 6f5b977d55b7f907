package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reactor-labs/reactor/internal/config"
	"github.com/reactor-labs/reactor/internal/telemetry"
	"github.com/reactor-labs/reactor/pkg/engine"
	"github.com/reactor-labs/reactor/pkg/llmclient"
	"github.com/reactor-labs/reactor/pkg/store"
	"github.com/reactor-labs/reactor/pkg/tools"
)

// app bundles everything a subcommand needs, assembled once per invocation.
type app struct {
	cfg     config.Config
	log     *slog.Logger
	metrics *telemetry.Metrics
	store   *store.Store
	engine  *engine.Engine
}

// newApp wires the full dependency graph per SPEC_FULL.md's bootstrap
// order: config, then logging, then the store (running migrations),
// then the tool registry and LLM adapter, then the engine — the same
// config-then-store-then-services order tarsy's cmd/tarsy/main.go uses.
func newApp(ctx context.Context, envPath string) (*app, func(), error) {
	cfg, err := config.Load(envPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := telemetry.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, fmt.Errorf("configure logging: %w", err)
	}

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	cleanup := func() { st.Close() }

	registry := tools.NewRegistry()
	registry.MustRegister(tools.GetCurrentTime())
	registry.MustRegister(tools.Echo())
	registry.MustRegister(tools.Calculate())

	adapter, err := llmclient.NewAdapter(cfg.LLM)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("build LLM adapter: %w", err)
	}

	var metrics *telemetry.Metrics
	engineCfg := engine.DefaultConfig()
	if cfg.EnableTracing {
		metrics = telemetry.NewMetrics()
		engineCfg.OnStep = func(step string) { metrics.StepCounter.WithLabelValues(step).Inc() }
		engineCfg.OnToolExecution = func(tool, outcome string) {
			metrics.ToolExecutionCounter.WithLabelValues(tool, outcome).Inc()
		}
		engineCfg.OnLLMCall = func(outcome string) { metrics.LLMCallCounter.WithLabelValues(outcome).Inc() }
	}

	eng := engine.New(st, registry, adapter, engineCfg, log)

	return &app{cfg: cfg, log: log, metrics: metrics, store: st, engine: eng}, cleanup, nil
}
