// Package telemetry wires up structured logging and Prometheus metrics for
// the reactor binary (spec §6's LOG_LEVEL/LOG_FORMAT/ENABLE_TRACING knobs).
package telemetry

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the process-wide slog.Logger from the LOG_LEVEL/
// LOG_FORMAT configuration. format "json" selects slog.NewJSONHandler (the
// production-parseable format nexus's cmd/nexus/main.go defaults to);
// anything else falls back to a human-readable text handler.
func NewLogger(level, format string) (*slog.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler), nil
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("telemetry: unknown LOG_LEVEL %q", level)
	}
}
