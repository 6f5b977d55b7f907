// Package config assembles the application's env-var configuration (spec
// §6): the store connection, the LLM adapter's provider credentials and
// model selection, the engine loop's iteration cap, and logging/tracing
// toggles. Apart from an optional .env file, it reads no config file — the
// external interface is env-var driven, the way tarsy's pkg/database/config.go loads its own
// slice of the same environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/reactor-labs/reactor/pkg/llmclient"
	"github.com/reactor-labs/reactor/pkg/store"
)

// Config is the fully resolved application configuration.
type Config struct {
	Store store.Config
	LLM   llmclient.Config

	// LLMProject and LLMLocation are carried through for Vertex-hosted
	// model deployments; the default adapter factory does not use them
	// directly today, but they are read from the environment so a future
	// Vertex-backed adapter has somewhere to land them (spec §6).
	LLMProject  string
	LLMLocation string

	MaxIterations int
	EnableTracing bool
	LogLevel      string
	LogFormat     string
}

// defaultMaxIterations mirrors the engine package's own default so a
// misconfigured MAX_ITERATIONS env var degrades to the same cap the
// engine would pick on its own.
const defaultMaxIterations = 100

// Load resolves Config from the process environment, optionally after
// loading a .env file at envPath (tarsy's cmd/tarsy/main.go does the same
// with godotenv, tolerating a missing file rather than failing startup).
func Load(envPath string) (Config, error) {
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}

	storeCfg, err := store.LoadConfigFromEnv()
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	modelName := getEnvOrDefault("MODEL_NAME", "gpt-4o-mini")
	maxIterations, err := strconv.Atoi(getEnvOrDefault("MAX_ITERATIONS", strconv.Itoa(defaultMaxIterations)))
	if err != nil {
		return Config{}, &ValidationError{Field: "MAX_ITERATIONS", Err: err}
	}
	if maxIterations < 1 {
		return Config{}, &ValidationError{Field: "MAX_ITERATIONS", Err: fmt.Errorf("must be at least 1, got %d", maxIterations)}
	}

	enableTracing, err := strconv.ParseBool(getEnvOrDefault("ENABLE_TRACING", "false"))
	if err != nil {
		return Config{}, &ValidationError{Field: "ENABLE_TRACING", Err: err}
	}

	cfg := Config{
		Store: storeCfg,
		LLM: llmclient.Config{
			ModelName:    modelName,
			OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
			AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		},
		LLMProject:    os.Getenv("LLM_PROJECT"),
		LLMLocation:   os.Getenv("LLM_LOCATION"),
		MaxIterations: maxIterations,
		EnableTracing: enableTracing,
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:     getEnvOrDefault("LOG_FORMAT", "text"),
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
