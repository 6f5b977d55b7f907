package llmclient

import (
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/sashabaranov/go-openai"
)

// Config carries the provider credentials and model selection the factory
// needs to build an Adapter (spec §4.5, §6).
type Config struct {
	ModelName    string
	OpenAIAPIKey string
	AnthropicKey string
}

// NewAdapter selects between the chat-style and function-calling adapters by
// model name prefix: "claude-*" goes to Anthropic, everything else
// ("gpt-*", "o1", "o3", ...) goes to OpenAI. This mirrors how the reference
// deployments route by model family rather than by an explicit provider
// flag.
func NewAdapter(cfg Config) (Adapter, error) {
	switch {
	case strings.HasPrefix(cfg.ModelName, "claude-"):
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("llmclient: ANTHROPIC_API_KEY required for model %q", cfg.ModelName)
		}
		client := anthropic.NewClient(option.WithAPIKey(cfg.AnthropicKey))
		return NewFunctionCallingAdapter(client, cfg.ModelName), nil

	default:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("llmclient: OPENAI_API_KEY required for model %q", cfg.ModelName)
		}
		client := openai.NewClient(cfg.OpenAIAPIKey)
		return NewChatAdapter(client, cfg.ModelName), nil
	}
}
