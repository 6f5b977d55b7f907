// Package llmclient defines the provider-neutral LLM adapter contract (spec
// §4.5) and two concrete adapters: a chat-style adapter over
// sashabaranov/go-openai and a function-calling adapter over
// anthropics/anthropic-sdk-go. Streaming-as-events is explicitly out of
// scope — an adapter call returns one completed LLMResponse.
package llmclient

import (
	"context"

	"github.com/reactor-labs/reactor/pkg/projection"
)

// ToolCall is the normalized shape every adapter must produce for a
// model-requested tool invocation.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// ToolDeclaration describes one callable tool to the model, independent of
// provider wire format.
type ToolDeclaration struct {
	Name        string
	Description string
	// ParametersSchema is the JSON-schema document (already marshaled to a
	// generic map) the registry produced for this tool.
	ParametersSchema map[string]any
}

// TokenUsage mirrors eventlog.TokenUsage; kept as its own type so this
// package has no dependency on the event model (only the engine bridges
// the two).
type TokenUsage struct {
	Input  int
	Output int
	Total  int
}

// Response is what every adapter call returns after normalization.
type Response struct {
	Text       string
	ToolCalls  []ToolCall
	ModelName  string
	TokenUsage TokenUsage
}

// Adapter is the provider-neutral contract (spec §4.5): system prompt +
// message sequence + optional tool declarations in, one completed Response
// out.
type Adapter interface {
	Call(ctx context.Context, messages []projection.Message, tools []ToolDeclaration, systemPrompt string) (Response, error)
}
