package llmclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdapterRoutesByModelPrefix(t *testing.T) {
	t.Run("claude models require an anthropic key", func(t *testing.T) {
		_, err := NewAdapter(Config{ModelName: "claude-sonnet-4"})
		assert.Error(t, err)

		adapter, err := NewAdapter(Config{ModelName: "claude-sonnet-4", AnthropicKey: "test-key"})
		require.NoError(t, err)
		_, ok := adapter.(*FunctionCallingAdapter)
		assert.True(t, ok)
	})

	t.Run("other models require an openai key and default to chat adapter", func(t *testing.T) {
		_, err := NewAdapter(Config{ModelName: "gpt-4o"})
		assert.Error(t, err)

		adapter, err := NewAdapter(Config{ModelName: "gpt-4o", OpenAIAPIKey: "test-key"})
		require.NoError(t, err)
		_, ok := adapter.(*ChatAdapter)
		assert.True(t, ok)
	})
}
