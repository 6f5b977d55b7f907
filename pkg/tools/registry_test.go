package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Echo()))
	err := r.Register(Echo())
	assert.Error(t, err)
}

func TestRegistryRejectsInvalidSchema(t *testing.T) {
	r := NewRegistry()
	err := r.Register(Definition{
		Name:             "broken",
		ParametersSchema: Schema{Type: "not-a-real-type"},
		Invoke:           func(map[string]any) (any, error) { return nil, nil },
	})
	assert.Error(t, err)
}

func TestRegistryListPreservesOrder(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(GetCurrentTime()))
	require.NoError(t, r.Register(Echo()))
	require.NoError(t, r.Register(Calculate()))

	names := make([]string, 0, 3)
	for _, def := range r.List() {
		names = append(names, def.Name)
	}
	assert.Equal(t, []string{"get_current_time", "echo", "calculate"}, names)
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Echo()))

	_, ok := r.Lookup("echo")
	assert.True(t, ok)
	_, ok = r.Lookup("nope")
	assert.False(t, ok)
}
