package engine

import (
	"encoding/json"

	"github.com/reactor-labs/reactor/pkg/tools"
)

// schemaToMap renders a tools.Schema as the generic map[string]any shape
// llmclient.ToolDeclaration expects, round-tripping through JSON since
// Schema's fields already carry the right json tags.
func schemaToMap(s tools.Schema) (map[string]any, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
