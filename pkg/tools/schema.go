// Package tools implements the tool registry and executor: named callables
// with a JSON-schema-shaped parameter description, executed synchronously
// in-process with timing and failure capture (spec §4.4).
package tools

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ParameterType enumerates the JSON-schema primitive types a tool parameter
// may declare (spec §4.4).
type ParameterType string

const (
	TypeString  ParameterType = "string"
	TypeInteger ParameterType = "integer"
	TypeNumber  ParameterType = "number"
	TypeBoolean ParameterType = "boolean"
	TypeArray   ParameterType = "array"
	TypeObject  ParameterType = "object"
)

// Parameter describes one property of a tool's parameters_schema.
type Parameter struct {
	Type        ParameterType `json:"type"`
	Description string        `json:"description,omitempty"`
}

// Schema is the JSON-schema-compatible parameter descriptor spec §4.4
// requires: type:object, a properties map, and a required list.
type Schema struct {
	Type       string               `json:"type"`
	Properties map[string]Parameter `json:"properties"`
	Required   []string             `json:"required,omitempty"`
}

// NewSchema builds an object schema from a properties map and a required
// list, defaulting Type to "object".
func NewSchema(properties map[string]Parameter, required ...string) Schema {
	return Schema{Type: "object", Properties: properties, Required: required}
}

// Validate compiles s as a JSON Schema document and reports any structural
// error. This only validates the SHAPE of the schema the tool author wrote
// — it is never used to validate a caller's
// tool arguments, which the base design leaves unvalidated (spec §4.4,
// point 2).
func (s Schema) Validate() error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("tools: marshal schema: %w", err)
	}
	if _, err := jsonschema.CompileString(s.Type+".schema.json", string(raw)); err != nil {
		return fmt.Errorf("tools: invalid parameters schema: %w", err)
	}
	return nil
}
