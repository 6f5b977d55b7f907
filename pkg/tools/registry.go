package tools

import "fmt"

// Invoke is the callable a tool registers: it receives a decoded arguments
// object and returns a JSON-serializable result or an error. Panics inside
// Invoke are recovered by Execute and converted into a failed
// ExecutionResult (spec §4.4, point 4).
type Invoke func(args map[string]any) (any, error)

// Definition is the registry's view of a tool: the JSON-schema-shaped
// descriptor the LLM adapter advertises, plus the function that runs it.
type Definition struct {
	Name             string
	Description      string
	ParametersSchema Schema
	Invoke           Invoke
}

// Registry holds named tools. Registry is read-only after construction —
// concurrent reads from multiple engine passes are safe (spec §5).
type Registry struct {
	tools map[string]Definition
	order []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Definition)}
}

// Register adds a tool. Re-registering an existing name is an error (spec
// §4.4): names must be unique within a registry.
func (r *Registry) Register(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("tools: definition must have a name")
	}
	if def.Invoke == nil {
		return fmt.Errorf("tools: %q must have an Invoke function", def.Name)
	}
	if _, exists := r.tools[def.Name]; exists {
		return fmt.Errorf("tools: %q is already registered", def.Name)
	}
	if err := def.ParametersSchema.Validate(); err != nil {
		return fmt.Errorf("tools: %q: %w", def.Name, err)
	}
	r.tools[def.Name] = def
	r.order = append(r.order, def.Name)
	return nil
}

// MustRegister panics on registration error. Used for built-in tools wired
// at program startup, where a failure is a programming error.
func (r *Registry) MustRegister(def Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Lookup returns the tool registered under name, if any.
func (r *Registry) Lookup(name string) (Definition, bool) {
	def, ok := r.tools[name]
	return def, ok
}

// List returns every registered tool's descriptor in registration order —
// used both by the LLM adapter (tool declarations) and by the engine.
func (r *Registry) List() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name])
	}
	return defs
}

// Len reports how many tools are registered.
func (r *Registry) Len() int {
	return len(r.tools)
}
