package schema

import (
	"reflect"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
)

// ErrNotFound is returned when a tool name has no registered schema.
var ErrNotFound = errors.New("tool schema not found")

// Parameter describes one tool parameter: its JSON type, whether it is
// required, the allowed value set or numeric range, and the default used
// when inference yields nothing.
type Parameter struct {
	Name        string   `json:"name" yaml:"name"`
	Type        string   `json:"type" yaml:"type"`
	Required    bool     `json:"required" yaml:"required"`
	Enum        []string `json:"enum,omitempty" yaml:"enum,omitempty"`
	Minimum     *float64 `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum     *float64 `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	Default     any      `json:"default,omitempty" yaml:"default,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// ToolSchema is the declared parameter contract of one tool,
// with parameters in struct declaration order.
type ToolSchema struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	Parameters  []Parameter `json:"parameters" yaml:"parameters"`

	schema *Schema
}

// Parameter returns the descriptor with the given name.
func (s *ToolSchema) Parameter(name string) (*Parameter, bool) {
	for i := range s.Parameters {
		if s.Parameters[i].Name == name {
			return &s.Parameters[i], true
		}
	}
	return nil, false
}

// Required returns the names of all required parameters.
func (s *ToolSchema) Required() []string {
	var names []string
	for _, p := range s.Parameters {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}

// JSONSchema returns the flattened JSON schema of the tool parameters.
func (s *ToolSchema) JSONSchema() *jsonschema.Schema {
	return s.schema.Parameters
}

// Registry is the process-wide table of tool schemas.
// It is populated once at startup and read-only afterward,
// safe to share across concurrent requests without locking.
type Registry struct {
	byName map[string]*ToolSchema
	names  []string
}

func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*ToolSchema),
	}
}

// Register reflects the request type into a tool schema and adds it under
// the given name. Adding a tool is one Register call plus one dispatch
// target; no other component changes.
func (r *Registry) Register(name, description string, reqType reflect.Type) error {
	key := strings.ToLower(name)
	if _, ok := r.byName[key]; ok {
		return errors.Newf("tool schema already registered: %s", name)
	}

	sc, err := New(reqType)
	if err != nil {
		return errors.WithMessagef(err, "failed to reflect schema for %s", name)
	}

	ts := &ToolSchema{
		Name:        name,
		Description: description,
		schema:      sc,
	}

	fn := sc.Parameters
	for pair := fn.Properties.Oldest(); pair != nil; pair = pair.Next() {
		ts.Parameters = append(ts.Parameters, toParameter(pair.Key, pair.Value, fn.Required))
	}

	r.byName[key] = ts
	r.names = append(r.names, name)
	return nil
}

// MustRegister is a Register that panics on error, for static startup tables.
func (r *Registry) MustRegister(name, description string, reqType reflect.Type) {
	if err := r.Register(name, description, reqType); err != nil {
		panic(err)
	}
}

// Get returns the schema for the given tool name, or ErrNotFound.
func (r *Registry) Get(name string) (*ToolSchema, error) {
	ts, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, errors.WithMessagef(ErrNotFound, "tool %q", name)
	}
	return ts, nil
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Schemas returns all registered tool schemas in registration order.
func (r *Registry) Schemas() []*ToolSchema {
	list := make([]*ToolSchema, 0, len(r.names))
	for _, name := range r.names {
		list = append(list, r.byName[strings.ToLower(name)])
	}
	return list
}

func toParameter(name string, ps *jsonschema.Schema, required []string) Parameter {
	p := Parameter{
		Name:        name,
		Type:        ps.Type,
		Required:    slices.Contains(required, name),
		Default:     ps.Default,
		Description: ps.Description,
	}
	for _, v := range ps.Enum {
		if s, ok := v.(string); ok {
			p.Enum = append(p.Enum, s)
		}
	}
	if v, err := ps.Minimum.Float64(); err == nil && ps.Minimum != "" {
		p.Minimum = &v
	}
	if v, err := ps.Maximum.Float64(); err == nil && ps.Maximum != "" {
		p.Maximum = &v
	}
	return p
}
