package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
)

// ErrToolNotFound is returned for any operation naming an unregistered
// tool. Handlers map it to a 404-style response.
var ErrToolNotFound = errors.New("tool not found")

// ValidationError reports input parameters rejected by a tool's schema.
type ValidationError struct {
	Tool string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid parameters for tool %q: %v", e.Tool, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

type registered struct {
	tool   Tool
	schema *jsonschema.Schema
}

// Registry holds the registered tools. It is built once at startup and
// injected into whatever needs to look tools up; there is no package-level
// instance. Registration order is preserved for listings.
type Registry struct {
	ordered []string
	byName  map[string]*registered
	log     *zap.Logger
}

// NewRegistry compiles each tool's input schema and indexes the tools by
// name. A schema that fails to compile is a startup error.
func NewRegistry(log *zap.Logger, ts ...Tool) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]*registered, len(ts)),
		log:    log,
	}
	for _, t := range ts {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds one tool, compiling its input schema.
func (r *Registry) Register(t Tool) error {
	def := t.Definition()
	if _, exists := r.byName[def.Name]; exists {
		return fmt.Errorf("tool %q already registered", def.Name)
	}

	schemaJSON, err := json.Marshal(def.InputSchema)
	if err != nil {
		return fmt.Errorf("tool %q: encode input schema: %w", def.Name, err)
	}
	compiler := jsonschema.NewCompiler()
	res := fmt.Sprintf("tool://%s/input.json", def.Name)
	if err := compiler.AddResource(res, bytes.NewReader(schemaJSON)); err != nil {
		return fmt.Errorf("tool %q: add schema resource: %w", def.Name, err)
	}
	schema, err := compiler.Compile(res)
	if err != nil {
		return fmt.Errorf("tool %q: compile input schema: %w", def.Name, err)
	}

	r.ordered = append(r.ordered, def.Name)
	r.byName[def.Name] = &registered{tool: t, schema: schema}
	r.log.Info("tool registered", zap.String("tool", def.Name))
	return nil
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, error) {
	reg, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrToolNotFound, name)
	}
	return reg.tool, nil
}

// Names returns the tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.ordered))
	copy(names, r.ordered)
	return names
}

// List returns all tool definitions in registration order.
func (r *Registry) List() []Definition {
	defs := make([]Definition, 0, len(r.ordered))
	for _, name := range r.ordered {
		defs = append(defs, r.byName[name].tool.Definition())
	}
	return defs
}

// Validate checks params against the named tool's input schema.
func (r *Registry) Validate(name string, params map[string]any) error {
	reg, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrToolNotFound, name)
	}
	if params == nil {
		params = map[string]any{}
	}
	// Round-trip through JSON so the value matches what the schema
	// library expects for decoded documents.
	raw, err := json.Marshal(params)
	if err != nil {
		return &ValidationError{Tool: name, Err: err}
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &ValidationError{Tool: name, Err: err}
	}
	if err := reg.schema.Validate(doc); err != nil {
		return &ValidationError{Tool: name, Err: err}
	}
	return nil
}

// Execute validates params and runs the named tool.
func (r *Registry) Execute(ctx context.Context, name string, params map[string]any) (map[string]any, error) {
	reg, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrToolNotFound, name)
	}
	if err := r.Validate(name, params); err != nil {
		return nil, err
	}
	return reg.tool.Execute(ctx, params)
}
