// Package tools defines the tool-calling surface: a capability interface,
// an explicitly constructed registry and the built-in mock tools. Tools
// return canned or pseudo-random data in place of real integrations.
package tools

import (
	"context"
)

// Definition describes a tool for introspection: its name, a human
// description and a JSON schema for the input parameters.
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// Tool is a capability: it has a schema and can execute given validated
// parameters. Implementations must be safe for concurrent use.
type Tool interface {
	Definition() Definition
	Execute(ctx context.Context, params map[string]any) (map[string]any, error)
}

// Parameter extraction helpers. Tool inputs arrive as decoded JSON, so
// numbers are float64.

func getString(params map[string]any, key, defaultVal string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return defaultVal
}

func getInt(params map[string]any, key string, defaultVal int) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return defaultVal
}
