package tools

import (
	"context"
	"fmt"
	"strings"
)

// Library resolver and documentation fetcher, mocking the Context7 tools.
// The lookup tables are canned data keyed by input.

var mockResolutions = map[string][]map[string]any{
	"next.js": {{"library_id": "/vercel/next.js", "name": "Next.js", "description": "React framework"}},
	"react":   {{"library_id": "/react/react", "name": "React", "description": "JavaScript UI library"}},
	"vue":     {{"library_id": "/vue/vue", "name": "Vue.js", "description": "Progressive UI framework"}},
}

var mockDocs = map[string]string{
	"/vercel/next.js": "Next.js is a React framework for building full-stack web applications. You can use React Components to build your UI, and Next.js for additional features and optimizations.",
	"/react/react":    "React is a JavaScript library for building user interfaces. It lets you compose complex UIs from small and isolated pieces of code called 'components'.",
	"/vue/vue":        "Vue.js is a progressive framework for building user interfaces. Unlike other monolithic frameworks, Vue is designed from the ground up to be incrementally adoptable.",
}

// ResolveLibrary resolves a library name to a library ID.
type ResolveLibrary struct{}

func (ResolveLibrary) Definition() Definition {
	return Definition{
		Name:        "resolve_library_id",
		Description: "Resolve a library name to a compatible library ID. Returns the best matches with name and description.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"library_name": map[string]any{
					"type":        "string",
					"description": "Library name (e.g. next.js, react, vue)",
				},
			},
			"required": []any{"library_name"},
		},
	}
}

func (ResolveLibrary) Execute(_ context.Context, params map[string]any) (map[string]any, error) {
	name := getString(params, "library_name", "")

	resolved, ok := mockResolutions[strings.ToLower(name)]
	if !ok {
		resolved = []map[string]any{{
			"library_id":  fmt.Sprintf("/%s/unknown", name),
			"name":        name,
			"description": "Mocked unknown library",
		}}
	}

	return map[string]any{
		"status":       "success",
		"tool_name":    "resolve_library_id",
		"library_name": name,
		"resolved_ids": resolved,
		"mocked":       true,
	}, nil
}

// LibraryDocs fetches documentation for a library ID.
type LibraryDocs struct{}

func (LibraryDocs) Definition() Definition {
	return Definition{
		Name:        "get_library_docs",
		Description: "Retrieve documentation for a library ID. Unknown IDs get a mock fallback response.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"library_id": map[string]any{
					"type":        "string",
					"description": "Library ID (e.g. /vercel/next.js)",
				},
				"tokens": map[string]any{
					"type":        "integer",
					"description": "Maximum documentation tokens to retrieve",
					"default":     5000,
				},
				"topic": map[string]any{
					"type":        "string",
					"description": "Optional topic filter",
				},
			},
			"required": []any{"library_id"},
		},
	}
}

func (LibraryDocs) Execute(_ context.Context, params map[string]any) (map[string]any, error) {
	id := getString(params, "library_id", "")
	tokens := getInt(params, "tokens", 5000)
	topic := getString(params, "topic", "")

	docs, ok := mockDocs[id]
	if !ok {
		docs = fmt.Sprintf("No documentation found for %s. This is a mock response.", id)
	}
	if topic == "" {
		topic = "general"
	}

	return map[string]any{
		"status":           "success",
		"tool_name":        "get_library_docs",
		"library_id":       id,
		"documentation":    docs,
		"tokens_retrieved": min(tokens, len(docs)),
		"topic":            topic,
		"mocked":           true,
	}, nil
}
