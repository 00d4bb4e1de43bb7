package tools

import (
	"context"
	"fmt"
	"strings"
)

var mockAnalysis = map[string]map[string]any{
	"vercel/next.js": {"lines_of_code": 500000, "languages": []string{"TypeScript", "JavaScript"}, "stars": 120000},
	"facebook/react": {"lines_of_code": 700000, "languages": []string{"JavaScript", "TypeScript"}, "stars": 200000},
}

// AnalyzeRepository is the repository analyzer mock.
type AnalyzeRepository struct{}

func (AnalyzeRepository) Definition() Definition {
	return Definition{
		Name:        "analyze_repository",
		Description: "Analyze a GitHub repository. Returns canned code statistics for known repositories and a generic profile otherwise.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"repository": map[string]any{
					"type":        "string",
					"description": "Repository in owner/name form, full GitHub URLs are accepted",
				},
			},
			"required": []any{"repository"},
		},
	}
}

func (AnalyzeRepository) Execute(_ context.Context, params map[string]any) (map[string]any, error) {
	repo := strings.TrimSpace(getString(params, "repository", ""))
	repo = strings.TrimPrefix(repo, "https://github.com/")

	analysis, ok := mockAnalysis[strings.ToLower(repo)]
	if !ok {
		analysis = map[string]any{"lines_of_code": 10000, "languages": []string{"Python"}, "stars": 1000}
	}

	return map[string]any{
		"status":        "success",
		"tool_name":     "analyze_repository",
		"repository":    repo,
		"analysis_data": analysis,
		"mocked":        true,
	}, nil
}

// WebSearch is the web search mock: deterministic result stubs derived
// from the query string.
type WebSearch struct{}

func (WebSearch) Definition() Definition {
	return Definition{
		Name:        "web_search",
		Description: "Search the web. Returns mock result entries derived from the query.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search query",
				},
				"max_results": map[string]any{
					"type":        "integer",
					"description": "Maximum number of results",
					"default":     5,
					"minimum":     1,
				},
			},
			"required": []any{"query"},
		},
	}
}

func (WebSearch) Execute(_ context.Context, params map[string]any) (map[string]any, error) {
	query := getString(params, "query", "")
	maxResults := getInt(params, "max_results", 5)
	if maxResults > 5 {
		maxResults = 5
	}

	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(query)), " ", "-")
	results := make([]map[string]any, 0, maxResults)
	for i := 1; i <= maxResults; i++ {
		results = append(results, map[string]any{
			"title":   fmt.Sprintf("Result %d for %q", i, query),
			"url":     fmt.Sprintf("https://example.com/%s/%d", slug, i),
			"snippet": fmt.Sprintf("Mock search snippet %d about %s.", i, query),
		})
	}

	return map[string]any{
		"status":    "success",
		"tool_name": "web_search",
		"query":     query,
		"results":   results,
		"count":     len(results),
		"mocked":    true,
	}, nil
}

// Builtin returns the built-in mock tools in display order.
func Builtin() []Tool {
	return []Tool{
		ResolveLibrary{},
		LibraryDocs{},
		AnalyzeRepository{},
		WebSearch{},
	}
}
