package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(zap.NewNop(), Builtin()...)
	require.NoError(t, err)
	return r
}

func TestRegistry_UnknownToolIsTypedNotFound(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Execute(context.Background(), "does_not_exist", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrToolNotFound))

	_, err = r.Get("does_not_exist")
	assert.True(t, errors.Is(err, ErrToolNotFound))

	err = r.Validate("does_not_exist", map[string]any{})
	assert.True(t, errors.Is(err, ErrToolNotFound))
}

func TestRegistry_ListPreservesRegistrationOrder(t *testing.T) {
	r := newTestRegistry(t)

	defs := r.List()
	require.Len(t, defs, 4)
	assert.Equal(t, "resolve_library_id", defs[0].Name)
	assert.Equal(t, "get_library_docs", defs[1].Name)
	assert.Equal(t, "analyze_repository", defs[2].Name)
	assert.Equal(t, "web_search", defs[3].Name)
}

func TestRegistry_RejectsDuplicateRegistration(t *testing.T) {
	r := newTestRegistry(t)
	err := r.Register(WebSearch{})
	assert.Error(t, err)
}

func TestRegistry_ValidateRejectsMissingRequiredParam(t *testing.T) {
	r := newTestRegistry(t)

	err := r.Validate("resolve_library_id", map[string]any{})
	require.Error(t, err)

	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "resolve_library_id", verr.Tool)
}

func TestRegistry_ValidateRejectsWrongType(t *testing.T) {
	r := newTestRegistry(t)

	err := r.Validate("get_library_docs", map[string]any{
		"library_id": "/vercel/next.js",
		"tokens":     "lots",
	})
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestResolveLibrary_KnownAndUnknown(t *testing.T) {
	r := newTestRegistry(t)

	out, err := r.Execute(context.Background(), "resolve_library_id", map[string]any{"library_name": "react"})
	require.NoError(t, err)
	resolved := out["resolved_ids"].([]map[string]any)
	require.Len(t, resolved, 1)
	assert.Equal(t, "/react/react", resolved[0]["library_id"])

	out, err = r.Execute(context.Background(), "resolve_library_id", map[string]any{"library_name": "leftpad"})
	require.NoError(t, err)
	resolved = out["resolved_ids"].([]map[string]any)
	assert.Equal(t, "/leftpad/unknown", resolved[0]["library_id"])
}

func TestLibraryDocs_TokenClamp(t *testing.T) {
	r := newTestRegistry(t)

	out, err := r.Execute(context.Background(), "get_library_docs", map[string]any{
		"library_id": "/vue/vue",
		"tokens":     10,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, out["tokens_retrieved"])
	assert.Equal(t, "general", out["topic"])
}

func TestAnalyzeRepository_StripsGitHubURL(t *testing.T) {
	r := newTestRegistry(t)

	out, err := r.Execute(context.Background(), "analyze_repository", map[string]any{
		"repository": "https://github.com/vercel/next.js",
	})
	require.NoError(t, err)
	assert.Equal(t, "vercel/next.js", out["repository"])

	analysis := out["analysis_data"].(map[string]any)
	assert.Equal(t, 120000, analysis["stars"])
}

func TestWebSearch_ResultCount(t *testing.T) {
	r := newTestRegistry(t)

	out, err := r.Execute(context.Background(), "web_search", map[string]any{
		"query":       "go sse streaming",
		"max_results": 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, out["count"])
}
