package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, "0.0.0.0", c.HTTP.Bind)
	assert.Equal(t, 8000, c.HTTP.Port)
	assert.Equal(t, 2*time.Second, c.StreamInterval())
	assert.Equal(t, 50, c.MCP.HistoryLimit)
	assert.Equal(t, "info", c.Logging.Level)
	assert.False(t, c.Logging.JSON)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  port: 9100
stream:
  interval_ms: 250
logging:
  level: debug
  json: true
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, c.HTTP.Port)
	assert.Equal(t, 250*time.Millisecond, c.StreamInterval())
	assert.Equal(t, "debug", c.Logging.Level)
	assert.True(t, c.Logging.JSON)

	// Untouched fields still get defaults.
	assert.Equal(t, "0.0.0.0", c.HTTP.Bind)
	assert.Equal(t, 50, c.MCP.HistoryLimit)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
