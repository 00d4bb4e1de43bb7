package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/PulseWire/pulsewire-demo/internal/events"
	"github.com/PulseWire/pulsewire-demo/internal/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, historyLimit int) *Service {
	t.Helper()
	reg, err := tools.NewRegistry(zap.NewNop(), tools.Builtin()...)
	require.NoError(t, err)
	return NewService(reg, events.NewBus(), zap.NewNop(), historyLimit)
}

func TestService_ExecuteSuccessUpdatesStatsAndHistory(t *testing.T) {
	s := newTestService(t, 10)

	res := s.Execute(context.Background(), "web_search", map[string]any{"query": "golang"}, "")
	assert.Equal(t, "success", res.Status)
	assert.NotEmpty(t, res.ExecutionID)
	assert.Equal(t, "web_search", res.ToolName)
	require.NotNil(t, res.Output)

	hist := s.History(0)
	assert.Equal(t, 1, hist["total_executions"])
	stats := hist["statistics"].(Stats)
	assert.Equal(t, 1, stats.SuccessfulExecutions)
	assert.Equal(t, 0, stats.FailedExecutions)
}

func TestService_ExecuteUnknownToolIsErrorResultNotPanic(t *testing.T) {
	s := newTestService(t, 10)

	res := s.Execute(context.Background(), "does_not_exist", nil, "")
	assert.Equal(t, "error", res.Status)
	assert.Contains(t, res.Error, "not found")

	// Service keeps working after the failure.
	res = s.Execute(context.Background(), "web_search", map[string]any{"query": "ok"}, "")
	assert.Equal(t, "success", res.Status)

	stats := s.History(0)["statistics"].(Stats)
	assert.Equal(t, 1, stats.FailedExecutions)
	assert.Equal(t, 1, stats.SuccessfulExecutions)
}

func TestService_HistoryBounded(t *testing.T) {
	s := newTestService(t, 3)

	for i := 0; i < 5; i++ {
		s.Execute(context.Background(), "web_search", map[string]any{"query": "q"}, "")
	}

	hist := s.History(0)
	records := hist["history"].([]Record)
	assert.Len(t, records, 3)
	assert.Equal(t, 5, hist["total_executions"])
}

func TestService_SessionLifecycle(t *testing.T) {
	s := newTestService(t, 10)

	sess, err := s.CreateSession("alpha", map[string]any{"owner": "demo"})
	require.NoError(t, err)
	assert.Equal(t, "active", sess.Status)

	_, err = s.CreateSession("alpha", nil)
	assert.True(t, errors.Is(err, ErrSessionExists))

	_, err = s.GetSession("missing")
	assert.True(t, errors.Is(err, ErrSessionNotFound))

	s.Execute(context.Background(), "web_search", map[string]any{"query": "q"}, "alpha")
	got, err := s.GetSession("alpha")
	require.NoError(t, err)
	assert.Len(t, got.Executions, 1)

	assert.Len(t, s.ListSessions(), 1)
}

func TestService_SessionReadsAreIsolatedFromExecutions(t *testing.T) {
	s := newTestService(t, 10)

	_, err := s.CreateSession("s1", nil)
	require.NoError(t, err)

	// A returned session is a snapshot: executions recorded afterwards
	// must not show up in it.
	before, err := s.GetSession("s1")
	require.NoError(t, err)
	s.Execute(context.Background(), "web_search", map[string]any{"query": "q"}, "s1")
	assert.Empty(t, before.Executions)

	after, err := s.GetSession("s1")
	require.NoError(t, err)
	assert.Len(t, after.Executions, 1)

	// Concurrent executions against a session while readers JSON-encode
	// it must be race-free (exercised under -race).
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			s.Execute(context.Background(), "web_search", map[string]any{"query": "q"}, "s1")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			sess, err := s.GetSession("s1")
			assert.NoError(t, err)
			_, err = json.Marshal(sess)
			assert.NoError(t, err)
			for _, l := range s.ListSessions() {
				_, err = json.Marshal(l)
				assert.NoError(t, err)
			}
		}
	}()
	wg.Wait()
}

func TestService_ExecuteStreamEventSequence(t *testing.T) {
	s := newTestService(t, 10)

	var names []string
	for ev := range s.ExecuteStream(context.Background(), "web_search", map[string]any{"query": "q"}) {
		names = append(names, ev.Name)
	}

	assert.Equal(t, []string{
		"execution_start",
		"validation_success",
		"execution_progress",
		"execution_result",
		"execution_complete",
	}, names)
}

func TestService_ExecuteStreamUnknownTool(t *testing.T) {
	s := newTestService(t, 10)

	var names []string
	var lastStatus any
	for ev := range s.ExecuteStream(context.Background(), "nope", nil) {
		names = append(names, ev.Name)
		if ev.Name == "execution_complete" {
			lastStatus = ev.Data["status"]
		}
	}

	assert.Equal(t, []string{"execution_start", "execution_error", "execution_complete"}, names)
	assert.Equal(t, "error", lastStatus)
}

func TestService_ResolveAndGetDocs(t *testing.T) {
	s := newTestService(t, 10)

	out, err := s.ResolveAndGetDocs(context.Background(), "vue", 0, "")
	require.NoError(t, err)
	assert.Equal(t, "/vue/vue", out["library_id"])
	assert.Contains(t, out["documentation"], "Vue.js")
}

func TestService_ServerInfo(t *testing.T) {
	s := newTestService(t, 10)

	info := s.ServerInfo()
	assert.Equal(t, ServerName, info["server_name"])
	assert.Equal(t, 4, info["available_tools"])
	assert.Contains(t, info["capabilities"], "sse_streaming")
}
