package sseclient

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PulseWire/pulsewire-demo/internal/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineParser_ExplicitKind(t *testing.T) {
	var p lineParser

	_, ok := p.feed("event: heartbeat")
	assert.False(t, ok, "event line must not dispatch")

	ev, ok := p.feed(`data: {"cpu_usage": 10}`)
	require.True(t, ok)
	assert.Equal(t, "heartbeat", ev.Kind)
	assert.Equal(t, `{"cpu_usage": 10}`, ev.Data)

	// Blank terminator produces nothing.
	_, ok = p.feed("")
	assert.False(t, ok)
}

func TestLineParser_DefaultKind(t *testing.T) {
	var p lineParser

	ev, ok := p.feed(`data: {"message": "hi"}`)
	require.True(t, ok)
	assert.Equal(t, "message", ev.Kind)
}

func TestLineParser_PendingKindResetsAfterDispatch(t *testing.T) {
	var p lineParser

	p.feed("event: sensor")
	ev, ok := p.feed("data: {}")
	require.True(t, ok)
	assert.Equal(t, "sensor", ev.Kind)

	// Next data line with no new event line falls back to the default.
	ev, ok = p.feed("data: {}")
	require.True(t, ok)
	assert.Equal(t, "message", ev.Kind)
}

func TestLineParser_IgnoresOtherLineShapes(t *testing.T) {
	var p lineParser

	for _, line := range []string{"", ": comment", "id: 7", "retry: 3000", "garbage"} {
		_, ok := p.feed(line)
		assert.False(t, ok, "line %q must not dispatch", line)
	}
}

func TestRoundTrip_EncoderToParser(t *testing.T) {
	enc := sse.NewEncoder()
	wire, err := enc.Format(sse.Frame{Kind: "sensor", Data: `{"temperature": 21.5, "humidity": 40.0}`})
	require.NoError(t, err)

	var p lineParser
	var events []Event
	for _, line := range strings.Split(wire, "\n") {
		if ev, ok := p.feed(line); ok {
			events = append(events, ev)
		}
	}

	require.Len(t, events, 1)
	assert.Equal(t, "sensor", events[0].Kind)
	assert.Equal(t, `{"temperature": 21.5, "humidity": 40.0}`, events[0].Data)
}

func TestConnect_DispatchesEventsInOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", sse.ContentType)
		_, _ = w.Write([]byte("event: heartbeat\ndata: {\"cpu_usage\": 10}\n\n"))
		_, _ = w.Write([]byte("data: {\"message\": \"one\"}\n\n"))
		_, _ = w.Write([]byte("data: {\"message\": \"two\"}\n\n"))
	}))
	defer srv.Close()

	var got []Event
	c := New(srv.URL)
	err := c.Connect(context.Background(), "/stream", func(_ string, ev Event) {
		got = append(got, ev)
	})
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, "heartbeat", got[0].Kind)
	assert.Equal(t, "message", got[1].Kind)
	assert.Equal(t, `{"message": "one"}`, got[1].Data)
	assert.Equal(t, `{"message": "two"}`, got[2].Data)
}

func TestConnect_MalformedPayloadDoesNotStopLoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("data: {not json\n\n"))
		_, _ = w.Write([]byte("data: {\"message\": \"still alive\"}\n\n"))
	}))
	defer srv.Close()

	var out bytes.Buffer
	var count int
	handler := DefaultHandler(&out)
	c := New(srv.URL)
	err := c.Connect(context.Background(), "/stream", func(ep string, ev Event) {
		count++
		handler(ep, ev)
	})
	require.NoError(t, err)

	assert.Equal(t, 2, count, "both frames must dispatch")
	assert.Contains(t, out.String(), "raw: {not json")
	assert.Contains(t, out.String(), "still alive")
}

func TestConnect_OversizedDataLineDoesNotStopLoop(t *testing.T) {
	// Beyond bufio.Scanner's default 64KB token limit.
	big := strings.Repeat("x", 200*1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("data: {\"message\": \"" + big + "\"}\n\n"))
		_, _ = w.Write([]byte("data: {\"message\": \"after\"}\n\n"))
	}))
	defer srv.Close()

	var got []Event
	c := New(srv.URL)
	err := c.Connect(context.Background(), "/stream", func(_ string, ev Event) {
		got = append(got, ev)
	})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Contains(t, got[0].Data, big)
	assert.Equal(t, `{"message": "after"}`, got[1].Data)
}

func TestConnect_NonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Connect(context.Background(), "/missing", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}

func TestConnect_ConnectionRefusedIsError(t *testing.T) {
	c := New("http://127.0.0.1:1")
	err := c.Connect(context.Background(), "/stream", func(string, Event) {})
	assert.Error(t, err)
}

func TestConnect_ContextCancelIsNormalTermination(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fl := w.(http.Flusher)
		_, _ = w.Write([]byte("data: {\"message\": \"first\"}\n\n"))
		fl.Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	c := New(srv.URL)

	errCh := make(chan error, 1)
	go func() {
		errCh <- c.Connect(ctx, "/stream", func(string, Event) { cancel() })
	}()

	select {
	case err := <-errCh:
		assert.NoError(t, err, "cancellation must not surface as an error")
	case <-time.After(5 * time.Second):
		t.Fatal("read loop did not terminate on cancellation")
	}
}

func TestDefaultHandler_FormatChain(t *testing.T) {
	var out bytes.Buffer
	h := DefaultHandler(&out)

	h("/stream", Event{Kind: "heartbeat", Data: `{"cpu_usage": 12.5, "memory_usage": 40}`})
	h("/stream", Event{Kind: "notification", Data: `{"level": "warning", "title": "Disk", "message": "almost full"}`})
	h("/stream", Event{Kind: "sensor", Data: `{"sensor_data": {"temperature": 21.5, "humidity": 40}}`})
	h("/metrics", Event{Kind: "message", Data: `{"metrics": {"requests_per_second": 120, "cpu_usage_percent": 30, "memory_usage_mb": 512}}`})
	h("/stream", Event{Kind: "message", Data: `{"message": "plain"}`})
	h("/stream", Event{Kind: "message", Data: `not json at all`})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "CPU: 12.5")
	assert.Contains(t, lines[1], "[!] Disk: almost full")
	assert.Contains(t, lines[2], "temp: 21.5")
	assert.Contains(t, lines[3], "RPS: 120")
	assert.Contains(t, lines[4], "plain")
	assert.Contains(t, lines[5], "raw: not json at all")
}
