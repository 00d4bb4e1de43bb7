// Package sseclient is a synchronous consumer for the demo's SSE
// endpoints: it opens a long-lived GET, parses the line framing into
// events and hands each one to a handler.
package sseclient

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// maxLineBytes bounds a single stream line. Payloads here are small, but
// the limit is generous so an oversized frame degrades to a handler-level
// decode problem instead of ending the read loop.
const maxLineBytes = 4 * 1024 * 1024

// Event is one decoded stream event. Data is the raw payload text,
// conventionally JSON; decoding it is the handler's business.
type Event struct {
	Kind string
	Data string
}

// Handler receives each decoded event. endpoint is the logical channel the
// client is connected to.
type Handler func(endpoint string, ev Event)

// Client consumes SSE endpoints of one server. A Client runs at most one
// blocking Connect loop at a time per caller goroutine; Stop may be called
// from any goroutine and takes effect at the next received line.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
	running    atomic.Bool
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a client for the given base URL. The default HTTP client
// bounds only the connection setup; the long-lived read has no deadline.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: &http.Transport{
				DialContext:           (&net.Dialer{Timeout: 30 * time.Second}).DialContext,
				ResponseHeaderTimeout: 30 * time.Second,
			},
		},
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stop requests the read loop to end. Termination is bounded by line-read
// granularity: the flag is checked once per received line.
func (c *Client) Stop() {
	c.running.Store(false)
}

// Connect opens the stream at endpoint (e.g. "/stream") and dispatches
// events until the stream ends, Stop is called, or ctx is cancelled.
// Context cancellation is a normal termination path and returns nil;
// transport failures are returned to the caller. When handler is nil the
// default formatter printing to stdout is used.
func (c *Client) Connect(ctx context.Context, endpoint string, handler Handler) error {
	if handler == nil {
		handler = DefaultHandler(nil)
	}

	url := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("connect to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("connect to %s: unexpected status %d", url, resp.StatusCode)
	}

	c.log.Info("connected", zap.String("endpoint", endpoint))
	c.running.Store(true)
	defer func() {
		c.running.Store(false)
		c.log.Info("disconnected", zap.String("endpoint", endpoint))
	}()

	var p lineParser
	scanner := bufio.NewScanner(resp.Body)
	// Default max token is 64KB; a large data line must not kill the
	// loop with ErrTooLong.
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if !c.running.Load() {
			return nil
		}
		if ev, ok := p.feed(scanner.Text()); ok {
			handler(endpoint, ev)
		}
	}

	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			// User cancellation, not a failure.
			return nil
		}
		return fmt.Errorf("read %s: %w", url, err)
	}
	return nil
}

// lineParser is the two-state framing parser. A line starting with
// "event: " records a pending kind and produces nothing; a line starting
// with "data: " completes one event with the pending kind (or "message")
// and resets. Blank lines and anything else are ignored.
type lineParser struct {
	pending    string
	hasPending bool
}

func (p *lineParser) feed(line string) (Event, bool) {
	switch {
	case strings.HasPrefix(line, "event: "):
		p.pending = strings.TrimPrefix(line, "event: ")
		p.hasPending = true
		return Event{}, false
	case strings.HasPrefix(line, "data: "):
		kind := "message"
		if p.hasPending {
			kind = p.pending
		}
		p.pending = ""
		p.hasPending = false
		return Event{Kind: kind, Data: strings.TrimPrefix(line, "data: ")}, true
	default:
		return Event{}, false
	}
}
