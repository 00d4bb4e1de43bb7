// Package mcp implements the tool execution service: it runs tools from the
// injected registry and tracks executions, statistics and sessions for the
// introspection endpoints. All state is owned by the Service instance and
// lives for the duration of the process.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/PulseWire/pulsewire-demo/internal/tools"
	"github.com/PulseWire/pulsewire-demo/pkg/sdk"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ServerName    = "PulseWire Mock Tool Server"
	ServerVersion = "2.0.0"
)

var (
	ErrSessionExists   = errors.New("session already exists")
	ErrSessionNotFound = errors.New("session not found")
)

// Result is the envelope returned for one synchronous execution. Tool
// failures are results with status "error", never transport failures.
type Result struct {
	ExecutionID          string         `json:"execution_id"`
	Status               string         `json:"status"`
	ToolName             string         `json:"tool_name"`
	InputParameters      map[string]any `json:"input_parameters"`
	Output               map[string]any `json:"output,omitempty"`
	Error                string         `json:"error,omitempty"`
	ExecutionTimeSeconds float64        `json:"execution_time_seconds"`
	Timestamp            string         `json:"timestamp"`
}

// Record is one entry in the execution history.
type Record struct {
	ExecutionID          string         `json:"execution_id"`
	ToolName             string         `json:"tool_name"`
	Parameters           map[string]any `json:"parameters"`
	SessionID            string         `json:"session_id,omitempty"`
	Status               string         `json:"status"`
	StartTime            string         `json:"start_time"`
	EndTime              string         `json:"end_time,omitempty"`
	ExecutionTimeSeconds float64        `json:"execution_time_seconds"`
	Error                string         `json:"error,omitempty"`
}

// Session groups executions under a caller-chosen ID.
type Session struct {
	SessionID  string         `json:"session_id"`
	CreatedAt  string         `json:"created_at"`
	Metadata   map[string]any `json:"metadata"`
	Executions []string       `json:"executions"`
	Status     string         `json:"status"`
}

// Stats are the running execution counters.
type Stats struct {
	TotalExecutions      int `json:"total_executions"`
	SuccessfulExecutions int `json:"successful_executions"`
	FailedExecutions     int `json:"failed_executions"`
}

// StreamEvent is one frame of a streaming execution. Name becomes the SSE
// event kind, Data the JSON payload.
type StreamEvent struct {
	Name string
	Data map[string]any
}

// Service executes tools and keeps the bookkeeping around them.
type Service struct {
	registry *tools.Registry
	bus      sdk.Bus
	log      *zap.Logger

	startTime    time.Time
	historyLimit int

	mu       sync.Mutex
	history  []Record
	sessions map[string]*Session
	stats    Stats
}

// NewService builds the execution service around an already-constructed
// registry. historyLimit bounds the retained execution records.
func NewService(registry *tools.Registry, bus sdk.Bus, log *zap.Logger, historyLimit int) *Service {
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &Service{
		registry:     registry,
		bus:          bus,
		log:          log,
		startTime:    time.Now(),
		historyLimit: historyLimit,
		sessions:     make(map[string]*Session),
	}
}

// Registry exposes the injected registry for listing and introspection.
func (s *Service) Registry() *tools.Registry { return s.registry }

// ServerInfo reports identity, uptime and statistics.
func (s *Service) ServerInfo() map[string]any {
	s.mu.Lock()
	stats := s.stats
	s.mu.Unlock()

	return map[string]any{
		"server_name":     ServerName,
		"version":         ServerVersion,
		"uptime_seconds":  int(time.Since(s.startTime).Seconds()),
		"available_tools": len(s.registry.Names()),
		"tool_names":      s.registry.Names(),
		"statistics":      stats,
		"capabilities": []string{
			"tool_execution",
			"sse_streaming",
			"parameter_validation",
			"schema_introspection",
			"execution_history",
		},
	}
}

// Execute runs a tool synchronously, recording the execution either way.
func (s *Service) Execute(ctx context.Context, toolName string, params map[string]any, sessionID string) Result {
	execID := uuid.New().String()
	start := time.Now()

	s.mu.Lock()
	s.stats.TotalExecutions++
	s.mu.Unlock()

	output, err := s.registry.Execute(ctx, toolName, params)
	end := time.Now()
	elapsed := end.Sub(start).Seconds()

	rec := Record{
		ExecutionID:          execID,
		ToolName:             toolName,
		Parameters:           params,
		SessionID:            sessionID,
		StartTime:            start.UTC().Format(time.RFC3339Nano),
		EndTime:              end.UTC().Format(time.RFC3339Nano),
		ExecutionTimeSeconds: elapsed,
	}

	res := Result{
		ExecutionID:          execID,
		ToolName:             toolName,
		InputParameters:      params,
		ExecutionTimeSeconds: elapsed,
		Timestamp:            end.UTC().Format(time.RFC3339Nano),
	}

	if err != nil {
		rec.Status = "failed"
		rec.Error = err.Error()
		res.Status = "error"
		res.Error = err.Error()
	} else {
		rec.Status = "completed"
		res.Status = "success"
		res.Output = output
	}

	s.record(rec, sessionID, execID, err == nil)

	s.bus.Publish(sdk.Event{Type: "tool.executed", Data: map[string]any{
		"execution_id": execID,
		"tool_name":    toolName,
		"status":       res.Status,
	}})

	s.log.Info("tool executed",
		zap.String("tool", toolName),
		zap.String("status", res.Status),
		zap.Float64("seconds", elapsed))

	return res
}

func (s *Service) record(rec Record, sessionID, execID string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ok {
		s.stats.SuccessfulExecutions++
	} else {
		s.stats.FailedExecutions++
	}

	s.history = append(s.history, rec)
	if len(s.history) > s.historyLimit {
		s.history = s.history[len(s.history)-s.historyLimit:]
	}

	if sess, found := s.sessions[sessionID]; found {
		sess.Executions = append(sess.Executions, execID)
	}
}

// ExecuteStream runs a tool and yields the execution lifecycle as events:
// execution_start, validation_success, execution_progress,
// execution_result, execution_complete — or execution_error followed by a
// failed execution_complete. The caller frames each event over SSE.
func (s *Service) ExecuteStream(ctx context.Context, toolName string, params map[string]any) iter.Seq[StreamEvent] {
	return func(yield func(StreamEvent) bool) {
		execID := uuid.New().String()

		if !yield(StreamEvent{"execution_start", map[string]any{
			"execution_id": execID,
			"tool_name":    toolName,
			"parameters":   params,
			"timestamp":    nowStamp(),
		}}) {
			return
		}

		fail := func(err error) {
			if !yield(StreamEvent{"execution_error", map[string]any{
				"execution_id": execID,
				"error":        err.Error(),
				"timestamp":    nowStamp(),
			}}) {
				return
			}
			yield(StreamEvent{"execution_complete", map[string]any{
				"execution_id": execID,
				"status":       "error",
				"timestamp":    nowStamp(),
			}})
		}

		if err := s.registry.Validate(toolName, params); err != nil {
			fail(err)
			return
		}

		if !yield(StreamEvent{"validation_success", map[string]any{
			"execution_id": execID,
			"message":      "Tool and parameters validated",
			"timestamp":    nowStamp(),
		}}) {
			return
		}

		if !yield(StreamEvent{"execution_progress", map[string]any{
			"execution_id": execID,
			"message":      fmt.Sprintf("Executing %s...", toolName),
			"timestamp":    nowStamp(),
		}}) {
			return
		}

		output, err := s.registry.Execute(ctx, toolName, params)
		if err != nil {
			fail(err)
			return
		}

		if !yield(StreamEvent{"execution_result", map[string]any{
			"execution_id": execID,
			"result":       output,
			"timestamp":    nowStamp(),
		}}) {
			return
		}

		yield(StreamEvent{"execution_complete", map[string]any{
			"execution_id": execID,
			"status":       "success",
			"timestamp":    nowStamp(),
		}})
	}
}

// History returns up to limit of the most recent execution records plus
// the counters.
func (s *Service) History(limit int) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	recent := s.history
	if limit > 0 && len(recent) > limit {
		recent = recent[len(recent)-limit:]
	}
	out := make([]Record, len(recent))
	copy(out, recent)

	return map[string]any{
		"history":          out,
		"total_executions": s.stats.TotalExecutions,
		"showing":          len(out),
		"statistics":       s.stats,
	}
}

// CreateSession registers a new session; duplicate IDs are a conflict.
func (s *Service) CreateSession(id string, metadata map[string]any) (*Session, error) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[id]; exists {
		return nil, fmt.Errorf("%w: %q", ErrSessionExists, id)
	}
	sess := &Session{
		SessionID:  id,
		CreatedAt:  nowStamp(),
		Metadata:   metadata,
		Executions: []string{},
		Status:     "active",
	}
	s.sessions[id] = sess
	return snapshotSession(sess), nil
}

// GetSession looks up one session.
func (s *Service) GetSession(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	return snapshotSession(sess), nil
}

// ListSessions returns all sessions.
func (s *Service) ListSessions() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, snapshotSession(sess))
	}
	return out
}

// snapshotSession copies a session so callers can read it (typically for
// JSON encoding) outside the service lock while record() keeps appending
// execution IDs to the live one. Must be called with s.mu held.
func snapshotSession(sess *Session) *Session {
	cp := *sess
	cp.Executions = append([]string(nil), sess.Executions...)
	return &cp
}

// ResolveAndGetDocs chains the resolver and the docs fetcher: resolve the
// name, take the first match, fetch its documentation.
func (s *Service) ResolveAndGetDocs(ctx context.Context, libraryName string, tokens int, topic string) (map[string]any, error) {
	resolved, err := s.registry.Execute(ctx, "resolve_library_id", map[string]any{"library_name": libraryName})
	if err != nil {
		return nil, err
	}

	libraryID := "/" + libraryName
	if ids, ok := resolved["resolved_ids"].([]map[string]any); ok && len(ids) > 0 {
		if id, ok := ids[0]["library_id"].(string); ok && id != "" {
			libraryID = id
		}
	}

	params := map[string]any{"library_id": libraryID}
	if tokens > 0 {
		params["tokens"] = tokens
	}
	if topic != "" {
		params["topic"] = topic
	}
	return s.registry.Execute(ctx, "get_library_docs", params)
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
