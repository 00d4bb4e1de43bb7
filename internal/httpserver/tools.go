package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/PulseWire/pulsewire-demo/internal/mcp"
	"github.com/PulseWire/pulsewire-demo/internal/sse"
	"github.com/PulseWire/pulsewire-demo/internal/tools"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (s *Server) handleServerInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.ServerInfo())
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	defs := s.svc.Registry().List()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"tools": defs,
		"count": len(defs),
	})
}

func (s *Server) handleToolInfo(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	tool, err := s.svc.Registry().Get(name)
	if err != nil {
		s.toolError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tool.Definition())
}

// handleExecuteTool runs a tool synchronously. The body is the parameter
// object itself; an optional session_id query parameter attaches the
// execution to a session. Tool failures come back as error-status result
// envelopes, unknown tools as 404.
func (s *Server) handleExecuteTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, err := s.svc.Registry().Get(name); err != nil {
		s.toolError(w, err)
		return
	}

	params, ok := s.decodeParams(w, r)
	if !ok {
		return
	}

	res := s.svc.Execute(r.Context(), name, params, r.URL.Query().Get("session_id"))
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleValidateTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	params, ok := s.decodeParams(w, r)
	if !ok {
		return
	}

	err := s.svc.Registry().Validate(name, params)
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusOK, map[string]any{
			"valid":                true,
			"tool_name":            name,
			"validated_parameters": params,
		})
	case errors.Is(err, tools.ErrToolNotFound):
		s.toolError(w, err)
	default:
		s.writeJSON(w, http.StatusOK, map[string]any{
			"valid":               false,
			"tool_name":           name,
			"error":               err.Error(),
			"provided_parameters": params,
		})
	}
}

// handleExecuteToolStream runs a tool and streams the execution lifecycle
// over SSE, one frame per execution event.
func (s *Server) handleExecuteToolStream(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, err := s.svc.Registry().Get(name); err != nil {
		s.toolError(w, err)
		return
	}

	params, ok := s.decodeParams(w, r)
	if !ok {
		return
	}

	sw, err := sse.NewWriter(w)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	for ev := range s.svc.ExecuteStream(r.Context(), name, params) {
		data, err := json.Marshal(ev.Data)
		if err != nil {
			s.log.Warn("encode stream event", zap.Error(err))
			return
		}
		if err := sw.Send(sse.Frame{Kind: ev.Name, Data: string(data)}); err != nil {
			s.log.Debug("sse write error", zap.Error(err))
			return
		}
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	s.writeJSON(w, http.StatusOK, s.svc.History(limit))
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SessionID string         `json:"session_id"`
		Metadata  map[string]any `json:"metadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.SessionID == "" {
		s.writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	sess, err := s.svc.CreateSession(body.SessionID, body.Metadata)
	if err != nil {
		if errors.Is(err, mcp.ErrSessionExists) {
			s.writeError(w, http.StatusConflict, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"message": "session created",
		"session": sess,
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := s.svc.ListSessions()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"sessions":       sessions,
		"total_sessions": len(sessions),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.svc.GetSession(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, sess)
}

// handleResolveDocs resolves a library name and fetches its documentation
// in one call.
func (s *Server) handleResolveDocs(w http.ResponseWriter, r *http.Request) {
	var body struct {
		LibraryName string `json:"library_name"`
		Tokens      int    `json:"tokens"`
		Topic       string `json:"topic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.LibraryName == "" {
		s.writeError(w, http.StatusBadRequest, "library_name is required")
		return
	}

	out, err := s.svc.ResolveAndGetDocs(r.Context(), body.LibraryName, body.Tokens, body.Topic)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

// decodeParams reads the request body as a parameter object. An empty body
// means no parameters.
func (s *Server) decodeParams(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	params := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}
	return params, true
}

func (s *Server) toolError(w http.ResponseWriter, err error) {
	if errors.Is(err, tools.ErrToolNotFound) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.writeError(w, http.StatusInternalServerError, err.Error())
}
