package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/PulseWire/pulsewire-demo/internal/config"
	"github.com/PulseWire/pulsewire-demo/internal/mcp"
	"github.com/PulseWire/pulsewire-demo/pkg/sdk"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Server struct {
	cfg *config.Config
	log *zap.Logger
	bus sdk.Bus
	svc *mcp.Service
	r   *chi.Mux
}

func New(cfg *config.Config, log *zap.Logger, bus sdk.Bus, svc *mcp.Service) *Server {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))
	s := &Server{cfg: cfg, log: log, bus: bus, svc: svc, r: r}
	s.routes()
	return s
}

func (s *Server) Router() http.Handler      { return s.r }
func (s *Server) Reload(cfg *config.Config) { s.cfg = cfg }

func (s *Server) routes() {
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]any{
			"name":    mcp.ServerName,
			"version": mcp.ServerVersion,
			"time":    time.Now().UTC(),
		})
	})

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]any{
			"status":   "healthy",
			"server":   mcp.ServerName,
			"version":  mcp.ServerVersion,
			"services": []string{"stream", "tools"},
		})
	})

	// SSE endpoints
	s.r.Get("/stream", s.handleStream)
	s.r.Get("/metrics", s.handleMetrics)
	s.r.Get("/realtime/{channel}", s.handleRealtime)

	s.r.Post("/api/broadcast", s.handleBroadcast)

	// Tool-calling surface
	s.r.Route("/mcp", func(r chi.Router) {
		r.Get("/info", s.handleServerInfo)
		r.Get("/tools", s.handleListTools)
		r.Get("/tools/{name}", s.handleToolInfo)
		r.Post("/tools/{name}/execute", s.handleExecuteTool)
		r.Post("/tools/{name}/validate", s.handleValidateTool)
		r.Get("/tools/{name}/stream", s.handleExecuteToolStream)
		r.Post("/tools/{name}/stream", s.handleExecuteToolStream)
		r.Get("/history", s.handleHistory)
		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions", s.handleListSessions)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Post("/docs", s.handleResolveDocs)
	})

	s.r.Get("/ws", s.handleWebsocket)
}

// handleBroadcast acknowledges an arbitrary JSON body, echoing the message
// text with a server timestamp, and publishes it on the bus. There is no
// real fan-out beyond in-process subscribers.
func (s *Server) handleBroadcast(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	message, _ := body["message"].(string)
	s.bus.Publish(sdk.Event{Type: "broadcast", Data: body})

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "success",
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// handleWebsocket streams bus events over a websocket connection.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// suscripción al bus
	ch := s.bus.Subscribe()
	defer s.bus.Unsubscribe(ch)

	done := make(chan struct{})

	// escritor: empuja eventos al cliente; los pings refrescan el
	// deadline de lectura vía pong, para que un cliente ocioso no caduque
	go func() {
		ping := time.NewTicker(20 * time.Second)
		defer ping.Stop()
		for {
			select {
			case ev, ok := <-ch:
				if !ok {
					return
				}
				// si el cliente se fue, WriteJSON devolverá error y salimos
				if err := conn.WriteJSON(ev); err != nil {
					s.log.Debug("ws write error", zap.Error(err))
					_ = conn.Close()
					return
				}
			case <-ping.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
					_ = conn.Close()
					return
				}
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	// lector mínimo para detectar cierre del cliente (control frames)
	conn.SetReadLimit(1024)
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, map[string]any{"status": "error", "message": msg})
}
