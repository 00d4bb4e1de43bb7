package httpserver

import (
	"net/http"

	"github.com/PulseWire/pulsewire-demo/internal/sse"
	"github.com/PulseWire/pulsewire-demo/internal/stream"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SSE endpoints. Each connection gets its own producer with a fresh
// sequence counter; the disconnect probe is the request context.

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	s.serveStream(w, r, stream.Mixed(s.cfg.StreamInterval()))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.serveStream(w, r, stream.Metrics(s.cfg.StreamInterval()))
}

func (s *Server) handleRealtime(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")
	s.serveStream(w, r, stream.Channel(channel, s.cfg.StreamInterval()))
}

func (s *Server) serveStream(w http.ResponseWriter, r *http.Request, cfg stream.Config) {
	sw, err := sse.NewWriter(w)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ctx := r.Context()
	probe := func() bool { return ctx.Err() != nil }

	p := stream.NewProducer(cfg)
	for f := range p.Frames(ctx, probe) {
		if err := sw.Send(f); err != nil {
			s.log.Debug("sse write error", zap.Error(err))
			return
		}
	}
	s.log.Debug("sse stream closed",
		zap.String("path", r.URL.Path),
		zap.Int("events", p.Seq()-1))
}
