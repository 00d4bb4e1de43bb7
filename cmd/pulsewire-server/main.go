package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PulseWire/pulsewire-demo/internal/config"
	"github.com/PulseWire/pulsewire-demo/internal/events"
	"github.com/PulseWire/pulsewire-demo/internal/httpserver"
	"github.com/PulseWire/pulsewire-demo/internal/logging"
	"github.com/PulseWire/pulsewire-demo/internal/mcp"
	"github.com/PulseWire/pulsewire-demo/internal/reloader"
	"github.com/PulseWire/pulsewire-demo/internal/tools"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("PULSEWIRE_CONFIG")

	var cfg *config.Config
	var err error
	if cfgPath == "" {
		cfg = config.Default()
	} else {
		cfg, err = config.Load(cfgPath)
		if err != nil {
			panic(err)
		}
	}

	logger := logging.New(logging.Cfg{
		Level: cfg.Logging.Level,
		JSON:  cfg.Logging.JSON,
	})
	defer logger.Sync()

	// Banner
	fmt.Println(`
  ____        _        __        ___
 |  _ \ _   _| |___  __\ \      / (_)_ __ ___
 | |_) | | | | / __|/ _ \ \ /\ / /| | '__/ _ \
 |  __/| |_| | \__ \  __/\ V  V / | | | |  __/
 |_|    \__,_|_|___/\___| \_/\_/  |_|_|  \___|

PulseWire — SSE streaming & mock tool server
--------------------------------------------
Config:  ` + orDefault(cfgPath) + `
`)

	bus := events.NewBus()

	registry, err := tools.NewRegistry(logger, tools.Builtin()...)
	if err != nil {
		logger.Fatal("tool registry", zap.Error(err))
	}
	svc := mcp.NewService(registry, bus, logger, cfg.MCP.HistoryLimit)

	srv := httpserver.New(cfg, logger, bus, svc)

	// Hot reload con SIGHUP
	stopReload := reloader.OnSIGHUP(func() {
		if cfgPath == "" {
			return
		}
		newCfg, err := config.Load(cfgPath)
		if err != nil {
			logger.Warn("config reload failed", zap.Error(err))
			return
		}
		srv.Reload(newCfg)
		cfg = newCfg
		logger.Info("reloaded config")
	})
	defer stopReload()

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Bind, cfg.HTTP.Port)
	httpSrv := &http.Server{
		Addr:    addr,
		Handler: srv.Router(),
	}

	// HTTP server
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		if cfg.HTTP.TLS.Enabled {
			if err := httpSrv.ListenAndServeTLS(cfg.HTTP.TLS.Cert, cfg.HTTP.TLS.Key); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("http tls", zap.Error(err))
			}
		} else {
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("http", zap.Error(err))
			}
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down...")

	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctxTimeout)
	logger.Info("bye")
}

func orDefault(path string) string {
	if path == "" {
		return "(built-in defaults)"
	}
	return path
}
