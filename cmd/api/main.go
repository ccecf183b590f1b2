package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sip-bridge/internal/bridge"
	"sip-bridge/internal/config"
	"sip-bridge/internal/pjsua"
	"sip-bridge/internal/status"
	"sip-bridge/internal/supervisor"
	"sip-bridge/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	binPath, locateErr := pjsua.Locate()
	if locateErr != nil {
		// The supervisor is never started without a binary; the API
		// still comes up so /status can report why.
		log.Error("pjsua binary not found", "err", locateErr)
	}

	// Wired after the supervisor because its callbacks close over them.
	var (
		br  *bridge.Bridge
		agg *status.Aggregator
	)

	sup := supervisor.New(binPath, pjsua.ConfigArgs(cfg), supervisor.Options{
		MaxRestarts:    supervisor.DefaultMaxRestarts,
		RestartBackoff: supervisor.DefaultRestartBackoff,
		Logger:         log,
		OnLine: func(line string) {
			if ev, ok := pjsua.ParseLine(line); ok {
				log.Info("pjsua event", "kind", ev.Kind.String(), "line", line)
				agg.Observe(ev)
				br.Observe(ev)
			}
		},
		OnExit: func(err error) {
			agg.ResetRegistration()
			br.ProcessExited()
		},
	})
	br = bridge.New(sup, cfg.SIPServer)
	agg = status.NewAggregator(cfg.SIPServer, cfg.Extension, binPath, sup, br)

	if locateErr != nil {
		agg.SetStartupError(locateErr)
	} else if err := sup.Start(rootCtx); err != nil {
		log.Error("pjsua start failed", "err", err)
		agg.SetStartupError(err)
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, httpapiHandlers(br, agg))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("control api listening", "addr", srv.Addr, "server", cfg.SIPServer, "extension", cfg.Extension)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}

	// The child must be gone before we exit.
	sup.Stop()
	log.Info("shutdown complete")
}
