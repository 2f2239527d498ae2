package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	handlers "github.com/sell-tools/margin-atlas/pkg/handlers/report"
	marginmiddleware "github.com/sell-tools/margin-atlas/pkg/server/middleware"
	"github.com/sell-tools/margin-atlas/pkg/services/config"
	"github.com/sell-tools/margin-atlas/pkg/services/report"
)

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Reports  report.Service
	Registry config.Registry
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	// RequestsPerSecond / Burst tune the inbound per-caller limiter.
	RequestsPerSecond float64
	Burst             int
	Dependencies      Dependencies
}

func NewWebAPI(logger zerolog.Logger, cfg Config) *WebAPI {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	handler := handlers.NewHandler(cfg.Dependencies.Reports, cfg.Dependencies.Registry)

	router := chi.NewRouter()
	router.Use(marginmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)
	router.Use(marginmiddleware.RateLimit(cfg.RequestsPerSecond, cfg.Burst))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/accounts", handler.ListAccounts)
		r.Get("/accounts/{account}/report", handler.GetReport)
	})

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    cfg.Addr,
			Handler: router,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Router exposes the configured mux, mainly for tests.
func (w *WebAPI) Router() http.Handler { return w.router }

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
