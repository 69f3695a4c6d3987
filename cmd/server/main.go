package main

import (
	"context"
	"fmt"
	"net/http"

	"leaderboard-tracker/internal/config"
	"leaderboard-tracker/internal/constants"
	fxmodules "leaderboard-tracker/internal/fx"
	"leaderboard-tracker/internal/middleware"
	"leaderboard-tracker/internal/observability"
	"leaderboard-tracker/internal/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	config.LoadDotEnv()

	fx.New(
		fxmodules.Module,
		fx.Invoke(runServer),
	).Run()
}

func runServer(
	lc fx.Lifecycle,
	reportServer *server.ReportServer,
	cfg *config.Config,
	reg *prometheus.Registry,
	logger zerolog.Logger,
) {
	mux := http.NewServeMux()

	path, handler := server.NewReportServiceHandler(reportServer)
	mux.Handle(path, middleware.CORS()(handler))
	mux.Handle("/metrics", observability.Handler(reg))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           middleware.RequestID(logger)(mux),
		ReadHeaderTimeout: constants.RequestTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
