package fx

import (
	"context"
	"database/sql"

	"leaderboard-tracker/internal/config"
	"leaderboard-tracker/internal/database"
	"leaderboard-tracker/internal/db"
	"leaderboard-tracker/internal/logger"
	"leaderboard-tracker/internal/observability"
	"leaderboard-tracker/internal/publish"
	"leaderboard-tracker/internal/repository"
	"leaderboard-tracker/internal/scheduler"
	"leaderboard-tracker/internal/server"
	"leaderboard-tracker/internal/service"
	"leaderboard-tracker/internal/stats"
	"leaderboard-tracker/internal/store"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

// closeDatabase is registered before any consumer of the database so that it
// stops after all of them.
func closeDatabase(lc fx.Lifecycle, sqlDB *sql.DB, logger zerolog.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := sqlDB.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
				return err
			}
			logger.Info().Msg("database closed")
			return nil
		},
	})
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	observability.Module,
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	fx.Invoke(closeDatabase),
	// repos
	fx.Provide(repository.NewPlayerStatsRepository),
	fx.Provide(repository.NewSnapshotRepository),
	fx.Provide(repository.NewDeltaRepository),
	fx.Provide(repository.NewHistoryRepository),
	fx.Provide(repository.NewHallOfFameRepository),
	fx.Provide(repository.NewScheduleRepository),
	// store
	fx.Provide(store.NewPrimaryStore),
	fx.Provide(store.NewConfiguredStore),
	// stats source
	fx.Provide(stats.NewConfiguredSource),
	// svc
	fx.Provide(service.NewSnapshotService),
	fx.Provide(service.NewDeltaService),
	fx.Provide(service.NewHistoryService),
	fx.Provide(service.NewHallOfFameService),
	publish.Module,
	scheduler.Module,
	// server
	fx.Provide(server.NewReportServer),
)
