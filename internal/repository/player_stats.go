package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"leaderboard-tracker/internal/constants"
	"leaderboard-tracker/internal/db"
	"leaderboard-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type PlayerStatsRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewPlayerStatsRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *PlayerStatsRepository {
	return &PlayerStatsRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *PlayerStatsRepository) List(ctx context.Context) ([]domain.PlayerStat, error) {
	rows, err := r.queries.ListPlayerStats(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.PlayerStat, len(rows))
	for i, row := range rows {
		result[i] = domain.PlayerStat{
			PlayerID:   row.PlayerID,
			PlayerName: row.PlayerName,
			Score:      int(row.Score),
			Kills:      int(row.Kills),
			Deaths:     int(row.Deaths),
			Revives:    int(row.Revives),
			KDRatio:    row.KdRatio,
		}
	}
	return result, nil
}

func (r *PlayerStatsRepository) UpsertBatch(ctx context.Context, stats []domain.PlayerStat, updatedAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	for i := 0; i < len(stats); i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, len(stats))

		for _, s := range stats[i:end] {
			err := qtx.UpsertPlayerStat(ctx, db.UpsertPlayerStatParams{
				PlayerID:   s.PlayerID,
				PlayerName: s.PlayerName,
				Score:      int64(s.Score),
				Kills:      int64(s.Kills),
				Deaths:     int64(s.Deaths),
				Revives:    int64(s.Revives),
				KdRatio:    s.KDRatio,
				UpdatedAt:  updatedAt.UTC(),
			})
			if err != nil {
				return fmt.Errorf("failed to upsert player stats %s: %w", s.PlayerID, err)
			}
		}
	}

	return tx.Commit()
}
