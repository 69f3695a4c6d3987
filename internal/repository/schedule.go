package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"leaderboard-tracker/internal/db"
	"leaderboard-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type ScheduleRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewScheduleRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *ScheduleRepository {
	return &ScheduleRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *ScheduleRepository) Get(ctx context.Context, key string) (string, error) {
	row, err := r.queries.GetMetadata(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", &domain.NotFoundError{Resource: "schedule metadata", ID: key}
	}
	if err != nil {
		return "", err
	}
	return row.Value, nil
}

func (r *ScheduleRepository) Set(ctx context.Context, key, value string) error {
	r.logger.Debug().Str("key", key).Str("value", value).Msg("setting schedule metadata")

	return r.queries.UpsertMetadata(ctx, db.UpsertMetadataParams{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	})
}

func (r *ScheduleRepository) List(ctx context.Context) (map[string]string, error) {
	rows, err := r.queries.ListMetadata(ctx)
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(rows))
	for _, row := range rows {
		result[row.Key] = row.Value
	}
	return result, nil
}
