package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"leaderboard-tracker/internal/db"
	"leaderboard-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type DeltaRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewDeltaRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *DeltaRepository {
	return &DeltaRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *DeltaRepository) Create(ctx context.Context, delta *domain.Delta) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	err = qtx.InsertDelta(ctx, db.InsertDeltaParams{
		ID:             delta.ID,
		PeriodType:     string(delta.PeriodType),
		BaseSnapshotID: delta.BaseSnapshotID,
		CreatedAt:      delta.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to insert delta %s: %w", delta.ID, err)
	}

	for _, e := range delta.Entries {
		err := qtx.InsertDeltaEntry(ctx, db.InsertDeltaEntryParams{
			DeltaID:      delta.ID,
			PlayerID:     e.PlayerID,
			PlayerName:   e.PlayerName,
			ScoreDelta:   int64(e.ScoreDelta),
			KillsDelta:   int64(e.KillsDelta),
			DeathsDelta:  int64(e.DeathsDelta),
			RevivesDelta: int64(e.RevivesDelta),
			KdDelta:      e.KDDelta,
			Rank:         int64(e.Rank),
		})
		if err != nil {
			return fmt.Errorf("failed to insert delta entry %s/%s: %w", delta.ID, e.PlayerID, err)
		}
	}

	return tx.Commit()
}

func (r *DeltaRepository) Get(ctx context.Context, id string) (*domain.Delta, error) {
	header, err := r.queries.GetDelta(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "delta", ID: id}
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.queries.ListDeltaEntries(ctx, id)
	if err != nil {
		return nil, err
	}

	delta := &domain.Delta{
		ID:             header.ID,
		PeriodType:     domain.PeriodType(header.PeriodType),
		BaseSnapshotID: header.BaseSnapshotID,
		CreatedAt:      header.CreatedAt,
		Entries:        make([]domain.DeltaEntry, len(rows)),
	}
	for i, row := range rows {
		delta.Entries[i] = domain.DeltaEntry{
			PlayerID:     row.PlayerID,
			PlayerName:   row.PlayerName,
			ScoreDelta:   int(row.ScoreDelta),
			KillsDelta:   int(row.KillsDelta),
			DeathsDelta:  int(row.DeathsDelta),
			RevivesDelta: int(row.RevivesDelta),
			KDDelta:      row.KdDelta,
			Rank:         int(row.Rank),
		}
	}
	return delta, nil
}
