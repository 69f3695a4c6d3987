package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"leaderboard-tracker/internal/constants"
	"leaderboard-tracker/internal/db"
	"leaderboard-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type SnapshotRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewSnapshotRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// Create writes the snapshot header and all of its entries in one transaction.
func (r *SnapshotRepository) Create(ctx context.Context, snapshot *domain.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	err = qtx.InsertSnapshot(ctx, db.InsertSnapshotParams{
		ID:         snapshot.ID,
		PeriodType: string(snapshot.PeriodType),
		CreatedAt:  snapshot.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to insert snapshot %s: %w", snapshot.ID, err)
	}

	for i := 0; i < len(snapshot.Entries); i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, len(snapshot.Entries))

		for _, e := range snapshot.Entries[i:end] {
			err := qtx.InsertSnapshotEntry(ctx, db.InsertSnapshotEntryParams{
				SnapshotID: snapshot.ID,
				PlayerID:   e.PlayerID,
				PlayerName: e.PlayerName,
				Score:      int64(e.Score),
				Kills:      int64(e.Kills),
				Deaths:     int64(e.Deaths),
				Revives:    int64(e.Revives),
				KdRatio:    e.KDRatio,
			})
			if err != nil {
				return fmt.Errorf("failed to insert snapshot entry %s/%s: %w", snapshot.ID, e.PlayerID, err)
			}
		}
	}

	return tx.Commit()
}

func (r *SnapshotRepository) Get(ctx context.Context, id string) (*domain.Snapshot, error) {
	header, err := r.queries.GetSnapshot(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "snapshot", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return r.withEntries(ctx, header)
}

func (r *SnapshotRepository) Latest(ctx context.Context, period domain.PeriodType) (*domain.Snapshot, error) {
	header, err := r.queries.GetLatestSnapshotByPeriod(ctx, string(period))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "snapshot for period", ID: string(period)}
	}
	if err != nil {
		return nil, err
	}
	return r.withEntries(ctx, header)
}

func (r *SnapshotRepository) withEntries(ctx context.Context, header db.Snapshot) (*domain.Snapshot, error) {
	rows, err := r.queries.ListSnapshotEntries(ctx, header.ID)
	if err != nil {
		return nil, err
	}

	snapshot := &domain.Snapshot{
		ID:         header.ID,
		PeriodType: domain.PeriodType(header.PeriodType),
		CreatedAt:  header.CreatedAt,
		Entries:    make([]domain.SnapshotEntry, len(rows)),
	}
	for i, row := range rows {
		snapshot.Entries[i] = domain.SnapshotEntry{
			PlayerID:   row.PlayerID,
			PlayerName: row.PlayerName,
			Score:      int(row.Score),
			Kills:      int(row.Kills),
			Deaths:     int(row.Deaths),
			Revives:    int(row.Revives),
			KDRatio:    row.KdRatio,
		}
	}
	return snapshot, nil
}
