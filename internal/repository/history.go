package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"leaderboard-tracker/internal/db"
	"leaderboard-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type HistoryRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewHistoryRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *HistoryRepository {
	return &HistoryRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// Append inserts the entry and evicts the oldest rows of the period until at most
// keep remain.
func (r *HistoryRepository) Append(ctx context.Context, entry domain.HistoryEntry, keep int) error {
	summary, err := json.Marshal(entry.Summary)
	if err != nil {
		return fmt.Errorf("failed to encode history summary: %w", err)
	}
	top10, err := json.Marshal(entry.Top10)
	if err != nil {
		return fmt.Errorf("failed to encode history top 10: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	err = qtx.InsertHistoryEntry(ctx, db.InsertHistoryEntryParams{
		PeriodType: string(entry.PeriodType),
		RecordedAt: entry.Date.UTC(),
		Summary:    string(summary),
		Top10:      string(top10),
	})
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	evicted, err := qtx.TrimHistoryEntries(ctx, db.TrimHistoryEntriesParams{
		PeriodType: string(entry.PeriodType),
		Keep:       int64(keep),
	})
	if err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}
	if evicted > 0 {
		r.logger.Debug().
			Str("period_type", string(entry.PeriodType)).
			Int64("evicted", evicted).
			Msg("evicted old history entries")
	}

	return tx.Commit()
}

// List returns up to count entries, newest first.
func (r *HistoryRepository) List(ctx context.Context, period domain.PeriodType, count int) ([]domain.HistoryEntry, error) {
	rows, err := r.queries.ListHistoryEntries(ctx, db.ListHistoryEntriesParams{
		PeriodType: string(period),
		Limit:      int64(count),
	})
	if err != nil {
		return nil, err
	}

	result := make([]domain.HistoryEntry, len(rows))
	for i, row := range rows {
		entry := domain.HistoryEntry{
			Date:       row.RecordedAt,
			PeriodType: domain.PeriodType(row.PeriodType),
		}
		if err := json.Unmarshal([]byte(row.Summary), &entry.Summary); err != nil {
			return nil, fmt.Errorf("failed to decode history summary %d: %w", row.ID, err)
		}
		if err := json.Unmarshal([]byte(row.Top10), &entry.Top10); err != nil {
			return nil, fmt.Errorf("failed to decode history top 10 %d: %w", row.ID, err)
		}
		result[i] = entry
	}
	return result, nil
}

func (r *HistoryRepository) Count(ctx context.Context, period domain.PeriodType) (int, error) {
	count, err := r.queries.CountHistoryEntries(ctx, string(period))
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
