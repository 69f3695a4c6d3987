package repository

import (
	"context"
	"database/sql"
	"fmt"

	"leaderboard-tracker/internal/db"
	"leaderboard-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type HallOfFameRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewHallOfFameRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *HallOfFameRepository {
	return &HallOfFameRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *HallOfFameRepository) Get(ctx context.Context) (*domain.HallOfFame, error) {
	champions, err := r.queries.ListChampions(ctx)
	if err != nil {
		return nil, err
	}
	records, err := r.queries.ListRecords(ctx)
	if err != nil {
		return nil, err
	}

	hof := domain.NewHallOfFame()
	for _, c := range champions {
		hof.ChampionsFor(domain.PeriodType(c.PeriodType))[c.PlayerName] = int(c.Wins)
	}
	for _, rec := range records {
		hof.Records[rec.RecordKey] = domain.PeakRecord{
			PlayerName: rec.PlayerName,
			Value:      int(rec.Value),
			AchievedAt: rec.AchievedAt,
		}
	}
	return hof, nil
}

// Save upserts every champion count and record held by hof.
func (r *HallOfFameRepository) Save(ctx context.Context, hof *domain.HallOfFame) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	for period, counts := range hof.Champions {
		for name, wins := range counts {
			err := qtx.UpsertChampion(ctx, db.UpsertChampionParams{
				PeriodType: string(period),
				PlayerName: name,
				Wins:       int64(wins),
			})
			if err != nil {
				return fmt.Errorf("failed to upsert champion %s/%s: %w", period, name, err)
			}
		}
	}

	for key, rec := range hof.Records {
		err := qtx.UpsertRecord(ctx, db.UpsertRecordParams{
			RecordKey:  key,
			PlayerName: rec.PlayerName,
			Value:      int64(rec.Value),
			AchievedAt: rec.AchievedAt.UTC(),
		})
		if err != nil {
			return fmt.Errorf("failed to upsert record %s: %w", key, err)
		}
	}

	return tx.Commit()
}
