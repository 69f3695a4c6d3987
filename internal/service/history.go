package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"leaderboard-tracker/internal/constants"
	"leaderboard-tracker/internal/domain"
	"leaderboard-tracker/internal/store"

	"github.com/rs/zerolog"
)

type HistoryService struct {
	store  *store.FallbackingStore
	logger zerolog.Logger
	now    func() time.Time
}

func NewHistoryService(st *store.FallbackingStore, logger zerolog.Logger) *HistoryService {
	return &HistoryService{store: st, logger: logger, now: time.Now}
}

// Append summarizes a ranked delta into the period's ledger, evicting the
// oldest entries beyond the period's capacity. An empty delta is not recorded.
func (s *HistoryService) Append(ctx context.Context, period domain.PeriodType, entries []domain.DeltaEntry) error {
	if err := period.Validate(); err != nil {
		return err
	}
	if len(entries) == 0 {
		s.logger.Debug().Str("period_type", string(period)).Msg("no active players, history unchanged")
		return nil
	}

	entry := BuildHistoryEntry(period, entries, s.now())

	backend, err := s.store.AppendHistory(ctx, entry, period.HistoryCap())
	if err != nil {
		s.logger.Error().Err(err).Str("period_type", string(period)).Msg("failed to append history")
		return fmt.Errorf("failed to append history: %w", err)
	}

	s.logger.Info().
		Str("period_type", string(period)).
		Int("total_active", entry.Summary.TotalActive).
		Str("backend", string(backend)).
		Msg("history entry appended")

	return nil
}

// List returns up to count entries newest first. A non-positive count uses the default.
func (s *HistoryService) List(ctx context.Context, period domain.PeriodType, count int) ([]domain.HistoryEntry, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	if count <= 0 {
		count = constants.DefaultHistoryCount
	}
	count = min(count, period.HistoryCap())

	entries, _, err := s.store.ListHistory(ctx, period, count)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	return entries, nil
}

// BuildHistoryEntry computes the period summary and keeps the top ranked entries.
// Category leaders go to the first entry in rank order on ties.
func BuildHistoryEntry(period domain.PeriodType, entries []domain.DeltaEntry, now time.Time) domain.HistoryEntry {
	ranked := byRank(entries)

	entry := domain.HistoryEntry{
		Date:       now.UTC(),
		PeriodType: period,
		Summary:    domain.HistorySummary{TotalActive: len(ranked)},
		Top10:      ranked[:min(len(ranked), constants.HistoryTopN)],
	}
	if len(ranked) == 0 {
		return entry
	}

	var totalScore, totalKills int
	top, kills, kd := ranked[0], ranked[0], ranked[0]
	for _, e := range ranked {
		totalScore += e.ScoreDelta
		totalKills += e.KillsDelta
		if e.ScoreDelta > top.ScoreDelta {
			top = e
		}
		if e.KillsDelta > kills.KillsDelta {
			kills = e
		}
		if e.KDDelta > kd.KDDelta {
			kd = e
		}
	}

	entry.Summary.TopScorer = domain.Leader{PlayerName: displayName(top), Value: float64(top.ScoreDelta)}
	entry.Summary.MostKills = domain.Leader{PlayerName: displayName(kills), Value: float64(kills.KillsDelta)}
	entry.Summary.BestKD = domain.Leader{PlayerName: displayName(kd), Value: kd.KDDelta}
	entry.Summary.AvgScore = round2(float64(totalScore) / float64(len(ranked)))
	entry.Summary.AvgKills = round2(float64(totalKills) / float64(len(ranked)))

	return entry
}

// byRank returns a copy of entries ordered by rank, then player id.
func byRank(entries []domain.DeltaEntry) []domain.DeltaEntry {
	ranked := slices.Clone(entries)
	if ranked == nil {
		ranked = []domain.DeltaEntry{}
	}
	slices.SortStableFunc(ranked, func(a, b domain.DeltaEntry) int {
		if c := cmp.Compare(a.Rank, b.Rank); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	})
	return ranked
}

func displayName(e domain.DeltaEntry) string {
	if e.PlayerName != "" {
		return e.PlayerName
	}
	return e.PlayerID
}
