package service

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"leaderboard-tracker/internal/constants"
	"leaderboard-tracker/internal/domain"
	"leaderboard-tracker/internal/observability"
	"leaderboard-tracker/internal/stats"
	"leaderboard-tracker/internal/store"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type DeltaService struct {
	source    stats.Source
	store     *store.FallbackingStore
	snapshots *SnapshotService
	metrics   *observability.Metrics
	logger    zerolog.Logger
	now       func() time.Time
}

func NewDeltaService(source stats.Source, st *store.FallbackingStore, snapshots *SnapshotService, metrics *observability.Metrics, logger zerolog.Logger) *DeltaService {
	return &DeltaService{source: source, store: st, snapshots: snapshots, metrics: metrics, logger: logger, now: time.Now}
}

// CalculateDeltas compares the snapshot against current stats and returns the
// ranked entries of every player active since the snapshot.
func (s *DeltaService) CalculateDeltas(ctx context.Context, snapshotID string) ([]domain.DeltaEntry, error) {
	snapshot, backend, err := s.store.GetSnapshot(ctx, snapshotID)
	if err != nil {
		s.logger.Error().Err(err).Str("snapshot_id", snapshotID).Msg("failed to load snapshot")
		return nil, err
	}

	// current stats must be readable even when the baseline is empty
	readCtx, cancel := context.WithTimeout(ctx, constants.StatsSourceTimeout)
	defer cancel()

	players, err := s.source.ListActivePlayers(readCtx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read current stats")
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}
	for _, p := range players {
		if err := domain.ValidateStat(p); err != nil {
			return nil, err
		}
	}

	if len(snapshot.Entries) == 0 {
		s.logger.Info().Str("snapshot_id", snapshotID).Msg("snapshot has no baseline data")
		return []domain.DeltaEntry{}, nil
	}

	entries := ComputeDeltas(snapshot.Entries, players)
	s.metrics.DeltaEntriesCount.WithLabelValues(string(snapshot.PeriodType)).Set(float64(len(entries)))

	s.logger.Info().
		Str("snapshot_id", snapshotID).
		Str("backend", string(backend)).
		Int("baseline", len(snapshot.Entries)).
		Int("active", len(entries)).
		Msg("deltas calculated")

	return entries, nil
}

// PreviewDeltas calculates against the period's current baseline without writing anything.
func (s *DeltaService) PreviewDeltas(ctx context.Context, period domain.PeriodType) ([]domain.DeltaEntry, error) {
	snapshotID, err := s.snapshots.LatestSnapshotID(ctx, period)
	if err != nil {
		return nil, err
	}
	return s.CalculateDeltas(ctx, snapshotID)
}

// Record persists a computed delta for later audit.
func (s *DeltaService) Record(ctx context.Context, period domain.PeriodType, baseSnapshotID string, entries []domain.DeltaEntry) (*domain.Delta, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nanoid: %w", err)
	}

	delta := &domain.Delta{
		ID:             id,
		PeriodType:     period,
		BaseSnapshotID: baseSnapshotID,
		CreatedAt:      s.now().UTC(),
		Entries:        entries,
	}

	backend, err := s.store.SaveDelta(ctx, delta)
	if err != nil {
		return nil, fmt.Errorf("failed to store delta: %w", err)
	}

	s.logger.Debug().Str("delta_id", id).Str("backend", string(backend)).Msg("delta recorded")
	return delta, nil
}

// ComputeDeltas subtracts baseline from current per player. Players missing from
// the baseline count from zero. Players with neither score nor kills gained are
// dropped. The result is ranked by score delta, ties by player id.
func ComputeDeltas(baseline []domain.SnapshotEntry, current []domain.PlayerStat) []domain.DeltaEntry {
	base := make(map[string]domain.SnapshotEntry, len(baseline))
	for _, e := range baseline {
		base[e.PlayerID] = e
	}

	entries := make([]domain.DeltaEntry, 0, len(current))
	for _, p := range current {
		if p.IsEmpty() {
			continue
		}
		b := base[p.PlayerID]

		d := domain.DeltaEntry{
			PlayerID:     p.PlayerID,
			PlayerName:   p.PlayerName,
			ScoreDelta:   p.Score - b.Score,
			KillsDelta:   p.Kills - b.Kills,
			DeathsDelta:  p.Deaths - b.Deaths,
			RevivesDelta: p.Revives - b.Revives,
		}
		if d.ScoreDelta <= 0 && d.KillsDelta <= 0 {
			continue
		}
		d.KDDelta = kdDelta(d.KillsDelta, d.DeathsDelta)
		entries = append(entries, d)
	}

	slices.SortFunc(entries, func(a, b domain.DeltaEntry) int {
		if c := cmp.Compare(b.ScoreDelta, a.ScoreDelta); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries
}

// kdDelta treats every kill as free when no deaths occurred in the period.
func kdDelta(kills, deaths int) float64 {
	if deaths > 0 {
		return round2(float64(kills) / float64(deaths))
	}
	return float64(kills)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
