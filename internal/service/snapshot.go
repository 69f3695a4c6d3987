package service

import (
	"context"
	"fmt"
	"time"

	"leaderboard-tracker/internal/constants"
	"leaderboard-tracker/internal/domain"
	"leaderboard-tracker/internal/observability"
	"leaderboard-tracker/internal/stats"
	"leaderboard-tracker/internal/store"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type SnapshotService struct {
	source  stats.Source
	store   *store.FallbackingStore
	metrics *observability.Metrics
	logger  zerolog.Logger
	now     func() time.Time
}

func NewSnapshotService(source stats.Source, st *store.FallbackingStore, metrics *observability.Metrics, logger zerolog.Logger) *SnapshotService {
	return &SnapshotService{source: source, store: st, metrics: metrics, logger: logger, now: time.Now}
}

// CreateSnapshot captures every non-empty player's current stats as a new,
// immutable snapshot for period and records it as the period's baseline.
func (s *SnapshotService) CreateSnapshot(ctx context.Context, period domain.PeriodType) (string, error) {
	if err := period.Validate(); err != nil {
		return "", err
	}

	readCtx, cancel := context.WithTimeout(ctx, constants.StatsSourceTimeout)
	defer cancel()

	players, err := s.source.ListActivePlayers(readCtx)
	if err != nil {
		s.logger.Error().Err(err).Str("period_type", string(period)).Msg("failed to read stats for snapshot")
		return "", fmt.Errorf("failed to read stats: %w", err)
	}

	entries := make([]domain.SnapshotEntry, 0, len(players))
	for _, p := range players {
		if err := domain.ValidateStat(p); err != nil {
			s.logger.Warn().Err(err).Str("player_id", p.PlayerID).Msg("rejecting snapshot with malformed stats")
			return "", err
		}
		if p.IsEmpty() {
			continue
		}
		entries = append(entries, domain.SnapshotEntry{
			PlayerID:   p.PlayerID,
			PlayerName: p.PlayerName,
			Score:      p.Score,
			Kills:      p.Kills,
			Deaths:     p.Deaths,
			Revives:    p.Revives,
			KDRatio:    p.KDRatio,
		})
	}

	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate nanoid: %w", err)
	}

	snapshot := &domain.Snapshot{
		ID:         id,
		PeriodType: period,
		CreatedAt:  s.now().UTC(),
		Entries:    entries,
	}

	backend, err := s.store.CreateSnapshot(ctx, snapshot)
	if err != nil {
		s.logger.Error().Err(err).Str("period_type", string(period)).Msg("failed to store snapshot")
		return "", fmt.Errorf("failed to store snapshot: %w", err)
	}
	s.metrics.SnapshotsCreated.WithLabelValues(string(period), string(backend)).Inc()

	if _, err := s.store.SetMetadata(ctx, period.LastSnapshotKey(), id); err != nil {
		s.logger.Error().Err(err).Str("snapshot_id", id).Msg("failed to record snapshot id")
		return "", fmt.Errorf("failed to record snapshot id: %w", err)
	}

	s.logger.Info().
		Str("snapshot_id", id).
		Str("period_type", string(period)).
		Int("entries", len(entries)).
		Str("backend", string(backend)).
		Msg("snapshot created")

	return id, nil
}

func (s *SnapshotService) GetSnapshot(ctx context.Context, id string) (*domain.Snapshot, error) {
	snapshot, _, err := s.store.GetSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// LatestSnapshotID returns the period's current baseline: the recorded
// last_<period>_snapshot_id, or the newest stored snapshot when none is recorded.
func (s *SnapshotService) LatestSnapshotID(ctx context.Context, period domain.PeriodType) (string, error) {
	if err := period.Validate(); err != nil {
		return "", err
	}

	id, _, err := s.store.GetMetadata(ctx, period.LastSnapshotKey())
	if err == nil && id != "" {
		return id, nil
	}
	if err != nil && !domain.IsNotFound(err) {
		s.logger.Warn().Err(err).Str("period_type", string(period)).Msg("failed to read snapshot metadata")
	}

	snapshot, backend, err := s.store.LatestSnapshot(ctx, period)
	if err != nil {
		return "", err
	}
	s.logger.Debug().
		Str("snapshot_id", snapshot.ID).
		Str("backend", string(backend)).
		Msg("resolved baseline from latest stored snapshot")
	return snapshot.ID, nil
}
