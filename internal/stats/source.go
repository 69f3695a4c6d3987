// Package stats reads current cumulative player statistics for the engine.
package stats

import (
	"context"
	"fmt"

	"leaderboard-tracker/internal/config"
	"leaderboard-tracker/internal/domain"
	"leaderboard-tracker/internal/store"

	"github.com/rs/zerolog"
)

type Source interface {
	ListActivePlayers(ctx context.Context) ([]domain.PlayerStat, error)
}

// StoreSource reads the player_stats collection maintained by the profile store.
type StoreSource struct {
	store  *store.FallbackingStore
	logger zerolog.Logger
}

func NewStoreSource(st *store.FallbackingStore, logger zerolog.Logger) *StoreSource {
	return &StoreSource{store: st, logger: logger}
}

func (s *StoreSource) ListActivePlayers(ctx context.Context) ([]domain.PlayerStat, error) {
	players, backend, err := s.store.ListPlayerStats(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("backend", string(backend)).Msg("failed to list player stats")
		return nil, fmt.Errorf("failed to list player stats: %w", err)
	}

	s.logger.Debug().Int("count", len(players)).Str("backend", string(backend)).Msg("player stats loaded")
	return players, nil
}

// NewConfiguredSource picks the stats source named by STATS_SOURCE.
func NewConfiguredSource(cfg *config.Config, st *store.FallbackingStore, logger zerolog.Logger) Source {
	if cfg.StatsSource == config.StatsSourceHTTP {
		return NewHTTPSource(cfg.StatsAPIURL, cfg.StatsAPIKey, st, logger)
	}
	return NewStoreSource(st, logger)
}
