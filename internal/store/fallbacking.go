package store

import (
	"context"
	"errors"
	"time"

	"leaderboard-tracker/internal/config"
	"leaderboard-tracker/internal/domain"
	"leaderboard-tracker/internal/observability"

	"github.com/rs/zerolog"
)

// FallbackingStore tries the primary backend first and retries writes against
// the fallback when the primary reports a StorageError. The two backends are
// never reconciled. Reads fall back only for player stats and snapshots.
//
// Every method reports which backend served it.
type FallbackingStore struct {
	primary  Store
	fallback Store
	logger   zerolog.Logger
	metrics  *observability.Metrics
}

// NewFallbackingStore composes the backends. A nil fallback disables fallback
// entirely and every operation is served by primary.
func NewFallbackingStore(primary, fallback Store, logger zerolog.Logger, metrics *observability.Metrics) *FallbackingStore {
	return &FallbackingStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		metrics:  metrics,
	}
}

// NewConfiguredStore resolves FALLBACK_ENABLED once at startup.
func NewConfiguredStore(cfg *config.Config, primary *PrimaryStore, logger zerolog.Logger, metrics *observability.Metrics) (*FallbackingStore, error) {
	if !cfg.FallbackEnabled {
		logger.Info().Msg("fallback store disabled")
		return NewFallbackingStore(primary, nil, logger, metrics), nil
	}

	fallback, err := NewConfiguredFileStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewFallbackingStore(primary, fallback, logger, metrics), nil
}

// FallbackEnabled reports whether a secondary store is configured.
func (s *FallbackingStore) FallbackEnabled() bool {
	return s.fallback != nil
}

func (s *FallbackingStore) ListPlayerStats(ctx context.Context) ([]domain.PlayerStat, Backend, error) {
	return readWithFallback(s, "list_player_stats", true,
		func(st Store) ([]domain.PlayerStat, error) { return st.ListPlayerStats(ctx) },
		func(v []domain.PlayerStat) bool { return len(v) == 0 },
	)
}

func (s *FallbackingStore) SavePlayerStats(ctx context.Context, stats []domain.PlayerStat, at time.Time) (Backend, error) {
	return s.write("save_player_stats", func(st Store) error { return st.SavePlayerStats(ctx, stats, at) })
}

func (s *FallbackingStore) CreateSnapshot(ctx context.Context, snapshot *domain.Snapshot) (Backend, error) {
	return s.write("create_snapshot", func(st Store) error { return st.CreateSnapshot(ctx, snapshot) })
}

func (s *FallbackingStore) GetSnapshot(ctx context.Context, id string) (*domain.Snapshot, Backend, error) {
	return readWithFallback(s, "get_snapshot", true,
		func(st Store) (*domain.Snapshot, error) { return st.GetSnapshot(ctx, id) },
		func(v *domain.Snapshot) bool { return v == nil },
	)
}

func (s *FallbackingStore) LatestSnapshot(ctx context.Context, period domain.PeriodType) (*domain.Snapshot, Backend, error) {
	return readWithFallback(s, "latest_snapshot", true,
		func(st Store) (*domain.Snapshot, error) { return st.LatestSnapshot(ctx, period) },
		func(v *domain.Snapshot) bool { return v == nil },
	)
}

func (s *FallbackingStore) SaveDelta(ctx context.Context, delta *domain.Delta) (Backend, error) {
	return s.write("save_delta", func(st Store) error { return st.SaveDelta(ctx, delta) })
}

func (s *FallbackingStore) GetDelta(ctx context.Context, id string) (*domain.Delta, Backend, error) {
	return readWithFallback(s, "get_delta", false,
		func(st Store) (*domain.Delta, error) { return st.GetDelta(ctx, id) },
		func(v *domain.Delta) bool { return v == nil },
	)
}

func (s *FallbackingStore) AppendHistory(ctx context.Context, entry domain.HistoryEntry, keep int) (Backend, error) {
	return s.write("append_history", func(st Store) error { return st.AppendHistory(ctx, entry, keep) })
}

func (s *FallbackingStore) ListHistory(ctx context.Context, period domain.PeriodType, count int) ([]domain.HistoryEntry, Backend, error) {
	return readWithFallback(s, "list_history", false,
		func(st Store) ([]domain.HistoryEntry, error) { return st.ListHistory(ctx, period, count) },
		func(v []domain.HistoryEntry) bool { return len(v) == 0 },
	)
}

func (s *FallbackingStore) GetHallOfFame(ctx context.Context) (*domain.HallOfFame, Backend, error) {
	return readWithFallback(s, "get_hall_of_fame", false,
		func(st Store) (*domain.HallOfFame, error) { return st.GetHallOfFame(ctx) },
		func(v *domain.HallOfFame) bool { return v == nil },
	)
}

func (s *FallbackingStore) SaveHallOfFame(ctx context.Context, hof *domain.HallOfFame) (Backend, error) {
	return s.write("save_hall_of_fame", func(st Store) error { return st.SaveHallOfFame(ctx, hof) })
}

func (s *FallbackingStore) GetMetadata(ctx context.Context, key string) (string, Backend, error) {
	return readWithFallback(s, "get_metadata", false,
		func(st Store) (string, error) { return st.GetMetadata(ctx, key) },
		func(v string) bool { return v == "" },
	)
}

func (s *FallbackingStore) SetMetadata(ctx context.Context, key, value string) (Backend, error) {
	return s.write("set_metadata", func(st Store) error { return st.SetMetadata(ctx, key, value) })
}

func (s *FallbackingStore) ListMetadata(ctx context.Context) (map[string]string, Backend, error) {
	return readWithFallback(s, "list_metadata", false,
		func(st Store) (map[string]string, error) { return st.ListMetadata(ctx) },
		func(v map[string]string) bool { return len(v) == 0 },
	)
}

func (s *FallbackingStore) write(op string, fn func(Store) error) (Backend, error) {
	err := fn(s.primary)
	if err == nil {
		s.observe(op, BackendPrimary, "ok")
		return BackendPrimary, nil
	}
	if !s.FallbackEnabled() || !domain.IsStorage(err) {
		s.observe(op, BackendPrimary, "error")
		return BackendPrimary, err
	}

	s.logger.Warn().Err(err).Str("op", op).Msg("primary store write failed, writing to fallback")
	s.metrics.StoreFallbacks.WithLabelValues(op).Inc()

	if ferr := fn(s.fallback); ferr != nil {
		s.observe(op, BackendFallback, "error")
		s.logger.Error().Err(ferr).AnErr("primary_err", err).Str("op", op).Msg("fallback store write failed")
		return BackendFallback, &domain.StorageError{Op: op, Backend: string(BackendFallback), Err: errors.Join(err, ferr)}
	}

	s.observe(op, BackendFallback, "ok")
	return BackendFallback, nil
}

// readWithFallback serves from primary. For eligible operations a primary that
// fails or yields nothing is retried against the fallback; the primary result
// stands unless the fallback actually has data.
func readWithFallback[T any](s *FallbackingStore, op string, eligible bool, fn func(Store) (T, error), empty func(T) bool) (T, Backend, error) {
	value, err := fn(s.primary)
	if err == nil && !empty(value) {
		s.observe(op, BackendPrimary, "ok")
		return value, BackendPrimary, nil
	}
	if !eligible || !s.FallbackEnabled() {
		s.observe(op, BackendPrimary, outcome(err))
		return value, BackendPrimary, err
	}
	if err != nil && !domain.IsStorage(err) && !domain.IsNotFound(err) {
		s.observe(op, BackendPrimary, outcome(err))
		return value, BackendPrimary, err
	}

	s.metrics.StoreFallbacks.WithLabelValues(op).Inc()
	fvalue, ferr := fn(s.fallback)
	if ferr == nil && !empty(fvalue) {
		s.logger.Warn().Err(err).Str("op", op).Msg("primary store had no data, served from fallback")
		s.observe(op, BackendFallback, "ok")
		return fvalue, BackendFallback, nil
	}
	if ferr != nil && !domain.IsNotFound(ferr) {
		s.logger.Error().Err(ferr).AnErr("primary_err", err).Str("op", op).Msg("fallback store read failed")
	}

	s.observe(op, BackendPrimary, outcome(err))
	return value, BackendPrimary, err
}

func (s *FallbackingStore) observe(op string, backend Backend, result string) {
	s.metrics.StoreOps.WithLabelValues(op, string(backend), result).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsNotFound(err):
		return "not_found"
	default:
		return "error"
	}
}
