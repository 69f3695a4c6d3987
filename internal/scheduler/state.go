package scheduler

import (
	"context"
	"sync"
	"time"

	"leaderboard-tracker/internal/constants"
	"leaderboard-tracker/internal/domain"
	"leaderboard-tracker/internal/store"

	"github.com/rs/zerolog"
)

// State is the scheduler's view of schedule metadata: when each period last ran,
// when its first baseline was captured and which snapshot is its current baseline. It is loaded once at startup and
// kept in step with every write the scheduler makes.
type State struct {
	mu          sync.RWMutex
	lastRun     map[domain.PeriodType]time.Time
	bootstraps  map[domain.PeriodType]time.Time
	snapshotIDs map[domain.PeriodType]string

	store  *store.FallbackingStore
	logger zerolog.Logger
}

func NewState(st *store.FallbackingStore, logger zerolog.Logger) (*State, error) {
	s := &State{store: st, logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
	defer cancel()

	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory state with what the store currently holds.
func (s *State) Reload(ctx context.Context) error {
	values, backend, err := s.store.ListMetadata(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load schedule metadata")
		return err
	}

	lastRun := make(map[domain.PeriodType]time.Time, len(domain.ManagedPeriods))
	bootstraps := make(map[domain.PeriodType]time.Time, len(domain.ManagedPeriods))
	snapshotIDs := make(map[domain.PeriodType]string, len(domain.ManagedPeriods))
	for _, p := range domain.ManagedPeriods {
		if t, ok := s.parseTime(values, p.LastRunKey()); ok {
			lastRun[p] = t
		}
		if t, ok := s.parseTime(values, p.BootstrapKey()); ok {
			bootstraps[p] = t
		}
		if id := values[p.LastSnapshotKey()]; id != "" {
			snapshotIDs[p] = id
		}
	}

	s.mu.Lock()
	s.lastRun = lastRun
	s.bootstraps = bootstraps
	s.snapshotIDs = snapshotIDs
	s.mu.Unlock()

	s.logger.Debug().Str("backend", string(backend)).Int("keys", len(values)).Msg("schedule state loaded")
	return nil
}

// LastRun is zero when the period has never completed a run.
func (s *State) LastRun(period domain.PeriodType) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun[period]
}

func (s *State) parseTime(values map[string]string, key string) (time.Time, bool) {
	raw := values[key]
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Str("value", raw).Msg("ignoring unparsable timestamp")
		return time.Time{}, false
	}
	return t, true
}

// BootstrappedAt is zero unless the period's first baseline was captured by the scheduler.
func (s *State) BootstrappedAt(period domain.PeriodType) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bootstraps[period]
}

func (s *State) SnapshotID(period domain.PeriodType) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotIDs[period]
}

func (s *State) setSnapshotID(period domain.PeriodType, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshotIDs[period] = id
}

// markRun persists last_<period>_run_at and then updates memory, even if only
// the fallback accepted the write.
func (s *State) markRun(ctx context.Context, period domain.PeriodType, at time.Time) error {
	if _, err := s.store.SetMetadata(ctx, period.LastRunKey(), at.UTC().Format(time.RFC3339Nano)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRun[period] = at
	return nil
}

// markBootstrap updates memory before persisting so the current process skips
// the window even when the write fails.
func (s *State) markBootstrap(ctx context.Context, period domain.PeriodType, at time.Time) error {
	s.mu.Lock()
	s.bootstraps[period] = at
	s.mu.Unlock()

	_, err := s.store.SetMetadata(ctx, period.BootstrapKey(), at.UTC().Format(time.RFC3339Nano))
	return err
}
