package store

import (
	"context"
	"time"

	"leaderboard-tracker/internal/domain"
	"leaderboard-tracker/internal/repository"
)

// PrimaryStore is the SQLite backend. Every failure other than a missing row is
// reported as a *domain.StorageError.
type PrimaryStore struct {
	stats     *repository.PlayerStatsRepository
	snapshots *repository.SnapshotRepository
	deltas    *repository.DeltaRepository
	history   *repository.HistoryRepository
	hof       *repository.HallOfFameRepository
	schedule  *repository.ScheduleRepository
}

func NewPrimaryStore(
	stats *repository.PlayerStatsRepository,
	snapshots *repository.SnapshotRepository,
	deltas *repository.DeltaRepository,
	history *repository.HistoryRepository,
	hof *repository.HallOfFameRepository,
	schedule *repository.ScheduleRepository,
) *PrimaryStore {
	return &PrimaryStore{
		stats:     stats,
		snapshots: snapshots,
		deltas:    deltas,
		history:   history,
		hof:       hof,
		schedule:  schedule,
	}
}

func (s *PrimaryStore) ListPlayerStats(ctx context.Context) ([]domain.PlayerStat, error) {
	stats, err := s.stats.List(ctx)
	return stats, wrap("list_player_stats", err)
}

func (s *PrimaryStore) SavePlayerStats(ctx context.Context, stats []domain.PlayerStat, at time.Time) error {
	return wrap("save_player_stats", s.stats.UpsertBatch(ctx, stats, at))
}

func (s *PrimaryStore) CreateSnapshot(ctx context.Context, snapshot *domain.Snapshot) error {
	return wrap("create_snapshot", s.snapshots.Create(ctx, snapshot))
}

func (s *PrimaryStore) GetSnapshot(ctx context.Context, id string) (*domain.Snapshot, error) {
	snapshot, err := s.snapshots.Get(ctx, id)
	return snapshot, wrap("get_snapshot", err)
}

func (s *PrimaryStore) LatestSnapshot(ctx context.Context, period domain.PeriodType) (*domain.Snapshot, error) {
	snapshot, err := s.snapshots.Latest(ctx, period)
	return snapshot, wrap("latest_snapshot", err)
}

func (s *PrimaryStore) SaveDelta(ctx context.Context, delta *domain.Delta) error {
	return wrap("save_delta", s.deltas.Create(ctx, delta))
}

func (s *PrimaryStore) GetDelta(ctx context.Context, id string) (*domain.Delta, error) {
	delta, err := s.deltas.Get(ctx, id)
	return delta, wrap("get_delta", err)
}

func (s *PrimaryStore) AppendHistory(ctx context.Context, entry domain.HistoryEntry, keep int) error {
	return wrap("append_history", s.history.Append(ctx, entry, keep))
}

func (s *PrimaryStore) ListHistory(ctx context.Context, period domain.PeriodType, count int) ([]domain.HistoryEntry, error) {
	entries, err := s.history.List(ctx, period, count)
	return entries, wrap("list_history", err)
}

func (s *PrimaryStore) GetHallOfFame(ctx context.Context) (*domain.HallOfFame, error) {
	hof, err := s.hof.Get(ctx)
	return hof, wrap("get_hall_of_fame", err)
}

func (s *PrimaryStore) SaveHallOfFame(ctx context.Context, hof *domain.HallOfFame) error {
	return wrap("save_hall_of_fame", s.hof.Save(ctx, hof))
}

func (s *PrimaryStore) GetMetadata(ctx context.Context, key string) (string, error) {
	value, err := s.schedule.Get(ctx, key)
	return value, wrap("get_metadata", err)
}

func (s *PrimaryStore) SetMetadata(ctx context.Context, key, value string) error {
	return wrap("set_metadata", s.schedule.Set(ctx, key, value))
}

func (s *PrimaryStore) ListMetadata(ctx context.Context) (map[string]string, error) {
	values, err := s.schedule.List(ctx)
	return values, wrap("list_metadata", err)
}

func wrap(op string, err error) error {
	if err == nil || domain.IsNotFound(err) || domain.IsStorage(err) {
		return err
	}
	return &domain.StorageError{Op: op, Backend: string(BackendPrimary), Err: err}
}
