package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"leaderboard-tracker/internal/database"
	"leaderboard-tracker/internal/db"
	"leaderboard-tracker/internal/domain"
	"leaderboard-tracker/internal/observability"
	"leaderboard-tracker/internal/repository"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

var errBackendDown = errors.New("backend down")

// failingStore reports a storage failure for every operation.
type failingStore struct{}

func (failingStore) fail(op string) error {
	return &domain.StorageError{Op: op, Backend: "broken", Err: errBackendDown}
}

func (f failingStore) ListPlayerStats(context.Context) ([]domain.PlayerStat, error) {
	return nil, f.fail("list_player_stats")
}
func (f failingStore) SavePlayerStats(context.Context, []domain.PlayerStat, time.Time) error {
	return f.fail("save_player_stats")
}
func (f failingStore) CreateSnapshot(context.Context, *domain.Snapshot) error {
	return f.fail("create_snapshot")
}
func (f failingStore) GetSnapshot(context.Context, string) (*domain.Snapshot, error) {
	return nil, f.fail("get_snapshot")
}
func (f failingStore) LatestSnapshot(context.Context, domain.PeriodType) (*domain.Snapshot, error) {
	return nil, f.fail("latest_snapshot")
}
func (f failingStore) SaveDelta(context.Context, *domain.Delta) error { return f.fail("save_delta") }
func (f failingStore) GetDelta(context.Context, string) (*domain.Delta, error) {
	return nil, f.fail("get_delta")
}
func (f failingStore) AppendHistory(context.Context, domain.HistoryEntry, int) error {
	return f.fail("append_history")
}
func (f failingStore) ListHistory(context.Context, domain.PeriodType, int) ([]domain.HistoryEntry, error) {
	return nil, f.fail("list_history")
}
func (f failingStore) GetHallOfFame(context.Context) (*domain.HallOfFame, error) {
	return nil, f.fail("get_hall_of_fame")
}
func (f failingStore) SaveHallOfFame(context.Context, *domain.HallOfFame) error {
	return f.fail("save_hall_of_fame")
}
func (f failingStore) GetMetadata(context.Context, string) (string, error) {
	return "", f.fail("get_metadata")
}
func (f failingStore) SetMetadata(context.Context, string, string) error {
	return f.fail("set_metadata")
}
func (f failingStore) ListMetadata(context.Context) (map[string]string, error) {
	return nil, f.fail("list_metadata")
}

func openTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "fallback"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open file store: %v", err)
	}
	return s
}

func testMetrics() *observability.Metrics {
	return observability.NewMetrics(prometheus.NewRegistry())
}

func testSnapshot(id string, period domain.PeriodType, at time.Time) *domain.Snapshot {
	return &domain.Snapshot{
		ID:         id,
		PeriodType: period,
		CreatedAt:  at,
		Entries:    []domain.SnapshotEntry{{PlayerID: "p1", PlayerName: "Alpha", Score: 100}},
	}
}

func TestFileStoreSnapshotsAreImmutable(t *testing.T) {
	s := openTestFileStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	if err := s.CreateSnapshot(ctx, testSnapshot("snap-1", domain.PeriodWeekly, now)); err != nil {
		t.Fatalf("create snapshot: %v", err)
	}
	err := s.CreateSnapshot(ctx, testSnapshot("snap-1", domain.PeriodWeekly, now))
	if !domain.IsStorage(err) {
		t.Fatalf("expected storage error on overwrite, got %v", err)
	}

	got, err := s.GetSnapshot(ctx, "snap-1")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if len(got.Entries) != 1 || got.Entries[0].Score != 100 {
		t.Fatalf("unexpected entries %+v", got.Entries)
	}

	if _, err := s.GetSnapshot(ctx, "missing"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFileStoreLatestSnapshot(t *testing.T) {
	s := openTestFileStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	for _, snap := range []*domain.Snapshot{
		testSnapshot("a", domain.PeriodWeekly, now.Add(-time.Hour)),
		testSnapshot("b", domain.PeriodWeekly, now),
		testSnapshot("c", domain.PeriodMonthly, now.Add(time.Hour)),
	} {
		if err := s.CreateSnapshot(ctx, snap); err != nil {
			t.Fatalf("create snapshot %s: %v", snap.ID, err)
		}
	}

	latest, err := s.LatestSnapshot(ctx, domain.PeriodWeekly)
	if err != nil {
		t.Fatalf("latest snapshot: %v", err)
	}
	if latest.ID != "b" {
		t.Fatalf("expected b, got %s", latest.ID)
	}
}

func TestFileStoreHistoryRingBuffer(t *testing.T) {
	s := openTestFileStore(t)
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 14; i++ {
		entry := domain.HistoryEntry{
			Date:       start.AddDate(0, i, 0),
			PeriodType: domain.PeriodMonthly,
			Summary:    domain.HistorySummary{TotalActive: i},
		}
		if err := s.AppendHistory(ctx, entry, domain.PeriodMonthly.HistoryCap()); err != nil {
			t.Fatalf("append history %d: %v", i, err)
		}
	}

	entries, err := s.ListHistory(ctx, domain.PeriodMonthly, 100)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != 12 {
		t.Fatalf("expected 12 entries, got %d", len(entries))
	}
	if entries[0].Summary.TotalActive != 13 {
		t.Fatalf("expected newest first, got %d", entries[0].Summary.TotalActive)
	}
	if entries[11].Summary.TotalActive != 2 {
		t.Fatalf("expected two oldest evicted, oldest remaining %d", entries[11].Summary.TotalActive)
	}

	limited, err := s.ListHistory(ctx, domain.PeriodMonthly, 3)
	if err != nil {
		t.Fatalf("list limited history: %v", err)
	}
	if len(limited) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(limited))
	}
}

func TestFileStorePlayerStatsMerge(t *testing.T) {
	s := openTestFileStore(t)
	ctx := context.Background()
	now := time.Now()

	if err := s.SavePlayerStats(ctx, []domain.PlayerStat{{PlayerID: "p1", Score: 10}, {PlayerID: "p2", Score: 20}}, now); err != nil {
		t.Fatalf("save stats: %v", err)
	}
	if err := s.SavePlayerStats(ctx, []domain.PlayerStat{{PlayerID: "p1", Score: 15}}, now); err != nil {
		t.Fatalf("save stats again: %v", err)
	}

	stats, err := s.ListPlayerStats(ctx)
	if err != nil {
		t.Fatalf("list stats: %v", err)
	}
	if len(stats) != 2 || stats[0].Score != 15 || stats[1].Score != 20 {
		t.Fatalf("unexpected merged stats %+v", stats)
	}
}

func TestFileStoreMetadataAndHallOfFame(t *testing.T) {
	s := openTestFileStore(t)
	ctx := context.Background()

	if _, err := s.GetMetadata(ctx, "missing"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := s.SetMetadata(ctx, "last_weekly_snapshot_id", "snap-1"); err != nil {
		t.Fatalf("set metadata: %v", err)
	}
	value, err := s.GetMetadata(ctx, "last_weekly_snapshot_id")
	if err != nil || value != "snap-1" {
		t.Fatalf("expected snap-1, got %q (%v)", value, err)
	}

	hof := domain.NewHallOfFame()
	hof.ChampionsFor(domain.PeriodWeekly)["Alpha"] = 3
	if err := s.SaveHallOfFame(ctx, hof); err != nil {
		t.Fatalf("save hall of fame: %v", err)
	}
	got, err := s.GetHallOfFame(ctx)
	if err != nil {
		t.Fatalf("get hall of fame: %v", err)
	}
	if got.ChampionsFor(domain.PeriodWeekly)["Alpha"] != 3 {
		t.Fatalf("unexpected champions %+v", got.Champions)
	}
}

func TestFallbackingWriteUsesPrimary(t *testing.T) {
	primary := openTestFileStore(t)
	fallback := openTestFileStore(t)
	s := NewFallbackingStore(primary, fallback, zerolog.Nop(), testMetrics())
	ctx := context.Background()

	backend, err := s.CreateSnapshot(ctx, testSnapshot("snap-1", domain.PeriodWeekly, time.Now()))
	if err != nil {
		t.Fatalf("create snapshot: %v", err)
	}
	if backend != BackendPrimary {
		t.Fatalf("expected primary, got %s", backend)
	}
	if _, err := fallback.GetSnapshot(ctx, "snap-1"); !domain.IsNotFound(err) {
		t.Fatalf("expected fallback untouched, got %v", err)
	}
}

func TestFallbackingWriteFallsBackOnStorageError(t *testing.T) {
	fallback := openTestFileStore(t)
	metrics := testMetrics()
	s := NewFallbackingStore(failingStore{}, fallback, zerolog.Nop(), metrics)
	ctx := context.Background()

	backend, err := s.CreateSnapshot(ctx, testSnapshot("snap-1", domain.PeriodWeekly, time.Now()))
	if err != nil {
		t.Fatalf("create snapshot: %v", err)
	}
	if backend != BackendFallback {
		t.Fatalf("expected fallback, got %s", backend)
	}
	if _, err := fallback.GetSnapshot(ctx, "snap-1"); err != nil {
		t.Fatalf("expected snapshot in fallback: %v", err)
	}
	if got := testutil.ToFloat64(metrics.StoreFallbacks.WithLabelValues("create_snapshot")); got != 1 {
		t.Fatalf("expected 1 fallback recorded, got %v", got)
	}

	snap, backend, err := s.GetSnapshot(ctx, "snap-1")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if backend != BackendFallback || snap.ID != "snap-1" {
		t.Fatalf("expected snapshot served by fallback, got %s from %s", snap.ID, backend)
	}
}

func TestFallbackingWriteWithoutFallback(t *testing.T) {
	s := NewFallbackingStore(failingStore{}, nil, zerolog.Nop(), testMetrics())

	if s.FallbackEnabled() {
		t.Fatalf("expected fallback disabled")
	}
	_, err := s.SetMetadata(context.Background(), "k", "v")
	if !domain.IsStorage(err) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestFallbackingWriteBothFail(t *testing.T) {
	s := NewFallbackingStore(failingStore{}, failingStore{}, zerolog.Nop(), testMetrics())

	backend, err := s.AppendHistory(context.Background(), domain.HistoryEntry{PeriodType: domain.PeriodWeekly}, 52)
	if !domain.IsStorage(err) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if !errors.Is(err, errBackendDown) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
	if backend != BackendFallback {
		t.Fatalf("expected fallback tag on final failure, got %s", backend)
	}
}

func TestFallbackingSnapshotReadFallsBackWhenPrimaryEmpty(t *testing.T) {
	primary := openTestFileStore(t)
	fallback := openTestFileStore(t)
	ctx := context.Background()
	if err := fallback.CreateSnapshot(ctx, testSnapshot("snap-f", domain.PeriodMonthly, time.Now())); err != nil {
		t.Fatalf("seed fallback: %v", err)
	}
	s := NewFallbackingStore(primary, fallback, zerolog.Nop(), testMetrics())

	snap, backend, err := s.LatestSnapshot(ctx, domain.PeriodMonthly)
	if err != nil {
		t.Fatalf("latest snapshot: %v", err)
	}
	if backend != BackendFallback || snap.ID != "snap-f" {
		t.Fatalf("expected snap-f from fallback, got %+v from %s", snap, backend)
	}

	_, backend, err = s.LatestSnapshot(ctx, domain.PeriodWeekly)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found when neither backend has data, got %v", err)
	}
	if backend != BackendPrimary {
		t.Fatalf("expected primary tag, got %s", backend)
	}
}

func TestFallbackingStatsReadFallsBack(t *testing.T) {
	fallback := openTestFileStore(t)
	ctx := context.Background()
	if err := fallback.SavePlayerStats(ctx, []domain.PlayerStat{{PlayerID: "p1", Score: 5}}, time.Now()); err != nil {
		t.Fatalf("seed fallback: %v", err)
	}
	s := NewFallbackingStore(failingStore{}, fallback, zerolog.Nop(), testMetrics())

	stats, backend, err := s.ListPlayerStats(ctx)
	if err != nil {
		t.Fatalf("list stats: %v", err)
	}
	if backend != BackendFallback || len(stats) != 1 {
		t.Fatalf("expected 1 player from fallback, got %d from %s", len(stats), backend)
	}
}

func TestFallbackingHistoryAndHallOfFameArePrimaryOnly(t *testing.T) {
	primary := openTestFileStore(t)
	fallback := openTestFileStore(t)
	ctx := context.Background()

	if err := fallback.AppendHistory(ctx, domain.HistoryEntry{Date: time.Now(), PeriodType: domain.PeriodWeekly}, 52); err != nil {
		t.Fatalf("seed fallback history: %v", err)
	}
	hof := domain.NewHallOfFame()
	hof.ChampionsFor(domain.PeriodWeekly)["Stale"] = 9
	if err := fallback.SaveHallOfFame(ctx, hof); err != nil {
		t.Fatalf("seed fallback hall of fame: %v", err)
	}

	s := NewFallbackingStore(primary, fallback, zerolog.Nop(), testMetrics())

	entries, backend, err := s.ListHistory(ctx, domain.PeriodWeekly, 10)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != 0 || backend != BackendPrimary {
		t.Fatalf("expected empty primary history, got %d from %s", len(entries), backend)
	}

	got, backend, err := s.GetHallOfFame(ctx)
	if err != nil {
		t.Fatalf("get hall of fame: %v", err)
	}
	if backend != BackendPrimary || got.ChampionsFor(domain.PeriodWeekly)["Stale"] != 0 {
		t.Fatalf("expected primary hall of fame without fallback data, got %+v from %s", got.Champions, backend)
	}

	broken := NewFallbackingStore(failingStore{}, fallback, zerolog.Nop(), testMetrics())
	if _, _, err := broken.ListHistory(ctx, domain.PeriodWeekly, 10); !domain.IsStorage(err) {
		t.Fatalf("expected primary storage error to surface, got %v", err)
	}
}

func TestPrimaryStoreWrapsFailures(t *testing.T) {
	sqlDB, err := database.Open(filepath.Join(t.TempDir(), "leaderboard.sqlite"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	queries := db.New(sqlDB)
	logger := zerolog.Nop()
	primary := NewPrimaryStore(
		repository.NewPlayerStatsRepository(sqlDB, queries, logger),
		repository.NewSnapshotRepository(sqlDB, queries, logger),
		repository.NewDeltaRepository(sqlDB, queries, logger),
		repository.NewHistoryRepository(sqlDB, queries, logger),
		repository.NewHallOfFameRepository(sqlDB, queries, logger),
		repository.NewScheduleRepository(sqlDB, queries, logger),
	)
	ctx := context.Background()

	if _, err := primary.GetSnapshot(ctx, "missing"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found to pass through, got %v", err)
	}

	sqlDB.Close()

	_, err = primary.ListPlayerStats(ctx)
	if !domain.IsStorage(err) {
		t.Fatalf("expected storage error after close, got %v", err)
	}

	fallback := openTestFileStore(t)
	s := NewFallbackingStore(primary, fallback, zerolog.Nop(), testMetrics())
	backend, err := s.SetMetadata(ctx, "last_weekly_run_at", "2026-03-02T09:00:00Z")
	if err != nil {
		t.Fatalf("set metadata: %v", err)
	}
	if backend != BackendFallback {
		t.Fatalf("expected fallback after primary closed, got %s", backend)
	}
}
