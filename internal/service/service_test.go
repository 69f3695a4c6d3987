package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"leaderboard-tracker/internal/domain"
	"leaderboard-tracker/internal/observability"
	"leaderboard-tracker/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

type staticSource struct {
	players []domain.PlayerStat
	err     error
}

func (s *staticSource) ListActivePlayers(ctx context.Context) ([]domain.PlayerStat, error) {
	return s.players, s.err
}

type fixture struct {
	source    *staticSource
	store     *store.FallbackingStore
	snapshots *SnapshotService
	deltas    *DeltaService
	history   *HistoryService
	hof       *HallOfFameService
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	primary, err := store.NewFileStore(filepath.Join(t.TempDir(), "primary"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open file store: %v", err)
	}
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	st := store.NewFallbackingStore(primary, nil, zerolog.Nop(), metrics)

	f := &fixture{
		source: &staticSource{},
		store:  st,
		now:    time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }

	f.snapshots = NewSnapshotService(f.source, st, metrics, zerolog.Nop())
	f.snapshots.now = clock
	f.deltas = NewDeltaService(f.source, st, f.snapshots, metrics, zerolog.Nop())
	f.deltas.now = clock
	f.history = NewHistoryService(st, zerolog.Nop())
	f.history.now = clock
	f.hof = NewHallOfFameService(st, zerolog.Nop())
	f.hof.now = clock
	return f
}

func findEntry(entries []domain.DeltaEntry, playerID string) (domain.DeltaEntry, bool) {
	for _, e := range entries {
		if e.PlayerID == playerID {
			return e, true
		}
	}
	return domain.DeltaEntry{}, false
}

func TestComputeDeltasScenarios(t *testing.T) {
	baseline := []domain.SnapshotEntry{
		{PlayerID: "P1", Score: 100},
		{PlayerID: "P3", Score: 40, Deaths: 1},
	}
	current := []domain.PlayerStat{
		{PlayerID: "P1", Score: 180, Kills: 10, Deaths: 2},
		{PlayerID: "P2", Score: 50, Kills: 5},
		{PlayerID: "P3", Score: 40, Deaths: 1},
	}

	entries := ComputeDeltas(baseline, current)
	if len(entries) != 2 {
		t.Fatalf("expected 2 active players, got %+v", entries)
	}

	p1, ok := findEntry(entries, "P1")
	if !ok || p1.ScoreDelta != 80 || p1.KillsDelta != 10 || p1.DeathsDelta != 2 || p1.KDDelta != 5 {
		t.Fatalf("unexpected P1 delta %+v", p1)
	}
	p2, ok := findEntry(entries, "P2")
	if !ok || p2.ScoreDelta != 50 || p2.KDDelta != 5 {
		t.Fatalf("unexpected P2 delta %+v", p2)
	}
	if _, ok := findEntry(entries, "P3"); ok {
		t.Fatalf("expected unchanged P3 to be excluded")
	}
	if entries[0].PlayerID != "P1" || entries[0].Rank != 1 || entries[1].Rank != 2 {
		t.Fatalf("unexpected ranking %+v", entries)
	}
}

func TestComputeDeltasActivityFilter(t *testing.T) {
	baseline := []domain.SnapshotEntry{
		{PlayerID: "a", Score: 100, Kills: 10},
		{PlayerID: "b", Score: 100, Kills: 10},
	}
	current := []domain.PlayerStat{
		{PlayerID: "a", Score: 90, Kills: 10, Deaths: 3},
		{PlayerID: "b", Score: 100, Kills: 13, Deaths: 2},
	}

	entries := ComputeDeltas(baseline, current)
	if len(entries) != 1 || entries[0].PlayerID != "b" {
		t.Fatalf("expected only kills-active player, got %+v", entries)
	}
	if entries[0].KDDelta != 1.5 {
		t.Fatalf("expected kd 1.5, got %v", entries[0].KDDelta)
	}
	for _, e := range entries {
		if e.ScoreDelta <= 0 && e.KillsDelta <= 0 {
			t.Fatalf("inactive entry returned %+v", e)
		}
	}
}

func TestComputeDeltasRanksTiesByPlayerID(t *testing.T) {
	current := []domain.PlayerStat{
		{PlayerID: "zed", Score: 30},
		{PlayerID: "amy", Score: 30},
		{PlayerID: "kim", Score: 70},
		{PlayerID: "bob", Score: 10},
	}

	entries := ComputeDeltas(nil, current)
	want := []string{"kim", "amy", "zed", "bob"}
	for i, id := range want {
		if entries[i].PlayerID != id || entries[i].Rank != i+1 {
			t.Fatalf("position %d: expected %s rank %d, got %+v", i, id, i+1, entries[i])
		}
	}
	for i := 0; i+1 < len(entries); i++ {
		if entries[i].ScoreDelta < entries[i+1].ScoreDelta {
			t.Fatalf("rank order violated at %d: %+v", i, entries)
		}
	}
}

func TestKDDeltaRounding(t *testing.T) {
	if got := kdDelta(10, 3); got != 3.33 {
		t.Fatalf("expected 3.33, got %v", got)
	}
	if got := kdDelta(7, 0); got != 7 {
		t.Fatalf("expected kills when no deaths, got %v", got)
	}
}

func TestCreateSnapshotSkipsEmptyPlayers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.source.players = []domain.PlayerStat{
		{PlayerID: "p1", PlayerName: "One", Score: 10, Kills: 1},
		{PlayerID: "p2", PlayerName: "Two"},
	}

	id, err := f.snapshots.CreateSnapshot(ctx, domain.PeriodWeekly)
	if err != nil {
		t.Fatalf("create snapshot: %v", err)
	}

	snapshot, err := f.snapshots.GetSnapshot(ctx, id)
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if len(snapshot.Entries) != 1 || snapshot.Entries[0].PlayerID != "p1" {
		t.Fatalf("expected only non-empty player, got %+v", snapshot.Entries)
	}
	if !snapshot.CreatedAt.Equal(f.now) {
		t.Fatalf("expected created_at %v, got %v", f.now, snapshot.CreatedAt)
	}

	latest, err := f.snapshots.LatestSnapshotID(ctx, domain.PeriodWeekly)
	if err != nil {
		t.Fatalf("latest snapshot id: %v", err)
	}
	if latest != id {
		t.Fatalf("expected recorded snapshot %s, got %s", id, latest)
	}
}

func TestCreateSnapshotRejectsMalformedStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.source.players = []domain.PlayerStat{
		{PlayerID: "p1", Score: 10},
		{PlayerID: "p2", Score: -1},
	}

	if _, err := f.snapshots.CreateSnapshot(ctx, domain.PeriodWeekly); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := f.snapshots.LatestSnapshotID(ctx, domain.PeriodWeekly); !domain.IsNotFound(err) {
		t.Fatalf("expected nothing written, got %v", err)
	}
}

func TestCreateSnapshotRejectsUnknownPeriod(t *testing.T) {
	f := newFixture(t)
	if _, err := f.snapshots.CreateSnapshot(context.Background(), "daily"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateSnapshotPropagatesSourceError(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("source down")
	f.source.err = boom

	if _, err := f.snapshots.CreateSnapshot(context.Background(), domain.PeriodMonthly); !errors.Is(err, boom) {
		t.Fatalf("expected source error, got %v", err)
	}
}

func TestCalculateDeltasUnknownSnapshot(t *testing.T) {
	f := newFixture(t)
	if _, err := f.deltas.CalculateDeltas(context.Background(), "missing"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCalculateDeltasEmptyBaseline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.snapshots.CreateSnapshot(ctx, domain.PeriodWeekly)
	if err != nil {
		t.Fatalf("create snapshot: %v", err)
	}

	f.source.players = []domain.PlayerStat{{PlayerID: "p1", Score: 50}}
	entries, err := f.deltas.CalculateDeltas(ctx, id)
	if err != nil {
		t.Fatalf("calculate deltas: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", entries)
	}
}

func TestCalculateDeltasEmptyBaselineSourceDown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.snapshots.CreateSnapshot(ctx, domain.PeriodWeekly)
	if err != nil {
		t.Fatalf("create snapshot: %v", err)
	}

	boom := errors.New("source down")
	f.source.err = boom
	if _, err := f.deltas.CalculateDeltas(ctx, id); !errors.Is(err, boom) {
		t.Fatalf("expected source error for empty baseline, got %v", err)
	}
}

func TestPreviewDeltasUsesCurrentBaseline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.deltas.PreviewDeltas(ctx, domain.PeriodWeekly); !domain.IsNotFound(err) {
		t.Fatalf("expected not found without baseline, got %v", err)
	}

	f.source.players = []domain.PlayerStat{{PlayerID: "p1", PlayerName: "One", Score: 100, Kills: 4}}
	if _, err := f.snapshots.CreateSnapshot(ctx, domain.PeriodWeekly); err != nil {
		t.Fatalf("create snapshot: %v", err)
	}

	f.source.players = []domain.PlayerStat{{PlayerID: "p1", PlayerName: "One", Score: 130, Kills: 6, Deaths: 1}}
	entries, err := f.deltas.PreviewDeltas(ctx, domain.PeriodWeekly)
	if err != nil {
		t.Fatalf("preview deltas: %v", err)
	}
	if len(entries) != 1 || entries[0].ScoreDelta != 30 || entries[0].KDDelta != 2 {
		t.Fatalf("unexpected preview %+v", entries)
	}
}

func TestRecordDelta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	entries := []domain.DeltaEntry{{PlayerID: "p1", ScoreDelta: 5, Rank: 1}}

	delta, err := f.deltas.Record(ctx, domain.PeriodWeekly, "snap-1", entries)
	if err != nil {
		t.Fatalf("record delta: %v", err)
	}

	stored, _, err := f.store.GetDelta(ctx, delta.ID)
	if err != nil {
		t.Fatalf("get delta: %v", err)
	}
	if stored.BaseSnapshotID != "snap-1" || len(stored.Entries) != 1 {
		t.Fatalf("unexpected stored delta %+v", stored)
	}
}

func TestBuildHistoryEntry(t *testing.T) {
	entries := []domain.DeltaEntry{
		{PlayerID: "a", PlayerName: "Alpha", ScoreDelta: 90, KillsDelta: 3, KDDelta: 1.5, Rank: 1},
		{PlayerID: "b", PlayerName: "Bravo", ScoreDelta: 40, KillsDelta: 9, KDDelta: 3, Rank: 2},
		{PlayerID: "c", PlayerName: "Charlie", ScoreDelta: 10, KillsDelta: 9, KDDelta: 3, Rank: 3},
	}

	entry := BuildHistoryEntry(domain.PeriodWeekly, entries, time.Now())

	s := entry.Summary
	if s.TopScorer.PlayerName != "Alpha" || s.TopScorer.Value != 90 {
		t.Fatalf("unexpected top scorer %+v", s.TopScorer)
	}
	if s.MostKills.PlayerName != "Bravo" || s.MostKills.Value != 9 {
		t.Fatalf("expected first kills leader in rank order, got %+v", s.MostKills)
	}
	if s.BestKD.PlayerName != "Bravo" || s.BestKD.Value != 3 {
		t.Fatalf("unexpected best kd %+v", s.BestKD)
	}
	if s.TotalActive != 3 || s.AvgScore != 46.67 || s.AvgKills != 7 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if len(entry.Top10) != 3 {
		t.Fatalf("expected 3 top entries, got %d", len(entry.Top10))
	}
}

func TestBuildHistoryEntryKeepsTopTen(t *testing.T) {
	var entries []domain.DeltaEntry
	for i := 0; i < 15; i++ {
		entries = append(entries, domain.DeltaEntry{PlayerID: string(rune('a' + i)), ScoreDelta: 100 - i, Rank: i + 1})
	}

	entry := BuildHistoryEntry(domain.PeriodMonthly, entries, time.Now())
	if len(entry.Top10) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(entry.Top10))
	}
	if entry.Top10[0].Rank != 1 || entry.Top10[9].Rank != 10 {
		t.Fatalf("expected best ranked entries, got %+v", entry.Top10)
	}
	if entry.Summary.TotalActive != 15 {
		t.Fatalf("expected total active 15, got %d", entry.Summary.TotalActive)
	}
}

func TestHistoryAppendEvictsOldest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := f.now

	for i := 0; i < 53; i++ {
		f.now = start.Add(time.Duration(i) * 7 * 24 * time.Hour)
		entries := []domain.DeltaEntry{{PlayerID: "p1", ScoreDelta: i + 1, Rank: 1}}
		if err := f.history.Append(ctx, domain.PeriodWeekly, entries); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	history, err := f.history.List(ctx, domain.PeriodWeekly, 100)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 52 {
		t.Fatalf("expected 52 entries, got %d", len(history))
	}
	if oldest := history[len(history)-1]; !oldest.Date.Equal(start.Add(7 * 24 * time.Hour)) {
		t.Fatalf("expected first entry evicted, oldest is %v", oldest.Date)
	}
	if !history[0].Date.Equal(f.now) {
		t.Fatalf("expected newest first, got %v", history[0].Date)
	}
}

func TestHistoryAppendEmptyIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.history.Append(ctx, domain.PeriodWeekly, nil); err != nil {
		t.Fatalf("append: %v", err)
	}
	history, err := f.history.List(ctx, domain.PeriodWeekly, 0)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected no history, got %+v", history)
	}
}

func TestApplyHallOfFame(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	hof := domain.NewHallOfFame()
	hof.Records[domain.RecordHighestKills] = domain.PeakRecord{PlayerName: "PlayerA", Value: 30}

	entries := []domain.DeltaEntry{
		{PlayerID: "a", PlayerName: "Ann", ScoreDelta: 50, KillsDelta: 5, Rank: 1},
		{PlayerID: "b", PlayerName: "Ben", ScoreDelta: 50, KillsDelta: 25, Rank: 2},
	}
	ApplyHallOfFame(hof, domain.PeriodWeekly, entries, now)

	if hof.Champions[domain.PeriodWeekly]["Ann"] != 1 || hof.Champions[domain.PeriodWeekly]["Ben"] != 0 {
		t.Fatalf("expected tie to go to first ranked player, got %+v", hof.Champions)
	}
	if len(hof.Champions[domain.PeriodMonthly]) != 0 {
		t.Fatalf("expected monthly champions untouched, got %+v", hof.Champions[domain.PeriodMonthly])
	}

	kills := hof.Records[domain.RecordHighestKills]
	if kills.PlayerName != "PlayerA" || kills.Value != 30 {
		t.Fatalf("expected kills record unchanged, got %+v", kills)
	}
	score := hof.Records[domain.RecordHighestScore]
	if score.PlayerName != "Ann" || score.Value != 50 || !score.AchievedAt.Equal(now) {
		t.Fatalf("unexpected score record %+v", score)
	}
	for _, record := range domain.TrackedRecords {
		if _, ok := hof.Records[record]; !ok {
			t.Fatalf("expected %s to be tracked, got %+v", record, hof.Records)
		}
	}
}

func TestHallOfFameRecordsNeverDecrease(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	runs := [][]domain.DeltaEntry{
		{{PlayerID: "a", PlayerName: "Ann", ScoreDelta: 80, KillsDelta: 12, Rank: 1}},
		{{PlayerID: "b", PlayerName: "Ben", ScoreDelta: 40, KillsDelta: 20, Rank: 1}},
		{{PlayerID: "c", PlayerName: "Cat", ScoreDelta: 80, KillsDelta: 20, Rank: 1}},
	}
	for i, entries := range runs {
		if err := f.hof.Update(ctx, domain.PeriodMonthly, entries); err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}

	hof, err := f.hof.Get(ctx)
	if err != nil {
		t.Fatalf("get hall of fame: %v", err)
	}
	if r := hof.Records[domain.RecordHighestScore]; r.PlayerName != "Ann" || r.Value != 80 {
		t.Fatalf("expected equal score not to overwrite, got %+v", r)
	}
	if r := hof.Records[domain.RecordHighestKills]; r.PlayerName != "Ben" || r.Value != 20 {
		t.Fatalf("unexpected kills record %+v", r)
	}
	champions := hof.Champions[domain.PeriodMonthly]
	if champions["Ann"] != 1 || champions["Ben"] != 1 || champions["Cat"] != 1 {
		t.Fatalf("unexpected champions %+v", champions)
	}
}

func TestHallOfFameUpdateEmptyIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.hof.Update(ctx, domain.PeriodWeekly, nil); err != nil {
		t.Fatalf("update: %v", err)
	}
	hof, err := f.hof.Get(ctx)
	if err != nil {
		t.Fatalf("get hall of fame: %v", err)
	}
	if len(hof.Records) != 0 || len(hof.Champions[domain.PeriodWeekly]) != 0 {
		t.Fatalf("expected empty hall of fame, got %+v", hof)
	}
}
