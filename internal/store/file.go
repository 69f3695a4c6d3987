package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"leaderboard-tracker/internal/config"
	"leaderboard-tracker/internal/domain"

	"github.com/rs/zerolog"
)

const (
	playerStatsFile = "player_stats.json"
	historyFile     = "history.json"
	hallOfFameFile  = "hall_of_fame.json"
	metadataFile    = "schedule_metadata.json"
	snapshotsDir    = "snapshots"
	deltasDir       = "deltas"
)

// FileStore keeps every collection as JSON documents under one directory.
// Writes go through a temp file and rename so a crash never leaves a torn document.
type FileStore struct {
	dir    string
	mu     sync.Mutex
	logger zerolog.Logger
}

func NewFileStore(dir string, logger zerolog.Logger) (*FileStore, error) {
	for _, sub := range []string{dir, filepath.Join(dir, snapshotsDir), filepath.Join(dir, deltasDir)} {
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create fallback directory %s: %w", sub, err)
		}
	}
	logger.Info().Str("dir", dir).Msg("fallback file store ready")
	return &FileStore{dir: dir, logger: logger}, nil
}

func NewConfiguredFileStore(cfg *config.Config, logger zerolog.Logger) (*FileStore, error) {
	return NewFileStore(cfg.FallbackDir, logger)
}

type storedPlayerStats struct {
	UpdatedAt time.Time           `json:"updated_at"`
	Players   []domain.PlayerStat `json:"players"`
}

func (s *FileStore) ListPlayerStats(ctx context.Context) ([]domain.PlayerStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc storedPlayerStats
	if _, err := s.readJSON(playerStatsFile, &doc); err != nil {
		return nil, s.fail("list_player_stats", err)
	}
	return doc.Players, nil
}

// SavePlayerStats merges stats into the stored set by player id.
func (s *FileStore) SavePlayerStats(ctx context.Context, stats []domain.PlayerStat, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc storedPlayerStats
	if _, err := s.readJSON(playerStatsFile, &doc); err != nil {
		return s.fail("save_player_stats", err)
	}

	byID := make(map[string]domain.PlayerStat, len(doc.Players)+len(stats))
	for _, p := range doc.Players {
		byID[p.PlayerID] = p
	}
	for _, p := range stats {
		byID[p.PlayerID] = p
	}

	doc.Players = doc.Players[:0]
	for _, p := range byID {
		doc.Players = append(doc.Players, p)
	}
	sort.Slice(doc.Players, func(i, j int) bool { return doc.Players[i].PlayerID < doc.Players[j].PlayerID })
	doc.UpdatedAt = at.UTC()

	return s.fail("save_player_stats", s.writeJSON(playerStatsFile, doc))
}

func (s *FileStore) CreateSnapshot(ctx context.Context, snapshot *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := filepath.Join(snapshotsDir, snapshot.ID+".json")
	if _, err := os.Stat(filepath.Join(s.dir, name)); err == nil {
		return s.fail("create_snapshot", fmt.Errorf("snapshot %s already exists", snapshot.ID))
	}
	return s.fail("create_snapshot", s.writeJSON(name, snapshot))
}

func (s *FileStore) GetSnapshot(ctx context.Context, id string) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snapshot domain.Snapshot
	found, err := s.readJSON(filepath.Join(snapshotsDir, id+".json"), &snapshot)
	if err != nil {
		return nil, s.fail("get_snapshot", err)
	}
	if !found {
		return nil, &domain.NotFoundError{Resource: "snapshot", ID: id}
	}
	return &snapshot, nil
}

func (s *FileStore) LatestSnapshot(ctx context.Context, period domain.PeriodType) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := os.ReadDir(filepath.Join(s.dir, snapshotsDir))
	if err != nil {
		return nil, s.fail("latest_snapshot", err)
	}

	var latest *domain.Snapshot
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		var snapshot domain.Snapshot
		if _, err := s.readJSON(filepath.Join(snapshotsDir, f.Name()), &snapshot); err != nil {
			return nil, s.fail("latest_snapshot", err)
		}
		if snapshot.PeriodType != period {
			continue
		}
		if latest == nil || snapshot.CreatedAt.After(latest.CreatedAt) ||
			(snapshot.CreatedAt.Equal(latest.CreatedAt) && snapshot.ID > latest.ID) {
			latest = &snapshot
		}
	}
	if latest == nil {
		return nil, &domain.NotFoundError{Resource: "snapshot for period", ID: string(period)}
	}
	return latest, nil
}

func (s *FileStore) SaveDelta(ctx context.Context, delta *domain.Delta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fail("save_delta", s.writeJSON(filepath.Join(deltasDir, delta.ID+".json"), delta))
}

func (s *FileStore) GetDelta(ctx context.Context, id string) (*domain.Delta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var delta domain.Delta
	found, err := s.readJSON(filepath.Join(deltasDir, id+".json"), &delta)
	if err != nil {
		return nil, s.fail("get_delta", err)
	}
	if !found {
		return nil, &domain.NotFoundError{Resource: "delta", ID: id}
	}
	return &delta, nil
}

func (s *FileStore) AppendHistory(ctx context.Context, entry domain.HistoryEntry, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := map[domain.PeriodType][]domain.HistoryEntry{}
	if _, err := s.readJSON(historyFile, &history); err != nil {
		return s.fail("append_history", err)
	}

	// entries are kept oldest first
	entries := append(history[entry.PeriodType], entry)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })
	if over := len(entries) - keep; over > 0 {
		entries = entries[over:]
	}
	history[entry.PeriodType] = entries

	return s.fail("append_history", s.writeJSON(historyFile, history))
}

func (s *FileStore) ListHistory(ctx context.Context, period domain.PeriodType, count int) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := map[domain.PeriodType][]domain.HistoryEntry{}
	if _, err := s.readJSON(historyFile, &history); err != nil {
		return nil, s.fail("list_history", err)
	}

	entries := slices.Clone(history[period])
	slices.Reverse(entries)
	if count >= 0 && len(entries) > count {
		entries = entries[:count]
	}
	return entries, nil
}

func (s *FileStore) GetHallOfFame(ctx context.Context) (*domain.HallOfFame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hof := domain.NewHallOfFame()
	if _, err := s.readJSON(hallOfFameFile, hof); err != nil {
		return nil, s.fail("get_hall_of_fame", err)
	}
	if hof.Records == nil {
		hof.Records = map[string]domain.PeakRecord{}
	}
	return hof, nil
}

func (s *FileStore) SaveHallOfFame(ctx context.Context, hof *domain.HallOfFame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fail("save_hall_of_fame", s.writeJSON(hallOfFameFile, hof))
}

func (s *FileStore) GetMetadata(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := map[string]string{}
	if _, err := s.readJSON(metadataFile, &values); err != nil {
		return "", s.fail("get_metadata", err)
	}
	value, ok := values[key]
	if !ok {
		return "", &domain.NotFoundError{Resource: "schedule metadata", ID: key}
	}
	return value, nil
}

func (s *FileStore) SetMetadata(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := map[string]string{}
	if _, err := s.readJSON(metadataFile, &values); err != nil {
		return s.fail("set_metadata", err)
	}
	values[key] = value
	return s.fail("set_metadata", s.writeJSON(metadataFile, values))
}

func (s *FileStore) ListMetadata(ctx context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := map[string]string{}
	if _, err := s.readJSON(metadataFile, &values); err != nil {
		return nil, s.fail("list_metadata", err)
	}
	return values, nil
}

// readJSON decodes name into v. A missing file is not an error; found reports it.
func (s *FileStore) readJSON(name string, v any) (found bool, err error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return true, nil
}

func (s *FileStore) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (s *FileStore) fail(op string, err error) error {
	if err == nil {
		return nil
	}
	s.logger.Debug().Err(err).Str("op", op).Msg("file store operation failed")
	return &domain.StorageError{Op: op, Backend: string(BackendFallback), Err: err}
}
