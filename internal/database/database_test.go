package database

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestOpenRunsMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaderboard.sqlite")
	db, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tables := []string{
		"player_stats",
		"snapshots",
		"snapshot_entries",
		"deltas",
		"delta_entries",
		"history_entries",
		"hall_of_fame_champions",
		"hall_of_fame_records",
		"schedule_metadata",
	}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Fatalf("expected table %s: %v", table, err)
		}
	}
}

func TestOpenIsReentrant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaderboard.sqlite")
	for i := 0; i < 2; i++ {
		db, err := Open(path, zerolog.Nop())
		if err != nil {
			t.Fatalf("open database (attempt %d): %v", i+1, err)
		}
		db.Close()
	}
}
