// Package store persists snapshots, deltas, history, hall of fame records and
// schedule metadata behind a single Store interface with two backends: a
// SQLite primary and a flat-file fallback. FallbackingStore composes them.
package store

import (
	"context"
	"time"

	"leaderboard-tracker/internal/domain"
)

// Backend names the store that served an operation.
type Backend string

const (
	BackendPrimary  Backend = "primary"
	BackendFallback Backend = "fallback"
)

type Store interface {
	ListPlayerStats(ctx context.Context) ([]domain.PlayerStat, error)
	SavePlayerStats(ctx context.Context, stats []domain.PlayerStat, at time.Time) error

	CreateSnapshot(ctx context.Context, snapshot *domain.Snapshot) error
	GetSnapshot(ctx context.Context, id string) (*domain.Snapshot, error)
	LatestSnapshot(ctx context.Context, period domain.PeriodType) (*domain.Snapshot, error)

	SaveDelta(ctx context.Context, delta *domain.Delta) error
	GetDelta(ctx context.Context, id string) (*domain.Delta, error)

	AppendHistory(ctx context.Context, entry domain.HistoryEntry, keep int) error
	ListHistory(ctx context.Context, period domain.PeriodType, count int) ([]domain.HistoryEntry, error)

	GetHallOfFame(ctx context.Context) (*domain.HallOfFame, error)
	SaveHallOfFame(ctx context.Context, hof *domain.HallOfFame) error

	GetMetadata(ctx context.Context, key string) (string, error)
	SetMetadata(ctx context.Context, key, value string) error
	ListMetadata(ctx context.Context) (map[string]string, error)
}
