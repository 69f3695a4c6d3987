package constants

import "time"

const (
	StatsSourceTimeout = 30 * time.Second
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
	PeriodRunTimeout   = 2 * time.Minute
	PublishTimeout     = 10 * time.Second
)

const (
	DBMaxOpenConns    = 1
	DBMaxIdleConns    = 1
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

// minimum spacing between two published reports of the same period
const (
	WeeklyMinSpacing  = 4 * 24 * time.Hour
	MonthlyMinSpacing = 20 * 24 * time.Hour
)

const (
	HistoryTopN         = 10
	DefaultHistoryCount = 10
)

const (
	ShutdownTimeout = 5 * time.Second
)
