package server

import (
	"leaderboard-tracker/internal/domain"
)

type PeriodRequest struct {
	PeriodType string `json:"period_type"`
}

type DeltasResponse struct {
	PeriodType string              `json:"period_type"`
	Entries    []domain.DeltaEntry `json:"entries"`
}

type HistoryRequest struct {
	PeriodType string `json:"period_type"`
	Count      int    `json:"count"`
}

type HistoryResponse struct {
	PeriodType string                `json:"period_type"`
	Entries    []domain.HistoryEntry `json:"entries"`
}

type HallOfFameRequest struct{}

type HallOfFameResponse struct {
	WeeklyChampions  map[string]int               `json:"weekly_champions"`
	MonthlyChampions map[string]int               `json:"monthly_champions"`
	Records          map[string]domain.PeakRecord `json:"records"`
}

type SnapshotResponse struct {
	PeriodType string `json:"period_type"`
	SnapshotID string `json:"snapshot_id"`
}
