package domain

import (
	"time"
)

type PlayerStat struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Score      int     `json:"score"`
	Kills      int     `json:"kills"`
	Deaths     int     `json:"deaths"`
	Revives    int     `json:"revives"`
	KDRatio    float64 `json:"kd_ratio"`
}

// IsEmpty reports whether the player has no recorded activity at all.
func (p PlayerStat) IsEmpty() bool {
	return p.Score == 0 && p.Kills == 0 && p.Deaths == 0 && p.Revives == 0
}

type Snapshot struct {
	ID         string          `json:"id"`
	PeriodType PeriodType      `json:"period_type"`
	CreatedAt  time.Time       `json:"created_at"`
	Entries    []SnapshotEntry `json:"entries"`
}

type SnapshotEntry struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Score      int     `json:"score"`
	Kills      int     `json:"kills"`
	Deaths     int     `json:"deaths"`
	Revives    int     `json:"revives"`
	KDRatio    float64 `json:"kd_ratio"`
}

type Delta struct {
	ID             string       `json:"id"`
	PeriodType     PeriodType   `json:"period_type"`
	BaseSnapshotID string       `json:"base_snapshot_id"`
	CreatedAt      time.Time    `json:"created_at"`
	Entries        []DeltaEntry `json:"entries"`
}

type DeltaEntry struct {
	PlayerID     string  `json:"player_id"`
	PlayerName   string  `json:"player_name"`
	ScoreDelta   int     `json:"score_delta"`
	KillsDelta   int     `json:"kills_delta"`
	DeathsDelta  int     `json:"deaths_delta"`
	RevivesDelta int     `json:"revives_delta"`
	KDDelta      float64 `json:"kd_delta"`
	Rank         int     `json:"rank"`
}

type HistoryEntry struct {
	Date       time.Time      `json:"date"`
	PeriodType PeriodType     `json:"period_type"`
	Summary    HistorySummary `json:"summary"`
	Top10      []DeltaEntry   `json:"top_10"`
}

type HistorySummary struct {
	TopScorer   Leader  `json:"top_scorer"`
	MostKills   Leader  `json:"most_kills"`
	BestKD      Leader  `json:"best_kd"`
	TotalActive int     `json:"total_active"`
	AvgScore    float64 `json:"avg_score"`
	AvgKills    float64 `json:"avg_kills"`
}

// Leader names the player holding a summary category and the value they held it with.
type Leader struct {
	PlayerName string  `json:"player_name"`
	Value      float64 `json:"value"`
}

const (
	RecordHighestScore = "highest_score_in_period"
	RecordHighestKills = "highest_kills_in_period"
)

// TrackedRecords lists the peak records kept in the hall of fame.
var TrackedRecords = []string{RecordHighestScore, RecordHighestKills}

type PeakRecord struct {
	PlayerName string    `json:"player_name"`
	Value      int       `json:"value"`
	AchievedAt time.Time `json:"achieved_at"`
}

type HallOfFame struct {
	Champions map[PeriodType]map[string]int `json:"champions"`
	Records   map[string]PeakRecord         `json:"records"`
}

func NewHallOfFame() *HallOfFame {
	return &HallOfFame{
		Champions: map[PeriodType]map[string]int{
			PeriodWeekly:  {},
			PeriodMonthly: {},
		},
		Records: map[string]PeakRecord{},
	}
}

// ChampionsFor returns the win counts for a period, creating the map on first use.
func (h *HallOfFame) ChampionsFor(period PeriodType) map[string]int {
	if h.Champions == nil {
		h.Champions = map[PeriodType]map[string]int{}
	}
	counts, ok := h.Champions[period]
	if !ok {
		counts = map[string]int{}
		h.Champions[period] = counts
	}
	return counts
}
