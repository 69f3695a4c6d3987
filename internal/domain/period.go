package domain

import (
	"math"
	"strings"
)

type PeriodType string

const (
	PeriodWeekly  PeriodType = "weekly"
	PeriodMonthly PeriodType = "monthly"
)

// ManagedPeriods are the periods the scheduler evaluates on every tick, in order.
var ManagedPeriods = []PeriodType{PeriodWeekly, PeriodMonthly}

func ParsePeriodType(s string) (PeriodType, error) {
	p := PeriodType(strings.ToLower(strings.TrimSpace(s)))
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

func (p PeriodType) Validate() error {
	switch p {
	case PeriodWeekly, PeriodMonthly:
		return nil
	}
	return &ValidationError{Field: "period_type", Reason: "unknown period type " + string(p)}
}

// HistoryCap is the ring buffer size of the history ledger for the period.
func (p PeriodType) HistoryCap() int {
	switch p {
	case PeriodMonthly:
		return 12
	default:
		return 52
	}
}

func (p PeriodType) LastRunKey() string {
	return "last_" + string(p) + "_run_at"
}

// BootstrapKey records when the period's first baseline was captured.
func (p PeriodType) BootstrapKey() string {
	return "last_" + string(p) + "_bootstrap_at"
}

func (p PeriodType) LastSnapshotKey() string {
	return "last_" + string(p) + "_snapshot_id"
}

// ValidateStat rejects stat rows that cannot be stored in a snapshot.
func ValidateStat(s PlayerStat) error {
	if strings.TrimSpace(s.PlayerID) == "" {
		return &ValidationError{Field: "player_id", Reason: "must not be empty"}
	}
	if s.Score < 0 || s.Kills < 0 || s.Deaths < 0 || s.Revives < 0 {
		return &ValidationError{Field: "stats", Reason: "negative value for player " + s.PlayerID}
	}
	if math.IsNaN(s.KDRatio) || math.IsInf(s.KDRatio, 0) || s.KDRatio < 0 {
		return &ValidationError{Field: "kd_ratio", Reason: "invalid value for player " + s.PlayerID}
	}
	return nil
}
