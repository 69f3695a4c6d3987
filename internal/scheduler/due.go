package scheduler

import (
	"time"

	"leaderboard-tracker/internal/config"
	"leaderboard-tracker/internal/constants"
	"leaderboard-tracker/internal/domain"
)

// Window is the calendar position at which each period's report becomes eligible.
type Window struct {
	WeeklyDay   time.Weekday
	WeeklyHour  int
	MonthlyHour int
	Location    *time.Location
}

func WindowFromConfig(cfg *config.Config) Window {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return Window{
		WeeklyDay:   cfg.WeeklyReportDay,
		WeeklyHour:  cfg.WeeklyReportHour,
		MonthlyHour: cfg.MonthlyReportHour,
		Location:    loc,
	}
}

// Open reports whether now falls inside the period's due window, in report-local time.
func (w Window) Open(period domain.PeriodType, now time.Time) bool {
	local := now.In(w.Location)
	switch period {
	case domain.PeriodWeekly:
		return local.Weekday() == w.WeeklyDay && local.Hour() >= w.WeeklyHour
	case domain.PeriodMonthly:
		return local.Day() == 1 && local.Hour() >= w.MonthlyHour
	}
	return false
}

func MinSpacing(period domain.PeriodType) time.Duration {
	if period == domain.PeriodMonthly {
		return constants.MonthlyMinSpacing
	}
	return constants.WeeklyMinSpacing
}

// IsDue combines the window with the spacing guard. A zero lastRun means the
// period has never run. Repeated ticks inside one window fire at most once, and
// a window in which the period's first baseline was captured does not fire.
func (w Window) IsDue(period domain.PeriodType, now, lastRun, bootstrappedAt time.Time) bool {
	if !w.Open(period, now) {
		return false
	}
	if !bootstrappedAt.IsZero() && w.sameDay(now, bootstrappedAt) {
		return false
	}
	if lastRun.IsZero() {
		return true
	}
	return now.Sub(lastRun) >= MinSpacing(period)
}

// sameDay compares calendar dates in report-local time. Every due window lies
// within a single local day.
func (w Window) sameDay(a, b time.Time) bool {
	ay, am, ad := a.In(w.Location).Date()
	by, bm, bd := b.In(w.Location).Date()
	return ay == by && am == bm && ad == bd
}
