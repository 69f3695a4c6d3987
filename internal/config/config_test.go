package config

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.DBPath != "leaderboard.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if !cfg.FallbackEnabled {
		t.Fatalf("expected fallback enabled by default")
	}
	if cfg.SchedulerInterval != time.Hour {
		t.Fatalf("expected hourly interval, got %s", cfg.SchedulerInterval)
	}
	if cfg.WeeklyReportDay != time.Monday {
		t.Fatalf("expected monday, got %s", cfg.WeeklyReportDay)
	}
	if cfg.Location == nil {
		t.Fatalf("expected location to be resolved")
	}
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("FALLBACK_ENABLED", "false")
	t.Setenv("WEEKLY_REPORT_DAY", "0")
	t.Setenv("REPORT_TIMEZONE", "UTC")
	t.Setenv("SCHEDULER_INTERVAL", "15m")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.FallbackEnabled {
		t.Fatalf("expected fallback disabled")
	}
	if cfg.WeeklyReportDay != time.Sunday {
		t.Fatalf("expected sunday, got %s", cfg.WeeklyReportDay)
	}
	if cfg.Location != time.UTC {
		t.Fatalf("expected UTC, got %s", cfg.Location)
	}
	if cfg.SchedulerInterval != 15*time.Minute {
		t.Fatalf("expected 15m, got %s", cfg.SchedulerInterval)
	}
}

func TestParseRejectsHTTPSourceWithoutURL(t *testing.T) {
	t.Setenv("STATS_SOURCE", "http")

	_, err := Parse()
	if err == nil || !strings.Contains(err.Error(), "STATS_API_URL") {
		t.Fatalf("expected missing url error, got %v", err)
	}
}

func TestParseRejectsBadHour(t *testing.T) {
	t.Setenv("WEEKLY_REPORT_HOUR", "24")

	if _, err := Parse(); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("WEEKLY_REPORT_HOUR", "noon")

	_, err := Parse()
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLevel(t *testing.T) {
	cfg := &Config{LogLevel: "warn"}
	if cfg.Level() != zerolog.WarnLevel {
		t.Fatalf("expected warn, got %s", cfg.Level())
	}
	cfg.LogLevel = "bogus"
	if cfg.Level() != zerolog.InfoLevel {
		t.Fatalf("expected info fallback, got %s", cfg.Level())
	}
}
