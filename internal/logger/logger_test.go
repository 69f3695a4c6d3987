package logger

import (
	"testing"

	"leaderboard-tracker/internal/config"

	"github.com/rs/zerolog"
)

func TestNewUsesConfiguredLevel(t *testing.T) {
	log := New(&config.Config{LogLevel: "debug"})
	if log.GetLevel() != zerolog.DebugLevel {
		t.Fatalf("expected debug, got %s", log.GetLevel())
	}

	log = New(&config.Config{LogLevel: "loud"})
	if log.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("expected info for unknown level, got %s", log.GetLevel())
	}
}
