package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const (
	StatsSourceDB   = "db"
	StatsSourceHTTP = "http"
)

type Config struct {
	DBPath          string `env:"DB_PATH" envDefault:"leaderboard.db"`
	FallbackDir     string `env:"FALLBACK_DIR" envDefault:"data/fallback"`
	FallbackEnabled bool   `env:"FALLBACK_ENABLED" envDefault:"true"`
	ServerPort      string `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`

	StatsSource string `env:"STATS_SOURCE" envDefault:"db"`
	StatsAPIURL string `env:"STATS_API_URL"`
	StatsAPIKey string `env:"STATS_API_KEY"`

	SchedulerInterval time.Duration `env:"SCHEDULER_INTERVAL" envDefault:"1h"`
	WeeklyReportDay   time.Weekday  `env:"WEEKLY_REPORT_DAY" envDefault:"1"`
	WeeklyReportHour  int           `env:"WEEKLY_REPORT_HOUR" envDefault:"9"`
	MonthlyReportHour int           `env:"MONTHLY_REPORT_HOUR" envDefault:"9"`
	ReportTimezone    string        `env:"REPORT_TIMEZONE" envDefault:"Local"`

	NATSURL           string `env:"NATS_URL"`
	NATSSubjectPrefix string `env:"NATS_SUBJECT_PREFIX" envDefault:"leaderboard.reports"`

	Location *time.Location `env:"-"`
}

// LoadDotEnv reads a .env file into the process environment if one exists.
// Variables already set in the environment win.
func LoadDotEnv() bool {
	return godotenv.Load() == nil
}

// Load is the fx constructor for Config.
func Load() (*Config, error) {
	return Parse()
}

// LogLoaded reports the effective configuration once the logger exists.
func LogLoaded(cfg *Config, logger zerolog.Logger) {
	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("fallback_dir", cfg.FallbackDir).
		Bool("fallback_enabled", cfg.FallbackEnabled).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.Level().String()).
		Str("stats_source", cfg.StatsSource).
		Dur("scheduler_interval", cfg.SchedulerInterval).
		Str("timezone", cfg.Location.String()).
		Msg("configuration loaded")
}

// Parse reads the configuration from the process environment and validates it.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.StatsSource {
	case StatsSourceDB:
	case StatsSourceHTTP:
		if cfg.StatsAPIURL == "" {
			return nil, fmt.Errorf("STATS_API_URL is required when STATS_SOURCE=http")
		}
	default:
		return nil, fmt.Errorf("unknown STATS_SOURCE %q", cfg.StatsSource)
	}

	if cfg.WeeklyReportDay < time.Sunday || cfg.WeeklyReportDay > time.Saturday {
		return nil, fmt.Errorf("WEEKLY_REPORT_DAY must be 0-6, got %d", cfg.WeeklyReportDay)
	}
	if cfg.WeeklyReportHour < 0 || cfg.WeeklyReportHour > 23 {
		return nil, fmt.Errorf("WEEKLY_REPORT_HOUR must be 0-23, got %d", cfg.WeeklyReportHour)
	}
	if cfg.MonthlyReportHour < 0 || cfg.MonthlyReportHour > 23 {
		return nil, fmt.Errorf("MONTHLY_REPORT_HOUR must be 0-23, got %d", cfg.MonthlyReportHour)
	}
	if cfg.SchedulerInterval <= 0 {
		return nil, fmt.Errorf("SCHEDULER_INTERVAL must be positive")
	}

	loc, err := time.LoadLocation(cfg.ReportTimezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load REPORT_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	return cfg, nil
}

// Level is the parsed LOG_LEVEL.
func (c *Config) Level() zerolog.Level {
	return ParseLevel(c.LogLevel)
}

// ParseLevel maps a LOG_LEVEL value onto a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(s)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

var Module = fx.Options(
	fx.Provide(Load),
	fx.Invoke(LogLoaded),
)
