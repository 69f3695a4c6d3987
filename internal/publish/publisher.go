// Package publish hands finished period reports to downstream consumers.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"leaderboard-tracker/internal/config"
	"leaderboard-tracker/internal/domain"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const StreamName = "LEADERBOARD_REPORTS"

// Report is the structured result of one closed period. Rendering is left to consumers.
type Report struct {
	PeriodType     domain.PeriodType     `json:"period_type"`
	DeltaID        string                `json:"delta_id"`
	BaseSnapshotID string                `json:"base_snapshot_id"`
	GeneratedAt    time.Time             `json:"generated_at"`
	Summary        domain.HistorySummary `json:"summary"`
	Entries        []domain.DeltaEntry   `json:"entries"`
}

type Publisher interface {
	Publish(ctx context.Context, report *Report) error
}

// LogPublisher writes reports to the log. Used when no broker is configured.
type LogPublisher struct {
	logger zerolog.Logger
}

func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, report *Report) error {
	p.logger.Info().
		Str("period_type", string(report.PeriodType)).
		Str("delta_id", report.DeltaID).
		Int("entries", len(report.Entries)).
		Str("top_scorer", report.Summary.TopScorer.PlayerName).
		Msg("report published")
	return nil
}

// NATSPublisher publishes reports to JetStream under <prefix>.<period_type>.
type NATSPublisher struct {
	js     jetstream.JetStream
	prefix string
	logger zerolog.Logger
}

func NewNATSPublisher(js jetstream.JetStream, prefix string, logger zerolog.Logger) *NATSPublisher {
	return &NATSPublisher{js: js, prefix: prefix, logger: logger}
}

func (p *NATSPublisher) Subject(period domain.PeriodType) string {
	return fmt.Sprintf("%s.%s", p.prefix, period)
}

func (p *NATSPublisher) Publish(ctx context.Context, report *Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	subject := p.Subject(report.PeriodType)
	ack, err := p.js.Publish(ctx, subject, data, jetstream.WithMsgID(report.DeltaID))
	if err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	p.logger.Info().
		Str("subject", subject).
		Str("delta_id", report.DeltaID).
		Uint64("seq", ack.Sequence).
		Msg("report published")
	return nil
}

// EnsureStream creates the reports stream when it does not exist yet.
func (p *NATSPublisher) EnsureStream(ctx context.Context) error {
	_, err := p.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{p.prefix + ".>"},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.LimitsPolicy,
		MaxAge:    400 * 24 * time.Hour,
		Replicas:  1,
	})
	if err != nil {
		return fmt.Errorf("create report stream: %w", err)
	}
	p.logger.Info().Str("stream", StreamName).Msg("ensured report stream")
	return nil
}

func ConnectNATS(url string, logger zerolog.Logger) (*nats.Conn, jetstream.JetStream, error) {
	nc, err := nats.Connect(url,
		nats.Name("leaderboard-tracker"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn().Err(err).Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info().Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("jetstream: %w", err)
	}

	return nc, js, nil
}

// NewConfiguredPublisher returns a JetStream publisher when NATS_URL is set and
// a LogPublisher otherwise. The connection is drained on shutdown.
func NewConfiguredPublisher(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (Publisher, error) {
	if cfg.NATSURL == "" {
		logger.Info().Msg("NATS_URL not set, reports go to the log")
		return NewLogPublisher(logger), nil
	}

	nc, js, err := ConnectNATS(cfg.NATSURL, logger)
	if err != nil {
		return nil, err
	}
	publisher := NewNATSPublisher(js, cfg.NATSSubjectPrefix, logger)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return publisher.EnsureStream(ctx)
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("draining nats connection")
			return nc.Drain()
		},
	})

	return publisher, nil
}

var Module = fx.Provide(NewConfiguredPublisher)
