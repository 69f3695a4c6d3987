// Package scheduler decides when a period's report is due and runs the
// close-of-period pipeline: deltas, history, hall of fame, publish, new baseline.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leaderboard-tracker/internal/config"
	"leaderboard-tracker/internal/constants"
	"leaderboard-tracker/internal/domain"
	"leaderboard-tracker/internal/observability"
	"leaderboard-tracker/internal/publish"
	"leaderboard-tracker/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

type Scheduler struct {
	window   Window
	interval time.Duration
	state    *State

	snapshots *service.SnapshotService
	deltas    *service.DeltaService
	history   *service.HistoryService
	hof       *service.HallOfFameService
	publisher publish.Publisher

	metrics *observability.Metrics
	logger  zerolog.Logger
	now     func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

func New(
	cfg *config.Config,
	state *State,
	snapshots *service.SnapshotService,
	deltas *service.DeltaService,
	history *service.HistoryService,
	hof *service.HallOfFameService,
	publisher publish.Publisher,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *Scheduler {
	return &Scheduler{
		window:    WindowFromConfig(cfg),
		interval:  cfg.SchedulerInterval,
		state:     state,
		snapshots: snapshots,
		deltas:    deltas,
		history:   history,
		hof:       hof,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Bootstrap captures a baseline snapshot for every period that has none. Nothing
// is published, no period is marked as run, and a period bootstrapped inside its
// due window first reports in the following window.
func (s *Scheduler) Bootstrap(ctx context.Context) error {
	now := s.now()

	var errs []error
	for _, period := range domain.ManagedPeriods {
		if s.state.SnapshotID(period) != "" {
			continue
		}
		if _, err := s.bootstrap(ctx, period, now); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Tick evaluates every managed period at the current time.
func (s *Scheduler) Tick(ctx context.Context) error {
	return s.TickAt(ctx, s.now())
}

// TickAt runs each due period independently. A failing period is logged and
// does not stop the others.
func (s *Scheduler) TickAt(ctx context.Context, now time.Time) error {
	start := time.Now()
	defer func() {
		s.metrics.TickDuration.Observe(time.Since(start).Seconds())
	}()

	var errs []error
	for _, period := range domain.ManagedPeriods {
		if !s.window.IsDue(period, now, s.state.LastRun(period), s.state.BootstrappedAt(period)) {
			continue
		}

		s.logger.Info().Str("period_type", string(period)).Time("now", now).Msg("period report due")
		if _, err := s.run(ctx, period, now); err != nil {
			s.logger.Error().Err(err).Str("period_type", string(period)).Msg("period report failed")
			errs = append(errs, fmt.Errorf("%s: %w", period, err))
		}
	}
	return errors.Join(errs...)
}

// RunAndPublish closes the period immediately, skipping the due check.
//
// Nothing serializes this with a concurrent tick for the same period; two
// overlapping runs can both close it.
func (s *Scheduler) RunAndPublish(ctx context.Context, period domain.PeriodType) ([]domain.DeltaEntry, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	return s.run(ctx, period, s.now())
}

// Preview calculates the current period's deltas without closing it.
func (s *Scheduler) Preview(ctx context.Context, period domain.PeriodType) ([]domain.DeltaEntry, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	if id := s.state.SnapshotID(period); id != "" {
		return s.deltas.CalculateDeltas(ctx, id)
	}
	return s.deltas.PreviewDeltas(ctx, period)
}

// CreateSnapshot takes a manual baseline for period. A period's first baseline
// counts as its bootstrap.
func (s *Scheduler) CreateSnapshot(ctx context.Context, period domain.PeriodType) (string, error) {
	if err := period.Validate(); err != nil {
		return "", err
	}
	if s.state.SnapshotID(period) == "" {
		return s.bootstrap(ctx, period, s.now())
	}
	return s.captureBaseline(ctx, period)
}

func (s *Scheduler) run(ctx context.Context, period domain.PeriodType, now time.Time) ([]domain.DeltaEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.PeriodRunTimeout)
	defer cancel()

	baseID := s.state.SnapshotID(period)
	if baseID == "" {
		if _, err := s.bootstrap(ctx, period, now); err != nil {
			s.metrics.PeriodRuns.WithLabelValues(string(period), "error").Inc()
			return nil, err
		}
		s.metrics.PeriodRuns.WithLabelValues(string(period), "bootstrap").Inc()
		s.logger.Info().Str("period_type", string(period)).Msg("no baseline existed, captured one instead of reporting")
		return []domain.DeltaEntry{}, nil
	}

	entries, err := s.closePeriod(ctx, period, baseID, now)
	if err != nil {
		s.metrics.PeriodRuns.WithLabelValues(string(period), "error").Inc()
		return nil, err
	}
	s.metrics.PeriodRuns.WithLabelValues(string(period), "published").Inc()
	return entries, nil
}

// closePeriod reports against the existing baseline and only then replaces it.
// last_<period>_run_at is written last, so any failure leaves the period due.
func (s *Scheduler) closePeriod(ctx context.Context, period domain.PeriodType, baseID string, now time.Time) ([]domain.DeltaEntry, error) {
	entries, err := s.deltas.CalculateDeltas(ctx, baseID)
	if err != nil {
		return nil, fmt.Errorf("calculate deltas: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.history.Append(gctx, period, entries)
	})
	g.Go(func() error {
		return s.hof.Update(gctx, period, entries)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	delta, err := s.deltas.Record(ctx, period, baseID, entries)
	if err != nil {
		return nil, err
	}

	report := &publish.Report{
		PeriodType:     period,
		DeltaID:        delta.ID,
		BaseSnapshotID: baseID,
		GeneratedAt:    now.UTC(),
		Summary:        service.BuildHistoryEntry(period, entries, now).Summary,
		Entries:        entries,
	}

	publishCtx, cancel := context.WithTimeout(ctx, constants.PublishTimeout)
	defer cancel()
	if err := s.publisher.Publish(publishCtx, report); err != nil {
		return nil, fmt.Errorf("publish report: %w", err)
	}
	s.metrics.ReportsPublished.WithLabelValues(string(period)).Inc()

	if _, err := s.captureBaseline(ctx, period); err != nil {
		return nil, fmt.Errorf("close period: %w", err)
	}

	if err := s.state.markRun(ctx, period, now); err != nil {
		return nil, fmt.Errorf("mark run: %w", err)
	}

	s.logger.Info().
		Str("period_type", string(period)).
		Str("delta_id", delta.ID).
		Int("entries", len(entries)).
		Msg("period closed")

	return entries, nil
}

// bootstrap captures the period's first baseline and records when, so the
// window it was captured in does not report against it.
func (s *Scheduler) bootstrap(ctx context.Context, period domain.PeriodType, now time.Time) (string, error) {
	id, err := s.captureBaseline(ctx, period)
	if err != nil {
		return "", err
	}
	if err := s.state.markBootstrap(ctx, period, now); err != nil {
		s.logger.Warn().Err(err).Str("period_type", string(period)).Msg("failed to persist bootstrap time")
	}
	s.logger.Info().Str("period_type", string(period)).Str("snapshot_id", id).Msg("baseline bootstrapped")
	return id, nil
}

func (s *Scheduler) captureBaseline(ctx context.Context, period domain.PeriodType) (string, error) {
	id, err := s.snapshots.CreateSnapshot(ctx, period)
	if err != nil {
		return "", err
	}
	s.state.setSnapshotID(period, id)
	return id, nil
}

// Start launches the tick loop. The first tick runs right after bootstrap.
func (s *Scheduler) Start(context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		s.catchUp(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(ctx)
			}
		}
	}()

	s.logger.Info().Dur("interval", s.interval).Msg("scheduler started")
	return nil
}

// catchUp bootstraps missing baselines and then evaluates the current time once.
func (s *Scheduler) catchUp(ctx context.Context) {
	if err := s.Bootstrap(ctx); err != nil {
		s.logger.Error().Err(err).Msg("baseline bootstrap failed")
	}
	s.tick(ctx)
}

func (s *Scheduler) tick(ctx context.Context) {
	if err := s.Tick(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("tick finished with failed periods")
	}
}

func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()

	select {
	case <-s.done:
		s.logger.Info().Msg("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func register(lc fx.Lifecycle, s *Scheduler) {
	lc.Append(fx.Hook{
		OnStart: s.Start,
		OnStop:  s.Stop,
	})
}

var Module = fx.Options(
	fx.Provide(NewState),
	fx.Provide(New),
	fx.Invoke(register),
)
