package server

import (
	"context"
	"errors"
	"time"

	"leaderboard-tracker/internal/domain"
	"leaderboard-tracker/internal/scheduler"
	"leaderboard-tracker/internal/service"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

type ReportServer struct {
	scheduler *scheduler.Scheduler
	history   *service.HistoryService
	hof       *service.HallOfFameService
	logger    zerolog.Logger
}

func NewReportServer(sched *scheduler.Scheduler, history *service.HistoryService, hof *service.HallOfFameService, logger zerolog.Logger) *ReportServer {
	return &ReportServer{scheduler: sched, history: history, hof: hof, logger: logger}
}

// GetDeltas previews the open period without closing it.
func (s *ReportServer) GetDeltas(ctx context.Context, req *connect.Request[PeriodRequest]) (*connect.Response[DeltasResponse], error) {
	defer s.timed(ctx, "GetDeltas")()

	period, err := domain.ParsePeriodType(req.Msg.PeriodType)
	if err != nil {
		return nil, toConnectError(err)
	}

	entries, err := s.scheduler.Preview(ctx, period)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&DeltasResponse{PeriodType: string(period), Entries: nonNil(entries)}), nil
}

func (s *ReportServer) RunAndPublish(ctx context.Context, req *connect.Request[PeriodRequest]) (*connect.Response[DeltasResponse], error) {
	defer s.timed(ctx, "RunAndPublish")()

	period, err := domain.ParsePeriodType(req.Msg.PeriodType)
	if err != nil {
		return nil, toConnectError(err)
	}

	entries, err := s.scheduler.RunAndPublish(ctx, period)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&DeltasResponse{PeriodType: string(period), Entries: nonNil(entries)}), nil
}

func (s *ReportServer) GetHistory(ctx context.Context, req *connect.Request[HistoryRequest]) (*connect.Response[HistoryResponse], error) {
	defer s.timed(ctx, "GetHistory")()

	period, err := domain.ParsePeriodType(req.Msg.PeriodType)
	if err != nil {
		return nil, toConnectError(err)
	}

	entries, err := s.history.List(ctx, period, req.Msg.Count)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&HistoryResponse{PeriodType: string(period), Entries: entries}), nil
}

func (s *ReportServer) GetHallOfFame(ctx context.Context, req *connect.Request[HallOfFameRequest]) (*connect.Response[HallOfFameResponse], error) {
	defer s.timed(ctx, "GetHallOfFame")()

	hof, err := s.hof.Get(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	records := hof.Records
	if records == nil {
		records = map[string]domain.PeakRecord{}
	}
	return connect.NewResponse(&HallOfFameResponse{
		WeeklyChampions:  hof.ChampionsFor(domain.PeriodWeekly),
		MonthlyChampions: hof.ChampionsFor(domain.PeriodMonthly),
		Records:          records,
	}), nil
}

func (s *ReportServer) CreateSnapshot(ctx context.Context, req *connect.Request[PeriodRequest]) (*connect.Response[SnapshotResponse], error) {
	defer s.timed(ctx, "CreateSnapshot")()

	period, err := domain.ParsePeriodType(req.Msg.PeriodType)
	if err != nil {
		return nil, toConnectError(err)
	}

	id, err := s.scheduler.CreateSnapshot(ctx, period)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&SnapshotResponse{PeriodType: string(period), SnapshotID: id}), nil
}

func (s *ReportServer) timed(ctx context.Context, method string) func() {
	start := time.Now()
	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		logger = &s.logger
	}
	return func() {
		logger.Debug().Str("method", method).Int64("duration_ms", time.Since(start).Milliseconds()).Msg("rpc handled")
	}
}

func toConnectError(err error) error {
	switch {
	case domain.IsValidation(err):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case domain.IsNotFound(err):
		return connect.NewError(connect.CodeNotFound, err)
	case domain.IsStorage(err):
		return connect.NewError(connect.CodeUnavailable, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func nonNil(entries []domain.DeltaEntry) []domain.DeltaEntry {
	if entries == nil {
		return []domain.DeltaEntry{}
	}
	return entries
}
