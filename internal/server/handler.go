package server

import (
	"net/http"

	"connectrpc.com/connect"
)

const ReportServiceName = "leaderboard.v1.ReportService"

const (
	ReportServicePath       = "/" + ReportServiceName + "/"
	GetDeltasProcedure      = ReportServicePath + "GetDeltas"
	RunAndPublishProcedure  = ReportServicePath + "RunAndPublish"
	GetHistoryProcedure     = ReportServicePath + "GetHistory"
	GetHallOfFameProcedure  = ReportServicePath + "GetHallOfFame"
	CreateSnapshotProcedure = ReportServicePath + "CreateSnapshot"
)

// NewReportServiceHandler returns the path prefix to mount the service on and its handler.
func NewReportServiceHandler(s *ReportServer, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(GetDeltasProcedure, connect.NewUnaryHandler(GetDeltasProcedure, s.GetDeltas, opts...))
	mux.Handle(RunAndPublishProcedure, connect.NewUnaryHandler(RunAndPublishProcedure, s.RunAndPublish, opts...))
	mux.Handle(GetHistoryProcedure, connect.NewUnaryHandler(GetHistoryProcedure, s.GetHistory, opts...))
	mux.Handle(GetHallOfFameProcedure, connect.NewUnaryHandler(GetHallOfFameProcedure, s.GetHallOfFame, opts...))
	mux.Handle(CreateSnapshotProcedure, connect.NewUnaryHandler(CreateSnapshotProcedure, s.CreateSnapshot, opts...))

	return ReportServicePath, mux
}

// ReportServiceClient calls the report service with the same JSON codec.
type ReportServiceClient struct {
	GetDeltas      *connect.Client[PeriodRequest, DeltasResponse]
	RunAndPublish  *connect.Client[PeriodRequest, DeltasResponse]
	GetHistory     *connect.Client[HistoryRequest, HistoryResponse]
	GetHallOfFame  *connect.Client[HallOfFameRequest, HallOfFameResponse]
	CreateSnapshot *connect.Client[PeriodRequest, SnapshotResponse]
}

func NewReportServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ReportServiceClient {
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)

	return &ReportServiceClient{
		GetDeltas:      connect.NewClient[PeriodRequest, DeltasResponse](httpClient, baseURL+GetDeltasProcedure, opts...),
		RunAndPublish:  connect.NewClient[PeriodRequest, DeltasResponse](httpClient, baseURL+RunAndPublishProcedure, opts...),
		GetHistory:     connect.NewClient[HistoryRequest, HistoryResponse](httpClient, baseURL+GetHistoryProcedure, opts...),
		GetHallOfFame:  connect.NewClient[HallOfFameRequest, HallOfFameResponse](httpClient, baseURL+GetHallOfFameProcedure, opts...),
		CreateSnapshot: connect.NewClient[PeriodRequest, SnapshotResponse](httpClient, baseURL+CreateSnapshotProcedure, opts...),
	}
}
