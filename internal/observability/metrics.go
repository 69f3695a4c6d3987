package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

// Metrics holds the Prometheus collectors for the reporting engine.
type Metrics struct {
	// store
	StoreOps       *prometheus.CounterVec
	StoreFallbacks *prometheus.CounterVec

	// scheduler
	TickDuration      prometheus.Histogram
	PeriodRuns        *prometheus.CounterVec
	ReportsPublished  *prometheus.CounterVec
	SnapshotsCreated  *prometheus.CounterVec
	DeltaEntriesCount *prometheus.GaugeVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		StoreOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leaderboard",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Store operations by operation, serving backend and outcome.",
		}, []string{"op", "backend", "outcome"}),
		StoreFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leaderboard",
			Subsystem: "store",
			Name:      "fallbacks_total",
			Help:      "Operations that were retried against the fallback backend.",
		}, []string{"op"}),
		TickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "leaderboard",
			Subsystem: "scheduler",
			Name:      "tick_duration_seconds",
			Help:      "Wall time of one scheduler tick across all periods.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		PeriodRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leaderboard",
			Subsystem: "scheduler",
			Name:      "period_runs_total",
			Help:      "Period report runs by period type and outcome.",
		}, []string{"period_type", "outcome"}),
		ReportsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leaderboard",
			Subsystem: "publisher",
			Name:      "reports_total",
			Help:      "Reports handed to the publisher.",
		}, []string{"period_type"}),
		SnapshotsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leaderboard",
			Subsystem: "snapshot",
			Name:      "created_total",
			Help:      "Snapshots written, by period type and backend.",
		}, []string{"period_type", "backend"}),
		DeltaEntriesCount: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "leaderboard",
			Subsystem: "delta",
			Name:      "active_players",
			Help:      "Active players in the most recent delta calculation.",
		}, []string{"period_type"}),
	}
}

func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

var Module = fx.Options(
	fx.Provide(NewRegistry),
	fx.Provide(func(reg *prometheus.Registry) *Metrics { return NewMetrics(reg) }),
)
