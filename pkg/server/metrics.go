package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics are the Prometheus collectors exposed at /metrics: how many
// jobs came in per kind, how many failed, and how long each took. Queue
// depth is sampled from engine.Stats() rather than tracked here, since
// the engine is the source of truth for it.
type metrics struct {
	jobsTotal    *prometheus.CounterVec
	jobErrors    *prometheus.CounterVec
	jobLatencies *prometheus.HistogramVec
	queueDepth   prometheus.Gauge
	arenaFree    prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		jobsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "imgfilter_jobs_total",
			Help: "Filter jobs submitted to the engine, by kind.",
		}, []string{"kind"}),
		jobErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "imgfilter_job_errors_total",
			Help: "Filter jobs that failed, by kind and error type.",
		}, []string{"kind", "error_type"}),
		jobLatencies: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "imgfilter_job_duration_seconds",
			Help:    "Wall-clock latency of one filter job, from engine submission through Wait, by kind.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "imgfilter_queue_busy",
			Help: "1 if the engine's work queue currently has a head context, else 0.",
		}),
		arenaFree: factory.NewGauge(prometheus.GaugeOpts{
			Name: "imgfilter_arena_free_nodes",
			Help: "Node arena free-list length.",
		}),
	}
}
