package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dashboard"

var once sync.Once

var (
	EventsIngestedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_ingested_total",
		Help:      "Events accepted by the ingest path, by transport and outcome.",
	}, []string{"transport", "outcome"})

	StorageFallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_fallbacks_total",
		Help:      "Read queries that failed and were replaced by their default value.",
	}, []string{"query"})

	SnapshotDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "snapshot_duration_seconds",
		Help:      "Time spent assembling a stats snapshot.",
		Buckets:   prometheus.DefBuckets,
	})

	AlertSubscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "alert_subscribers",
		Help:      "Connected live alert websocket clients.",
	})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status code.",
	}, []string{"route", "method", "code"})
)

// Register registers dashboard metrics with the default registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			EventsIngestedTotal,
			StorageFallbacksTotal,
			SnapshotDurationSeconds,
			AlertSubscribers,
			HTTPRequestsTotal,
		)
	})
}
