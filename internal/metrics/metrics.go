package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProviderAPICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whattowear_provider_api_calls_total",
			Help: "Total Weather Company forecast API calls",
		},
		[]string{"endpoint", "status"},
	)

	ProviderAPILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "whattowear_provider_api_latency_seconds",
			Help:    "Forecast API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	RecordQualityFlags = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whattowear_record_quality_flags_total",
			Help: "Forecast records flagged by validation, by flag",
		},
		[]string{"flag"},
	)

	RecordsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whattowear_records_dropped_total",
			Help: "Forecast records skipped while extracting the hours of interest",
		},
		[]string{"reason"},
	)

	VerdictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whattowear_verdicts_total",
			Help: "Verdicts computed, by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)
)
