package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests, streams excluded",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// Потоки живут минутами, их длительность не смешиваем с обычными запросами.
	StreamsOpen = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_streams_open",
			Help: "Currently open streaming responses",
		},
		[]string{"route"},
	)

	StreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_stream_duration_seconds",
			Help:    "Lifetime of streaming responses",
			Buckets: []float64{1, 10, 30, 60, 300, 900, 1800, 3600},
		},
		[]string{"route"},
	)
)
