package feed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActiveSubscriptions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "feed_active_subscriptions",
			Help: "Number of live subscriptions by kind",
		},
		[]string{"kind"},
	)

	SnapshotsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_snapshots_total",
			Help: "Snapshots delivered to subscribers by kind and result",
		},
		[]string{"kind", "result"},
	)
)
