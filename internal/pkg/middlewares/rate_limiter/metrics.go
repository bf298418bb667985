package rate_limiter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RejectedTotal считает отказы по маршруту и роли вызывающего.
// Анонимные запросы попадают в role="anonymous".
var RejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "marketplace_rate_limit_rejected_total",
		Help: "Requests rejected by the per-caller rate limiter",
	},
	[]string{"route", "role"},
)

const anonymousRole = "anonymous"
