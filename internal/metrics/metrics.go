package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "storeq"

var (
	AuthRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_requests_total",
			Help:      "Total number of gated requests, labeled by gate outcome.",
		},
		[]string{"outcome"},
	)

	RoleDenialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "role_denials_total",
			Help:      "Total number of role-gate denials, labeled by gate.",
		},
		[]string{"gate"},
	)

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Total number of login attempts, labeled by outcome.",
		},
		[]string{"outcome"},
	)

	RateLimitHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_hits_total",
			Help:      "Total number of requests rejected by the rate limiter.",
		},
		[]string{"scope", "operation"},
	)
)

func init() {
	prometheus.MustRegister(
		AuthRequestsTotal,
		RoleDenialsTotal,
		LoginsTotal,
		RateLimitHitsTotal,
	)
}
