package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "menucraft_http_requests_total",
		Help: "Total HTTP requests by method and status code.",
	}, []string{"method", "status"})

	RateLimitRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "menucraft_ratelimit_rejected_total",
		Help: "Requests rejected by the admission limiter.",
	})

	ScansRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "menucraft_scans_recorded_total",
		Help: "QR code scans accepted for recording.",
	})

	QuotaDeniedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "menucraft_quota_denied_total",
		Help: "Resource creations denied by the tier quota enforcer.",
	}, []string{"resource"})

	PanicsRecoveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "menucraft_panics_recovered_total",
		Help: "Handler panics caught by the recovery middleware.",
	})
)
