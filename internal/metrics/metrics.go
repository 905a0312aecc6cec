package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crm_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Authentication metrics
	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_auth_attempts_total",
			Help: "Total number of login attempts",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_auth_errors_total",
			Help: "Total number of failed logins",
		},
	)

	// Lead assignment metrics
	LeadsAssignedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_leads_assigned_total",
			Help: "Leads handed out by the round-robin rotation",
		},
		[]string{"outcome"},
	)

	// Reminder sweep metrics
	SweepRunsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_sweep_runs_total",
			Help: "Total number of reminder sweep passes",
		},
	)

	NotificationsSentCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_notifications_sent_total",
			Help: "Push notifications by delivery outcome",
		},
		[]string{"kind", "outcome"},
	)
)
