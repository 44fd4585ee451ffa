package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookly_auth_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"outcome"},
	)

	SignupsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookly_auth_signups_total",
			Help: "Total number of accounts created",
		},
	)

	TokenVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookly_auth_token_verifications_total",
			Help: "Total number of bearer token verifications by the guards",
		},
		[]string{"kind", "outcome"},
	)

	RevocationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookly_auth_revocations_total",
			Help: "Total number of tokens recorded in the blocklist",
		},
	)

	MailDispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookly_mail_dispatch_total",
			Help: "Total number of mail dispatch attempts",
		},
		[]string{"outcome"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookly_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)
