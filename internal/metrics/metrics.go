// Package metrics defines the Prometheus collectors exported by the matchmaker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every collector.
type Metrics struct {
	SessionsCreated   prometheus.Counter
	SessionsCompleted prometheus.Counter
	SessionsReset     prometheus.Counter
	AnswersTotal      *prometheus.CounterVec
	TransitionErrors  *prometheus.CounterVec
	RankingDuration   prometheus.Histogram
	HTTPRequestsTotal *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchmaker_sessions_created_total",
			Help: "Sessions created.",
		}),
		SessionsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchmaker_sessions_completed_total",
			Help: "Sessions that answered every scenario.",
		}),
		SessionsReset: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchmaker_sessions_reset_total",
			Help: "Reset events applied.",
		}),
		AnswersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchmaker_answers_total",
			Help: "Answers recorded by chosen side.",
		}, []string{"side"}),
		TransitionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchmaker_transition_errors_total",
			Help: "Events rejected by the accumulator, by event.",
		}, []string{"event"}),
		RankingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "matchmaker_ranking_duration_seconds",
			Help:    "Time to score and order all candidates.",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchmaker_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "matchmaker_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		m.SessionsCreated,
		m.SessionsCompleted,
		m.SessionsReset,
		m.AnswersTotal,
		m.TransitionErrors,
		m.RankingDuration,
		m.HTTPRequestsTotal,
		m.HTTPDuration,
	)
	return m
}
