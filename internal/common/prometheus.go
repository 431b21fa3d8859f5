package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	ParticipationOutcomeTotal  = "participation_outcome_total"
	PointsAwardedTotal         = "points_awarded_total"
	OracleRequestTotal         = "oracle_requests_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"method", "status_code"}),
		ParticipationOutcomeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: ParticipationOutcomeTotal,
			Help: "Count of contest participation attempts by outcome",
		}, []string{"mode", "outcome"}),
		PointsAwardedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: PointsAwardedTotal,
			Help: "Sum of points awarded",
		}, []string{"source"}),
		OracleRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: OracleRequestTotal,
			Help: "Count of face recognition calls by operation and result",
		}, []string{"operation", "result"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"method", "status_code"}),
	}
)
