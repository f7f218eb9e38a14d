package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	tracesTotal      *prometheus.CounterVec
	phaseDuration    *prometheus.HistogramVec
	collabErrors     *prometheus.CounterVec
	membershipChecks *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		tracesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletscope_traces_total",
				Help: "Total number of completed traces by classification",
			},
			[]string{"classification"},
		),
		phaseDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "walletscope_phase_duration_seconds",
				Help:    "Duration of trace phases in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"phase"},
		),
		collabErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletscope_collaborator_errors_total",
				Help: "Total number of upstream collaborator failures",
			},
			[]string{"collaborator"},
		),
		membershipChecks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletscope_membership_checks_total",
				Help: "Total number of platform membership lookups",
			},
			[]string{"result"},
		),
	}
}

// RecordTrace records a completed trace by its final classification.
func (r *Recorder) RecordTrace(classification string) {
	r.tracesTotal.WithLabelValues(classification).Inc()
}

// RecordPhaseDuration records how long a trace phase took.
func (r *Recorder) RecordPhaseDuration(phase string, seconds float64) {
	r.phaseDuration.WithLabelValues(phase).Observe(seconds)
}

// RecordCollaboratorError records an upstream collaborator failure.
func (r *Recorder) RecordCollaboratorError(collaborator string) {
	r.collabErrors.WithLabelValues(collaborator).Inc()
}

// RecordMembershipCheck records one membership lookup outcome.
func (r *Recorder) RecordMembershipCheck(member bool) {
	result := "non_member"
	if member {
		result = "member"
	}
	r.membershipChecks.WithLabelValues(result).Inc()
}
