package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the compliance service.
type Metrics struct {
	ViolationsIssued       prometheus.Counter
	AppealsFiled           prometheus.Counter
	AppealsDecided         *prometheus.CounterVec
	RegistrationsTriggered prometheus.Counter
	RemindersDecided       *prometheus.CounterVec
	RejectedTransitions    *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ViolationsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lobbyreg_violations_issued_total",
			Help: "Total number of compliance violations issued",
		}),
		AppealsFiled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lobbyreg_appeals_filed_total",
			Help: "Total number of appeals filed against violations",
		}),
		AppealsDecided: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lobbyreg_appeals_decided_total",
			Help: "Total number of appeal decisions by outcome",
		}, []string{"outcome"}),
		RegistrationsTriggered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lobbyreg_registrations_triggered_total",
			Help: "Total number of registration deadlines created by threshold crossings",
		}),
		RemindersDecided: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lobbyreg_reminders_decided_total",
			Help: "Total number of reminder decisions by kind",
		}, []string{"kind"}),
		RejectedTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lobbyreg_rejected_transitions_total",
			Help: "Total number of state transitions rejected by guards",
		}, []string{"guard"}),
	}
}
