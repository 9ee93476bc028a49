package handlers

import "github.com/prometheus/client_golang/prometheus"

// Result labels for the handler counters.
const (
	resultAccepted = "accepted"
	resultRejected = "rejected"
	resultFailed   = "failed"

	resultOK       = "ok"
	resultDegraded = "degraded"
	resultInvalid  = "invalid"
)

// Metrics counts intake and listing outcomes.
type Metrics struct {
	submissions *prometheus.CounterVec
	listings    *prometheus.CounterVec
}

// NewMetrics creates the handler counters and registers them on reg when it is
// non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contact_submissions_total",
			Help: "Contact form submissions by result",
		}, []string{"result"}),
		listings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contact_listing_requests_total",
			Help: "Operator listing requests by result",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.submissions, m.listings)
	}
	return m
}
