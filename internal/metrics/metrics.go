// Package metrics holds the Prometheus collectors exported by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the application's collectors. A nil *Metrics is valid and
// records nothing, so components can be built without one in tests.
type Metrics struct {
	ExpensesAdded       prometheus.Counter
	SettlementsRecorded prometheus.Counter
	PaymentFailures     *prometheus.CounterVec
	RPCDuration         *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ExpensesAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arcwise_expenses_added_total",
			Help: "Number of expenses appended to the ledger.",
		}),
		SettlementsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arcwise_settlements_recorded_total",
			Help: "Number of settlements recorded after a successful payment.",
		}),
		PaymentFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arcwise_payment_failures_total",
			Help: "Payments the gateway declined or could not complete.",
		}, []string{"reason"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arcwise_rpc_duration_seconds",
			Help:    "Duration of Connect RPCs.",
			Buckets: prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
	}
	reg.MustRegister(m.ExpensesAdded, m.SettlementsRecorded, m.PaymentFailures, m.RPCDuration)
	return m
}

func (m *Metrics) ExpenseAdded() {
	if m != nil {
		m.ExpensesAdded.Inc()
	}
}

func (m *Metrics) SettlementRecorded() {
	if m != nil {
		m.SettlementsRecorded.Inc()
	}
}

// PaymentFailed counts a failed payment. reason should be low-cardinality.
func (m *Metrics) PaymentFailed(reason string) {
	if m != nil {
		m.PaymentFailures.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) ObserveRPC(procedure, code string, seconds float64) {
	if m != nil {
		m.RPCDuration.WithLabelValues(procedure, code).Observe(seconds)
	}
}
