package cart

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts cart store outcomes. A nil *Metrics records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	stales     *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_operations_total",
		Help: "Cart store operations by outcome.",
	}, []string{"operation", "outcome"})
	stales := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_stale_responses_total",
		Help: "Responses dropped because a newer cart call was issued.",
	}, []string{"operation"})
	reg.MustRegister(operations, stales)
	return &Metrics{operations: operations, stales: stales}
}

func (m *Metrics) operation(op, outcome string) {
	if m == nil || m.operations == nil {
		return
	}
	m.operations.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) stale(op string) {
	if m == nil || m.stales == nil {
		return
	}
	m.stales.WithLabelValues(op).Inc()
}
