package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the slot and booking flows.
type BookingMetrics struct {
	slotQueries     *prometheus.CounterVec
	attemptsTotal   *prometheus.CounterVec
	paymentPolls    *prometheus.CounterVec
	attemptDuration *prometheus.HistogramVec
	compensations   *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		slotQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "glowhub",
			Subsystem: "slots",
			Name:      "queries_total",
			Help:      "Total slot availability queries",
		}, []string{"status"}),
		attemptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "glowhub",
			Subsystem: "booking",
			Name:      "attempts_total",
			Help:      "Booking attempts by payment method and outcome",
		}, []string{"method", "outcome"}),
		paymentPolls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "glowhub",
			Subsystem: "payment",
			Name:      "status_checks_total",
			Help:      "Payment status checks by observed status",
		}, []string{"status"}),
		attemptDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "glowhub",
			Subsystem: "booking",
			Name:      "attempt_duration_seconds",
			Help:      "Time from attempt start to terminal state",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 15, 30},
		}, []string{"outcome"}),
		compensations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "glowhub",
			Subsystem: "booking",
			Name:      "compensations_total",
			Help:      "Refunds and reconciliations issued after failed confirmation",
		}, []string{"action", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.slotQueries, m.attemptsTotal, m.paymentPolls, m.attemptDuration, m.compensations)
	return m
}

func (m *BookingMetrics) ObserveSlotQuery(status string) {
	if m == nil {
		return
	}
	m.slotQueries.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveAttempt(method, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.attemptsTotal.WithLabelValues(method, outcome).Inc()
	m.attemptDuration.WithLabelValues(outcome).Observe(seconds)
}

func (m *BookingMetrics) ObservePaymentPoll(status string) {
	if m == nil {
		return
	}
	m.paymentPolls.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveCompensation(action string, ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.compensations.WithLabelValues(action, status).Inc()
}
