package telemetry

import (
	prom "github.com/prometheus/client_golang/prometheus"
)

// RotatorMetrics records quote rotation activity in Prometheus.
// A nil *RotatorMetrics is valid and records nothing.
type RotatorMetrics struct {
	rotations     *prom.CounterVec
	displayErrors *prom.CounterVec
	quotesLoaded  *prom.GaugeVec
}

// NewRotatorMetrics creates the rotator collectors and registers them on reg.
// A nil reg gets a private registry, which keeps tests isolated.
func NewRotatorMetrics(reg prom.Registerer) *RotatorMetrics {
	if reg == nil {
		reg = prom.NewRegistry()
	}

	m := &RotatorMetrics{
		rotations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "quote_rotator",
			Name:      "rotations_total",
			Help:      "Quotes shown, by display",
		}, []string{"display"}),
		displayErrors: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "quote_rotator",
			Name:      "display_errors_total",
			Help:      "Rotations whose display rejected the quote, by display",
		}, []string{"display"}),
		quotesLoaded: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "quote_rotator",
			Name:      "quotes_loaded",
			Help:      "Size of the quote list of the running rotation, by display",
		}, []string{"display"}),
	}

	reg.MustRegister(m.rotations, m.displayErrors, m.quotesLoaded)

	return m
}

// IncRotation counts one quote shown on display.
func (m *RotatorMetrics) IncRotation(display string) {
	if m == nil {
		return
	}

	m.rotations.WithLabelValues(display).Inc()
}

// IncDisplayError counts one failed Show on display.
func (m *RotatorMetrics) IncDisplayError(display string) {
	if m == nil {
		return
	}

	m.displayErrors.WithLabelValues(display).Inc()
}

// SetQuotesLoaded records the number of quotes a rotation cycles through.
func (m *RotatorMetrics) SetQuotesLoaded(display string, n int) {
	if m == nil {
		return
	}

	m.quotesLoaded.WithLabelValues(display).Set(float64(n))
}
