package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics agrupa las metricas Prometheus del servicio sobre un registry propio.
// Todos los metodos son nil-safe para que los servicios funcionen sin metricas.
type Metrics struct {
	Registry *prometheus.Registry

	SynthesisTotal    *prometheus.CounterVec
	SynthesisDuration *prometheus.HistogramVec

	ReasoningRequestsTotal *prometheus.CounterVec
	ReasoningDuration      *prometheus.HistogramVec
	MalformedRetriesTotal  prometheus.Counter

	CompatibilityTotal prometheus.Counter

	HTTPRequestsTotal *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,

		SynthesisTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "traits",
			Subsystem: "synthesis",
			Name:      "runs_total",
			Help:      "Total profile synthesis runs by outcome.",
		}, []string{"outcome"}),

		SynthesisDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "traits",
			Subsystem: "synthesis",
			Name:      "duration_seconds",
			Help:      "End-to-end synthesis duration in seconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"outcome"}),

		ReasoningRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "traits",
			Subsystem: "reasoning",
			Name:      "requests_total",
			Help:      "Total reasoning engine requests.",
		}, []string{"provider", "status"}),

		ReasoningDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "traits",
			Subsystem: "reasoning",
			Name:      "request_duration_seconds",
			Help:      "Reasoning engine request duration in seconds.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"provider"}),

		MalformedRetriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "traits",
			Subsystem: "reasoning",
			Name:      "corrective_retries_total",
			Help:      "Corrective follow-up turns sent after a schema violation.",
		}),

		CompatibilityTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "traits",
			Subsystem: "matching",
			Name:      "compatibility_computations_total",
			Help:      "Total pairwise compatibility computations.",
		}),

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "traits",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		}, []string{"method", "route", "status_code"}),
	}

	reg.MustRegister(
		m.SynthesisTotal,
		m.SynthesisDuration,
		m.ReasoningRequestsTotal,
		m.ReasoningDuration,
		m.MalformedRetriesTotal,
		m.CompatibilityTotal,
		m.HTTPRequestsTotal,
	)
	return m
}

// ObserveSynthesis registra una corrida de sintesis terminada.
func (m *Metrics) ObserveSynthesis(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.SynthesisTotal.WithLabelValues(outcome).Inc()
	m.SynthesisDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (m *Metrics) IncMalformedRetry() {
	if m == nil {
		return
	}
	m.MalformedRetriesTotal.Inc()
}

func (m *Metrics) AddCompatibility(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.CompatibilityTotal.Add(float64(n))
}

func (m *Metrics) ObserveHTTP(method, route string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, itoa(status)).Inc()
}
