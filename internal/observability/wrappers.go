package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/aaryasekhar/rchxtype/internal/llm"
)

// InstrumentedEngine envuelve un llm.ReasoningEngine con metricas.
type InstrumentedEngine struct {
	inner    llm.ReasoningEngine
	provider string
	metrics  *Metrics
}

func NewInstrumentedEngine(inner llm.ReasoningEngine, provider string, metrics *Metrics) *InstrumentedEngine {
	return &InstrumentedEngine{inner: inner, provider: provider, metrics: metrics}
}

func (e *InstrumentedEngine) Generate(ctx context.Context, req llm.Request) (string, error) {
	start := time.Now()
	out, err := e.inner.Generate(ctx, req)
	duration := time.Since(start).Seconds()

	if e.metrics != nil {
		status := "success"
		switch {
		case ctx.Err() != nil:
			status = "canceled"
		case err != nil:
			status = "error"
		}
		e.metrics.ReasoningRequestsTotal.WithLabelValues(e.provider, status).Inc()
		e.metrics.ReasoningDuration.WithLabelValues(e.provider).Observe(duration)
	}
	return out, err
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
