package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aaryasekhar/rchxtype/internal/domain"
	"github.com/aaryasekhar/rchxtype/internal/llm"
	"github.com/aaryasekhar/rchxtype/internal/observability"
)

const (
	maxInferenceAttempts = 2
	reasoningLogLimit    = 280
)

// ReasoningAdapter convierte un EvidenceBundle en un InferenceResult validado.
// No persiste nada.
type ReasoningAdapter struct {
	engine  llm.ReasoningEngine
	logger  *zap.Logger
	metrics *observability.Metrics
}

func NewReasoningAdapter(engine llm.ReasoningEngine, metrics *observability.Metrics, logger *zap.Logger) *ReasoningAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReasoningAdapter{engine: engine, logger: logger, metrics: metrics}
}

// Infer invoca al motor y valida la respuesta. Un error de transporte o timeout se
// reporta como domain.ErrInferenceUnavailable. Una respuesta fuera de schema recibe un
// unico turno correctivo; si vuelve a fallar se reporta como domain.ErrMalformedInference.
func (a *ReasoningAdapter) Infer(ctx context.Context, bundle domain.EvidenceBundle) (domain.InferenceResult, error) {
	if a == nil || a.engine == nil {
		return domain.InferenceResult{}, fmt.Errorf("reasoning engine not configured: %w", domain.ErrInferenceUnavailable)
	}

	req := llm.Request{
		System:     reasoningSystemPrompt,
		Messages:   []llm.Message{{Role: llm.RoleUser, Content: BuildReasoningPrompt(bundle)}},
		SchemaName: inferenceSchemaName,
		Schema:     InferenceSchema(),
	}

	var lastErr error
	for attempt := 1; attempt <= maxInferenceAttempts; attempt++ {
		raw, err := a.engine.Generate(ctx, req)
		if err != nil {
			a.logger.Warn("reasoning engine call failed",
				zap.String("user_id", bundle.UserID),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return domain.InferenceResult{}, fmt.Errorf("%w: %w", domain.ErrInferenceUnavailable, err)
		}

		result, perr := ParseInference(raw)
		if perr == nil {
			a.logReasoning(bundle.UserID, result)
			return result, nil
		}
		lastErr = perr

		var schemaErr *domain.InferenceSchemaError
		violations := []string{perr.Error()}
		if errors.As(perr, &schemaErr) {
			violations = schemaErr.Violations
		}
		a.logger.Warn("reasoning engine returned malformed inference",
			zap.String("user_id", bundle.UserID),
			zap.Int("attempt", attempt),
			zap.Strings("violations", violations),
		)
		if attempt == maxInferenceAttempts {
			break
		}

		a.metrics.IncMalformedRetry()
		messages := make([]llm.Message, 0, len(req.Messages)+2)
		messages = append(messages, req.Messages...)
		messages = append(messages,
			llm.Message{Role: llm.RoleAssistant, Content: raw},
			llm.Message{Role: llm.RoleUser, Content: correctionPrompt(violations)},
		)
		req.Messages = messages
	}
	return domain.InferenceResult{}, lastErr
}

func (a *ReasoningAdapter) logReasoning(userID string, result domain.InferenceResult) {
	if ce := a.logger.Check(zap.DebugLevel, "inference reasoning"); ce != nil {
		fields := []zap.Field{zap.String("user_id", userID)}
		for _, d := range domain.BigFive {
			fields = append(fields, zap.String(string(d), truncateForLog(result.Traits[d].Reasoning, reasoningLogLimit)))
		}
		ce.Write(fields...)
	}
}
