package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aaryasekhar/rchxtype/internal/domain"
	"github.com/aaryasekhar/rchxtype/internal/repository"
)

const (
	defaultSignalSampleSize = 5
	defaultTagSampleSize    = 20
)

// EvidenceAggregator arma el EvidenceBundle de un usuario: agrega las respuestas nuevas
// al log, lee el log completo y las senales conectadas y trunca todo a tamanos acotados.
type EvidenceAggregator struct {
	users        repository.UserRepository
	responses    repository.ResponseRepository
	signals      repository.SignalRepository
	logger       *zap.Logger
	signalSample int
	tagSample    int
	now          func() time.Time
}

// AggregatorOption configura un EvidenceAggregator.
type AggregatorOption func(*EvidenceAggregator)

// WithSampleSizes fija cuantos items por seccion y cuantos tags por conector se conservan.
func WithSampleSizes(items, tags int) AggregatorOption {
	return func(a *EvidenceAggregator) {
		if items >= 0 {
			a.signalSample = items
		}
		if tags >= 0 {
			a.tagSample = tags
		}
	}
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) AggregatorOption {
	return func(a *EvidenceAggregator) { a.now = now }
}

func NewEvidenceAggregator(
	users repository.UserRepository,
	responses repository.ResponseRepository,
	signals repository.SignalRepository,
	logger *zap.Logger,
	opts ...AggregatorOption,
) *EvidenceAggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &EvidenceAggregator{
		users:        users,
		responses:    responses,
		signals:      signals,
		logger:       logger,
		signalSample: defaultSignalSampleSize,
		tagSample:    defaultTagSampleSize,
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate valida y agrega newResponses, y devuelve la evidencia completa del usuario.
// overrides reemplaza, por conector, las senales almacenadas. Si alguna respuesta es
// invalida no se agrega ninguna.
func (a *EvidenceAggregator) Aggregate(ctx context.Context, userID string, newResponses []domain.ResponseRecord, overrides map[string]domain.ExternalSignal) (domain.EvidenceBundle, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.EvidenceBundle{}, &domain.ValidationError{Field: "user_id", Reason: "required"}
	}

	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return domain.EvidenceBundle{}, fmt.Errorf("get user %s: %w", userID, err)
	}

	now := a.now()
	if len(newResponses) > 0 {
		prepared, err := prepareResponses(userID, newResponses, now)
		if err != nil {
			return domain.EvidenceBundle{}, err
		}
		if err := a.responses.Append(ctx, prepared); err != nil {
			return domain.EvidenceBundle{}, fmt.Errorf("append responses: %w", err)
		}
		a.logger.Info("responses appended", zap.String("user_id", userID), zap.Int("count", len(prepared)))
	}

	log, err := a.responses.ListByUserID(ctx, userID)
	if err != nil {
		return domain.EvidenceBundle{}, fmt.Errorf("list responses: %w", err)
	}
	if log == nil {
		log = []domain.ResponseRecord{}
	}

	stored, err := a.signals.ListConnected(ctx, userID)
	if err != nil {
		return domain.EvidenceBundle{}, fmt.Errorf("list signals: %w", err)
	}

	signals := make(map[string]domain.ExternalSignal, len(stored)+len(overrides))
	for name, sig := range stored {
		signals[name] = sig.Sample(a.signalSample, a.tagSample)
	}
	for name, sig := range overrides {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		sig.Connector = name
		signals[name] = sig.Sample(a.signalSample, a.tagSample)
	}

	return domain.EvidenceBundle{
		UserID: userID,
		Demographics: domain.Demographics{
			FirstName: strings.TrimSpace(user.FirstName),
			Age:       user.Age(now),
			Location:  strings.TrimSpace(user.Location),
			Bio:       strings.TrimSpace(user.Bio),
		},
		Responses:   log,
		Signals:     signals,
		AssembledAt: now,
	}, nil
}

// prepareResponses valida cada respuesta y completa id, usuario, confianza y fecha.
func prepareResponses(userID string, in []domain.ResponseRecord, now time.Time) ([]domain.ResponseRecord, error) {
	out := make([]domain.ResponseRecord, 0, len(in))
	for i, r := range in {
		field := func(name string) string { return fmt.Sprintf("responses[%d].%s", i, name) }

		r.QuestionID = strings.TrimSpace(r.QuestionID)
		r.AnswerText = strings.TrimSpace(r.AnswerText)
		r.QuestionText = strings.TrimSpace(r.QuestionText)
		r.Category = domain.Category(strings.ToLower(strings.TrimSpace(string(r.Category))))

		if r.QuestionID == "" {
			return nil, &domain.ValidationError{Field: field("question_id"), Reason: "required"}
		}
		if r.AnswerText == "" {
			return nil, &domain.ValidationError{Field: field("answer"), Reason: "required"}
		}
		if !r.Category.Valid() {
			return nil, &domain.ValidationError{Field: field("category"), Reason: fmt.Sprintf("unknown category %q", r.Category)}
		}
		if r.Confidence < 0 || r.Confidence > 100 {
			return nil, &domain.ValidationError{Field: field("confidence"), Reason: fmt.Sprintf("value %d outside [0,100]", r.Confidence)}
		}
		if r.Confidence == 0 {
			r.Confidence = domain.DefaultResponseConfidence
		}
		if r.QuestionText == "" {
			if q, ok := QuestionByID(r.QuestionID); ok {
				r.QuestionText = q.Text
			}
		}
		r.ID = uuid.NewString()
		r.UserID = userID
		if r.AnsweredAt.IsZero() {
			r.AnsweredAt = now
		}
		out = append(out, r)
	}
	return out, nil
}
