package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aaryasekhar/rchxtype/internal/domain"
	"github.com/aaryasekhar/rchxtype/internal/observability"
	"github.com/aaryasekhar/rchxtype/internal/repository"
)

const (
	defaultReasoningTimeout = 90 * time.Second
	nextQuestionsCount      = 3
)

// SynthesisResult es lo que devuelve una sintesis exitosa.
type SynthesisResult struct {
	Profile       domain.TraitProfile     `json:"profile"`
	Completion    domain.CompletionStatus `json:"completion"`
	NextQuestions []domain.Question       `json:"next_questions"`
	NewInsights   []domain.Insight        `json:"new_insights"`
}

// SynthesisService orquesta agregador, adaptador y merge bajo el lock por usuario.
// Cualquier fallo deja el perfil almacenado tal como estaba.
type SynthesisService struct {
	aggregator *EvidenceAggregator
	adapter    *ReasoningAdapter
	users      repository.UserRepository
	responses  repository.ResponseRepository
	profiles   repository.ProfileRepository
	locker     SynthesisLocker
	metrics    *observability.Metrics
	logger     *zap.Logger
	timeout    time.Duration
	now        func() time.Time
}

func NewSynthesisService(
	aggregator *EvidenceAggregator,
	adapter *ReasoningAdapter,
	users repository.UserRepository,
	responses repository.ResponseRepository,
	profiles repository.ProfileRepository,
	locker SynthesisLocker,
	metrics *observability.Metrics,
	logger *zap.Logger,
	timeout time.Duration,
) *SynthesisService {
	if locker == nil {
		locker = NewMemorySynthesisLocker()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultReasoningTimeout
	}
	return &SynthesisService{
		aggregator: aggregator,
		adapter:    adapter,
		users:      users,
		responses:  responses,
		profiles:   profiles,
		locker:     locker,
		metrics:    metrics,
		logger:     logger,
		timeout:    timeout,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Analyze agrega respuestas nuevas (al menos una) y sintetiza el perfil.
func (s *SynthesisService) Analyze(ctx context.Context, userID string, responses []domain.ResponseRecord, overrides map[string]domain.ExternalSignal) (SynthesisResult, error) {
	if len(responses) == 0 {
		return SynthesisResult{}, &domain.ValidationError{Field: "responses", Reason: "at least one response is required"}
	}
	return s.locked(ctx, userID, func() (SynthesisResult, error) {
		bundle, err := s.aggregator.Aggregate(ctx, userID, responses, overrides)
		if err != nil {
			return SynthesisResult{}, err
		}
		return s.run(ctx, userID, bundle)
	})
}

// Refresh vuelve a sintetizar con el log y las senales actuales.
func (s *SynthesisService) Refresh(ctx context.Context, userID string) (SynthesisResult, error) {
	return s.locked(ctx, userID, func() (SynthesisResult, error) {
		bundle, err := s.aggregator.Aggregate(ctx, userID, nil, nil)
		if err != nil {
			return SynthesisResult{}, err
		}
		return s.run(ctx, userID, bundle)
	})
}

// Synthesize sintetiza a partir de un bundle ya armado.
func (s *SynthesisService) Synthesize(ctx context.Context, userID string, bundle domain.EvidenceBundle) (domain.TraitProfile, error) {
	res, err := s.locked(ctx, userID, func() (SynthesisResult, error) {
		if bundle.UserID != "" && bundle.UserID != userID {
			return SynthesisResult{}, &domain.ValidationError{Field: "bundle.user_id", Reason: "does not match user"}
		}
		bundle.UserID = userID
		return s.run(ctx, userID, bundle)
	})
	return res.Profile, err
}

func (s *SynthesisService) locked(ctx context.Context, userID string, fn func() (SynthesisResult, error)) (res SynthesisResult, err error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveSynthesis(synthesisOutcome(err), time.Since(start))
	}()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return SynthesisResult{}, &domain.ValidationError{Field: "user_id", Reason: "required"}
	}
	release, err := s.locker.TryLock(ctx, userID)
	if err != nil {
		return SynthesisResult{}, err
	}
	defer release()
	return fn()
}

func (s *SynthesisService) run(ctx context.Context, userID string, bundle domain.EvidenceBundle) (SynthesisResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return SynthesisResult{}, fmt.Errorf("get user %s: %w", userID, err)
	}

	current, err := s.profiles.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		current = domain.NewTraitProfile(userID)
	} else if err != nil {
		return SynthesisResult{}, fmt.Errorf("get profile %s: %w", userID, err)
	}

	// la completitud se calcula sobre el log completo, no sobre el bundle recibido
	logged, err := s.responses.CountByUserID(ctx, userID)
	if err != nil {
		return SynthesisResult{}, fmt.Errorf("count responses: %w", err)
	}

	result, err := s.infer(ctx, bundle)
	if err != nil {
		return SynthesisResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return SynthesisResult{}, fmt.Errorf("synthesis canceled before merge: %w", err)
	}

	merged, added := MergeInference(current, result, MergeContext{
		User:          user,
		ResponseCount: logged,
		Now:           s.now(),
	})

	version, err := s.profiles.Save(ctx, merged)
	if err != nil {
		return SynthesisResult{}, fmt.Errorf("save profile %s: %w", userID, err)
	}
	merged.Version = version

	s.logger.Info("profile synthesized",
		zap.String("user_id", userID),
		zap.Int("responses", len(bundle.Responses)),
		zap.Int("signals", len(bundle.Signals)),
		zap.Int("new_insights", len(added)),
		zap.Int("completion", merged.CompletionPercentage),
	)

	return SynthesisResult{
		Profile:       merged,
		Completion:    Completion(user, merged, logged),
		NextQuestions: NextQuestions(domain.AnsweredCategories(bundle.Responses), nextQuestionsCount),
		NewInsights:   added,
	}, nil
}

type inferOutcome struct {
	result domain.InferenceResult
	err    error
}

// infer corre el adaptador en su propia goroutine para poder abandonarlo por timeout
// o cancelacion sin esperar a que el motor responda.
func (s *SynthesisService) infer(ctx context.Context, bundle domain.EvidenceBundle) (domain.InferenceResult, error) {
	ictx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ch := make(chan inferOutcome, 1)
	go func() {
		r, err := s.adapter.Infer(ictx, bundle)
		ch <- inferOutcome{result: r, err: err}
	}()

	select {
	case out := <-ch:
		return out.result, out.err
	case <-ictx.Done():
		return domain.InferenceResult{}, fmt.Errorf("%w: %w", domain.ErrInferenceUnavailable, ictx.Err())
	}
}

func synthesisOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrConcurrentSynthesis):
		return "conflict"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, domain.ErrInferenceUnavailable):
		return "unavailable"
	case errors.Is(err, domain.ErrMalformedInference):
		return "malformed"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
