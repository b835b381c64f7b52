package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aaryasekhar/rchxtype/internal/domain"
	"github.com/aaryasekhar/rchxtype/internal/repository"
)

// TraitOverride fija a mano el puntaje y/o la confianza de un rasgo.
type TraitOverride struct {
	Score      *float64 `json:"score,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// ProfileUpdate es una edicion manual del perfil. Interests nil deja los intereses como estan.
type ProfileUpdate struct {
	Traits    map[domain.Dimension]TraitOverride `json:"traits,omitempty"`
	Interests []domain.InferredInterest          `json:"interests,omitempty"`
	Insights  []domain.InferredInsight           `json:"insights,omitempty"`
}

// ProfileService expone lectura, edicion manual y estado de completitud del perfil.
type ProfileService struct {
	users     repository.UserRepository
	responses repository.ResponseRepository
	signals   repository.SignalRepository
	profiles  repository.ProfileRepository
	logger    *zap.Logger
	now       func() time.Time
}

func NewProfileService(
	users repository.UserRepository,
	responses repository.ResponseRepository,
	signals repository.SignalRepository,
	profiles repository.ProfileRepository,
	logger *zap.Logger,
) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{
		users:     users,
		responses: responses,
		signals:   signals,
		profiles:  profiles,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// GetProfile devuelve el perfil almacenado o, si no existe, el perfil por defecto. La
// completitud se recalcula siempre con el log actual.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (domain.TraitProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.TraitProfile{}, fmt.Errorf("get user %s: %w", userID, err)
	}
	p, err := s.profiles.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		p = domain.NewTraitProfile(userID)
	} else if err != nil {
		return domain.TraitProfile{}, fmt.Errorf("get profile %s: %w", userID, err)
	}
	count, err := s.responses.CountByUserID(ctx, userID)
	if err != nil {
		return domain.TraitProfile{}, fmt.Errorf("count responses: %w", err)
	}
	p.CompletionPercentage = Completion(user, p, count).Percentage
	return p, nil
}

// CompletionStatus recalcula la completitud y agrega contadores de respuestas e integraciones.
func (s *ProfileService) CompletionStatus(ctx context.Context, userID string) (domain.ProfileCompletion, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.ProfileCompletion{}, fmt.Errorf("get user %s: %w", userID, err)
	}
	p, err := s.profiles.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		p = domain.NewTraitProfile(userID)
	} else if err != nil {
		return domain.ProfileCompletion{}, fmt.Errorf("get profile %s: %w", userID, err)
	}
	count, err := s.responses.CountByUserID(ctx, userID)
	if err != nil {
		return domain.ProfileCompletion{}, fmt.Errorf("count responses: %w", err)
	}
	signals, err := s.signals.ListConnected(ctx, userID)
	if err != nil {
		return domain.ProfileCompletion{}, fmt.Errorf("list signals: %w", err)
	}
	return domain.ProfileCompletion{
		CompletionStatus:  Completion(user, p, count),
		ResponsesCount:    count,
		IntegrationsCount: len(signals),
		LastUpdate:        p.LastComprehensiveUpdate,
	}, nil
}

// UpdateTraits aplica una edicion manual con escritura versionada.
func (s *ProfileService) UpdateTraits(ctx context.Context, userID string, update ProfileUpdate) (domain.TraitProfile, error) {
	if err := validateProfileUpdate(update); err != nil {
		return domain.TraitProfile{}, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.TraitProfile{}, fmt.Errorf("get user %s: %w", userID, err)
	}
	current, err := s.profiles.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		current = domain.NewTraitProfile(userID)
	} else if err != nil {
		return domain.TraitProfile{}, fmt.Errorf("get profile %s: %w", userID, err)
	}
	count, err := s.responses.CountByUserID(ctx, userID)
	if err != nil {
		return domain.TraitProfile{}, fmt.Errorf("count responses: %w", err)
	}

	now := s.now()
	next := current.Clone()
	for _, d := range domain.BigFive {
		o, ok := update.Traits[d]
		if !ok {
			continue
		}
		ts := next.Trait(d)
		if o.Score != nil {
			ts.Score = domain.Clamp100(*o.Score)
		}
		if o.Confidence != nil {
			ts.Confidence = domain.Clamp100(*o.Confidence)
		}
		stamp := now
		ts.LastUpdated = &stamp
		next.SetTrait(d, ts)
	}
	if update.Interests != nil {
		next.Interests = mergeInterests(update.Interests, now)
	}
	incoming := make([]domain.Insight, 0, len(update.Insights))
	for _, in := range update.Insights {
		incoming = append(incoming, domain.Insight{
			Kind:        in.Kind,
			Title:       strings.TrimSpace(in.Title),
			Description: strings.TrimSpace(in.Description),
			Confidence:  in.Confidence,
			CreatedAt:   now,
		})
	}
	next.Insights, _ = appendInsights(next.Insights, incoming)
	next.CompletionPercentage = Completion(user, next, count).Percentage

	version, err := s.profiles.Save(ctx, next)
	if err != nil {
		return domain.TraitProfile{}, fmt.Errorf("save profile %s: %w", userID, err)
	}
	next.Version = version
	s.logger.Info("profile updated manually", zap.String("user_id", userID), zap.Int("traits", len(update.Traits)))
	return next, nil
}

func validateProfileUpdate(u ProfileUpdate) error {
	for d, o := range u.Traits {
		if !domain.Contains(domain.BigFive, d) {
			return &domain.ValidationError{Field: "traits", Reason: fmt.Sprintf("unknown trait %q", d)}
		}
		if o.Score != nil && !domain.InRange100(*o.Score) {
			return &domain.ValidationError{Field: "traits." + string(d) + ".score", Reason: "outside [0,100]"}
		}
		if o.Confidence != nil && !domain.InRange100(*o.Confidence) {
			return &domain.ValidationError{Field: "traits." + string(d) + ".confidence", Reason: "outside [0,100]"}
		}
	}
	for i, in := range u.Interests {
		if strings.TrimSpace(in.Category) == "" {
			return &domain.ValidationError{Field: fmt.Sprintf("interests[%d].category", i), Reason: "required"}
		}
		if !domain.InRange100(in.Confidence) {
			return &domain.ValidationError{Field: fmt.Sprintf("interests[%d].confidence", i), Reason: "outside [0,100]"}
		}
	}
	for i, in := range u.Insights {
		if !domain.Contains(domain.InsightKinds, in.Kind) {
			return &domain.ValidationError{Field: fmt.Sprintf("insights[%d].type", i), Reason: fmt.Sprintf("unknown kind %q", in.Kind)}
		}
		if strings.TrimSpace(in.Title) == "" {
			return &domain.ValidationError{Field: fmt.Sprintf("insights[%d].title", i), Reason: "required"}
		}
		if !domain.InRange100(in.Confidence) {
			return &domain.ValidationError{Field: fmt.Sprintf("insights[%d].confidence", i), Reason: "outside [0,100]"}
		}
	}
	return nil
}

// NextQuestions sugiere preguntas de la primera categoria que el usuario todavia no respondio.
func (s *ProfileService) NextQuestions(ctx context.Context, userID string, count int) ([]domain.Question, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	}
	log, err := s.responses.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	if count <= 0 {
		count = nextQuestionsCount
	}
	return NextQuestions(domain.AnsweredCategories(log), count), nil
}
