package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aaryasekhar/rchxtype/internal/domain"
	"github.com/aaryasekhar/rchxtype/internal/observability"
	"github.com/aaryasekhar/rchxtype/internal/repository"
)

const (
	defaultSuggestionLimit  = 10
	maxSuggestionLimit      = 50
	candidateOversampling   = 4
	defaultMatchConcurrency = 8
)

// MatchSuggestion es un candidato con su puntaje de compatibilidad.
type MatchSuggestion struct {
	UserID           string                    `json:"user_id"`
	Compatibility    domain.CompatibilityScore `json:"compatibility"`
	PreferredMatches int                       `json:"preferred_matches"`
}

// MatchingService calcula compatibilidad entre perfiles almacenados y aplica las
// preferencias de matching de cada usuario.
type MatchingService struct {
	profiles    repository.ProfileRepository
	users       repository.UserRepository
	preferences repository.PreferencesRepository
	metrics     *observability.Metrics
	logger      *zap.Logger
	concurrency int
	now         func() time.Time
}

func NewMatchingService(
	profiles repository.ProfileRepository,
	users repository.UserRepository,
	preferences repository.PreferencesRepository,
	metrics *observability.Metrics,
	logger *zap.Logger,
	concurrency int,
) *MatchingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency <= 0 {
		concurrency = defaultMatchConcurrency
	}
	return &MatchingService{
		profiles:    profiles,
		users:       users,
		preferences: preferences,
		metrics:     metrics,
		logger:      logger,
		concurrency: concurrency,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// CompatibilityBetween compara los perfiles de dos usuarios. Un usuario sin perfil se
// compara con el perfil por defecto.
func (s *MatchingService) CompatibilityBetween(ctx context.Context, userA, userB string) (domain.CompatibilityScore, error) {
	userA, userB = strings.TrimSpace(userA), strings.TrimSpace(userB)
	if userA == "" || userB == "" {
		return domain.CompatibilityScore{}, &domain.ValidationError{Field: "user_id", Reason: "required"}
	}
	a, err := s.loadProfile(ctx, userA)
	if err != nil {
		return domain.CompatibilityScore{}, err
	}
	b, err := s.loadProfile(ctx, userB)
	if err != nil {
		return domain.CompatibilityScore{}, err
	}
	score, err := Compatibility(a, b)
	if err != nil {
		return domain.CompatibilityScore{}, err
	}
	s.metrics.AddCompatibility(1)
	return score, nil
}

// Suggestions preselecciona candidatos cercanos en el espacio de rasgos, los puntua en
// paralelo y descarta los que no cumplen las preferencias del usuario. Orden: puntaje
// descendente, intereses preferidos en comun y luego user id.
func (s *MatchingService) Suggestions(ctx context.Context, userID string, limit int) ([]MatchSuggestion, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, &domain.ValidationError{Field: "user_id", Reason: "required"}
	}
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}
	if limit > maxSuggestionLimit {
		limit = maxSuggestionLimit
	}

	self, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	prefs, err := s.loadPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.profiles.ListCandidates(ctx, userID, self.TraitVector(), limit*candidateOversampling)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	scored := make([]*MatchSuggestion, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, candidate := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			score, err := Compatibility(self, candidate)
			if err != nil {
				s.logger.Warn("skipping malformed candidate profile",
					zap.String("user_id", userID),
					zap.String("candidate_id", candidate.UserID),
					zap.Error(err),
				)
				return nil
			}
			ok, err := s.accepts(gctx, prefs, candidate)
			if err != nil {
				return fmt.Errorf("candidate %s: %w", candidate.UserID, err)
			}
			if !ok {
				return nil
			}
			scored[i] = &MatchSuggestion{
				UserID:           candidate.UserID,
				Compatibility:    score,
				PreferredMatches: countTags(candidate.InterestTags(), prefs.Interests.Preferred),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]MatchSuggestion, 0, len(scored))
	for _, m := range scored {
		if m != nil {
			out = append(out, *m)
		}
	}
	s.metrics.AddCompatibility(len(out))

	sort.Slice(out, func(i, j int) bool {
		if out[i].Compatibility.Score != out[j].Compatibility.Score {
			return out[i].Compatibility.Score > out[j].Compatibility.Score
		}
		if out[i].PreferredMatches != out[j].PreferredMatches {
			return out[i].PreferredMatches > out[j].PreferredMatches
		}
		return out[i].UserID < out[j].UserID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MatchingService) loadProfile(ctx context.Context, userID string) (domain.TraitProfile, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewTraitProfile(userID), nil
	}
	if err != nil {
		return domain.TraitProfile{}, fmt.Errorf("get profile %s: %w", userID, err)
	}
	return p, nil
}

// Preferences devuelve las preferencias guardadas o las que no filtran nada.
func (s *MatchingService) Preferences(ctx context.Context, userID string) (domain.MatchingPreferences, error) {
	userID = strings.TrimSpace(userID)
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return domain.MatchingPreferences{}, fmt.Errorf("get user %s: %w", userID, err)
	}
	return s.loadPreferences(ctx, userID)
}

// UpdatePreferences valida, normaliza los tags y reemplaza las preferencias del usuario.
func (s *MatchingService) UpdatePreferences(ctx context.Context, userID string, prefs domain.MatchingPreferences) (domain.MatchingPreferences, error) {
	userID = strings.TrimSpace(userID)
	if err := prefs.Validate(); err != nil {
		return domain.MatchingPreferences{}, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return domain.MatchingPreferences{}, fmt.Errorf("get user %s: %w", userID, err)
	}
	prefs.Interests = domain.InterestPreferences{
		Required:  normalizeTags(prefs.Interests.Required),
		Preferred: normalizeTags(prefs.Interests.Preferred),
		Excluded:  normalizeTags(prefs.Interests.Excluded),
	}
	if err := s.preferences.Save(ctx, userID, prefs); err != nil {
		return domain.MatchingPreferences{}, fmt.Errorf("save preferences %s: %w", userID, err)
	}
	s.logger.Info("matching preferences updated", zap.String("user_id", userID), zap.Int("trait_ranges", len(prefs.Traits)))
	return s.loadPreferences(ctx, userID)
}

func (s *MatchingService) loadPreferences(ctx context.Context, userID string) (domain.MatchingPreferences, error) {
	if s.preferences == nil {
		return domain.DefaultMatchingPreferences(), nil
	}
	p, err := s.preferences.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.DefaultMatchingPreferences(), nil
	}
	if err != nil {
		return domain.MatchingPreferences{}, fmt.Errorf("get preferences %s: %w", userID, err)
	}
	return p, nil
}

// accepts aplica los filtros duros: rangos de rasgos, intereses requeridos y excluidos
// y rango de edad. Un candidato sin fecha de nacimiento no se descarta por edad.
func (s *MatchingService) accepts(ctx context.Context, prefs domain.MatchingPreferences, candidate domain.TraitProfile) (bool, error) {
	for d, r := range prefs.Traits {
		if !r.Contains(candidate.Trait(d).Score) {
			return false, nil
		}
	}
	tags := candidate.InterestTags()
	if countTags(tags, prefs.Interests.Required) != len(normalizeTags(prefs.Interests.Required)) {
		return false, nil
	}
	if countTags(tags, prefs.Interests.Excluded) > 0 {
		return false, nil
	}
	if !prefs.FiltersByAge() || s.users == nil {
		return true, nil
	}
	user, err := s.users.GetByID(ctx, candidate.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	age := user.Age(s.now())
	if age == nil {
		return true, nil
	}
	return *age >= prefs.AgeRange.Min && *age <= prefs.AgeRange.Max, nil
}

// countTags cuenta cuantos de wanted (normalizados) estan en tags.
func countTags(tags map[string]struct{}, wanted []string) int {
	n := 0
	for _, t := range normalizeTags(wanted) {
		if _, ok := tags[t]; ok {
			n++
		}
	}
	return n
}
