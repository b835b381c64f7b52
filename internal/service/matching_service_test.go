package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aaryasekhar/rchxtype/internal/domain"
	"github.com/aaryasekhar/rchxtype/internal/observability"
	"github.com/aaryasekhar/rchxtype/internal/repository"
)

func seedProfiles(t *testing.T, repo *repository.MemoryProfileRepository, profiles ...domain.TraitProfile) {
	t.Helper()
	for _, p := range profiles {
		_, err := repo.Save(context.Background(), p)
		require.NoError(t, err)
	}
}

func TestCompatibilityBetween(t *testing.T) {
	repo := repository.NewMemoryProfileRepository()
	metrics := observability.NewMetrics()
	seedProfiles(t, repo,
		profileWith("a", 70, 100, "jazz"),
		profileWith("b", 70, 100, "jazz"),
	)
	svc := NewMatchingService(repo, nil, nil, metrics, zap.NewNop(), 2)

	got, err := svc.CompatibilityBetween(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, 100, got.Score)

	// un usuario sin perfil se compara con el perfil por defecto
	got, err = svc.CompatibilityBetween(context.Background(), "a", "new-user")
	require.NoError(t, err)
	assert.Equal(t, 30, got.Score)

	_, err = svc.CompatibilityBetween(context.Background(), "a", "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Equal(t, 2.0, counterValue(t, metrics.CompatibilityTotal))
}

func TestSuggestionsOrderingAndLimit(t *testing.T) {
	repo := repository.NewMemoryProfileRepository()
	self := profileWith("self", 60, 100, "jazz", "hiking")
	seedProfiles(t, repo,
		self,
		profileWith("twin", 60, 100, "jazz", "hiking"),
		profileWith("near", 65, 100, "jazz"),
		profileWith("far", 5, 100, "golf"),
		profileWith("tie-b", 60, 100, "opera"),
		profileWith("tie-a", 60, 100, "opera"),
	)
	svc := NewMatchingService(repo, nil, nil, nil, zap.NewNop(), 3)

	got, err := svc.Suggestions(context.Background(), "self", 4)
	require.NoError(t, err)
	require.Len(t, got, 4)

	ids := make([]string, len(got))
	for i, m := range got {
		ids[i] = m.UserID
	}
	assert.Equal(t, []string{"twin", "near", "tie-a", "tie-b"}, ids)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Compatibility.Score, got[i].Compatibility.Score)
	}
	for _, m := range got {
		assert.NotEqual(t, "self", m.UserID)
	}
}

func TestSuggestionsSkipsInvalidCandidates(t *testing.T) {
	repo := repository.NewMemoryProfileRepository()
	broken := profileWith("broken", 60, 100)
	broken.Interests = []domain.Interest{{Category: "music", Tags: []string{"x"}, Confidence: 300}}
	seedProfiles(t, repo, profileWith("self", 60, 100), profileWith("ok", 60, 100), broken)
	svc := NewMatchingService(repo, nil, nil, nil, zap.NewNop(), 0)

	got, err := svc.Suggestions(context.Background(), "self", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].UserID)
}

func TestSuggestionsLargePool(t *testing.T) {
	repo := repository.NewMemoryProfileRepository()
	seedProfiles(t, repo, profileWith("self", 50, 80))
	for i := 0; i < 120; i++ {
		seedProfiles(t, repo, profileWith(fmt.Sprintf("user-%03d", i), float64(i%100), 80))
	}
	svc := NewMatchingService(repo, nil, nil, nil, zap.NewNop(), 8)

	got, err := svc.Suggestions(context.Background(), "self", 500)
	require.NoError(t, err)
	assert.Len(t, got, maxSuggestionLimit)
}

func TestSuggestionsCanceled(t *testing.T) {
	repo := repository.NewMemoryProfileRepository()
	seedProfiles(t, repo, profileWith("self", 50, 80), profileWith("other", 50, 80))
	svc := NewMatchingService(repo, nil, nil, nil, zap.NewNop(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Suggestions(ctx, "self", 5)
	assert.True(t, errors.Is(err, context.Canceled), "expected canceled, got %v", err)
}

func newPreferencesHarness(t *testing.T, profiles ...domain.TraitProfile) (*MatchingService, *repository.MemoryUserRepository) {
	t.Helper()
	repo := repository.NewMemoryProfileRepository()
	seedProfiles(t, repo, profiles...)
	users := repository.NewMemoryUserRepository()
	for _, p := range profiles {
		users.Put(testUser(p.UserID))
	}
	svc := NewMatchingService(repo, users, repository.NewMemoryPreferencesRepository(), nil, zap.NewNop(), 2)
	svc.now = fixedClock
	return svc, users
}

func suggestionIDs(got []MatchSuggestion) []string {
	ids := make([]string, len(got))
	for i, m := range got {
		ids[i] = m.UserID
	}
	return ids
}

func TestSuggestionsApplyPreferences(t *testing.T) {
	introvert := profileWith("introvert", 60, 100, "jazz", "chess")
	introvert.SetTrait(domain.DimensionExtraversion, domain.TraitScore{Score: 20, Confidence: 100})

	svc, users := newPreferencesHarness(t,
		profileWith("self", 60, 100, "jazz"),
		profileWith("jazz-fan", 60, 100, "jazz", "hiking"),
		profileWith("golfer", 60, 100, "jazz", "golf"),
		profileWith("no-jazz", 60, 100, "hiking"),
		introvert,
	)
	// 1960: 65 anos en fixedNow
	older := testUser("jazz-fan")
	dob := time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC)
	older.DateOfBirth = &dob
	users.Put(older)
	ctx := context.Background()

	got, err := svc.Suggestions(ctx, "self", 10)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"jazz-fan", "golfer", "no-jazz", "introvert"}, suggestionIDs(got))

	_, err = svc.UpdatePreferences(ctx, "self", domain.MatchingPreferences{
		AgeRange:  domain.AgeRange{Min: 25, Max: 40},
		Interests: domain.InterestPreferences{Required: []string{"JAZZ"}, Excluded: []string{"golf"}},
		Traits: map[domain.Dimension]domain.TraitRange{
			domain.DimensionExtraversion: {Min: floatPtr(40)},
		},
	})
	require.NoError(t, err)

	got, err = svc.Suggestions(ctx, "self", 10)
	require.NoError(t, err)
	// jazz-fan queda fuera por edad, golfer por interes excluido, no-jazz por
	// interes requerido e introvert por rango de extraversion
	assert.Empty(t, got)

	_, err = svc.UpdatePreferences(ctx, "self", domain.MatchingPreferences{
		AgeRange:  domain.AgeRange{Min: 18, Max: 100},
		Interests: domain.InterestPreferences{Required: []string{"jazz"}},
	})
	require.NoError(t, err)
	got, err = svc.Suggestions(ctx, "self", 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"jazz-fan", "golfer", "introvert"}, suggestionIDs(got))
}

func TestSuggestionsPreferredTagsBreakTies(t *testing.T) {
	svc, _ := newPreferencesHarness(t,
		profileWith("self", 60, 100),
		profileWith("a-plain", 60, 100, "golf"),
		profileWith("b-chess", 60, 100, "chess"),
		profileWith("c-both", 60, 100, "chess", "poetry"),
	)
	ctx := context.Background()
	_, err := svc.UpdatePreferences(ctx, "self", domain.MatchingPreferences{
		AgeRange:  domain.AgeRange{Min: 18, Max: 100},
		Interests: domain.InterestPreferences{Preferred: []string{"Chess", "poetry"}},
	})
	require.NoError(t, err)

	got, err := svc.Suggestions(ctx, "self", 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, got[0].Compatibility.Score, got[2].Compatibility.Score)
	assert.Equal(t, []string{"c-both", "b-chess", "a-plain"}, suggestionIDs(got))
	assert.Equal(t, 2, got[0].PreferredMatches)
}

func TestPreferencesDefaultsAndValidation(t *testing.T) {
	svc, _ := newPreferencesHarness(t, profileWith("self", 60, 100))
	ctx := context.Background()

	got, err := svc.Preferences(ctx, "self")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMatchingPreferences(), got)

	_, err = svc.Preferences(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	invalid := []domain.MatchingPreferences{
		{AgeRange: domain.AgeRange{Min: 17, Max: 30}},
		{AgeRange: domain.AgeRange{Min: 40, Max: 30}},
		{AgeRange: domain.AgeRange{Min: 18, Max: 100}, Traits: map[domain.Dimension]domain.TraitRange{"humor": {}}},
		{AgeRange: domain.AgeRange{Min: 18, Max: 100}, Traits: map[domain.Dimension]domain.TraitRange{
			domain.DimensionOpenness: {Min: floatPtr(80), Max: floatPtr(20)},
		}},
		{AgeRange: domain.AgeRange{Min: 18, Max: 100}, Interests: domain.InterestPreferences{
			Required: []string{"Jazz"}, Excluded: []string{"jazz"},
		}},
	}
	for i, p := range invalid {
		_, err := svc.UpdatePreferences(ctx, "self", p)
		assert.ErrorIs(t, err, domain.ErrValidation, "case %d", i)
	}

	got, err = svc.UpdatePreferences(ctx, "self", domain.MatchingPreferences{
		AgeRange:  domain.AgeRange{Min: 18, Max: 100},
		Interests: domain.InterestPreferences{Preferred: []string{"Jazz", "jazz "}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"jazz"}, got.Interests.Preferred)
	assert.Equal(t, []string{}, got.Interests.Required)
	require.NotNil(t, got.UpdatedAt)
}
