package service

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/aaryasekhar/rchxtype/internal/domain"
)

func sampleResult() domain.InferenceResult {
	return domain.InferenceResult{
		Traits: map[domain.Dimension]domain.InferredTrait{
			domain.DimensionOpenness:          {Score: 72, Confidence: 60},
			domain.DimensionConscientiousness: {Score: 64, Confidence: 55},
			domain.DimensionExtraversion:      {Score: 45, Confidence: 50},
			domain.DimensionAgreeableness:     {Score: 70, Confidence: 58},
			domain.DimensionNeuroticism:       {Score: 35, Confidence: 40},
		},
		Interests: []domain.InferredInterest{
			{Category: " Music ", Tags: []string{"Jazz", "indie", "jazz", " "}, Confidence: 65},
			{Category: "", Tags: []string{"ignored"}, Confidence: 10},
		},
		CommunicationStyle: domain.CommunicationStyle{Primary: domain.CommunicationExpressive, Confidence: 55},
		DecisionStyle:      domain.DecisionStyle{Style: domain.DecisionIntuitive, Confidence: 60},
		WorkStyle:          domain.WorkStyle{Collaboration: 60, Autonomy: 70, Structure: 55, Innovation: 68},
		SocialPreferences:  domain.SocialPreferences{GroupSize: domain.GroupSmall, InteractionStyle: domain.InteractionIntroverted},
		Insights: []domain.InferredInsight{
			{Kind: domain.InsightStrength, Title: "Structured curiosity", Description: "Explores with a plan.", Confidence: 60},
		},
	}
}

func TestMergeInferenceOntoDefault(t *testing.T) {
	current := domain.NewTraitProfile("u1")
	mc := MergeContext{User: testUser("u1"), ResponseCount: 4, Now: fixedNow}

	got, added := MergeInference(current, sampleResult(), mc)

	ts := fixedNow
	want := domain.NewTraitProfile("u1")
	want.Openness = domain.TraitScore{Score: 72, Confidence: 60, LastUpdated: &ts}
	want.Conscientiousness = domain.TraitScore{Score: 64, Confidence: 55, LastUpdated: &ts}
	want.Extraversion = domain.TraitScore{Score: 45, Confidence: 50, LastUpdated: &ts}
	want.Agreeableness = domain.TraitScore{Score: 70, Confidence: 58, LastUpdated: &ts}
	want.Neuroticism = domain.TraitScore{Score: 35, Confidence: 40, LastUpdated: &ts}
	want.Interests = []domain.Interest{{Category: "music", Tags: []string{"indie", "jazz"}, Confidence: 65, LastUpdated: &ts}}
	want.CommunicationStyle = domain.CommunicationStyle{Primary: domain.CommunicationExpressive, Confidence: 55}
	want.DecisionStyle = domain.DecisionStyle{Style: domain.DecisionIntuitive, Confidence: 60}
	want.WorkStyle = domain.WorkStyle{Collaboration: 60, Autonomy: 70, Structure: 55, Innovation: 68}
	want.SocialPreferences = domain.SocialPreferences{
		GroupSize:          domain.GroupSmall,
		InteractionStyle:   domain.InteractionIntroverted,
		LeadershipTendency: domain.LeadershipCollaborator,
	}
	want.Insights = []domain.Insight{{Kind: domain.InsightStrength, Title: "Structured curiosity", Description: "Explores with a plan.", Confidence: 60, CreatedAt: fixedNow}}
	want.LastComprehensiveUpdate = &ts
	want.PersonalityUpdates = 1
	want.CompletionPercentage = 92

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merged profile mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Insights, added); diff != "" {
		t.Fatalf("added insights mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeInferenceDoesNotMutateCurrent(t *testing.T) {
	current := domain.NewTraitProfile("u1")
	current.Interests = []domain.Interest{{Category: "sports", Tags: []string{"tennis"}, Confidence: 30}}
	current.Insights = []domain.Insight{{Kind: domain.InsightTendency, Title: "Night owl", Confidence: 20, CreatedAt: fixedNow.Add(-time.Hour)}}
	before := current.Clone()

	_, _ = MergeInference(current, sampleResult(), MergeContext{User: testUser("u1"), Now: fixedNow})

	if diff := cmp.Diff(before, current); diff != "" {
		t.Fatalf("current profile was mutated (-before +after):\n%s", diff)
	}
}

func TestMergeInferenceClampsAndKeepsVersion(t *testing.T) {
	current := domain.NewTraitProfile("u1")
	current.Version = 7
	result := sampleResult()
	result.Traits[domain.DimensionOpenness] = domain.InferredTrait{Score: 130, Confidence: -4}

	got, _ := MergeInference(current, result, MergeContext{Now: fixedNow})
	if got.Openness.Score != 100 || got.Openness.Confidence != 0 {
		t.Fatalf("expected clamped openness, got %+v", got.Openness)
	}
	if got.Version != 7 {
		t.Fatalf("merge must keep the read version for the optimistic save, got %d", got.Version)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("merged profile is invalid: %v", err)
	}
}

func TestMergeInferenceKeepsStylesWhenNotInferred(t *testing.T) {
	current := domain.NewTraitProfile("u1")
	current.CommunicationStyle = domain.CommunicationStyle{Primary: domain.CommunicationDriver, Confidence: 70}
	current.SocialPreferences.LeadershipTendency = domain.LeadershipLeader
	result := sampleResult()
	result.CommunicationStyle = domain.CommunicationStyle{}

	got, _ := MergeInference(current, result, MergeContext{Now: fixedNow})
	if got.CommunicationStyle.Primary != domain.CommunicationDriver {
		t.Fatalf("expected previous primary style, got %s", got.CommunicationStyle.Primary)
	}
	if got.SocialPreferences.LeadershipTendency != domain.LeadershipLeader {
		t.Fatalf("expected previous leadership tendency, got %s", got.SocialPreferences.LeadershipTendency)
	}
}

func TestAppendInsightsDedupe(t *testing.T) {
	existing := []domain.Insight{{Kind: domain.InsightStrength, Title: "Structured curiosity", Confidence: 50}}
	incoming := []domain.Insight{
		{Kind: domain.InsightStrength, Title: "  structured CURIOSITY ", Confidence: 90},
		{Kind: domain.InsightPreference, Title: "Structured curiosity", Confidence: 40},
		{Kind: domain.InsightTendency, Title: "Late planner", Confidence: 140},
		{Kind: domain.InsightTendency, Title: "late planner", Confidence: 10},
		{Kind: "rumor", Title: "Unknown kind", Confidence: 10},
		{Kind: domain.InsightTendency, Title: "   ", Confidence: 10},
	}

	all, added := appendInsights(existing, incoming)

	wantAdded := []domain.Insight{
		{Kind: domain.InsightPreference, Title: "Structured curiosity", Confidence: 40},
		{Kind: domain.InsightTendency, Title: "Late planner", Confidence: 100},
	}
	if diff := cmp.Diff(wantAdded, added, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("added mismatch (-want +got):\n%s", diff)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 insights in total, got %d", len(all))
	}
	if all[0].Confidence != 50 {
		t.Fatalf("existing insight must not be replaced")
	}
}

func TestNormalizeTags(t *testing.T) {
	got := normalizeTags([]string{" Rock", "rock", "", "Ambient ", "jazz"})
	want := []string{"ambient", "jazz", "rock"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
}
