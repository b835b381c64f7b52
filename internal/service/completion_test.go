package service

import (
	"testing"

	"github.com/aaryasekhar/rchxtype/internal/domain"
)

func TestCompletion(t *testing.T) {
	full := domain.NewTraitProfile("u1")
	for _, d := range domain.BigFive {
		full.SetTrait(d, domain.TraitScore{Score: 60, Confidence: 40})
	}
	full.CommunicationStyle.Confidence = 50
	full.DecisionStyle.Confidence = 50
	full.Interests = []domain.Interest{{Category: "music", Tags: []string{"jazz"}, Confidence: 60}}

	tests := []struct {
		name      string
		user      domain.User
		profile   domain.TraitProfile
		responses int
		wantUnits int
		wantPct   int
	}{
		{name: "empty user and default profile", user: domain.User{ID: "u1"}, profile: domain.NewTraitProfile("u1"), wantUnits: 0, wantPct: 0},
		{name: "identity only", user: testUser("u1"), profile: domain.NewTraitProfile("u1"), wantUnits: 3, wantPct: 25},
		{name: "everything but responses", user: testUser("u1"), profile: full, responses: 9, wantUnits: 11, wantPct: 92},
		{name: "complete", user: testUser("u1"), profile: full, responses: 10, wantUnits: 12, wantPct: 100},
		{name: "whitespace names do not count", user: domain.User{ID: "u1", FirstName: "  ", Email: "a@b.c"}, profile: domain.NewTraitProfile("u1"), wantUnits: 1, wantPct: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Completion(tt.user, tt.profile, tt.responses)
			if got.UnitsCompleted != tt.wantUnits || got.Percentage != tt.wantPct {
				t.Fatalf("got units=%d pct=%d, want units=%d pct=%d", got.UnitsCompleted, got.Percentage, tt.wantUnits, tt.wantPct)
			}
			if got.UnitsTotal != completionUnitsTotal {
				t.Fatalf("units total = %d", got.UnitsTotal)
			}
		})
	}
}

func TestCompletionPartialTraits(t *testing.T) {
	p := domain.NewTraitProfile("u1")
	p.Openness.Confidence = 10
	p.Neuroticism.Confidence = 0.5

	got := Completion(domain.User{}, p, 0)
	if got.UnitsCompleted != 2 {
		t.Fatalf("expected 2 units for two confident traits, got %d", got.UnitsCompleted)
	}
	if got.Percentage != 17 {
		t.Fatalf("expected 17%%, got %d", got.Percentage)
	}
}

func TestCompletionIsIdempotent(t *testing.T) {
	p := domain.NewTraitProfile("u1")
	p.Openness.Confidence = 30
	p.DecisionStyle.Confidence = 10
	p.Interests = []domain.Interest{{Category: "travel", Tags: []string{"hiking"}, Confidence: 40}}
	user := testUser("u1")

	first := Completion(user, p, 4)
	second := Completion(user, p, 4)
	if first != second {
		t.Fatalf("same snapshot gave different results: %+v vs %+v", first, second)
	}

	// el porcentaje guardado no influye en el recalculo
	p.CompletionPercentage = first.Percentage
	if again := Completion(user, p, 4); again != first {
		t.Fatalf("recompute after storing the percentage changed: %+v vs %+v", again, first)
	}
	p.CompletionPercentage = 0
	if again := Completion(user, p, 4); again != first {
		t.Fatalf("stale stored percentage leaked into the recompute: %+v vs %+v", again, first)
	}
	if first.UnitsCompleted != 6 || first.Percentage != 50 {
		t.Fatalf("unexpected completion: %+v", first)
	}
}
