package domain

import (
	"errors"
	"math"
	"testing"
)

func TestTraitProfileValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(p *TraitProfile)
		wantField string
	}{
		{name: "default profile", mutate: func(*TraitProfile) {}},
		{name: "trait score", mutate: func(p *TraitProfile) { p.Openness.Score = 101 }, wantField: "openness.score"},
		{name: "trait confidence NaN", mutate: func(p *TraitProfile) { p.Neuroticism.Confidence = math.NaN() }, wantField: "neuroticism.confidence"},
		{name: "interest confidence", mutate: func(p *TraitProfile) {
			p.Interests = []Interest{{Category: "music", Confidence: -1}}
		}, wantField: "interests[0].confidence"},
		{name: "work style autonomy", mutate: func(p *TraitProfile) { p.WorkStyle.Autonomy = 500 }, wantField: "work_style.autonomy"},
		{name: "work style innovation infinite", mutate: func(p *TraitProfile) { p.WorkStyle.Innovation = math.Inf(1) }, wantField: "work_style.innovation"},
		{name: "insight confidence", mutate: func(p *TraitProfile) {
			p.Insights = []Insight{{Kind: InsightStrength, Title: "Calm", Confidence: 40}, {Kind: InsightTendency, Title: "Bold", Confidence: 140}}
		}, wantField: "insights[1].confidence"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewTraitProfile("u1")
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Fatalf("expected field %q, got %q", tt.wantField, verr.Field)
			}
		})
	}
}
