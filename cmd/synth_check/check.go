package main

import (
	"fmt"
	"strings"

	"github.com/aaryasekhar/rchxtype/internal/domain"
)

type Direction string

const (
	High Direction = "high"
	Low  Direction = "low"
)

// Expectation pide que un rasgo quede claramente por encima o por debajo del punto neutro.
type Expectation struct {
	Dimension domain.Dimension
	Direction Direction
}

// margen minimo respecto de 50 para contar como alto/bajo
const expectationMargin = 10

// checkExpectations devuelve una linea por expectativa no cumplida.
func checkExpectations(p domain.TraitProfile, expectations []Expectation) []string {
	var failures []string
	for _, e := range expectations {
		ts := p.Trait(e.Dimension)
		switch e.Direction {
		case High:
			if ts.Score < domain.NeutralScore+expectationMargin {
				failures = append(failures, fmt.Sprintf("%s expected high, got %.0f", e.Dimension, ts.Score))
			}
		case Low:
			if ts.Score > domain.NeutralScore-expectationMargin {
				failures = append(failures, fmt.Sprintf("%s expected low, got %.0f", e.Dimension, ts.Score))
			}
		}
	}
	return failures
}

// checkInvariants verifica lo que toda sintesis debe cumplir, sin importar el modelo.
func checkInvariants(p domain.TraitProfile) []string {
	var failures []string
	if err := p.Validate(); err != nil {
		failures = append(failures, err.Error())
	}
	seen := make(map[string]struct{}, len(p.Insights))
	for _, in := range p.Insights {
		key := in.DedupeKey()
		if _, dup := seen[key]; dup {
			failures = append(failures, fmt.Sprintf("duplicated insight %q", in.Title))
		}
		seen[key] = struct{}{}
	}
	if p.CompletionPercentage < 0 || p.CompletionPercentage > 100 {
		failures = append(failures, fmt.Sprintf("completion %d outside [0,100]", p.CompletionPercentage))
	}
	return failures
}

func formatTraits(p domain.TraitProfile) string {
	parts := make([]string, 0, len(domain.BigFive))
	for _, d := range domain.BigFive {
		ts := p.Trait(d)
		parts = append(parts, fmt.Sprintf("%s: %.0f (conf %.0f)", titleCase(string(d)), ts.Score, ts.Confidence))
	}
	return strings.Join(parts, ", ")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	return string(runes)
}

func questionIDs(qs []domain.Question) string {
	if len(qs) == 0 {
		return "-"
	}
	ids := make([]string, len(qs))
	for i, q := range qs {
		ids[i] = q.ID
	}
	return strings.Join(ids, ", ")
}
