package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	MinMatchAge = 18
	MaxMatchAge = 100
)

type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// TraitRange acota el puntaje de un rasgo del candidato. Un limite nil no filtra.
type TraitRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Contains indica si v cae dentro del rango (inclusive).
func (r TraitRange) Contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// InterestPreferences: Required y Excluded filtran candidatos; Preferred solo ordena.
type InterestPreferences struct {
	Required  []string `json:"required"`
	Preferred []string `json:"preferred"`
	Excluded  []string `json:"excluded"`
}

// MatchingPreferences son los filtros que el usuario aplica a sus sugerencias.
type MatchingPreferences struct {
	AgeRange  AgeRange                 `json:"age_range"`
	Interests InterestPreferences      `json:"interests"`
	Traits    map[Dimension]TraitRange `json:"personality_traits,omitempty"`
	UpdatedAt *time.Time               `json:"updated_at,omitempty"`
}

// DefaultMatchingPreferences no filtra nada.
func DefaultMatchingPreferences() MatchingPreferences {
	return MatchingPreferences{
		AgeRange:  AgeRange{Min: MinMatchAge, Max: MaxMatchAge},
		Interests: InterestPreferences{Required: []string{}, Preferred: []string{}, Excluded: []string{}},
	}
}

// FiltersByAge indica si el rango de edad es mas estrecho que el rango completo.
func (p MatchingPreferences) FiltersByAge() bool {
	return p.AgeRange.Min > MinMatchAge || p.AgeRange.Max < MaxMatchAge
}

// Validate revisa rangos, dimensiones y que ningun interes sea requerido y excluido a la vez.
func (p MatchingPreferences) Validate() error {
	a := p.AgeRange
	if a.Min < MinMatchAge || a.Min > MaxMatchAge || a.Max < MinMatchAge || a.Max > MaxMatchAge {
		return &ValidationError{Field: "age_range", Reason: fmt.Sprintf("ages must be within [%d,%d]", MinMatchAge, MaxMatchAge)}
	}
	if a.Min > a.Max {
		return &ValidationError{Field: "age_range", Reason: "min greater than max"}
	}
	for d, r := range p.Traits {
		if !Contains(BigFive, d) {
			return &ValidationError{Field: "personality_traits", Reason: fmt.Sprintf("unknown trait %q", d)}
		}
		field := "personality_traits." + string(d)
		if r.Min != nil && !InRange100(*r.Min) {
			return &ValidationError{Field: field + ".min", Reason: "outside [0,100]"}
		}
		if r.Max != nil && !InRange100(*r.Max) {
			return &ValidationError{Field: field + ".max", Reason: "outside [0,100]"}
		}
		if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
			return &ValidationError{Field: field, Reason: "min greater than max"}
		}
	}
	lists := []struct {
		name string
		tags []string
	}{
		{"required", p.Interests.Required},
		{"preferred", p.Interests.Preferred},
		{"excluded", p.Interests.Excluded},
	}
	for _, l := range lists {
		for i, tag := range l.tags {
			if strings.TrimSpace(tag) == "" {
				return &ValidationError{Field: fmt.Sprintf("interests.%s[%d]", l.name, i), Reason: "must not be empty"}
			}
		}
	}
	for _, req := range p.Interests.Required {
		for _, ex := range p.Interests.Excluded {
			if strings.EqualFold(strings.TrimSpace(req), strings.TrimSpace(ex)) {
				return &ValidationError{Field: "interests", Reason: fmt.Sprintf("%q is both required and excluded", req)}
			}
		}
	}
	return nil
}
