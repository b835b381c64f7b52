package domain

import (
	"fmt"
	"strings"
	"time"
)

// InsightKind clasifica un insight generado por el motor de razonamiento.
type InsightKind string

const (
	InsightStrength   InsightKind = "strength"
	InsightPreference InsightKind = "preference"
	InsightTendency   InsightKind = "tendency"
)

var InsightKinds = []InsightKind{InsightStrength, InsightPreference, InsightTendency}

type CommunicationMode string

const (
	CommunicationAnalytical CommunicationMode = "analytical"
	CommunicationExpressive CommunicationMode = "expressive"
	CommunicationAmiable    CommunicationMode = "amiable"
	CommunicationDriver     CommunicationMode = "driver"
)

var CommunicationModes = []CommunicationMode{CommunicationAnalytical, CommunicationExpressive, CommunicationAmiable, CommunicationDriver}

type DecisionMode string

const (
	DecisionRational  DecisionMode = "rational"
	DecisionIntuitive DecisionMode = "intuitive"
	DecisionDependent DecisionMode = "dependent"
	DecisionAvoidant  DecisionMode = "avoidant"
)

var DecisionModes = []DecisionMode{DecisionRational, DecisionIntuitive, DecisionDependent, DecisionAvoidant}

type GroupSize string

const (
	GroupSmall  GroupSize = "small"
	GroupMedium GroupSize = "medium"
	GroupLarge  GroupSize = "large"
	GroupMixed  GroupSize = "mixed"
)

var GroupSizes = []GroupSize{GroupSmall, GroupMedium, GroupLarge, GroupMixed}

type InteractionStyle string

const (
	InteractionIntroverted InteractionStyle = "introverted"
	InteractionAmbiverted  InteractionStyle = "ambiverted"
	InteractionExtroverted InteractionStyle = "extroverted"
)

var InteractionStyles = []InteractionStyle{InteractionIntroverted, InteractionAmbiverted, InteractionExtroverted}

type LeadershipTendency string

const (
	LeadershipFollower     LeadershipTendency = "follower"
	LeadershipCollaborator LeadershipTendency = "collaborator"
	LeadershipLeader       LeadershipTendency = "leader"
)

var LeadershipTendencies = []LeadershipTendency{LeadershipFollower, LeadershipCollaborator, LeadershipLeader}

// Interest agrupa tags normalizados bajo una categoria libre (ej: "music").
type Interest struct {
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	Confidence  float64    `json:"confidence"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

// Insight es una observacion en lenguaje natural. La lista de insights solo crece.
type Insight struct {
	Kind        InsightKind `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Confidence  float64     `json:"confidence"`
	CreatedAt   time.Time   `json:"created_at"`
}

// DedupeKey normaliza (titulo, tipo) para detectar insights repetidos.
func (i Insight) DedupeKey() string {
	return strings.ToLower(strings.TrimSpace(i.Title)) + "|" + string(i.Kind)
}

type CommunicationStyle struct {
	Primary    CommunicationMode `json:"primary"`
	Secondary  CommunicationMode `json:"secondary,omitempty"`
	Confidence float64           `json:"confidence"`
}

type DecisionStyle struct {
	Style      DecisionMode `json:"style"`
	Confidence float64      `json:"confidence"`
}

type WorkStyle struct {
	Collaboration float64 `json:"collaboration"`
	Autonomy      float64 `json:"autonomy"`
	Structure     float64 `json:"structure"`
	Innovation    float64 `json:"innovation"`
}

type SocialPreferences struct {
	GroupSize          GroupSize          `json:"group_size"`
	InteractionStyle   InteractionStyle   `json:"interaction_style"`
	LeadershipTendency LeadershipTendency `json:"leadership_tendency"`
}

// TraitProfile es el perfil sintetizado de un usuario. Version es el token de
// concurrencia optimista del almacenamiento; no se expone en la API.
type TraitProfile struct {
	UserID                  string             `json:"user_id"`
	Openness                TraitScore         `json:"openness"`
	Conscientiousness       TraitScore         `json:"conscientiousness"`
	Extraversion            TraitScore         `json:"extraversion"`
	Agreeableness           TraitScore         `json:"agreeableness"`
	Neuroticism             TraitScore         `json:"neuroticism"`
	Interests               []Interest         `json:"interests"`
	Insights                []Insight          `json:"insights"`
	CommunicationStyle      CommunicationStyle `json:"communication_style"`
	DecisionStyle           DecisionStyle      `json:"decision_style"`
	WorkStyle               WorkStyle          `json:"work_style"`
	SocialPreferences       SocialPreferences  `json:"social_preferences"`
	CompletionPercentage    int                `json:"completion_percentage"`
	LastComprehensiveUpdate *time.Time         `json:"last_comprehensive_update,omitempty"`
	PersonalityUpdates      int                `json:"personality_updates"`
	Version                 int64              `json:"-"`
}

// NewTraitProfile devuelve el perfil por defecto de un usuario sin evidencia.
func NewTraitProfile(userID string) TraitProfile {
	neutral := TraitScore{Score: NeutralScore, Confidence: 0}
	return TraitProfile{
		UserID:            userID,
		Openness:          neutral,
		Conscientiousness: neutral,
		Extraversion:      neutral,
		Agreeableness:     neutral,
		Neuroticism:       neutral,
		Interests:         []Interest{},
		Insights:          []Insight{},
		CommunicationStyle: CommunicationStyle{
			Primary: CommunicationAnalytical,
		},
		DecisionStyle: DecisionStyle{Style: DecisionRational},
		WorkStyle: WorkStyle{
			Collaboration: NeutralScore,
			Autonomy:      NeutralScore,
			Structure:     NeutralScore,
			Innovation:    NeutralScore,
		},
		SocialPreferences: SocialPreferences{
			GroupSize:          GroupMedium,
			InteractionStyle:   InteractionAmbiverted,
			LeadershipTendency: LeadershipCollaborator,
		},
	}
}

// Trait devuelve el puntaje de una dimension.
func (p *TraitProfile) Trait(d Dimension) TraitScore {
	if ts := p.traitRef(d); ts != nil {
		return *ts
	}
	return TraitScore{}
}

// SetTrait reemplaza el puntaje de una dimension. Dimensiones desconocidas se ignoran.
func (p *TraitProfile) SetTrait(d Dimension, ts TraitScore) {
	if ref := p.traitRef(d); ref != nil {
		*ref = ts
	}
}

func (p *TraitProfile) traitRef(d Dimension) *TraitScore {
	switch d {
	case DimensionOpenness:
		return &p.Openness
	case DimensionConscientiousness:
		return &p.Conscientiousness
	case DimensionExtraversion:
		return &p.Extraversion
	case DimensionAgreeableness:
		return &p.Agreeableness
	case DimensionNeuroticism:
		return &p.Neuroticism
	}
	return nil
}

// TraitVector devuelve los cinco puntajes en el orden de BigFive.
func (p TraitProfile) TraitVector() []float32 {
	out := make([]float32, len(BigFive))
	for i, d := range BigFive {
		out[i] = float32(p.Trait(d).Score)
	}
	return out
}

// InterestTags devuelve la union de tags normalizados (trim + minusculas) de todos los intereses.
func (p TraitProfile) InterestTags() map[string]struct{} {
	set := make(map[string]struct{})
	for _, in := range p.Interests {
		for _, tag := range in.Tags {
			norm := strings.ToLower(strings.TrimSpace(tag))
			if norm == "" {
				continue
			}
			set[norm] = struct{}{}
		}
	}
	return set
}

// Clone devuelve una copia profunda del perfil.
func (p TraitProfile) Clone() TraitProfile {
	out := p
	out.Openness = cloneTrait(p.Openness)
	out.Conscientiousness = cloneTrait(p.Conscientiousness)
	out.Extraversion = cloneTrait(p.Extraversion)
	out.Agreeableness = cloneTrait(p.Agreeableness)
	out.Neuroticism = cloneTrait(p.Neuroticism)
	out.Interests = make([]Interest, len(p.Interests))
	for i, in := range p.Interests {
		in.Tags = append([]string(nil), in.Tags...)
		in.LastUpdated = cloneTime(in.LastUpdated)
		out.Interests[i] = in
	}
	out.Insights = append([]Insight{}, p.Insights...)
	out.LastComprehensiveUpdate = cloneTime(p.LastComprehensiveUpdate)
	return out
}

func cloneTrait(ts TraitScore) TraitScore {
	ts.LastUpdated = cloneTime(ts.LastUpdated)
	return ts
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// Validate verifica que todos los valores numericos sean finitos y esten en [0,100].
func (p TraitProfile) Validate() error {
	for _, d := range BigFive {
		ts := p.Trait(d)
		if !InRange100(ts.Score) {
			return &ValidationError{Field: string(d) + ".score", Reason: fmt.Sprintf("value %v outside [0,100]", ts.Score)}
		}
		if !InRange100(ts.Confidence) {
			return &ValidationError{Field: string(d) + ".confidence", Reason: fmt.Sprintf("value %v outside [0,100]", ts.Confidence)}
		}
	}
	for i, in := range p.Interests {
		if !InRange100(in.Confidence) {
			return &ValidationError{Field: fmt.Sprintf("interests[%d].confidence", i), Reason: fmt.Sprintf("value %v outside [0,100]", in.Confidence)}
		}
	}
	if !InRange100(p.CommunicationStyle.Confidence) {
		return &ValidationError{Field: "communication_style.confidence", Reason: "outside [0,100]"}
	}
	if !InRange100(p.DecisionStyle.Confidence) {
		return &ValidationError{Field: "decision_style.confidence", Reason: "outside [0,100]"}
	}
	work := []struct {
		name  string
		value float64
	}{
		{"collaboration", p.WorkStyle.Collaboration},
		{"autonomy", p.WorkStyle.Autonomy},
		{"structure", p.WorkStyle.Structure},
		{"innovation", p.WorkStyle.Innovation},
	}
	for _, w := range work {
		if !InRange100(w.value) {
			return &ValidationError{Field: "work_style." + w.name, Reason: fmt.Sprintf("value %v outside [0,100]", w.value)}
		}
	}
	for i, in := range p.Insights {
		if !InRange100(in.Confidence) {
			return &ValidationError{Field: fmt.Sprintf("insights[%d].confidence", i), Reason: fmt.Sprintf("value %v outside [0,100]", in.Confidence)}
		}
	}
	return nil
}

// Contains indica si v pertenece a set. Se usa para validar enums.
func Contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
