package domain

import (
	"math"
	"time"
)

// Dimension identifica un rasgo del modelo Big Five.
type Dimension string

const (
	DimensionOpenness          Dimension = "openness"
	DimensionConscientiousness Dimension = "conscientiousness"
	DimensionExtraversion      Dimension = "extraversion"
	DimensionAgreeableness     Dimension = "agreeableness"
	DimensionNeuroticism       Dimension = "neuroticism"
)

// BigFive lista las cinco dimensiones en orden canonico (prompt, vector, compatibilidad).
var BigFive = []Dimension{
	DimensionOpenness,
	DimensionConscientiousness,
	DimensionExtraversion,
	DimensionAgreeableness,
	DimensionNeuroticism,
}

const (
	ScoreMin     = 0.0
	ScoreMax     = 100.0
	NeutralScore = 50.0
)

// TraitScore es el valor de un rasgo con su confianza, ambos en [0,100].
type TraitScore struct {
	Score       float64    `json:"score"`
	Confidence  float64    `json:"confidence"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

// Clamp100 limita v al rango [0,100]. NaN se trata como 0.
func Clamp100(v float64) float64 {
	if math.IsNaN(v) {
		return ScoreMin
	}
	return math.Max(ScoreMin, math.Min(ScoreMax, v))
}

// InRange100 indica si v es finito y esta dentro de [0,100].
func InRange100(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= ScoreMin && v <= ScoreMax
}
