package service

import (
	"math"

	"github.com/aaryasekhar/rchxtype/internal/domain"
)

const (
	personalityWeight = 0.6
	interestWeight    = 0.4
	neutralSimilarity = 0.5
)

// Compatibility compara dos perfiles. Es pura, simetrica y segura para uso concurrente.
//
// La similitud de personalidad es la media de 1-|a-b|/100 por rasgo, ponderada por
// min(confA, confB)/100; sin peso total vale 0.5. El solapamiento de intereses es el
// Jaccard de los tags normalizados. Cuando ninguno de los dos perfiles tiene tags, el
// termino de intereses no aporta evidencia y su peso pasa a la personalidad.
func Compatibility(a, b domain.TraitProfile) (domain.CompatibilityScore, error) {
	if err := a.Validate(); err != nil {
		return domain.CompatibilityScore{}, err
	}
	if err := b.Validate(); err != nil {
		return domain.CompatibilityScore{}, err
	}

	dims := make([]domain.DimensionSimilarity, 0, len(domain.BigFive))
	var weighted, totalWeight float64
	for _, d := range domain.BigFive {
		ta, tb := a.Trait(d), b.Trait(d)
		sim := 1 - math.Abs(ta.Score-tb.Score)/100
		w := math.Min(ta.Confidence, tb.Confidence) / 100
		weighted += sim * w
		totalWeight += w
		dims = append(dims, domain.DimensionSimilarity{
			Dimension:  d,
			Similarity: sim,
			Weight:     w,
		})
	}

	personality := neutralSimilarity
	if totalWeight > 0 {
		personality = weighted / totalWeight
		for i := range dims {
			dims[i].Contribution = dims[i].Similarity * dims[i].Weight / totalWeight
		}
	}

	tagsA, tagsB := a.InterestTags(), b.InterestTags()
	overlap := jaccard(tagsA, tagsB)

	var combined float64
	if len(tagsA) == 0 && len(tagsB) == 0 {
		combined = personality
	} else {
		combined = personalityWeight*personality + interestWeight*overlap
	}

	score := int(math.Round(100 * combined))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return domain.CompatibilityScore{
		Score:                 score,
		PersonalitySimilarity: personality,
		InterestOverlap:       overlap,
		Dimensions:            dims,
	}, nil
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for tag := range a {
		if _, ok := b[tag]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
