package service

import (
	"fmt"
	"strings"

	"github.com/aaryasekhar/rchxtype/internal/domain"
)

const defaultAssessmentLimit = 10

// NextQuestions devuelve hasta count preguntas de la primera categoria todavia sin respuestas,
// en el orden fijo de domain.Categories. Si todas tienen respuestas devuelve una lista vacia.
func NextQuestions(answered map[domain.Category]struct{}, count int) []domain.Question {
	out := []domain.Question{}
	if count <= 0 {
		return out
	}
	for _, c := range domain.Categories {
		if _, ok := answered[c]; ok {
			continue
		}
		for _, q := range questionBank {
			if q.Category != c {
				continue
			}
			out = append(out, cloneQuestion(q))
			if len(out) == count {
				break
			}
		}
		return out
	}
	return out
}

// AssessmentQuestions lista preguntas del banco, filtradas por categoria si no es vacia.
// limit <= 0 usa el limite por defecto.
func AssessmentQuestions(category domain.Category, limit int) ([]domain.Question, error) {
	category = domain.Category(strings.ToLower(strings.TrimSpace(string(category))))
	if category != "" && !category.Valid() {
		return nil, &domain.ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", category)}
	}
	if limit <= 0 {
		limit = defaultAssessmentLimit
	}
	out := []domain.Question{}
	for _, q := range questionBank {
		if category != "" && q.Category != category {
			continue
		}
		out = append(out, cloneQuestion(q))
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
