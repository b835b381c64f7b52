package domain

import "time"

// Category clasifica una pregunta del cuestionario.
type Category string

const (
	CategoryPersonality Category = "personality"
	CategoryInterests   Category = "interests"
	CategoryValues      Category = "values"
	CategoryPreferences Category = "preferences"
	CategoryBehavior    Category = "behavior"
)

// Categories es el universo fijo de categorias, en el orden en que se piden.
var Categories = []Category{
	CategoryPersonality,
	CategoryInterests,
	CategoryValues,
	CategoryPreferences,
	CategoryBehavior,
}

// Valid indica si la categoria pertenece al universo fijo.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// DefaultResponseConfidence se usa cuando el cliente no informa confianza.
const DefaultResponseConfidence = 100

// ResponseRecord es una respuesta del usuario. El log es append-only.
type ResponseRecord struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	QuestionID   string    `json:"question_id"`
	QuestionText string    `json:"question"`
	AnswerText   string    `json:"answer"`
	Category     Category  `json:"category"`
	Confidence   int       `json:"confidence"`
	AnsweredAt   time.Time `json:"answered_at"`
}

// AnsweredCategories devuelve el conjunto de categorias presentes en el log.
func AnsweredCategories(records []ResponseRecord) map[Category]struct{} {
	set := make(map[Category]struct{}, len(Categories))
	for _, r := range records {
		set[r.Category] = struct{}{}
	}
	return set
}
