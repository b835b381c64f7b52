package domain

import "time"

// DimensionSimilarity desglosa el aporte de un rasgo a la similitud de personalidad.
type DimensionSimilarity struct {
	Dimension    Dimension `json:"dimension"`
	Similarity   float64   `json:"similarity"`
	Weight       float64   `json:"weight"`
	Contribution float64   `json:"contribution"`
}

// CompatibilityScore es el resultado efimero de comparar dos perfiles.
type CompatibilityScore struct {
	Score                 int                   `json:"score"`
	PersonalitySimilarity float64               `json:"personality_similarity"`
	InterestOverlap       float64               `json:"interest_overlap"`
	Dimensions            []DimensionSimilarity `json:"dimensions"`
}

// CompletionStatus es el resultado del checklist de completitud.
type CompletionStatus struct {
	Percentage     int `json:"percentage"`
	UnitsCompleted int `json:"units_completed"`
	UnitsTotal     int `json:"units_total"`
}

// ProfileCompletion agrega al checklist los contadores que muestra el cliente.
type ProfileCompletion struct {
	CompletionStatus
	ResponsesCount    int        `json:"responses_count"`
	IntegrationsCount int        `json:"integrations_count"`
	LastUpdate        *time.Time `json:"last_update,omitempty"`
}

// Question es una pregunta del banco estatico.
type Question struct {
	ID       string   `json:"id"`
	Text     string   `json:"question"`
	Category Category `json:"category"`
	Options  []string `json:"options,omitempty"`
}
