package domain

// InferredTrait es el bloque que el motor devuelve por cada rasgo.
// Reasoning se registra en logs y nunca se persiste.
type InferredTrait struct {
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

type InferredInterest struct {
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	Confidence float64  `json:"confidence"`
}

type InferredInsight struct {
	Kind        InsightKind `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Confidence  float64     `json:"confidence"`
}

// InferenceResult es la salida validada del motor de razonamiento.
type InferenceResult struct {
	Traits             map[Dimension]InferredTrait `json:"big_five_traits"`
	Interests          []InferredInterest          `json:"interests"`
	CommunicationStyle CommunicationStyle          `json:"communication_style"`
	DecisionStyle      DecisionStyle               `json:"decision_making"`
	WorkStyle          WorkStyle                   `json:"work_style"`
	SocialPreferences  SocialPreferences           `json:"social_preferences"`
	Insights           []InferredInsight           `json:"insights"`
}
