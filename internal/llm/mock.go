package llm

import (
	"context"
	"sync"
)

// MockClient permite tests sin llamar a un LLM real.
// Devuelve Responses en orden; cuando se agotan repite la ultima.
type MockClient struct {
	Responses []string
	Err       error
	// Func, si no es nil, reemplaza el comportamiento por defecto.
	Func func(ctx context.Context, req Request) (string, error)

	mu    sync.Mutex
	calls []Request
}

// NewMockClient devuelve un mock que responde siempre con el mismo texto.
func NewMockClient(response string) *MockClient {
	return &MockClient{Responses: []string{response}}
}

func (m *MockClient) Generate(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	idx := len(m.calls)
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.Func != nil {
		return m.Func(ctx, req)
	}
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", nil
	}
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	return m.Responses[idx], nil
}

// Calls devuelve una copia de los requests recibidos.
func (m *MockClient) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.calls...)
}

// SampleInference es una respuesta valida usada por el proveedor "mock".
const SampleInference = `{
  "bigFiveTraits": {
    "openness": {"score": 72, "confidence": 60, "reasoning": "Curious answers and broad listening habits."},
    "conscientiousness": {"score": 64, "confidence": 55, "reasoning": "Plans ahead in most scenarios."},
    "extraversion": {"score": 45, "confidence": 50, "reasoning": "Enjoys small gatherings."},
    "agreeableness": {"score": 70, "confidence": 58, "reasoning": "Prefers consensus."},
    "neuroticism": {"score": 35, "confidence": 40, "reasoning": "Reports calm under pressure."}
  },
  "interests": [
    {"category": "music", "tags": ["indie", "jazz"], "confidence": 65},
    {"category": "learning", "tags": ["history", "science"], "confidence": 50}
  ],
  "communicationStyle": {"primary": "analytical", "secondary": "amiable", "confidence": 55},
  "decisionMaking": {"style": "rational", "confidence": 60},
  "workStyle": {"collaboration": 60, "autonomy": 70, "structure": 55, "innovation": 68},
  "socialPreferences": {"groupSize": "small", "interactionStyle": "ambiverted", "leadershipTendency": "collaborator"},
  "insights": [
    {"type": "strength", "title": "Structured curiosity", "description": "Explores new topics with a plan.", "confidence": 60}
  ]
}`
