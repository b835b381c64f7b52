package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aaryasekhar/rchxtype/internal/config"
)

// NewEngine crea el motor de razonamiento segun cfg.LLMProvider.
func NewEngine(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ReasoningEngine, error) {
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		if cfg.LLMAPIKey == "" {
			return nil, fmt.Errorf("LLM_API_KEY is required for OpenAI provider")
		}
		return NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger), nil

	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)

	case config.ProviderMock:
		return NewMockClient(SampleInference), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (valid options: openai, gemini, mock)", cfg.LLMProvider)
	}
}

// ProviderName devuelve la etiqueta de proveedor usada en metricas.
func ProviderName(e ReasoningEngine) string {
	switch e.(type) {
	case *HTTPClient:
		return config.ProviderOpenAI
	case *GeminiClient:
		return config.ProviderGemini
	case *MockClient:
		return config.ProviderMock
	default:
		return "custom"
	}
}
