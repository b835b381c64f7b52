package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/traits")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("LLM_API_KEY", "sk-test")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LLMProvider != ProviderOpenAI {
		t.Fatalf("expected provider openai, got %q", cfg.LLMProvider)
	}
	if cfg.ReasoningTimeout != 90*time.Second {
		t.Fatalf("expected 90s timeout, got %v", cfg.ReasoningTimeout)
	}
	if cfg.SignalSampleSize != 5 || cfg.TagSampleSize != 20 {
		t.Fatalf("unexpected sample sizes: %d/%d", cfg.SignalSampleSize, cfg.TagSampleSize)
	}
	if cfg.SynthesisLockTTL != 3*time.Minute {
		t.Fatalf("expected 3m lock ttl, got %v", cfg.SynthesisLockTTL)
	}
}

func TestLoadConfigGeminiRequiresKey(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/traits")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("LLM_PROVIDER", ProviderGemini)
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when GEMINI_API_KEY is missing")
	}

	t.Setenv("GEMINI_API_KEY", "g-test")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.GeminiModel == "" {
		t.Fatalf("expected default gemini model")
	}
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	cfg := Config{LLMProvider: "claude-local", ReasoningTimeout: time.Second, MatchConcurrency: 1}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestLoadToolConfigSkipsServerSettings(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "JWT_SECRET"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("LLM_PROVIDER", ProviderMock)

	cfg, err := LoadToolConfig()
	if err != nil {
		t.Fatalf("LoadToolConfig: %v", err)
	}
	if cfg.LLMProvider != ProviderMock {
		t.Fatalf("expected mock provider, got %q", cfg.LLMProvider)
	}

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected LoadConfig to require DATABASE_URL")
	}
}
