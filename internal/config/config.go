package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
)

// Proveedores de razonamiento soportados.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderMock   = "mock"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	LLMProvider  string `env:"LLM_PROVIDER" envDefault:"openai"`
	LLMAPIKey    string `env:"LLM_API_KEY"`
	LLMBaseURL   string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel     string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`

	ReasoningTimeout time.Duration `env:"REASONING_TIMEOUT" envDefault:"90s"`
	SignalSampleSize int           `env:"SIGNAL_SAMPLE_SIZE" envDefault:"5"`
	TagSampleSize    int           `env:"TAG_SAMPLE_SIZE" envDefault:"20"`
	SynthesisLockTTL time.Duration `env:"SYNTHESIS_LOCK_TTL" envDefault:"3m"`
	MatchConcurrency int           `env:"MATCH_CONCURRENCY" envDefault:"8"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret      string `env:"JWT_SECRET,required"`
	JWTIssuer      string `env:"JWT_ISSUER" envDefault:"rchxtype"`
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	LogDebug       bool   `env:"LOG_DEBUG" envDefault:"false"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadToolConfig carga la configuracion para herramientas de linea de comandos que no
// usan base de datos ni emiten tokens.
func LoadToolConfig() (*Config, error) {
	environ := env.ToMap(os.Environ())
	for _, key := range []string{"DATABASE_URL", "JWT_SECRET"} {
		if environ[key] == "" {
			environ[key] = "unused"
		}
	}
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate revisa combinaciones que env no puede expresar con tags.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.LLMAPIKey == "" {
			return fmt.Errorf("LLM_API_KEY is required for provider %q", c.LLMProvider)
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for provider %q", c.LLMProvider)
		}
	case ProviderMock:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	if c.ReasoningTimeout <= 0 {
		return fmt.Errorf("REASONING_TIMEOUT must be positive")
	}
	if c.SignalSampleSize < 0 || c.TagSampleSize < 0 {
		return fmt.Errorf("sample sizes must not be negative")
	}
	if c.MatchConcurrency <= 0 {
		return fmt.Errorf("MATCH_CONCURRENCY must be positive")
	}
	return nil
}
