package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	ScopeRequest = "request"
	ScopeCaller  = "caller"
	ScopeGlobal  = "global"

	ErrorModeEmbedded = "embedded"
	ErrorModeStatus   = "status"
)

type Config struct {
	// Server
	Port     string
	Env      string
	LogLevel string

	// Model
	Provider         string
	ModelName        string
	Temperature      float64
	HasTemperature   bool
	ModelTimeout     time.Duration
	ModelConcurrency int

	// Credentials
	GoogleAPIKey   string
	OpenAIAPIKey   string
	APIKeySSMParam string

	// Persona
	PersonaFile string

	// Sessions
	SessionScope    string
	SessionMaxTurns int
	SessionIdleTTL  time.Duration
	SessionSecret   string
	RedisURL        string

	// Responses
	ErrorMode string

	rawTemperature string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	provider := strings.ToLower(getEnvOrDefault("MODEL_PROVIDER", ProviderGemini))

	cfg := &Config{
		Port:             getEnvOrDefault("PORT", "8080"),
		Env:              getEnvOrDefault("ENV", "development"),
		LogLevel:         strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		Provider:         provider,
		ModelName:        getEnvOrDefault("MODEL_NAME", defaultModelName(provider)),
		ModelTimeout:     getEnvAsDurationOrDefault("MODEL_TIMEOUT", 60*time.Second),
		ModelConcurrency: getEnvAsIntOrDefault("MODEL_CONCURRENT_REQUESTS", 5),
		GoogleAPIKey:     getEnvOrDefault("GOOGLE_API_KEY", os.Getenv("GEMINI_API_KEY")),
		OpenAIAPIKey:     getEnvOrDefault("OPENAI_API_KEY", ""),
		APIKeySSMParam:   getEnvOrDefault("API_KEY_SSM_PARAM", ""),
		PersonaFile:      getEnvOrDefault("PERSONA_FILE", ""),
		SessionScope:     strings.ToLower(getEnvOrDefault("SESSION_SCOPE", ScopeCaller)),
		SessionMaxTurns:  getEnvAsIntOrDefault("SESSION_MAX_TURNS", 40),
		SessionIdleTTL:   getEnvAsDurationOrDefault("SESSION_IDLE_TTL", 30*time.Minute),
		SessionSecret:    getEnvOrDefault("SESSION_SECRET", ""),
		RedisURL:         getEnvOrDefault("REDIS_URL", ""),
		ErrorMode:        strings.ToLower(getEnvOrDefault("ERROR_MODE", ErrorModeEmbedded)),
	}

	if v := os.Getenv("MODEL_TEMPERATURE"); v != "" {
		if t, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Temperature = t
			cfg.HasTemperature = true
		} else {
			cfg.rawTemperature = v
		}
	}

	return cfg
}

// Validate reports the first unknown enum value or out-of-range setting.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown MODEL_PROVIDER %q", c.Provider)
	}
	switch c.SessionScope {
	case ScopeRequest, ScopeCaller, ScopeGlobal:
	default:
		return fmt.Errorf("unknown SESSION_SCOPE %q", c.SessionScope)
	}
	switch c.ErrorMode {
	case ErrorModeEmbedded, ErrorModeStatus:
	default:
		return fmt.Errorf("unknown ERROR_MODE %q", c.ErrorMode)
	}
	if c.ModelConcurrency <= 0 {
		return fmt.Errorf("MODEL_CONCURRENT_REQUESTS must be positive, got %d", c.ModelConcurrency)
	}
	if c.ModelTimeout <= 0 {
		return fmt.Errorf("MODEL_TIMEOUT must be positive, got %s", c.ModelTimeout)
	}
	if c.rawTemperature != "" {
		return fmt.Errorf("MODEL_TEMPERATURE must be a number, got %q", c.rawTemperature)
	}
	if c.HasTemperature && (c.Temperature < 0 || c.Temperature > 2) {
		return fmt.Errorf("MODEL_TEMPERATURE must be between 0 and 2, got %g", c.Temperature)
	}
	// A bound of one turn would drop every exchange, so a pair is the minimum.
	if c.SessionMaxTurns < 0 || c.SessionMaxTurns == 1 {
		return fmt.Errorf("SESSION_MAX_TURNS must be 0 or at least 2, got %d", c.SessionMaxTurns)
	}
	return nil
}

// APIKey returns the environment credential for the configured provider.
func (c *Config) APIKey() string {
	if c.Provider == ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GoogleAPIKey
}

func defaultModelName(provider string) string {
	if provider == ProviderOpenAI {
		return "gpt-4o-mini"
	}
	return "gemini-1.5-flash"
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
