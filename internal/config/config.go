package config

import "os"

// Config holds the application configuration. ToneForge is deployable either
// stateless (AUTH_MODE=gateway, no DB, tone history disabled) or as a
// self-hosted single-binary service with its own Postgres-backed users and
// tone history (AUTH_MODE=local).
type Config struct {
	// Environment
	Environment string
	Port        string
	BaseURL     string

	// LLM API keys
	OpenAIAPIKey string // OpenAI API key for GPT models
	GeminiAPIKey string // Google Gemini API key

	// Host adapter - the REAPER-like DAW host this instance maps tones onto
	HostBaseURL     string
	HostTimeoutSecs int

	// Mapper defaults, overridable per spec.md §2.1's configuration knobs
	AllowLoadPlugins bool
	MaxEQPoints      int

	// Database (required when AuthMode == "local")
	DatabaseURL string

	// Auth
	JWTSecret          string
	GoogleClientID     string
	GoogleClientSecret string
	GitHubClientID     string
	GitHubClientSecret string
	FrontendURL        string

	// Email (AWS SES, used by auth/invitation flows in local mode)
	AWSRegion string
	EmailFrom string

	// Observability
	SentryDSN         string // Sentry DSN for error tracking
	LangfusePublicKey string // Langfuse public key
	LangfuseSecretKey string // Langfuse secret key
	LangfuseHost      string // Langfuse host URL (cloud or self-hosted)
	LangfuseEnabled   bool   // Feature flag for Langfuse

	// Auth mode
	// - "none": no auth, no DB (local dev against a single host instance)
	// - "local": JWT/OAuth against this service's own Postgres users table
	// - "gateway": trust X-User-* headers from an upstream gateway
	AuthMode string
}

func Load() *Config {
	return &Config{
		Environment:        getEnv("ENVIRONMENT", "development"),
		Port:               getEnv("PORT", "8080"),
		BaseURL:            getEnv("BASE_URL", "http://localhost:8080"),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		HostBaseURL:        getEnv("HOST_BASE_URL", "http://localhost:9000"),
		HostTimeoutSecs:    getEnvInt("HOST_TIMEOUT_SECS", 10),
		AllowLoadPlugins:   getEnv("ALLOW_LOAD_PLUGINS", "true") == "true",
		MaxEQPoints:        getEnvInt("MAX_EQ_POINTS", 4),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GitHubClientID:     getEnv("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		EmailFrom:          getEnv("EMAIL_FROM", "ToneForge <noreply@toneforge.local>"),
		SentryDSN:          getEnv("SENTRY_DSN", ""),
		LangfusePublicKey:  getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey:  getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseHost:       getEnv("LANGFUSE_HOST", "https://cloud.langfuse.com"),
		LangfuseEnabled:    getEnv("LANGFUSE_ENABLED", "false") == "true",
		AuthMode:           getEnv("AUTH_MODE", "none"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed := 0
	for _, r := range value {
		if r < '0' || r > '9' {
			return defaultValue
		}
		parsed = parsed*10 + int(r-'0')
	}
	return parsed
}

// IsGatewayMode returns true if running behind an upstream auth gateway.
func (c *Config) IsGatewayMode() bool {
	return c.AuthMode == "gateway"
}

// RequiresDatabase returns true if this config needs a live Postgres
// connection for users, tone history, and mapping-run audit records.
func (c *Config) RequiresDatabase() bool {
	return c.AuthMode == "local"
}
