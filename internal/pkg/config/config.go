package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
}

// ProviderConfig holds the per-backend settings for one text-generation
// provider. A provider with an empty APIKey is treated as disabled.
type ProviderConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type AssistantConfig struct {
	OpenAI   ProviderConfig
	DeepSeek ProviderConfig
	Gemini   ProviderConfig
	Grok     ProviderConfig

	// Per-adapter outbound request timeout.
	ProviderTimeout time.Duration
	// Safety net around the whole fan-out. Adapters that exceed it are
	// treated as failed slots.
	FanOutTimeout time.Duration
	// TTL for the (message, language) response cache.
	CacheTTL time.Duration
}

type Config struct {
	Repositories RepositoriesConfig
	Assistant    AssistantConfig
	ServerPort   string
}

func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
				DB:       getEnvOrDefault("POSTGRES_DB", "tourassist"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: 30,
				MinConns: 5,
			},
		},
		Assistant: AssistantConfig{
			OpenAI: ProviderConfig{
				APIKey:  os.Getenv("OPENAI_API_KEY"),
				BaseURL: getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
				Model:   getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
			},
			DeepSeek: ProviderConfig{
				APIKey:  os.Getenv("DEEPSEEK_API_KEY"),
				BaseURL: getEnvOrDefault("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1"),
				Model:   getEnvOrDefault("DEEPSEEK_MODEL", "deepseek-chat"),
			},
			Gemini: ProviderConfig{
				APIKey: os.Getenv("GEMINI_API_KEY"),
				Model:  getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
			},
			Grok: ProviderConfig{
				APIKey:  os.Getenv("GROK_API_KEY"),
				BaseURL: getEnvOrDefault("GROK_BASE_URL", "https://api.x.ai/v1"),
				Model:   getEnvOrDefault("GROK_MODEL", "grok-2-latest"),
			},
			ProviderTimeout: getDurationOrDefault("ASSISTANT_PROVIDER_TIMEOUT", 20*time.Second),
			FanOutTimeout:   getDurationOrDefault("ASSISTANT_FANOUT_TIMEOUT", 30*time.Second),
			CacheTTL:        getDurationOrDefault("ASSISTANT_CACHE_TTL", 5*time.Minute),
		},
		ServerPort: getEnvOrDefault("SERVER_PORT", "8091"),
	}

	if cfg.Repositories.Postgres.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD environment variable is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
