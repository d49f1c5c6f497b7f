package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server         ServerConfig
	Log            LogConfig
	LLM            LLMConfig
	WebSearch      WebSearchConfig
	Taxonomy       TaxonomyConfig
	Storage        StorageConfig
	Cache          CacheConfig
	RateLimit      RateLimitConfig
	Matching       MatchingConfig
	Categorization CategorizationConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
}

// LLMConfig holds the text-generation collaborator configuration (Ollama API)
type LLMConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Temperature float64       `mapstructure:"temperature"`
	TopP        float64       `mapstructure:"top_p"`
}

// WebSearchConfig holds the vendor search configuration
type WebSearchConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	UserAgent         string        `mapstructure:"user_agent"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

// TaxonomyConfig points at the ONDC category tree
type TaxonomyConfig struct {
	Path string `mapstructure:"path"`
}

// StorageConfig holds persistence configuration
type StorageConfig struct {
	Type       string `mapstructure:"type"` // "json" or "sqlite"
	DataDir    string `mapstructure:"data_dir"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
}

// MatchingConfig holds vendor matching configuration
type MatchingConfig struct {
	DefaultTopK int `mapstructure:"default_top_k"`
	MaxTopK     int `mapstructure:"max_top_k"`
}

// CategorizationConfig holds classifier configuration
type CategorizationConfig struct {
	BulkConcurrency  int     `mapstructure:"bulk_concurrency"`
	MinLLMConfidence float64 `mapstructure:"min_llm_confidence"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/msmeconnect/")

	v.SetEnvPrefix("MSME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile copies variables from ./.env into the process environment.
// Variables that are already set are left untouched.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	env := viper.New()
	env.SetConfigFile(".env")
	env.SetConfigType("env")
	if err := env.ReadInConfig(); err != nil {
		return err
	}

	// viper lower-cases keys; environment variables here are upper case
	for _, key := range env.AllKeys() {
		name := strings.ToUpper(key)
		if _, exists := os.LookupEnv(name); exists {
			continue
		}
		if err := os.Setenv(name, env.GetString(key)); err != nil {
			return err
		}
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// LLM defaults (local Ollama)
	v.SetDefault("llm.enabled", true)
	v.SetDefault("llm.base_url", "http://localhost:11434")
	v.SetDefault("llm.model", "llama3.1:latest")
	v.SetDefault("llm.timeout", "30s")
	v.SetDefault("llm.temperature", 0.1)
	v.SetDefault("llm.top_p", 0.9)

	v.SetDefault("websearch.base_url", "https://html.duckduckgo.com/html/")
	v.SetDefault("websearch.timeout", "10s")
	v.SetDefault("websearch.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")
	v.SetDefault("websearch.requests_per_second", 1.0)
	v.SetDefault("websearch.burst", 5)

	v.SetDefault("taxonomy.path", "data/taxonomy.json")

	v.SetDefault("storage.type", "json")
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("storage.sqlite_path", "data/msmeconnect.db")

	v.SetDefault("cache.ttl", "24h")

	v.SetDefault("ratelimit.per_ip", 120)

	v.SetDefault("matching.default_top_k", 3)
	v.SetDefault("matching.max_top_k", 10)

	v.SetDefault("categorization.bulk_concurrency", 4)
	v.SetDefault("categorization.min_llm_confidence", 0.4)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Storage.Type != "json" && config.Storage.Type != "sqlite" {
		return fmt.Errorf("storage type must be 'json' or 'sqlite', got: %s", config.Storage.Type)
	}

	if config.Storage.Type == "json" && config.Storage.DataDir == "" {
		return fmt.Errorf("data directory is required when storage type is 'json'")
	}

	if config.Storage.Type == "sqlite" && config.Storage.SQLitePath == "" {
		return fmt.Errorf("sqlite path is required when storage type is 'sqlite'")
	}

	if config.LLM.Enabled && config.LLM.BaseURL == "" {
		return fmt.Errorf("LLM base URL is required when LLM is enabled (set MSME_LLM_BASE_URL)")
	}

	if config.WebSearch.BaseURL == "" {
		return fmt.Errorf("web search base URL is required (set MSME_WEBSEARCH_BASE_URL)")
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("log format must be 'text' or 'json', got: %s", config.Log.Format)
	}

	if config.Matching.DefaultTopK <= 0 || config.Matching.MaxTopK < config.Matching.DefaultTopK {
		return fmt.Errorf("matching top_k must satisfy 0 < default_top_k <= max_top_k")
	}

	// rank i scores 1.0 - 0.1*i, which must stay non-negative
	if config.Matching.MaxTopK > 10 {
		return fmt.Errorf("matching max_top_k must be at most 10, got: %d", config.Matching.MaxTopK)
	}

	return nil
}
