package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("MSME_SERVER_PORT")
		os.Unsetenv("MSME_SERVER_ENVIRONMENT")
		os.Unsetenv("MSME_LLM_ENABLED")
		os.Unsetenv("MSME_LLM_BASE_URL")
		os.Unsetenv("MSME_LLM_TIMEOUT")
		os.Unsetenv("MSME_WEBSEARCH_TIMEOUT")
		os.Unsetenv("MSME_STORAGE_TYPE")
		os.Unsetenv("MSME_STORAGE_SQLITE_PATH")
		os.Unsetenv("MSME_RATELIMIT_PER_IP")
		os.Unsetenv("MSME_MATCHING_DEFAULT_TOP_K")
		os.Unsetenv("MSME_LOG_FORMAT")
	}

	// Run from an empty directory so no config.yaml or .env is picked up
	originalDir, _ := os.Getwd()
	defer os.Chdir(originalDir)
	os.Chdir(t.TempDir())

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8000" {
			t.Errorf("Server.Port = %s, want 8000", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[0] != "http://localhost:3000" {
			t.Errorf("Server.AllowedOrigins = %v, want the local dev origins", cfg.Server.AllowedOrigins)
		}
		if cfg.LLM.BaseURL != "http://localhost:11434" {
			t.Errorf("LLM.BaseURL = %s, want http://localhost:11434", cfg.LLM.BaseURL)
		}
		if cfg.LLM.Timeout != 30*time.Second {
			t.Errorf("LLM.Timeout = %v, want 30s", cfg.LLM.Timeout)
		}
		if cfg.WebSearch.Timeout != 10*time.Second {
			t.Errorf("WebSearch.Timeout = %v, want 10s", cfg.WebSearch.Timeout)
		}
		if cfg.Storage.Type != "json" {
			t.Errorf("Storage.Type = %s, want json", cfg.Storage.Type)
		}
		if cfg.Matching.DefaultTopK != 3 {
			t.Errorf("Matching.DefaultTopK = %d, want 3", cfg.Matching.DefaultTopK)
		}
		if cfg.Categorization.MinLLMConfidence != 0.4 {
			t.Errorf("Categorization.MinLLMConfidence = %v, want 0.4", cfg.Categorization.MinLLMConfidence)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("MSME_SERVER_PORT", "9090")
		os.Setenv("MSME_SERVER_ENVIRONMENT", "production")
		os.Setenv("MSME_LLM_TIMEOUT", "5s")
		os.Setenv("MSME_STORAGE_TYPE", "sqlite")
		os.Setenv("MSME_STORAGE_SQLITE_PATH", "/tmp/msme.db")
		os.Setenv("MSME_RATELIMIT_PER_IP", "200")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.LLM.Timeout != 5*time.Second {
			t.Errorf("LLM.Timeout = %v, want 5s", cfg.LLM.Timeout)
		}
		if cfg.Storage.Type != "sqlite" {
			t.Errorf("Storage.Type = %s, want sqlite", cfg.Storage.Type)
		}
		if cfg.Storage.SQLitePath != "/tmp/msme.db" {
			t.Errorf("Storage.SQLitePath = %s, want /tmp/msme.db", cfg.Storage.SQLitePath)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
	})

	t.Run("fails validation for invalid storage type", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("MSME_STORAGE_TYPE", "postgres")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid storage type")
		}
	})

	t.Run("fails validation for invalid log format", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("MSME_LOG_FORMAT", "xml")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid log format")
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)
		os.Chdir(t.TempDir())

		if err := loadEnvFile(); err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables from .env file", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)
		os.Chdir(t.TempDir())

		envContent := "# Comment line\nTEST_VAR_1=value1\nTEST_VAR_2=value2\n"
		if err := os.WriteFile(".env", []byte(envContent), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
		defer os.Unsetenv("TEST_VAR_1")
		defer os.Unsetenv("TEST_VAR_2")

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_VAR_1") != "value1" {
			t.Errorf("TEST_VAR_1 = %s, want value1", os.Getenv("TEST_VAR_1"))
		}
		if os.Getenv("TEST_VAR_2") != "value2" {
			t.Errorf("TEST_VAR_2 = %s, want value2", os.Getenv("TEST_VAR_2"))
		}
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)
		os.Chdir(t.TempDir())

		os.Setenv("TEST_OVERRIDE", "existing-value")
		defer os.Unsetenv("TEST_OVERRIDE")

		if err := os.WriteFile(".env", []byte("TEST_OVERRIDE=new-value\n"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_OVERRIDE = %s, want existing-value (should not override)", os.Getenv("TEST_OVERRIDE"))
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Log:       LogConfig{Format: "text"},
			LLM:       LLMConfig{Enabled: true, BaseURL: "http://localhost:11434"},
			WebSearch: WebSearchConfig{BaseURL: "https://html.duckduckgo.com/html/"},
			Storage:   StorageConfig{Type: "json", DataDir: "data"},
			Matching:  MatchingConfig{DefaultTopK: 3, MaxTopK: 10},
		}
	}

	t.Run("validates successfully with all required fields", func(t *testing.T) {
		if err := validate(valid()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails for sqlite storage without path", func(t *testing.T) {
		cfg := valid()
		cfg.Storage = StorageConfig{Type: "sqlite"}
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for sqlite without path")
		}
	})

	t.Run("fails when LLM enabled without base URL", func(t *testing.T) {
		cfg := valid()
		cfg.LLM.BaseURL = ""
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for missing LLM base URL")
		}
	})

	t.Run("allows disabled LLM without base URL", func(t *testing.T) {
		cfg := valid()
		cfg.LLM = LLMConfig{Enabled: false}
		if err := validate(cfg); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails when default top_k exceeds max", func(t *testing.T) {
		cfg := valid()
		cfg.Matching = MatchingConfig{DefaultTopK: 5, MaxTopK: 3}
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for default_top_k > max_top_k")
		}
	})

	t.Run("fails when max top_k exceeds the rank budget", func(t *testing.T) {
		cfg := valid()
		cfg.Matching = MatchingConfig{DefaultTopK: 3, MaxTopK: 11}
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for max_top_k > 10")
		}
	})
}
