package main

import (
	"context"
	"fmt"
	"io"

	"github.com/msmeconnect/backend/config"
	httpDelivery "github.com/msmeconnect/backend/internal/delivery/http"
	"github.com/msmeconnect/backend/internal/infrastructure/cache"
	"github.com/msmeconnect/backend/internal/infrastructure/llm"
	"github.com/msmeconnect/backend/internal/infrastructure/storage"
	"github.com/msmeconnect/backend/internal/infrastructure/taxonomy"
	"github.com/msmeconnect/backend/internal/infrastructure/websearch"
	"github.com/msmeconnect/backend/internal/usecase"
	"github.com/sirupsen/logrus"
)

// app is the wired service graph shared by the server and the CLI commands
type app struct {
	cfg  *config.Config
	deps httpDelivery.Dependencies
}

// newApp loads configuration and wires every collaborator. Logs are
// written to logOut. The cache sweeper stops when ctx is done.
func newApp(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	configureLogging(cfg.Log, logOut)

	store, err := storage.Open(storage.Options{
		Type:       cfg.Storage.Type,
		DataDir:    cfg.Storage.DataDir,
		SQLitePath: cfg.Storage.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Type, err)
	}

	memoryCache := cache.NewMemoryCache(ctx, cache.DefaultCleanupInterval)

	llmClient := llm.NewClient(llm.Config{
		Enabled:     cfg.LLM.Enabled,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Timeout:     cfg.LLM.Timeout,
		Temperature: cfg.LLM.Temperature,
		TopP:        cfg.LLM.TopP,
	})

	searchClient := websearch.NewClient(websearch.Config{
		BaseURL:           cfg.WebSearch.BaseURL,
		UserAgent:         cfg.WebSearch.UserAgent,
		Timeout:           cfg.WebSearch.Timeout,
		RequestsPerSecond: cfg.WebSearch.RequestsPerSecond,
		Burst:             cfg.WebSearch.Burst,
	})

	taxonomyStore := taxonomy.NewStore(cfg.Taxonomy.Path)

	debug := cfg.Server.Environment == "development"

	categorization := usecase.NewCategorizationService(
		memoryCache,
		llmClient,
		taxonomyStore,
		usecase.CategorizationServiceConfig{
			CacheTTL:         cfg.Cache.TTL,
			MinLLMConfidence: cfg.Categorization.MinLLMConfidence,
			BulkConcurrency:  cfg.Categorization.BulkConcurrency,
		},
	)
	matching := usecase.NewMatchingService(searchClient, store, store, usecase.MatchConfig{
		DefaultTopK:        cfg.Matching.DefaultTopK,
		MaxTopK:            cfg.Matching.MaxTopK,
		EnableDebugLogging: debug,
	})
	voice := usecase.NewVoiceService(llmClient)

	logrus.WithFields(logrus.Fields{
		"environment": cfg.Server.Environment,
		"storage":     cfg.Storage.Type,
		"llm":         llmClient.Enabled(),
		"llm_model":   cfg.LLM.Model,
		"cache_ttl":   cfg.Cache.TTL.String(),
		"top_k":       cfg.Matching.DefaultTopK,
	}).Info("services wired")

	return &app{
		cfg: cfg,
		deps: httpDelivery.Dependencies{
			Store:          store,
			LLM:            llmClient,
			Categorization: categorization,
			Matching:       matching,
			Applications:   usecase.NewApplicationService(store),
			Voice:          voice,
			Documents:      usecase.NewDocumentService(),
			Analytics: usecase.NewAnalyticsService(store, store, store, map[string]usecase.MetricsProvider{
				"categorization": categorization,
				"matching":       matching,
				"voice":          voice,
			}),
		},
	}, nil
}

// Close releases the store
func (a *app) Close() error {
	return a.deps.Store.Close()
}

// configureLogging applies the configured level and format to the
// standard logrus logger
func configureLogging(cfg config.LogConfig, out io.Writer) {
	logrus.SetOutput(out)

	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logrus.Warnf("unknown log level %q, using info", cfg.Level)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
