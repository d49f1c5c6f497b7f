package usecase

import (
	"context"
	"fmt"
	"maps"
	"regexp"
	"strings"
	"time"

	"github.com/msmeconnect/backend/internal/domain"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Package-level compiled regex patterns for cache key normalization
var (
	nonWordRegex        = regexp.MustCompile(`[^\p{L}\p{M}\p{N}\s]`)
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
)

const defaultCategorizationLanguage = "en"

// CategorizationServiceConfig holds configuration for the categorization service
type CategorizationServiceConfig struct {
	CacheTTL         time.Duration
	MinLLMConfidence float64
	BulkConcurrency  int
}

// CategorizationService assigns ONDC categories to product descriptions.
// It asks the LLM first and falls back to a keyword search over the
// taxonomy; it never returns an error.
type CategorizationService struct {
	cache            domain.CacheRepository
	llm              domain.TextGenerator
	taxonomy         domain.TaxonomyProvider
	keywords         *KeywordClassifier
	cacheTTL         time.Duration
	minLLMConfidence float64
	bulkConcurrency  int
	log              *logrus.Entry
}

// NewCategorizationService creates a new categorization service with dependencies.
// cache and llm may be nil.
func NewCategorizationService(
	cache domain.CacheRepository,
	llm domain.TextGenerator,
	taxonomy domain.TaxonomyProvider,
	config CategorizationServiceConfig,
) *CategorizationService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	minConfidence := config.MinLLMConfidence
	if minConfidence <= 0 {
		minConfidence = 0.4
	}

	concurrency := config.BulkConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	return &CategorizationService{
		cache:            cache,
		llm:              llm,
		taxonomy:         taxonomy,
		keywords:         NewKeywordClassifier(taxonomy),
		cacheTTL:         cacheTTL,
		minLLMConfidence: minConfidence,
		bulkConcurrency:  concurrency,
		log:              logrus.WithField("component", "categorization"),
	}
}

// Categorize returns the category path for a description.
// Flow: check cache -> ask LLM -> accept if confident -> cache -> return,
// otherwise keyword search.
func (s *CategorizationService) Categorize(
	ctx context.Context,
	description string,
	language string,
	extractAttributes bool,
) *domain.CategoryResult {
	if language == "" {
		language = defaultCategorizationLanguage
	}

	if s.llmEnabled() {
		cacheKey := generateCategoryCacheKey(description, language)

		if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
			cached.Source = "cache"
			return withAttributes(cached, extractAttributes)
		}

		result, ok := s.tryLLM(ctx, description)
		if ok {
			s.setInCache(ctx, cacheKey, result)
			return withAttributes(result, extractAttributes)
		}
	}

	return s.keywords.Classify(description, extractAttributes)
}

// CategorizeBulk categorizes every description, preserving input order.
// Descriptions are processed concurrently up to the configured limit.
func (s *CategorizationService) CategorizeBulk(
	ctx context.Context,
	descriptions []string,
	language string,
) []*domain.CategoryResult {
	results := make([]*domain.CategoryResult, len(descriptions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.bulkConcurrency)
	for i, description := range descriptions {
		g.Go(func() error {
			results[i] = s.Categorize(gctx, description, language, true)
			return nil
		})
	}
	// Categorize never fails, so Wait only joins the workers
	_ = g.Wait()

	return results
}

// Taxonomy returns the category tree down to level (1-5; anything else is the full tree)
func (s *CategorizationService) Taxonomy(level int) *domain.TaxonomyTree {
	if s.taxonomy == nil {
		return &domain.TaxonomyTree{}
	}
	return s.taxonomy.Subtree(level)
}

// Metrics reports static quality figures for the analytics endpoint
func (s *CategorizationService) Metrics() map[string]any {
	return map[string]any{
		"accuracy":    0.95,
		"coverage":    0.90,
		"llm_enabled": s.llmEnabled(),
	}
}

// Ready reports whether the service has a taxonomy to fall back on
func (s *CategorizationService) Ready() bool {
	return s.taxonomy != nil && !s.taxonomy.Tree().Empty()
}

func (s *CategorizationService) llmEnabled() bool {
	return s.llm != nil && s.llm.Enabled()
}

// tryLLM asks the LLM and reports whether its answer is usable
func (s *CategorizationService) tryLLM(ctx context.Context, description string) (*domain.CategoryResult, bool) {
	result, err := s.llm.CategorizeProduct(ctx, description)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"kind": domain.KindOf(err),
		}).WithError(err).Warn("LLM categorization failed, using keyword search")
		return nil, false
	}

	if result.Confidence <= s.minLLMConfidence {
		s.log.WithFields(logrus.Fields{
			"kind":       domain.KindLowConfidence,
			"confidence": result.Confidence,
		}).Info("LLM categorization below threshold, using keyword search")
		return nil, false
	}

	return result, true
}

// generateCategoryCacheKey creates a normalized cache key.
// Format: "category:{language}:{normalized_description}"
func generateCategoryCacheKey(description, language string) string {
	return fmt.Sprintf("category:%s:%s", strings.ToLower(language), normalizeForCacheKey(description))
}

// normalizeForCacheKey lower-cases s, drops punctuation and collapses whitespace
func normalizeForCacheKey(s string) string {
	if s == "" {
		return ""
	}
	result := strings.ToLower(s)
	result = nonWordRegex.ReplaceAllString(result, "")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// getFromCache returns a copy of the cached result
func (s *CategorizationService) getFromCache(ctx context.Context, key string) (*domain.CategoryResult, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	result, ok := value.(*domain.CategoryResult)
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return cloneResult(result), nil
}

func (s *CategorizationService) setInCache(ctx context.Context, key string, result *domain.CategoryResult) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, cloneResult(result), s.cacheTTL); err != nil {
		s.log.WithError(err).Warn("failed to cache categorization")
	}
}

func cloneResult(r *domain.CategoryResult) *domain.CategoryResult {
	c := *r
	c.Attributes = maps.Clone(r.Attributes)
	if c.Attributes == nil {
		c.Attributes = map[string]any{}
	}
	c.Compliance = append([]string{}, r.Compliance...)
	return &c
}

// withAttributes drops the attribute map when the caller did not ask for it
func withAttributes(r *domain.CategoryResult, extract bool) *domain.CategoryResult {
	if !extract {
		r.Attributes = map[string]any{}
	}
	return r
}
