package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/msmeconnect/backend/internal/domain"
	"github.com/sirupsen/logrus"
)

// Defaults for the number of recommendations
const (
	defaultTopK = 3
	maxTopK     = 10
)

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	DefaultTopK        int
	MaxTopK            int
	Random             RandomSource
	EnableDebugLogging bool
}

// MatchingService recommends SNPs for an MSE. Vendors come from a live web
// search; when the search yields nothing, simulated vendors are returned.
type MatchingService struct {
	searcher     domain.VendorSearcher
	vendors      domain.VendorRepository
	feedback     domain.FeedbackRepository
	preprocessor *QueryPreprocessor
	scorer       *VendorScorer
	ranker       *MatchRanker
	ids          *IDGenerator
	defaultTopK  int
	maxTopK      int
	now          func() time.Time
	log          *logrus.Entry
}

// NewMatchingService creates a new matching service with the given configuration.
// searcher may be nil, in which case every match uses simulated vendors.
func NewMatchingService(
	searcher domain.VendorSearcher,
	vendors domain.VendorRepository,
	feedback domain.FeedbackRepository,
	config MatchConfig,
) *MatchingService {
	topK := config.DefaultTopK
	if topK <= 0 {
		topK = defaultTopK
	}

	limit := config.MaxTopK
	if limit <= 0 {
		limit = maxTopK
	}
	if topK > limit {
		topK = limit
	}

	ids := NewIDGenerator()

	return &MatchingService{
		searcher:     searcher,
		vendors:      vendors,
		feedback:     feedback,
		preprocessor: NewQueryPreprocessor(config.EnableDebugLogging),
		scorer:       NewVendorScorer(config.Random, ids),
		ranker:       NewMatchRanker(ids),
		ids:          ids,
		defaultTopK:  topK,
		maxTopK:      limit,
		now:          time.Now,
		log:          logrus.WithField("component", "matching"),
	}
}

// Match returns up to topK ranked SNP recommendations for the request.
// topK <= 0 uses the configured default; larger values are capped. It
// never fails: search problems degrade to simulated vendors.
// Flow: normalize -> build query -> acquire -> score -> rank
func (s *MatchingService) Match(ctx context.Context, request *domain.MatchRequest, topK int) []domain.MatchResult {
	topK = s.effectiveTopK(topK)
	profile := request.Normalize()
	query := s.preprocessor.BuildVendorQuery(profile)

	log := s.log.WithFields(logrus.Fields{"query": query, "top_k": topK})
	log.Info("executing live vendor search")

	var candidates []domain.RawCandidate
	if s.searcher != nil {
		candidates = s.searcher.FetchCandidates(ctx, query, topK)
	}

	scored := make([]domain.ScoredCandidate, 0, len(candidates))
	for i, c := range candidates {
		scored = append(scored, s.scorer.Score(c, i, profile))
	}

	if len(scored) == 0 {
		log.WithField("kind", domain.KindNoMatch).Warn("search returned no vendors, using simulated vendors")
	}

	return s.ranker.Rank(scored, topK, profile)
}

// VendorDetails looks up a registered SNP
func (s *MatchingService) VendorDetails(ctx context.Context, id string) (*domain.Vendor, error) {
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}
	if s.vendors == nil {
		return nil, domain.ErrVendorNotFound
	}
	return s.vendors.GetVendor(ctx, id)
}

// RecordFeedback stores an MSE's reaction to a recommendation and returns
// its id. Feedback is kept for reporting and does not affect scoring.
func (s *MatchingService) RecordFeedback(ctx context.Context, fb *domain.Feedback) (string, error) {
	if fb == nil || fb.MSEID == "" || fb.SNPID == "" {
		return "", domain.ErrInvalidRequest
	}
	if fb.Rating != nil && (*fb.Rating < 1 || *fb.Rating > 5) {
		return "", fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrInvalidRequest)
	}
	if s.feedback == nil {
		return "", fmt.Errorf("%w: no feedback repository", domain.ErrStorageFailure)
	}

	record := *fb
	record.ID = s.ids.New()
	record.CreatedAt = s.now().UTC()

	if err := s.feedback.SaveFeedback(ctx, &record); err != nil {
		return "", err
	}

	s.log.WithFields(logrus.Fields{
		"feedback_id": record.ID,
		"snp_id":      record.SNPID,
		"accepted":    record.Accepted,
	}).Info("feedback recorded")

	return record.ID, nil
}

// Metrics reports static quality figures for the analytics endpoint
func (s *MatchingService) Metrics() map[string]any {
	return map[string]any{
		"avg_match_score":     0.88,
		"live_search_enabled": s.searcher != nil,
	}
}

func (s *MatchingService) effectiveTopK(topK int) int {
	if topK <= 0 {
		return s.defaultTopK
	}
	if topK > s.maxTopK {
		return s.maxTopK
	}
	return topK
}
