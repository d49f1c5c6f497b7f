package usecase

import (
	"fmt"
	"sort"

	"github.com/msmeconnect/backend/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fixed values for simulated vendors
const (
	fallbackScore      = 0.8
	fallbackRating     = 4.5
	fallbackSuccess    = 0.9
	fallbackCommission = 2.0
	fallbackCity       = "Simulated"
	fallbackAddress    = "www.example-live-data.com"
	fallbackNameText   = "General"
	fallbackStateText  = "India"
)

// MatchRanker orders scored vendors and assigns ranks. When nothing was
// scored it synthesizes a full page of fallback vendors instead.
type MatchRanker struct {
	ids   *IDGenerator
	title cases.Caser
}

// NewMatchRanker creates a ranker
func NewMatchRanker(ids *IDGenerator) *MatchRanker {
	if ids == nil {
		ids = NewIDGenerator()
	}
	return &MatchRanker{
		ids:   ids,
		title: cases.Title(language.English),
	}
}

// Rank sorts scored by overall score, highest first, keeping input order
// for ties. Output has at most topK entries; with no scored candidates it
// has exactly topK fallback entries.
func (r *MatchRanker) Rank(scored []domain.ScoredCandidate, topK int, profile domain.BusinessProfile) []domain.MatchResult {
	if topK <= 0 {
		return []domain.MatchResult{}
	}
	if len(scored) == 0 {
		scored = r.fallbackCandidates(topK, profile)
	}

	sorted := make([]domain.ScoredCandidate, len(scored))
	copy(sorted, scored)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MatchScore.OverallScore > sorted[j].MatchScore.OverallScore
	})

	if len(sorted) > topK {
		sorted = sorted[:topK]
	}

	results := make([]domain.MatchResult, len(sorted))
	for i, c := range sorted {
		results[i] = domain.MatchResult{
			Vendor:      c.Vendor,
			MatchScore:  c.MatchScore,
			Explanation: c.Explanation,
			Rank:        i + 1,
		}
	}
	return results
}

func (r *MatchRanker) fallbackCandidates(n int, profile domain.BusinessProfile) []domain.ScoredCandidate {
	nameText := fallbackNameText
	if profile.HasProductText() {
		nameText = r.title.String(profile.ProductText)
	}
	state := fallbackStateText
	if profile.HasState() {
		state = r.title.String(profile.State)
	}

	candidates := make([]domain.ScoredCandidate, n)
	for i := range candidates {
		candidates[i] = domain.ScoredCandidate{
			Vendor: domain.Vendor{
				ID:          r.ids.New(),
				Name:        fmt.Sprintf("%s Solutions %d", nameText, i+1),
				Description: fmt.Sprintf("Leading provider of %s based in %s", profile.ProductText, state),
				Location: domain.Location{
					State:   state,
					City:    fallbackCity,
					Address: fallbackAddress,
					Pincode: placeholderPincode,
				},
				Categories:            vendorCategories(profile),
				Rating:                fallbackRating,
				OnboardingSuccessRate: fallbackSuccess,
				CommissionRate:        fallbackCommission,
				Capabilities:          []string{"Fallback Online Data"},
			},
			MatchScore: domain.MatchScore{
				OverallScore:     fallbackScore,
				LocationMatch:    fallbackScore,
				CategoryMatch:    fallbackScore,
				PerformanceMatch: fallbackScore,
			},
			Explanation: domain.MatchExplanation{
				MainReasons: []string{"Simulated Live Result"},
				Strengths:   []string{"Fallback Provider"},
			},
		}
	}
	return candidates
}
