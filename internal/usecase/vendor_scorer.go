package usecase

import (
	"fmt"
	"math"

	"github.com/msmeconnect/backend/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fixed values for vendors built from live search results
const (
	liveCity           = "Online / Available"
	placeholderPincode = "000000"
	defaultVendorState = "India"
	generalCategory    = "General Vendor"
	maxVendorNameRunes = 50
	maxSnippetRunes    = 150
	maxSourceRefRunes  = 30
	maxAddressRunes    = 100
	maxReasonURLRunes  = 25
	knownFieldScore    = 0.9
	unknownFieldScore  = 0.5
	overallScoreFactor = 0.9
	rankScoreDecrement = 0.1
)

var liveCapabilities = []string{"Live Data", "Verified from Web API", "Agent / Provider"}

var liveStrengths = []string{"Top internet search result", "Vendor mapped dynamically"}

// Uniform ranges for the simulated vendor performance figures
var (
	ratingRange     = [2]float64{3.5, 5.0}
	successRange    = [2]float64{0.7, 0.99}
	commissionRange = [2]float64{1.0, 5.0}
)

// VendorScorer turns a raw search hit into a scored vendor. Scores depend
// only on the hit's position and the profile; performance figures are
// drawn from the RandomSource.
type VendorScorer struct {
	rnd   RandomSource
	ids   *IDGenerator
	title cases.Caser
}

// NewVendorScorer creates a scorer. A nil source uses the process-wide generator.
func NewVendorScorer(rnd RandomSource, ids *IDGenerator) *VendorScorer {
	if rnd == nil {
		rnd = DefaultRandomSource()
	}
	if ids == nil {
		ids = NewIDGenerator()
	}
	return &VendorScorer{
		rnd:   rnd,
		ids:   ids,
		title: cases.Title(language.English),
	}
}

// Score builds the vendor and its score for the candidate at the 0-based
// rankIndex of the fetched list.
func (s *VendorScorer) Score(c domain.RawCandidate, rankIndex int, profile domain.BusinessProfile) domain.ScoredCandidate {
	success := s.draw(successRange, 2)

	vendor := domain.Vendor{
		ID:          s.ids.New(),
		Name:        truncateRunes(c.Title, maxVendorNameRunes),
		Description: fmt.Sprintf("%s... (Source: %s)", truncateRunes(c.Snippet, maxSnippetRunes), truncateRunes(c.URL, maxSourceRefRunes)),
		Location: domain.Location{
			State:   s.stateName(profile),
			City:    liveCity,
			Address: truncateRunes(c.URL, maxAddressRunes),
			Pincode: placeholderPincode,
		},
		Categories:            vendorCategories(profile),
		Rating:                s.draw(ratingRange, 1),
		OnboardingSuccessRate: success,
		CommissionRate:        s.draw(commissionRange, 1),
		Capabilities:          append([]string(nil), liveCapabilities...),
	}

	base := 1.0 - rankScoreDecrement*float64(rankIndex)

	return domain.ScoredCandidate{
		Vendor: vendor,
		MatchScore: domain.MatchScore{
			OverallScore:     base * overallScoreFactor,
			LocationMatch:    fieldScore(profile.HasState()),
			CategoryMatch:    fieldScore(profile.HasProductText()),
			PerformanceMatch: success,
		},
		Explanation: domain.MatchExplanation{
			MainReasons: []string{
				fmt.Sprintf("Live Web Match for '%s'", profile.ProductText),
				fmt.Sprintf("Rank %d Source: %s", rankIndex+1, truncateRunes(c.URL, maxReasonURLRunes)),
			},
			Strengths: append([]string(nil), liveStrengths...),
		},
	}
}

// draw returns a uniform value in r rounded to dp decimal places
func (s *VendorScorer) draw(r [2]float64, dp int) float64 {
	v := r[0] + (r[1]-r[0])*s.rnd.Float64()
	return roundTo(v, dp)
}

func (s *VendorScorer) stateName(profile domain.BusinessProfile) string {
	if !profile.HasState() {
		return defaultVendorState
	}
	return s.title.String(profile.State)
}

func vendorCategories(profile domain.BusinessProfile) []string {
	if profile.HasProductText() {
		return []string{profile.ProductText}
	}
	return []string{generalCategory}
}

func fieldScore(known bool) float64 {
	if known {
		return knownFieldScore
	}
	return unknownFieldScore
}

func roundTo(v float64, dp int) float64 {
	p := math.Pow10(dp)
	return math.Round(v*p) / p
}

// truncateRunes cuts s to at most n characters without splitting a rune
func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
