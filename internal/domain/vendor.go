package domain

import "time"

// Location is a postal location for an MSE or an SNP
type Location struct {
	State   string `json:"state"`
	City    string `json:"city"`
	Address string `json:"address,omitempty"`
	Pincode string `json:"pincode"`
}

// Vendor is a seller network participant (SNP) that can onboard an MSE
type Vendor struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	Description           string   `json:"description"`
	Location              Location `json:"location"`
	Categories            []string `json:"categories"`
	Rating                float64  `json:"rating"`                  // 0-5
	OnboardingSuccessRate float64  `json:"onboarding_success_rate"` // 0-1
	CommissionRate        float64  `json:"commission_rate"`         // percent
	Capabilities          []string `json:"capabilities"`
}

// MatchScore is the multi-factor score of one vendor against a business profile.
// Higher is better for every component.
type MatchScore struct {
	OverallScore     float64 `json:"overall_score"`
	LocationMatch    float64 `json:"location_match"`
	CategoryMatch    float64 `json:"category_match"`
	PerformanceMatch float64 `json:"performance_match"`
}

// MatchExplanation describes why a vendor was matched
type MatchExplanation struct {
	MainReasons []string `json:"main_reasons"`
	Strengths   []string `json:"strengths"`
}

// MatchResult is one ranked vendor recommendation
type MatchResult struct {
	Vendor      Vendor           `json:"snp"`
	MatchScore  MatchScore       `json:"match_score"`
	Explanation MatchExplanation `json:"explanation"`
	Rank        int              `json:"rank"`
}

// RawCandidate is a single vendor hit returned by web search, before scoring
type RawCandidate struct {
	Title   string `json:"title"`
	Snippet string `json:"body"`
	URL     string `json:"href"`
}

// ScoredCandidate is a vendor built from a raw candidate together with its score.
// It has no rank yet; ranks are only assigned by the ranker.
type ScoredCandidate struct {
	Vendor      Vendor
	MatchScore  MatchScore
	Explanation MatchExplanation
}

// Feedback is an MSE's reaction to a recommended SNP. It is stored for
// reporting only.
type Feedback struct {
	ID        string    `json:"id"`
	MSEID     string    `json:"mse_id" binding:"required"`
	SNPID     string    `json:"snp_id" binding:"required"`
	Accepted  bool      `json:"accepted"`
	Rating    *int      `json:"rating,omitempty" binding:"omitempty,min=1,max=5"`
	Comments  string    `json:"comments,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
