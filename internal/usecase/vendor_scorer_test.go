package usecase

import (
	"strings"
	"testing"

	"github.com/msmeconnect/backend/internal/domain"
)

// fixedRandom returns the same draw every time
type fixedRandom float64

func (f fixedRandom) Float64() float64 { return float64(f) }

func TestVendorScorer_Score(t *testing.T) {
	scorer := NewVendorScorer(fixedRandom(0.5), nil)
	candidate := domain.RawCandidate{
		Title:   "Jaipur Wooden Toy Makers",
		Snippet: "Wholesale supplier of handmade wooden toys.",
		URL:     "https://example.com/jaipur-toys",
	}
	profile := domain.BusinessProfile{State: "tamil nadu", ProductText: "wooden toys"}

	got := scorer.Score(candidate, 0, profile)

	v := got.Vendor
	if v.ID == "" {
		t.Error("expected a vendor id")
	}
	if v.Name != "Jaipur Wooden Toy Makers" {
		t.Errorf("Name = %q", v.Name)
	}
	wantDesc := "Wholesale supplier of handmade wooden toys.... (Source: https://example.com/jaipur-toy)"
	if v.Description != wantDesc {
		t.Errorf("Description = %q, want %q", v.Description, wantDesc)
	}
	wantLoc := domain.Location{
		State:   "Tamil Nadu",
		City:    "Online / Available",
		Address: "https://example.com/jaipur-toys",
		Pincode: "000000",
	}
	if v.Location != wantLoc {
		t.Errorf("Location = %+v, want %+v", v.Location, wantLoc)
	}
	if len(v.Categories) != 1 || v.Categories[0] != "wooden toys" {
		t.Errorf("Categories = %v", v.Categories)
	}

	// 0.5 is the midpoint of every range
	if v.Rating != 4.3 {
		t.Errorf("Rating = %v, want 4.3", v.Rating)
	}
	if v.OnboardingSuccessRate != 0.84 && v.OnboardingSuccessRate != 0.85 {
		t.Errorf("OnboardingSuccessRate = %v, want 0.845 rounded to 2 places", v.OnboardingSuccessRate)
	}
	if v.CommissionRate != 3.0 {
		t.Errorf("CommissionRate = %v, want 3.0", v.CommissionRate)
	}
	if strings.Join(v.Capabilities, ",") != "Live Data,Verified from Web API,Agent / Provider" {
		t.Errorf("Capabilities = %v", v.Capabilities)
	}

	s := got.MatchScore
	if s.OverallScore != 0.9 {
		t.Errorf("OverallScore = %v, want 0.9", s.OverallScore)
	}
	if s.LocationMatch != 0.9 || s.CategoryMatch != 0.9 {
		t.Errorf("LocationMatch = %v, CategoryMatch = %v, want 0.9", s.LocationMatch, s.CategoryMatch)
	}
	if s.PerformanceMatch != v.OnboardingSuccessRate {
		t.Errorf("PerformanceMatch = %v, want success rate %v", s.PerformanceMatch, v.OnboardingSuccessRate)
	}

	wantReasons := []string{"Live Web Match for 'wooden toys'", "Rank 1 Source: https://example.com/jaipu"}
	if strings.Join(got.Explanation.MainReasons, "|") != strings.Join(wantReasons, "|") {
		t.Errorf("MainReasons = %v, want %v", got.Explanation.MainReasons, wantReasons)
	}
	if strings.Join(got.Explanation.Strengths, "|") != "Top internet search result|Vendor mapped dynamically" {
		t.Errorf("Strengths = %v", got.Explanation.Strengths)
	}
}

func TestVendorScorer_UnknownProfile(t *testing.T) {
	scorer := NewVendorScorer(fixedRandom(0), nil)

	got := scorer.Score(domain.RawCandidate{Title: "Vendor", URL: "https://x.in"}, 2, domain.BusinessProfile{})

	if got.Vendor.Location.State != "India" {
		t.Errorf("State = %q, want India", got.Vendor.Location.State)
	}
	if len(got.Vendor.Categories) != 1 || got.Vendor.Categories[0] != "General Vendor" {
		t.Errorf("Categories = %v", got.Vendor.Categories)
	}
	if got.MatchScore.LocationMatch != 0.5 || got.MatchScore.CategoryMatch != 0.5 {
		t.Errorf("LocationMatch = %v, CategoryMatch = %v, want 0.5", got.MatchScore.LocationMatch, got.MatchScore.CategoryMatch)
	}
	if got.Vendor.Rating != 3.5 || got.Vendor.OnboardingSuccessRate != 0.7 || got.Vendor.CommissionRate != 1.0 {
		t.Errorf("draws at 0 = %v/%v/%v, want range minimums",
			got.Vendor.Rating, got.Vendor.OnboardingSuccessRate, got.Vendor.CommissionRate)
	}
	if got.Explanation.MainReasons[1] != "Rank 3 Source: https://x.in" {
		t.Errorf("MainReasons[1] = %q", got.Explanation.MainReasons[1])
	}
}

func TestVendorScorer_BaseScoreDecreasesByRank(t *testing.T) {
	scorer := NewVendorScorer(NewSeededRandomSource(7), nil)
	profile := domain.BusinessProfile{ProductText: "spices"}

	prev := 2.0
	for i := 0; i < maxTopK; i++ {
		got := scorer.Score(domain.RawCandidate{Title: "v"}, i, profile).MatchScore.OverallScore

		want := (1.0 - 0.1*float64(i)) * 0.9
		if got != want {
			t.Errorf("rank %d: OverallScore = %v, want %v", i, got, want)
		}
		if got >= prev {
			t.Errorf("rank %d: OverallScore %v did not decrease from %v", i, got, prev)
		}
		if got < 0 {
			t.Errorf("rank %d: OverallScore %v is negative", i, got)
		}
		prev = got
	}
}

func TestVendorScorer_DrawsStayInRange(t *testing.T) {
	scorer := NewVendorScorer(NewSeededRandomSource(42), nil)

	for i := 0; i < 200; i++ {
		v := scorer.Score(domain.RawCandidate{}, 0, domain.BusinessProfile{}).Vendor
		if v.Rating < 3.5 || v.Rating > 5.0 {
			t.Fatalf("Rating %v out of [3.5, 5.0]", v.Rating)
		}
		if v.OnboardingSuccessRate < 0.7 || v.OnboardingSuccessRate > 0.99 {
			t.Fatalf("OnboardingSuccessRate %v out of [0.7, 0.99]", v.OnboardingSuccessRate)
		}
		if v.CommissionRate < 1.0 || v.CommissionRate > 5.0 {
			t.Fatalf("CommissionRate %v out of [1.0, 5.0]", v.CommissionRate)
		}
	}
}

func TestVendorScorer_SeededIsDeterministic(t *testing.T) {
	a := NewVendorScorer(NewSeededRandomSource(99), nil)
	b := NewVendorScorer(NewSeededRandomSource(99), nil)

	for i := 0; i < 5; i++ {
		va := a.Score(domain.RawCandidate{}, i, domain.BusinessProfile{}).Vendor
		vb := b.Score(domain.RawCandidate{}, i, domain.BusinessProfile{}).Vendor
		if va.Rating != vb.Rating || va.OnboardingSuccessRate != vb.OnboardingSuccessRate || va.CommissionRate != vb.CommissionRate {
			t.Fatalf("draw %d differs: %+v vs %+v", i, va, vb)
		}
		if va.ID == vb.ID {
			t.Fatalf("draw %d: ids must be unique, got %q twice", i, va.ID)
		}
	}
}

func TestVendorScorer_TruncatesLongFields(t *testing.T) {
	scorer := NewVendorScorer(fixedRandom(0.5), nil)
	longTitle := strings.Repeat("हस्त", 20) // 80 runes
	longURL := "https://example.com/" + strings.Repeat("a", 200)

	got := scorer.Score(domain.RawCandidate{Title: longTitle, Snippet: strings.Repeat("s", 300), URL: longURL}, 0, domain.BusinessProfile{})

	if n := len([]rune(got.Vendor.Name)); n != 50 {
		t.Errorf("Name has %d runes, want 50", n)
	}
	if !strings.HasPrefix(longTitle, got.Vendor.Name) {
		t.Error("Name must be a prefix of the title")
	}
	if n := len(got.Vendor.Location.Address); n != 100 {
		t.Errorf("Address length = %d, want 100", n)
	}
	wantDesc := strings.Repeat("s", 150) + "... (Source: " + longURL[:30] + ")"
	if got.Vendor.Description != wantDesc {
		t.Errorf("Description = %q, want %q", got.Vendor.Description, wantDesc)
	}
}

func TestTruncateRunes(t *testing.T) {
	testCases := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 3, "hel"},
		{"", 3, ""},
		{"लकड़ी", 2, "लक"},
		{"abc", 0, ""},
	}

	for _, tc := range testCases {
		if got := truncateRunes(tc.in, tc.n); got != tc.want {
			t.Errorf("truncateRunes(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}
