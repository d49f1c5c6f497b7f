package storage

import (
	"fmt"

	"github.com/msmeconnect/backend/internal/domain"
	"github.com/msmeconnect/backend/internal/infrastructure/storage/jsonfile"
	"github.com/msmeconnect/backend/internal/infrastructure/storage/sqlite"
)

// Options selects and configures a store backend
type Options struct {
	Type       string // "json" or "sqlite"
	DataDir    string
	SQLitePath string
}

// Open returns the configured store, seeded with the default SNP directory
func Open(opts Options) (domain.Store, error) {
	switch opts.Type {
	case "json", "":
		return jsonfile.New(opts.DataDir, DefaultVendors())
	case "sqlite":
		return sqlite.Open(opts.SQLitePath, DefaultVendors())
	default:
		return nil, fmt.Errorf("unknown storage type %q", opts.Type)
	}
}

// DefaultVendors is the registered SNP directory a fresh store starts with
func DefaultVendors() []domain.Vendor {
	return []domain.Vendor{
		{
			ID:          "snp_001",
			Name:        "CraftHub India",
			Description: "Specializes in onboarding handicraft artisans to global markets.",
			Location: domain.Location{
				State:   "Rajasthan",
				City:    "Jaipur",
				Address: "123 Craft Lane",
				Pincode: "302001",
			},
			Categories:            []string{"Handicrafts", "Textiles", "Toys"},
			Rating:                4.8,
			OnboardingSuccessRate: 0.92,
			CommissionRate:        5.0,
			Capabilities:          []string{},
		},
		{
			ID:          "snp_002",
			Name:        "AgriConnect",
			Description: "Focused on farm-to-table supply chain for agricultural products.",
			Location: domain.Location{
				State:   "Maharashtra",
				City:    "Pune",
				Address: "456 Farm Road",
				Pincode: "411001",
			},
			Categories:            []string{"Agriculture", "Food", "Spices"},
			Rating:                4.5,
			OnboardingSuccessRate: 0.88,
			CommissionRate:        4.5,
			Capabilities:          []string{},
		},
		{
			ID:          "snp_003",
			Name:        "TechRetail Solutions",
			Description: "Enabling electronics and retail MSEs with digital tools.",
			Location: domain.Location{
				State:   "Karnataka",
				City:    "Bangalore",
				Address: "789 Tech Park",
				Pincode: "560001",
			},
			Categories:            []string{"Electronics", "Retail", "Services"},
			Rating:                4.2,
			OnboardingSuccessRate: 0.85,
			CommissionRate:        6.0,
			Capabilities:          []string{},
		},
	}
}
