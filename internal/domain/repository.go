package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// VendorSearcher retrieves raw vendor candidates from an external search source.
// Implementations never return an error to the pipeline; a failed fetch is an
// empty list.
type VendorSearcher interface {
	FetchCandidates(ctx context.Context, query string, limit int) []RawCandidate
}

// TextGenerator is the external LLM collaborator. Failures are returned as
// *CollaboratorError so callers can decide on the kind.
type TextGenerator interface {
	Enabled() bool
	CategorizeProduct(ctx context.Context, description string) (*CategoryResult, error)
	ExtractEntities(ctx context.Context, transcript string) ([]Entity, error)
}

// TaxonomyProvider gives read-only access to the category tree
type TaxonomyProvider interface {
	Tree() *TaxonomyTree
	Subtree(level int) *TaxonomyTree
}

// ApplicationRepository persists onboarding applications
type ApplicationRepository interface {
	SaveApplication(ctx context.Context, app *Application) error
	GetApplication(ctx context.Context, id string) (*Application, error)
	ListApplications(ctx context.Context) ([]Application, error)
	UpdateApplicationStatus(ctx context.Context, id string, update StatusUpdate) (*Application, error)
}

// VendorRepository is the directory of registered SNPs
type VendorRepository interface {
	ListVendors(ctx context.Context) ([]Vendor, error)
	GetVendor(ctx context.Context, id string) (*Vendor, error)
}

// FeedbackRepository stores match feedback
type FeedbackRepository interface {
	SaveFeedback(ctx context.Context, fb *Feedback) error
	ListFeedback(ctx context.Context) ([]Feedback, error)
}

// Store is the full persistence contract wired into the server
type Store interface {
	ApplicationRepository
	VendorRepository
	FeedbackRepository
	Ping(ctx context.Context) error
	Close() error
}
