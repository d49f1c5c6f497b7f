package sqlite

import (
	"time"

	"github.com/msmeconnect/backend/internal/domain"
)

// Application mirrors domain.Application; nested values are stored as JSON text.
type Application struct {
	ID                   string            `gorm:"primaryKey;size:64"`
	Profile              domain.MSEProfile `gorm:"serializer:json;type:text"`
	SelectedSNPID        string            `gorm:"size:64"`
	Status               string            `gorm:"size:16;index"`
	Documents            []string          `gorm:"serializer:json;type:text"`
	VerifierID           string            `gorm:"size:64"`
	VerificationComments string            `gorm:"type:text"`
	CreatedAt            time.Time         `gorm:"autoCreateTime:false;index"`
	UpdatedAt            time.Time         `gorm:"autoUpdateTime:false"`
}

// Vendor is a registered SNP
type Vendor struct {
	ID                    string          `gorm:"primaryKey;size:64"`
	Name                  string          `gorm:"size:256"`
	Description           string          `gorm:"type:text"`
	Location              domain.Location `gorm:"serializer:json;type:text"`
	Categories            []string        `gorm:"serializer:json;type:text"`
	Rating                float64
	OnboardingSuccessRate float64
	CommissionRate        float64
	Capabilities          []string `gorm:"serializer:json;type:text"`
}

// Feedback is a stored match reaction
type Feedback struct {
	ID        string `gorm:"primaryKey;size:64"`
	MSEID     string `gorm:"size:64;index"`
	SNPID     string `gorm:"size:64;index"`
	Accepted  bool
	Rating    *int
	Comments  string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime:false;index"`
}

func applicationFromDomain(a *domain.Application) *Application {
	return &Application{
		ID:                   a.ID,
		Profile:              a.MSEProfile,
		SelectedSNPID:        a.SelectedSNPID,
		Status:               a.Status,
		Documents:            a.Documents,
		VerifierID:           a.VerifierID,
		VerificationComments: a.VerificationComments,
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
}

func (a Application) toDomain() domain.Application {
	docs := a.Documents
	if docs == nil {
		docs = []string{}
	}
	return domain.Application{
		ID:                   a.ID,
		MSEProfile:           a.Profile,
		SelectedSNPID:        a.SelectedSNPID,
		Status:               a.Status,
		Documents:            docs,
		VerifierID:           a.VerifierID,
		VerificationComments: a.VerificationComments,
		CreatedAt:            a.CreatedAt.UTC(),
		UpdatedAt:            a.UpdatedAt.UTC(),
	}
}

func vendorFromDomain(v domain.Vendor) Vendor {
	return Vendor{
		ID:                    v.ID,
		Name:                  v.Name,
		Description:           v.Description,
		Location:              v.Location,
		Categories:            v.Categories,
		Rating:                v.Rating,
		OnboardingSuccessRate: v.OnboardingSuccessRate,
		CommissionRate:        v.CommissionRate,
		Capabilities:          v.Capabilities,
	}
}

func (v Vendor) toDomain() domain.Vendor {
	return domain.Vendor{
		ID:                    v.ID,
		Name:                  v.Name,
		Description:           v.Description,
		Location:              v.Location,
		Categories:            v.Categories,
		Rating:                v.Rating,
		OnboardingSuccessRate: v.OnboardingSuccessRate,
		CommissionRate:        v.CommissionRate,
		Capabilities:          v.Capabilities,
	}
}

func feedbackFromDomain(f *domain.Feedback) *Feedback {
	return &Feedback{
		ID:        f.ID,
		MSEID:     f.MSEID,
		SNPID:     f.SNPID,
		Accepted:  f.Accepted,
		Rating:    f.Rating,
		Comments:  f.Comments,
		CreatedAt: f.CreatedAt,
	}
}

func (f Feedback) toDomain() domain.Feedback {
	return domain.Feedback{
		ID:        f.ID,
		MSEID:     f.MSEID,
		SNPID:     f.SNPID,
		Accepted:  f.Accepted,
		Rating:    f.Rating,
		Comments:  f.Comments,
		CreatedAt: f.CreatedAt.UTC(),
	}
}
