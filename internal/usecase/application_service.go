package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/msmeconnect/backend/internal/domain"
	"github.com/sirupsen/logrus"
)

// EstimatedProcessingTime is reported to the MSE when an application is submitted
const EstimatedProcessingTime = "3-5 days"

// ApplicationService manages MSE onboarding applications and their NSIC
// verification.
type ApplicationService struct {
	repo domain.ApplicationRepository
	ids  *IDGenerator
	now  func() time.Time
	log  *logrus.Entry
}

// NewApplicationService creates a new application service
func NewApplicationService(repo domain.ApplicationRepository) *ApplicationService {
	return &ApplicationService{
		repo: repo,
		ids:  NewIDGenerator(),
		now:  time.Now,
		log:  logrus.WithField("component", "applications"),
	}
}

// Create stores a submitted application. An application with a known id
// replaces the stored one and keeps its creation time. The stored copy
// is returned.
func (s *ApplicationService) Create(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	if app == nil {
		return nil, domain.ErrInvalidRequest
	}
	if err := validateProfile(app.MSEProfile); err != nil {
		return nil, err
	}

	record := *app
	record.Status = domain.StatusSubmitted
	record.VerifierID = ""
	record.VerificationComments = ""
	if record.Documents == nil {
		record.Documents = []string{}
	}

	now := s.now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	if record.ID == "" {
		record.ID = s.ids.New()
	} else {
		existing, err := s.repo.GetApplication(ctx, record.ID)
		switch {
		case err == nil:
			record.CreatedAt = existing.CreatedAt
		case !errors.Is(err, domain.ErrApplicationNotFound):
			return nil, err
		}
	}

	if err := s.repo.SaveApplication(ctx, &record); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"application_id": record.ID,
		"company":        record.MSEProfile.CompanyName,
	}).Info("application submitted")

	return &record, nil
}

// Get returns one application
func (s *ApplicationService) Get(ctx context.Context, id string) (*domain.Application, error) {
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}
	return s.repo.GetApplication(ctx, id)
}

// List returns every stored application in submission order
func (s *ApplicationService) List(ctx context.Context) ([]domain.Application, error) {
	return s.repo.ListApplications(ctx)
}

// Verify records an NSIC decision: approved when verified, otherwise rejected
func (s *ApplicationService) Verify(ctx context.Context, id string, verified bool, verifierID, comments string) (*domain.Application, error) {
	if id == "" || strings.TrimSpace(verifierID) == "" {
		return nil, fmt.Errorf("%w: application id and verifier id are required", domain.ErrInvalidRequest)
	}

	status := domain.StatusRejected
	if verified {
		status = domain.StatusApproved
	}

	updated, err := s.repo.UpdateApplicationStatus(ctx, id, domain.StatusUpdate{
		Status:     status,
		VerifierID: verifierID,
		Comments:   comments,
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"application_id": id,
		"status":         status,
		"verifier_id":    verifierID,
	}).Info("application verified")

	return updated, nil
}

// validateProfile checks the fields every registration must carry
func validateProfile(p domain.MSEProfile) error {
	required := []struct {
		name  string
		value string
	}{
		{"company_name", p.CompanyName},
		{"owner_name", p.OwnerName},
		{"phone", p.Phone},
		{"email", p.Email},
		{"state", p.State},
		{"city", p.City},
	}

	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrInvalidRequest, strings.Join(missing, ", "))
	}
	return nil
}
