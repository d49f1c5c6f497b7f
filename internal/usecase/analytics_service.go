package usecase

import (
	"context"
	"math"

	"github.com/msmeconnect/backend/internal/domain"
)

// MetricsProvider reports per-service quality figures
type MetricsProvider interface {
	Metrics() map[string]any
}

// AnalyticsService computes the admin dashboard and collects service metrics
type AnalyticsService struct {
	applications domain.ApplicationRepository
	vendors      domain.VendorRepository
	feedback     domain.FeedbackRepository
	providers    map[string]MetricsProvider
}

// NewAnalyticsService creates an analytics service. providers are keyed by
// the name reported on the performance endpoint.
func NewAnalyticsService(
	applications domain.ApplicationRepository,
	vendors domain.VendorRepository,
	feedback domain.FeedbackRepository,
	providers map[string]MetricsProvider,
) *AnalyticsService {
	return &AnalyticsService{
		applications: applications,
		vendors:      vendors,
		feedback:     feedback,
		providers:    providers,
	}
}

// Dashboard summarizes stored applications, registered SNPs and feedback
func (s *AnalyticsService) Dashboard(ctx context.Context) (*domain.DashboardMetrics, error) {
	apps, err := s.applications.ListApplications(ctx)
	if err != nil {
		return nil, err
	}
	vendors, err := s.vendors.ListVendors(ctx)
	if err != nil {
		return nil, err
	}
	feedback, err := s.feedback.ListFeedback(ctx)
	if err != nil {
		return nil, err
	}

	byStatus := map[string]int{
		domain.StatusSubmitted: 0,
		domain.StatusApproved:  0,
		domain.StatusRejected:  0,
	}
	for _, app := range apps {
		byStatus[app.Status]++
	}

	accepted := 0
	for _, fb := range feedback {
		if fb.Accepted {
			accepted++
		}
	}

	return &domain.DashboardMetrics{
		TotalApplications: len(apps),
		ByStatus:          byStatus,
		ApprovalRate:      ratio(byStatus[domain.StatusApproved], byStatus[domain.StatusApproved]+byStatus[domain.StatusRejected]),
		RegisteredSNPs:    len(vendors),
		FeedbackCount:     len(feedback),
		AcceptanceRate:    ratio(accepted, len(feedback)),
	}, nil
}

// Performance returns the metrics of every registered provider
func (s *AnalyticsService) Performance() map[string]map[string]any {
	out := make(map[string]map[string]any, len(s.providers))
	for name, p := range s.providers {
		out[name] = p.Metrics()
	}
	return out
}

// ratio returns part/whole rounded to 2 places, or 0 when whole is 0
func ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*100) / 100
}
