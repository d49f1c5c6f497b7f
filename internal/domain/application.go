package domain

import "time"

// Application statuses
const (
	StatusSubmitted = "submitted"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
)

// Application is an MSE onboarding application tracked through NSIC verification
type Application struct {
	ID                   string     `json:"id"`
	MSEProfile           MSEProfile `json:"mse_profile"`
	SelectedSNPID        string     `json:"selected_snp_id,omitempty"`
	Status               string     `json:"status"`
	Documents            []string   `json:"documents"`
	VerifierID           string     `json:"verifier_id,omitempty"`
	VerificationComments string     `json:"verification_comments,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// StatusUpdate is a verification decision on an application
type StatusUpdate struct {
	Status     string
	VerifierID string
	Comments   string
}

// DashboardMetrics summarizes stored applications for the admin dashboard
type DashboardMetrics struct {
	TotalApplications int            `json:"total_applications"`
	ByStatus          map[string]int `json:"by_status"`
	ApprovalRate      float64        `json:"approval_rate"`
	RegisteredSNPs    int            `json:"registered_snps"`
	FeedbackCount     int            `json:"feedback_count"`
	AcceptanceRate    float64        `json:"acceptance_rate"`
}
