package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/msmeconnect/backend/internal/domain"
	"github.com/msmeconnect/backend/internal/usecase"
	"github.com/sirupsen/logrus"
)

const (
	serviceName    = "msmeconnect-backend"
	serviceVersion = "1.0.0"
)

// Dependencies are the services the HTTP layer delegates to. Any of them
// may be nil; their routes then answer 501.
type Dependencies struct {
	Store          domain.Store
	LLM            domain.TextGenerator
	Categorization *usecase.CategorizationService
	Matching       *usecase.MatchingService
	Applications   *usecase.ApplicationService
	Voice          *usecase.VoiceService
	Documents      *usecase.DocumentService
	Analytics      *usecase.AnalyticsService
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	deps Dependencies
	log  *logrus.Entry
}

// NewHandler creates a new HTTP handler
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		deps: deps,
		log:  logrus.WithField("component", "http"),
	}
}

// Root returns the service banner
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":   serviceName,
		"status":    "operational",
		"version":   serviceVersion,
		"timestamp": timestamp(),
	})
}

// HealthCheck returns the health of the API and its collaborators.
// A failing store turns the response into 503.
func (h *Handler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	database := h.deps.Store != nil && h.deps.Store.Ping(ctx) == nil
	status, code := "healthy", http.StatusOK
	if !database {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"service":   serviceName,
		"version":   serviceVersion,
		"database":  database,
		"llm":       h.deps.LLM != nil && h.deps.LLM.Enabled(),
		"taxonomy":  h.deps.Categorization != nil && h.deps.Categorization.Ready(),
		"timestamp": timestamp(),
	})
}

// SupportedLanguages lists the UI and voice languages
func (h *Handler) SupportedLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"languages": usecase.SupportedLanguages(),
	})
}

// DashboardMetrics returns the admin dashboard figures
func (h *Handler) DashboardMetrics(c *gin.Context) {
	metrics, err := h.deps.Analytics.Dashboard(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"metrics":   metrics,
		"timestamp": timestamp(),
	})
}

// ModelPerformance returns per-service quality metrics
func (h *Handler) ModelPerformance(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"performance": h.deps.Analytics.Performance(),
		"timestamp":   timestamp(),
	})
}

// requireService answers 501 when a route group's service is not wired
func requireService(available bool, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !available {
			c.AbortWithStatusJSON(http.StatusNotImplemented, gin.H{
				"success": false,
				"error":   name + " service not configured",
			})
			return
		}
		c.Next()
	}
}

// respondError maps domain errors onto HTTP status codes. Internal
// failures are logged and reported without detail.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrApplicationNotFound):
		status, message = http.StatusNotFound, "Application not found"
	case errors.Is(err, domain.ErrVendorNotFound):
		status, message = http.StatusNotFound, "SNP not found"
	default:
		h.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}

	c.JSON(status, gin.H{"success": false, "error": message})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": message})
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
