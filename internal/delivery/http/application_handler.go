package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/msmeconnect/backend/internal/domain"
	"github.com/msmeconnect/backend/internal/usecase"
)

// verifyRequest carries an NSIC decision, as JSON or query parameters
type verifyRequest struct {
	Verified   *bool  `json:"verified" form:"verified" binding:"required"`
	VerifierID string `json:"verifier_id" form:"verifier_id" binding:"required"`
	Comments   string `json:"comments" form:"comments"`
}

// CreateApplication submits an onboarding application
func (h *Handler) CreateApplication(c *gin.Context) {
	var app domain.Application
	if err := c.ShouldBindJSON(&app); err != nil {
		badRequest(c, "invalid application: "+err.Error())
		return
	}

	stored, err := h.deps.Applications.Create(c.Request.Context(), &app)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":                   true,
		"application_id":            stored.ID,
		"status":                    stored.Status,
		"estimated_processing_time": usecase.EstimatedProcessingTime,
		"timestamp":                 timestamp(),
	})
}

// ListApplications returns every stored application
func (h *Handler) ListApplications(c *gin.Context) {
	apps, err := h.deps.Applications.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"applications": apps,
		"total":        len(apps),
	})
}

// GetApplication returns one application and its status
func (h *Handler) GetApplication(c *gin.Context) {
	app, err := h.deps.Applications.Get(c.Request.Context(), c.Param("app_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"application": app,
	})
}

// VerifyApplication records an NSIC approval or rejection
func (h *Handler) VerifyApplication(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "verified and verifier_id are required")
		return
	}

	updated, err := h.deps.Applications.Verify(c.Request.Context(), c.Param("app_id"), *req.Verified, req.VerifierID, req.Comments)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"application_id": updated.ID,
		"status":         updated.Status,
		"updated":        true,
	})
}
