package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/msmeconnect/backend/internal/domain"
)

// RecommendSNPs ranks seller network participants for an MSE profile.
// top_k is optional; out-of-range values are clamped by the service.
func (h *Handler) RecommendSNPs(c *gin.Context) {
	topK := 0
	if raw, ok := c.GetQuery("top_k"); ok {
		v, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "top_k must be an integer")
			return
		}
		topK = v
	}

	var req domain.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid MSE profile: "+err.Error())
		return
	}

	recommendations := h.deps.Matching.Match(c.Request.Context(), &req, topK)

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"recommendations": recommendations,
		"timestamp":       timestamp(),
	})
}

// GetSNPDetails returns a registered SNP
func (h *Handler) GetSNPDetails(c *gin.Context) {
	vendor, err := h.deps.Matching.VendorDetails(c.Request.Context(), c.Param("snp_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"snp":     vendor,
	})
}

// SubmitFeedback stores an MSE's reaction to a recommendation
func (h *Handler) SubmitFeedback(c *gin.Context) {
	var fb domain.Feedback
	if err := c.ShouldBindJSON(&fb); err != nil {
		badRequest(c, "invalid feedback: "+err.Error())
		return
	}

	id, err := h.deps.Matching.RecordFeedback(c.Request.Context(), &fb)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"feedback_id": id,
		"message":     "Feedback recorded for model improvement",
	})
}
