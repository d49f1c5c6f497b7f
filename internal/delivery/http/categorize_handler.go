package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// categorizeRequest is the JSON form of a categorization request. The
// same fields are accepted as query parameters.
type categorizeRequest struct {
	Description       string `json:"description"`
	Language          string `json:"language"`
	IncludeAttributes *bool  `json:"include_attributes"`
}

// CategorizeProduct assigns ONDC categories to one product description
func (h *Handler) CategorizeProduct(c *gin.Context) {
	req := categorizeRequest{
		Description: c.Query("description"),
		Language:    c.DefaultQuery("language", "en"),
	}
	if raw, ok := c.GetQuery("include_attributes"); ok {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "include_attributes must be a boolean")
			return
		}
		req.IncludeAttributes = &v
	}

	if req.Description == "" && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body: "+err.Error())
			return
		}
	}
	if strings.TrimSpace(req.Description) == "" {
		badRequest(c, "description is required")
		return
	}

	includeAttributes := req.IncludeAttributes == nil || *req.IncludeAttributes
	result := h.deps.Categorization.Categorize(c.Request.Context(), req.Description, req.Language, includeAttributes)

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"categories": result.Categories,
		"attributes": result.Attributes,
		"compliance": result.Compliance,
		"confidence": result.Confidence,
		"source":     result.Source,
	})
}

// CategorizeBulk categorizes a JSON list of descriptions
func (h *Handler) CategorizeBulk(c *gin.Context) {
	var products []string
	if err := c.ShouldBindJSON(&products); err != nil {
		badRequest(c, "request body must be a list of product descriptions")
		return
	}

	results := h.deps.Categorization.CategorizeBulk(c.Request.Context(), products, c.DefaultQuery("language", "en"))

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"results":         results,
		"total_processed": len(results),
	})
}

// GetTaxonomy returns the category tree down to the requested level
func (h *Handler) GetTaxonomy(c *gin.Context) {
	level, err := strconv.Atoi(c.DefaultQuery("level", "1"))
	if err != nil {
		badRequest(c, "level must be an integer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"level":    level,
		"taxonomy": h.deps.Categorization.Taxonomy(level),
	})
}
