package usecase

import (
	"strings"

	"github.com/msmeconnect/backend/internal/domain"
	"github.com/sirupsen/logrus"
)

// Search query pieces for vendor acquisition
const (
	vendorQuerySuffix  = "vendor supplier agency"
	genericVendorQuery = "MSME service network provider ONDC India"
)

// QueryPreprocessor turns a normalized business profile into a web search query
type QueryPreprocessor struct {
	enableDebugLogging bool
}

// NewQueryPreprocessor creates a new query preprocessor
func NewQueryPreprocessor(enableDebugLogging bool) *QueryPreprocessor {
	return &QueryPreprocessor{
		enableDebugLogging: enableDebugLogging,
	}
}

// BuildVendorQuery builds the acquisition query.
//
//	"<text> vendor supplier agency in <state> India"
//
// Either half is dropped when its field is unknown; with neither known the
// generic network query is used.
func (p *QueryPreprocessor) BuildVendorQuery(profile domain.BusinessProfile) string {
	var parts []string
	if profile.HasProductText() {
		parts = append(parts, profile.ProductText+" "+vendorQuerySuffix)
	}
	if profile.HasState() {
		parts = append(parts, "in "+profile.State+" India")
	}

	query := genericVendorQuery
	if len(parts) > 0 {
		query = strings.Join(parts, " ")
	}

	if p.enableDebugLogging {
		logrus.WithFields(logrus.Fields{
			"component": "query",
			"state":     profile.State,
			"text":      profile.ProductText,
		}).Debugf("vendor query: %q", query)
	}

	return query
}
