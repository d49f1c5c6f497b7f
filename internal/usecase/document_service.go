package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/msmeconnect/backend/internal/domain"
	"github.com/sirupsen/logrus"
)

// Document types with special handling
const (
	DocumentTypeGeneral     = "general"
	DocumentTypeGST         = "gst"
	DocumentTypeRequirement = "requirement"
)

// gstinRegex matches a 15 character GSTIN: state code, PAN, entity number, Z, checksum
var gstinRegex = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

const sampleExtractedText = "Sample Extracted Text"

// DocumentService extracts fields from uploaded registration documents and
// checks them. OCR and registry lookups are canned.
type DocumentService struct {
	log *logrus.Entry
}

// NewDocumentService creates a document service
func NewDocumentService() *DocumentService {
	return &DocumentService{log: logrus.WithField("component", "documents")}
}

// Process extracts text and fields from an uploaded file. Requirement
// documents also carry the extracted text as the MSE requirement.
func (s *DocumentService) Process(ctx context.Context, data []byte, contentType, documentType string) (*domain.ExtractedDocument, error) {
	if len(data) == 0 {
		return nil, domain.ErrInvalidRequest
	}
	if documentType == "" {
		documentType = DocumentTypeGeneral
	}

	doc := &domain.ExtractedDocument{
		ExtractedText: sampleExtractedText,
		Fields: map[string]string{
			"gst_number": "29ABCDE1234F1Z5",
			"legal_name": "Raj Handicrafts",
		},
	}
	if documentType == DocumentTypeRequirement {
		doc.Requirement = doc.ExtractedText
	}

	s.log.WithFields(logrus.Fields{
		"document_type": documentType,
		"content_type":  contentType,
		"bytes":         len(data),
	}).Info("document processed")

	return doc, nil
}

// Validate checks extracted fields. A gst_number, when present, must be a
// well-formed GSTIN.
func (s *DocumentService) Validate(ctx context.Context, documentType string, fields map[string]any) *domain.DocumentValidation {
	result := &domain.DocumentValidation{
		Valid:   true,
		Details: map[string]string{"source": "GST Portal"},
		Errors:  []string{},
	}

	if raw, ok := fields["gst_number"]; ok {
		gstin, _ := raw.(string)
		gstin = strings.ToUpper(strings.TrimSpace(gstin))
		if !gstinRegex.MatchString(gstin) {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("invalid GSTIN format: %q", gstin))
		}
	} else if documentType == DocumentTypeGST {
		result.Valid = false
		result.Errors = append(result.Errors, "gst_number is required")
	}

	return result
}
