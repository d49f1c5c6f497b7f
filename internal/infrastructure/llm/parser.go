package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/msmeconnect/backend/internal/domain"
)

// Levels the model leaves out are filled with these
const (
	defaultLevel1 = domain.FallbackLevel1
	defaultLevel2 = domain.FallbackLevel2
	defaultLevel3 = "General"

	defaultConfidence = 0.8
)

var (
	errNoJSON        = errors.New("no JSON object in model output")
	errEmptyResponse = errors.New("empty response")
)

type categorizeResponse struct {
	Categories map[string]any `json:"categories"`
	Attributes map[string]any `json:"attributes"`
	Compliance []string       `json:"compliance"`
	Confidence *float64       `json:"confidence"`
}

type entitiesResponse struct {
	CompanyName string `json:"company_name"`
	OwnerName   string `json:"owner_name"`
	Location    struct {
		City  string `json:"city"`
		State string `json:"state"`
	} `json:"location"`
	Products []string `json:"products"`
	Contact  struct {
		Phone string `json:"phone"`
		Email string `json:"email"`
	} `json:"contact"`
}

// extractJSONBlock returns the text between the first '{' and the last '}',
// dropping markdown code fences the model may wrap around it.
func extractJSONBlock(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.IndexRune(trimmed, '\n'); idx >= 0 {
			trimmed = trimmed[idx+1:]
		}
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end < start {
		return "", errNoJSON
	}
	return trimmed[start : end+1], nil
}

// parseCategorization converts model output into a CategoryResult.
// An absent confidence is reported as defaultConfidence.
func parseCategorization(output string) (*domain.CategoryResult, error) {
	block, err := extractJSONBlock(output)
	if err != nil {
		return nil, err
	}

	var resp categorizeResponse
	if err := json.Unmarshal([]byte(block), &resp); err != nil {
		return nil, fmt.Errorf("decode categorization: %w", err)
	}

	attrs := resp.Attributes
	if attrs == nil {
		attrs = map[string]any{}
	}
	compliance := resp.Compliance
	if compliance == nil {
		compliance = []string{}
	}
	confidence := defaultConfidence
	if resp.Confidence != nil {
		confidence = *resp.Confidence
	}

	return &domain.CategoryResult{
		Categories: domain.CategoryPath{
			Level1: level(resp.Categories, "level_1", defaultLevel1),
			Level2: level(resp.Categories, "level_2", defaultLevel2),
			Level3: level(resp.Categories, "level_3", defaultLevel3),
		},
		Attributes: attrs,
		Compliance: compliance,
		Confidence: confidence,
		Source:     "llm",
	}, nil
}

func level(categories map[string]any, key, fallback string) string {
	if s, ok := categories[key].(string); ok && present(s) {
		return strings.TrimSpace(s)
	}
	return fallback
}

// parseEntities converts the model's registration fields into entities
func parseEntities(output string) ([]domain.Entity, error) {
	block, err := extractJSONBlock(output)
	if err != nil {
		return nil, err
	}

	var resp entitiesResponse
	if err := json.Unmarshal([]byte(block), &resp); err != nil {
		return nil, fmt.Errorf("decode entities: %w", err)
	}

	var entities []domain.Entity
	add := func(value, kind string) {
		if present(value) {
			entities = append(entities, domain.Entity{Entity: strings.TrimSpace(value), Type: kind})
		}
	}

	add(resp.CompanyName, "ORG")
	add(resp.OwnerName, "PERSON")
	add(resp.Location.City, "LOC")
	add(resp.Location.State, "LOC")
	for _, p := range resp.Products {
		add(p, "PRODUCT")
	}
	add(resp.Contact.Phone, "CONTACT")
	add(resp.Contact.Email, "CONTACT")

	if entities == nil {
		entities = []domain.Entity{}
	}
	return entities, nil
}

// present treats empty strings and the literal "null" models like to emit as absent
func present(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && !strings.EqualFold(s, "null") && !strings.EqualFold(s, "none")
}
