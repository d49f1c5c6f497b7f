package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/msmeconnect/backend/internal/domain"
	"github.com/sirupsen/logrus"
)

const (
	categorizeSystem = `You are an assistant for ONDC (Open Network for Digital Commerce).
Categorize product descriptions into a three-level taxonomy (Level 1 > Level 2 > Level 3)
and extract key attributes such as material, color and usage. Return ONLY valid JSON.`

	categorizePrompt = `Product Description: %q

Task:
1. Classify this product into Level 1, Level 2 and Level 3 categories.
2. Extract key attributes as key-value pairs.
3. List compliance requirements (for example FSSAI or BIS) if applicable.

Output Format (JSON):
{
  "categories": {"level_1": "Category", "level_2": "Sub-Category", "level_3": "Item Type"},
  "attributes": {"attribute_1": "value"},
  "compliance": ["Requirement1"],
  "confidence": 0.95
}`

	entitiesSystem = `You process voice transcripts for business registration.
Extract company name, owner name, location (city and state), products and contact details.
Return ONLY valid JSON.`

	entitiesPrompt = `Transcript: %q

Output Format (JSON):
{
  "company_name": "Name or null",
  "owner_name": "Name or null",
  "location": {"city": "City or null", "state": "State or null"},
  "products": ["product1", "product2"],
  "contact": {"phone": "Number or null", "email": "Email or null"}
}`
)

// Config holds Ollama connection settings
type Config struct {
	Enabled     bool
	BaseURL     string
	Model       string
	Timeout     time.Duration
	Temperature float64
	TopP        float64
}

// Client talks to an Ollama-compatible /api/generate endpoint.
// It makes one request per call and never retries.
type Client struct {
	httpClient  *http.Client
	enabled     bool
	baseURL     string
	model       string
	temperature float64
	topP        float64
	log         *logrus.Entry
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	System  string          `json:"system,omitempty"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// NewClient creates a new LLM client. A disabled config or an empty base
// URL produces a client whose Enabled reports false.
func NewClient(cfg Config) *Client {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "llama3.1:latest"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		enabled:     cfg.Enabled && baseURL != "",
		baseURL:     baseURL,
		model:       model,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		log:         logrus.WithField("component", "llm"),
	}
}

// Enabled reports whether the client can make outbound calls
func (c *Client) Enabled() bool {
	return c != nil && c.enabled
}

// CategorizeProduct asks the model for a category path. The result's
// confidence is returned as-is; deciding whether it is usable is up to the
// caller.
func (c *Client) CategorizeProduct(ctx context.Context, description string) (*domain.CategoryResult, error) {
	const op = "llm.categorize"

	output, err := c.generate(ctx, op, fmt.Sprintf(categorizePrompt, description), categorizeSystem)
	if err != nil {
		return nil, err
	}

	result, err := parseCategorization(output)
	if err != nil {
		return nil, domain.NewCollaboratorError(domain.KindMalformed, op, err)
	}
	return result, nil
}

// ExtractEntities asks the model for registration fields in a transcript
func (c *Client) ExtractEntities(ctx context.Context, transcript string) ([]domain.Entity, error) {
	const op = "llm.extract_entities"

	output, err := c.generate(ctx, op, fmt.Sprintf(entitiesPrompt, transcript), entitiesSystem)
	if err != nil {
		return nil, err
	}

	entities, err := parseEntities(output)
	if err != nil {
		return nil, domain.NewCollaboratorError(domain.KindMalformed, op, err)
	}
	if len(entities) == 0 {
		return nil, domain.NewCollaboratorError(domain.KindNoMatch, op, nil)
	}
	return entities, nil
}

// generate posts one non-streaming generate request and returns the text
func (c *Client) generate(ctx context.Context, op, prompt, system string) (string, error) {
	if !c.Enabled() {
		return "", domain.NewCollaboratorError(domain.KindConfigMissing, op, domain.ErrCollaboratorDisabled)
	}

	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		System: system,
		Stream: false,
		Options: generateOptions{
			Temperature: c.temperature,
			TopP:        c.topP,
		},
	})
	if err != nil {
		return "", domain.NewCollaboratorError(domain.KindMalformed, op, fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", domain.NewCollaboratorError(domain.KindConfigMissing, op, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("op", op).Warn("generate request failed")
		return "", domain.NewCollaboratorError(domain.KindUnavailable, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.WithFields(logrus.Fields{"op": op, "status": resp.StatusCode}).Warn("generate returned error status")
		return "", domain.NewCollaboratorError(domain.KindUnavailable, op,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", domain.NewCollaboratorError(domain.KindMalformed, op, fmt.Errorf("decode response: %w", err))
	}

	output := strings.TrimSpace(decoded.Response)
	if output == "" {
		return "", domain.NewCollaboratorError(domain.KindMalformed, op, errEmptyResponse)
	}

	c.log.WithFields(logrus.Fields{
		"op":       op,
		"model":    c.model,
		"duration": time.Since(start).Round(time.Millisecond),
	}).Debug("generate complete")
	return output, nil
}
