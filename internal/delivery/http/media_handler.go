package http

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/msmeconnect/backend/internal/domain"
	"github.com/msmeconnect/backend/internal/usecase"
)

// maxUploadBytes bounds audio and document uploads
const maxUploadBytes = 10 << 20

// ttsRequest is the JSON form of a text-to-speech request
type ttsRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// TranscribeAudio converts an uploaded audio file to text
func (h *Handler) TranscribeAudio(c *gin.Context) {
	data, _, err := readFormFile(c, "audio")
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	language := formOrQuery(c, "language", "hi")
	result, err := h.deps.Voice.Transcribe(c.Request.Context(), data, language)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"transcription":   result.Text,
		"confidence":      result.Confidence,
		"language":        result.Language,
		"processing_time": result.ProcessingTime,
	})
}

// ExtractEntities finds business entities in a transcript
func (h *Handler) ExtractEntities(c *gin.Context) {
	var input domain.VoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "text is required")
		return
	}
	if input.Language == "" {
		input.Language = "hi"
	}

	entities, err := h.deps.Voice.ExtractEntities(c.Request.Context(), input.Text, input.Language)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"entities":        entities,
		"extracted_count": len(entities),
	})
}

// TextToSpeech renders a voice prompt
func (h *Handler) TextToSpeech(c *gin.Context) {
	req := ttsRequest{
		Text:     c.Query("text"),
		Language: c.Query("language"),
	}
	if req.Text == "" && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body: "+err.Error())
			return
		}
	}
	if req.Language == "" {
		req.Language = "hi"
	}

	audio, format, err := h.deps.Voice.TextToSpeech(c.Request.Context(), req.Text, req.Language)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"audio":    audio,
		"language": req.Language,
		"format":   format,
	})
}

// UploadDocument runs extraction on an uploaded registration document
func (h *Handler) UploadDocument(c *gin.Context) {
	data, header, err := readFormFile(c, "file")
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	documentType := formOrQuery(c, "document_type", usecase.DocumentTypeGeneral)
	extracted, err := h.deps.Documents.Process(c.Request.Context(), data, header.Header.Get("Content-Type"), documentType)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"document_type":  documentType,
		"extracted_data": extracted,
		"filename":       header.Filename,
	})
}

// ValidateDocument checks extracted fields. The body is the field map and
// document_type comes from the query.
func (h *Handler) ValidateDocument(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		badRequest(c, "request body must be a JSON object of extracted fields")
		return
	}

	documentType := c.DefaultQuery("document_type", usecase.DocumentTypeGeneral)
	result := h.deps.Documents.Validate(c.Request.Context(), documentType, fields)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"valid":   result.Valid,
		"details": result.Details,
		"errors":  result.Errors,
	})
}

// readFormFile reads a multipart file field into memory
func readFormFile(c *gin.Context, field string) ([]byte, *multipart.FileHeader, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, nil, fmt.Errorf("multipart field %q is required", field)
	}
	if header.Size > maxUploadBytes {
		return nil, nil, fmt.Errorf("%s exceeds %d bytes", field, maxUploadBytes)
	}

	f, err := header.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", field, err)
	}
	return data, header, nil
}

// formOrQuery reads a multipart form value, then the query string
func formOrQuery(c *gin.Context, key, fallback string) string {
	if v := c.PostForm(key); v != "" {
		return v
	}
	return c.DefaultQuery(key, fallback)
}
