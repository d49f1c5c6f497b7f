package domain

// Transcription is the output of speech-to-text
type Transcription struct {
	Text           string  `json:"text"`
	Confidence     float64 `json:"confidence"`
	Language       string  `json:"language"`
	ProcessingTime float64 `json:"processing_time"` // seconds
}

// Entity is a business entity found in a transcript
type Entity struct {
	Entity string `json:"entity"`
	Type   string `json:"type"` // ORG, PERSON, PRODUCT, LOC, CONTACT
}

// VoiceInput is the body of an entity extraction request
type VoiceInput struct {
	Text     string `json:"text" binding:"required"`
	Language string `json:"language"`
}

// ExtractedDocument is the output of document OCR
type ExtractedDocument struct {
	ExtractedText string            `json:"extracted_text"`
	Fields        map[string]string `json:"fields"`
	Requirement   string            `json:"requirement,omitempty"`
}

// DocumentValidation is the result of checking extracted fields against a registry
type DocumentValidation struct {
	Valid   bool              `json:"valid"`
	Details map[string]string `json:"details"`
	Errors  []string          `json:"errors"`
}

// Language is a supported UI/voice language
type Language struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Native string `json:"native"`
}
