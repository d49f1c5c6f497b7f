package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/msmeconnect/backend/internal/domain"
)

func TestVoiceService_Transcribe(t *testing.T) {
	ctx := context.Background()
	svc := NewVoiceService(nil)
	audio := []byte("fake-audio")

	testCases := []struct {
		name         string
		language     string
		wantText     string
		wantLanguage string
	}{
		{name: "hindi", language: "hi", wantText: sampleTranscripts["hi"], wantLanguage: "hi"},
		{name: "english", language: "en", wantText: "My company name is Raj Handicrafts and we make wooden toys", wantLanguage: "en"},
		{name: "default language", language: "", wantText: sampleTranscripts["hi"], wantLanguage: "hi"},
		{name: "unsupported language", language: "ta", wantText: "Unknown language input", wantLanguage: "ta"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.Transcribe(ctx, audio, tc.language)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Text != tc.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tc.wantText)
			}
			if got.Language != tc.wantLanguage {
				t.Errorf("Language = %q, want %q", got.Language, tc.wantLanguage)
			}
			if got.Confidence != 0.95 || got.ProcessingTime != 1.2 {
				t.Errorf("Confidence = %v, ProcessingTime = %v", got.Confidence, got.ProcessingTime)
			}
		})
	}

	if _, err := svc.Transcribe(ctx, nil, "hi"); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("empty audio: error = %v, want ErrInvalidRequest", err)
	}
}

func TestVoiceService_ExtractEntities(t *testing.T) {
	ctx := context.Background()

	t.Run("sample entities without LLM", func(t *testing.T) {
		got, err := NewVoiceService(nil).ExtractEntities(ctx, "some transcript", "en")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 || got[0] != (domain.Entity{Entity: "Raj Handicrafts", Type: "ORG"}) || got[1].Type != "PRODUCT" {
			t.Errorf("entities = %+v", got)
		}
	})

	t.Run("LLM entities when enabled", func(t *testing.T) {
		llm := &MockTextGenerator{enabled: true, entities: []domain.Entity{{Entity: "Meena Textiles", Type: "ORG"}}}
		got, err := NewVoiceService(llm).ExtractEntities(ctx, "Meena Textiles", "en")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0].Entity != "Meena Textiles" {
			t.Errorf("entities = %+v", got)
		}
	})

	t.Run("LLM failure falls back to sample", func(t *testing.T) {
		llm := &MockTextGenerator{enabled: true, entitiesErr: domain.NewCollaboratorError(domain.KindUnavailable, "extract", errors.New("down"))}
		got, err := NewVoiceService(llm).ExtractEntities(ctx, "text", "hi")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("entities = %+v, want sample entities", got)
		}
	})

	t.Run("empty text", func(t *testing.T) {
		if _, err := NewVoiceService(nil).ExtractEntities(ctx, "  ", "hi"); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})
}

func TestVoiceService_TextToSpeech(t *testing.T) {
	svc := NewVoiceService(nil)

	audio, format, err := svc.TextToSpeech(context.Background(), "Namaste", "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if format != "wav" {
		t.Errorf("format = %q, want wav", format)
	}
	decoded, err := base64.StdEncoding.DecodeString(audio)
	if err != nil {
		t.Fatalf("audio is not base64: %v", err)
	}
	if string(decoded[:4]) != "RIFF" {
		t.Errorf("audio header = %q, want RIFF", decoded[:4])
	}

	if _, _, err := svc.TextToSpeech(context.Background(), "", "hi"); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("error = %v, want ErrInvalidRequest", err)
	}
}

func TestSupportedLanguages(t *testing.T) {
	langs := SupportedLanguages()
	if len(langs) != 13 {
		t.Fatalf("len = %d, want 13", len(langs))
	}
	if langs[0].Code != "hi" || langs[1].Code != "en" || langs[12].Code != "as" {
		t.Errorf("unexpected order: %+v", langs)
	}

	langs[0].Code = "xx"
	if SupportedLanguages()[0].Code != "hi" {
		t.Error("SupportedLanguages must return a copy")
	}
}
