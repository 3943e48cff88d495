package transcribe

import (
	"context"
	"fmt"
	"strings"

	"github.com/mgpai22/transcue/internal/subtitle"
)

// interface for audio transcription
type Transcriber interface {
	Transcribe(
		ctx context.Context,
		audioPath string,
	) (*subtitle.SegmentedDocument, error)
}

// transcription service provider
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// transcription options
type Options struct {
	Language           string // Source language of audio
	TranscriptLanguage string // Output language for transcript (default: "native")
	Model              string
	Prompt             string
}

func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case ProviderGemini, ProviderOpenAI:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported provider %q: use gemini or openai", s)
	}
}

// creates transcriber based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Transcriber, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiTranscriber(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAITranscriber(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// single attribution covering the whole segment
func soleSpeaker(id int) []subtitle.SpeakerShare {
	return []subtitle.SpeakerShare{{
		Speaker:      fmt.Sprintf("%d", id),
		TalkFraction: 1,
	}}
}
