package transcribe

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mgpai22/transcue/internal/subtitle"
	"github.com/stretchr/testify/require"
)

func TestParseVerboseJSONResponse(t *testing.T) {
	transcriber := &OpenAITranscriber{}

	tests := []struct {
		name      string
		rawJSON   string
		wantCount int
		wantErr   bool
	}{
		{
			name: "valid verbose_json with segments",
			rawJSON: `{
				"text": "Hello world. How are you today?",
				"segments": [
					{"start": 0.0, "end": 1.5, "text": "Hello world."},
					{"start": 1.5, "end": 3.0, "text": "How are you today?"}
				],
				"language": "en",
				"duration": 3.0
			}`,
			wantCount: 2,
		},
		{
			name: "verbose_json with no segments but has text",
			rawJSON: `{
				"text": "This is a transcription without segments.",
				"segments": [],
				"language": "en",
				"duration": 2.5
			}`,
			wantCount: 1,
		},
		{
			name: "verbose_json with null segments",
			rawJSON: `{
				"text": "Transcription text only.",
				"segments": null,
				"language": "en",
				"duration": 1.0
			}`,
			wantCount: 1,
		},
		{
			name: "verbose_json with empty text segments filtered out",
			rawJSON: `{
				"text": "Hello world",
				"segments": [
					{"start": 0.0, "end": 0.5, "text": ""},
					{"start": 0.5, "end": 1.5, "text": "Hello world"},
					{"start": 1.5, "end": 2.0, "text": "   "}
				],
				"language": "en",
				"duration": 2.0
			}`,
			wantCount: 1,
		},
		{
			name: "verbose_json with whitespace-padded text",
			rawJSON: `{
				"text": "  Trimmed text  ",
				"segments": [
					{"start": 0.0, "end": 1.0, "text": "  Trimmed text  "}
				],
				"language": "en",
				"duration": 1.0
			}`,
			wantCount: 1,
		},
		{
			name:    "empty response",
			rawJSON: "",
			wantErr: true,
		},
		{
			name:    "invalid JSON",
			rawJSON: `{"text": "incomplete`,
			wantErr: true,
		},
		{
			name: "no segments and no text",
			rawJSON: `{
				"text": "",
				"segments": [],
				"language": "en",
				"duration": 0
			}`,
			wantErr: true,
		},
		{
			name: "real whisper response format",
			rawJSON: `{
				"task": "transcribe",
				"language": "english",
				"duration": 8.470000267028809,
				"text": "The stale smell of old beer lingers. It takes heat to bring out the odor.",
				"segments": [
					{
						"id": 0,
						"seek": 0,
						"start": 0.0,
						"end": 3.319999933242798,
						"text": "The stale smell of old beer lingers.",
						"tokens": [50364, 440, 23025, 7966, 295, 1331, 8388, 22949, 404, 13, 50530],
						"temperature": 0.0,
						"avg_logprob": -0.2860786020755768,
						"compression_ratio": 1.2363636493682861,
						"no_speech_prob": 0.009231
					},
					{
						"id": 1,
						"seek": 0,
						"start": 3.319999933242798,
						"end": 6.190000057220459,
						"text": "It takes heat to bring out the odor.",
						"tokens": [50530, 467, 2516, 3738, 281, 1565, 484, 264, 10602, 13, 50673],
						"temperature": 0.0,
						"avg_logprob": -0.2860786020755768,
						"compression_ratio": 1.2363636493682861,
						"no_speech_prob": 0.009231
					}
				]
			}`,
			wantCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := transcriber.parseVerboseJSONResponse(tt.rawJSON)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(doc.Segments) != tt.wantCount {
				t.Errorf(
					"got %d segments, want %d",
					len(doc.Segments),
					tt.wantCount,
				)
			}

			// Verify segments have non-empty text and no speakers
			for i, seg := range doc.Segments {
				if seg.Text == "" {
					t.Errorf("segment %d has empty text", i)
				}
				if seg.Speakers == nil || len(seg.Speakers) != 0 {
					t.Errorf("segment %d: expected empty speakers, got %v", i, seg.Speakers)
				}
			}
		})
	}
}

func TestParseVerboseJSONResponseTimestamps(t *testing.T) {
	transcriber := &OpenAITranscriber{}

	rawJSON := `{
		"text": "Hello world. Goodbye.",
		"segments": [
			{"start": 1.5, "end": 3.0, "text": "Hello world."},
			{"start": 3.0, "end": 5.5, "text": " Goodbye. "}
		],
		"language": "english",
		"duration": 5.5
	}`

	doc, err := transcriber.parseVerboseJSONResponse(rawJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Language != "english" {
		t.Errorf("expected language from response, got %q", doc.Language)
	}

	cues, err := subtitle.DecodeJSON(mustMarshal(t, doc))
	if err != nil {
		t.Fatalf("DecodeJSON failed: %v", err)
	}

	require.Equal(t, []subtitle.Cue{
		{Start: 1500, End: 3000, Text: "Hello world."},
		{Start: 3000, End: 5500, Text: "Goodbye."},
	}, cues)
}

func TestParseVerboseJSONResponseLanguageFallback(t *testing.T) {
	transcriber := &OpenAITranscriber{options: Options{Language: "fr"}}

	doc, err := transcriber.parseVerboseJSONResponse(
		`{"text": "Bonjour.", "segments": [{"start": 0, "end": 1, "text": "Bonjour."}]}`,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Language != "fr" {
		t.Errorf("expected fallback language fr, got %q", doc.Language)
	}
}

func TestShouldUseTranslation(t *testing.T) {
	tests := []struct {
		transcriptLang string
		want           bool
	}{
		{"english", true},
		{"English", true},
		{"ENGLISH", true},
		{"en", true},
		{"EN", true},
		{" english ", true},
		{"native", false},
		{"", false},
		{"spanish", false},
		{"japanese", false},
	}

	for _, tt := range tests {
		t.Run(tt.transcriptLang, func(t *testing.T) {
			transcriber := &OpenAITranscriber{
				options: Options{
					TranscriptLanguage: tt.transcriptLang,
				},
			}
			got := transcriber.shouldUseTranslation()
			if got != tt.want {
				t.Errorf("shouldUseTranslation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFallbackSingleSegment(t *testing.T) {
	transcriber := &OpenAITranscriber{}

	// Test case where response has text but no segments array
	rawJSON := `{
		"text": "This is a transcription without segments.",
		"duration": 10.5
	}`

	doc, err := transcriber.parseVerboseJSONResponse(rawJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(doc.Segments) != 1 {
		t.Fatalf("expected 1 fallback segment, got %d", len(doc.Segments))
	}

	seg := doc.Segments[0]
	if seg.Start != 0 {
		t.Errorf("fallback segment start time should be 0, got %v", seg.Start)
	}
	if seg.End != 10.5 {
		t.Errorf("fallback segment end time: got %v, want 10.5", seg.End)
	}
	if seg.Text != "This is a transcription without segments." {
		t.Errorf("fallback segment text incorrect: %q", seg.Text)
	}
}

func TestOpenAITranscriberMissingFile(t *testing.T) {
	transcriber, err := NewOpenAITranscriber(context.Background(), "fake-key", Options{})
	if err != nil {
		t.Fatalf("NewOpenAITranscriber error: %v", err)
	}
	if transcriber.model != "whisper-1" {
		t.Errorf("expected default model whisper-1, got %q", transcriber.model)
	}

	_, err = transcriber.Transcribe(
		context.Background(),
		filepath.Join(t.TempDir(), "missing.mp3"),
	)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestFactory(t *testing.T) {
	ctx := context.Background()

	transcriber, err := Factory(ctx, ProviderOpenAI, "fake-key", Options{})
	if err != nil {
		t.Fatalf("Factory(ProviderOpenAI) returned error: %v", err)
	}
	if _, ok := transcriber.(*OpenAITranscriber); !ok {
		t.Errorf("expected *OpenAITranscriber, got %T", transcriber)
	}

	if _, err := Factory(ctx, Provider("whisper-local"), "fake-key", Options{}); err == nil {
		t.Error("expected error for unknown provider")
	}
	if _, err := Factory(ctx, ProviderGemini, "", Options{}); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestParseProvider(t *testing.T) {
	for in, want := range map[string]Provider{"gemini": ProviderGemini, " OpenAI ": ProviderOpenAI} {
		got, err := ParseProvider(in)
		if err != nil || got != want {
			t.Errorf("ParseProvider(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseProvider("anthropic"); err == nil {
		t.Error("expected error for unsupported provider")
	}
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	return data
}

// Integration test: only runs if OPENAI_API_KEY and TRANSCUE_TEST_AUDIO are set
func TestOpenAITranscriberIntegration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	audioPath := os.Getenv("TRANSCUE_TEST_AUDIO")
	if apiKey == "" || audioPath == "" {
		t.Skip("OPENAI_API_KEY or TRANSCUE_TEST_AUDIO not set; skipping integration test")
	}

	transcriber, err := NewOpenAITranscriber(context.Background(), apiKey, Options{})
	if err != nil {
		t.Fatalf("NewOpenAITranscriber error: %v", err)
	}

	doc, err := transcriber.Transcribe(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("Transcribe error: %v", err)
	}
	if len(doc.Segments) == 0 {
		t.Error("expected at least one segment")
	}
}
