package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mgpai22/transcue/internal/subtitle"
	"google.golang.org/genai"
)

// implements Transcriber interface using Google Gemini
type GeminiTranscriber struct {
	client  *genai.Client
	model   string
	options Options
}

// segment from Gemini's JSON response
type transcriptSegment struct {
	Start   float64         `json:"start"`
	End     float64         `json:"end"`
	Text    string          `json:"text"`
	Speaker json.RawMessage `json:"speaker,omitempty"`
}

var (
	jsonBlockRegex = regexp.MustCompile("```(?:json)?\\s*")
	digitsRegex    = regexp.MustCompile(`\d+`)
)

// wrapper keys tried before any other key of an object
var preferredKeys = []string{"segments", "transcript", "data", "results"}

func NewGeminiTranscriber(ctx context.Context, apiKey string, opts Options) (*GeminiTranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiTranscriber{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

// transcribes single audio file with speaker diarization
func (t *GeminiTranscriber) Transcribe(ctx context.Context, audioPath string) (*subtitle.SegmentedDocument, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	uploadedFile, err := t.client.Files.UploadFromPath(ctx, audioPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upload audio file: %w", err)
	}

	defer func() {
		_, _ = t.client.Files.Delete(ctx, uploadedFile.Name, nil)
	}()

	parts := []*genai.Part{
		genai.NewPartFromText(t.buildTranscriptionPrompt()),
		genai.NewPartFromURI(uploadedFile.URI, uploadedFile.MIMEType),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	segments, err := t.parseTranscriptionResponse(result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transcription: %w", err)
	}

	return &subtitle.SegmentedDocument{
		Language: t.options.Language,
		Segments: segments,
	}, nil
}

// creates the prompt for transcription
func (t *GeminiTranscriber) buildTranscriptionPrompt() string {
	var sb strings.Builder

	sb.WriteString("Generate a detailed transcript of this audio with speaker diarization. ")
	sb.WriteString("For each sentence or phrase, provide the start timestamp, end timestamp, the exact text spoken, and who spoke it. ")
	sb.WriteString("Format your response as a JSON array with objects containing 'start', 'end', 'text' and 'speaker' fields, ")
	sb.WriteString("where 'start' and 'end' are timestamps in seconds (as numbers) ")
	sb.WriteString("and 'speaker' is a 0-based integer that stays the same for the same voice. ")

	if t.options.Language != "" {
		sb.WriteString(fmt.Sprintf("The audio is in %s. ", t.options.Language))
	}

	if t.options.TranscriptLanguage != "" && t.options.TranscriptLanguage != "native" {
		sb.WriteString(fmt.Sprintf("Output the transcript in %s. ", t.options.TranscriptLanguage))
	}

	if t.options.Prompt != "" {
		sb.WriteString(t.options.Prompt)
		sb.WriteString(" ")
	}

	sb.WriteString("Return ONLY the JSON array, no other text or markdown formatting.")

	return sb.String()
}

// parses Gemini's response into segments
func (t *GeminiTranscriber) parseTranscriptionResponse(result *genai.GenerateContentResponse) ([]subtitle.Segment, error) {
	if result == nil || len(result.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	var responseText string
	for _, candidate := range result.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					responseText += part.Text
				}
			}
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text in Gemini response")
	}

	transcriptSegments, err := extractTranscriptSegments(responseText)
	if err != nil {
		return nil, fmt.Errorf("%w (response: %s)", err, truncateString(responseText, 200))
	}

	return toSegments(transcriptSegments), nil
}

// drops empty text and attaches the diarized speaker, if any
func toSegments(transcriptSegments []transcriptSegment) []subtitle.Segment {
	segments := make([]subtitle.Segment, 0, len(transcriptSegments))
	for _, ts := range transcriptSegments {
		text := strings.TrimSpace(ts.Text)
		if text == "" {
			continue
		}

		speakers := []subtitle.SpeakerShare{}
		if id, ok := parseSpeakerID(ts.Speaker); ok {
			speakers = soleSpeaker(id)
		}

		segments = append(segments, subtitle.Segment{
			Start:    ts.Start,
			End:      ts.End,
			Text:     text,
			Speakers: speakers,
		})
	}
	return segments
}

// accepts 0, "0" and labels such as "SPEAKER_01"
func parseSpeakerID(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if f < 0 || f != float64(int(f)) {
			return 0, false
		}
		return int(f), true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	digits := digitsRegex.FindString(s)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// finds the first JSON value in s that holds transcript segments, tolerating
// code fences, surrounding prose and wrapper objects
func extractTranscriptSegments(s string) ([]transcriptSegment, error) {
	s = cleanJSONResponse(s)

	for i := 0; i < len(s); i++ {
		if s[i] != '[' && s[i] != '{' {
			continue
		}

		dec := json.NewDecoder(strings.NewReader(s[i:]))
		var value any
		if err := dec.Decode(&value); err != nil {
			continue
		}

		if segments, ok := findSegments(value); ok {
			return segments, nil
		}
		i += int(dec.InputOffset()) - 1
	}

	return nil, fmt.Errorf("no transcript segments found in response")
}

func findSegments(value any) ([]transcriptSegment, bool) {
	switch v := value.(type) {
	case []any:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, false
		}
		var segments []transcriptSegment
		if err := json.Unmarshal(data, &segments); err != nil {
			return nil, false
		}
		return segments, validateSegments(segments)

	case map[string]any:
		for _, key := range preferredKeys {
			if inner, ok := v[key]; ok {
				if segments, ok := findSegments(inner); ok {
					return segments, true
				}
			}
		}

		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if segments, ok := findSegments(v[key]); ok {
				return segments, true
			}
		}
	}

	return nil, false
}

// at least one segment carries a timestamp or text
func validateSegments(segments []transcriptSegment) bool {
	for _, seg := range segments {
		if seg.Start != 0 || seg.End != 0 || seg.Text != "" {
			return true
		}
	}
	return false
}

// removes markdown formatting from the response
func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)

	// remove ```json and ``` markers
	s = jsonBlockRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")

	return strings.TrimSpace(s)
}

// truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
