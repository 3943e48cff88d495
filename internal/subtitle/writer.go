package subtitle

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// flat cue array, re-importable with DecodeJSON
type JSONWriter struct {
	Indent string
}

// WebVTT format
type VTTWriter struct{}

// plain interview transcript, speaker names indexed by speaker-1
type InterviewWriter struct {
	Speakers []string
}

// options consumed by NewWriter
type WriterOptions struct {
	Speakers []string
}

func NewWriter(format Format, opts WriterOptions) (Writer, error) {
	switch format {
	case FormatJSON:
		return &JSONWriter{Indent: "    "}, nil
	case FormatVTT:
		return &VTTWriter{}, nil
	case FormatText:
		return &InterviewWriter{Speakers: opts.Speakers}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// writes the cues as an indented JSON array
func (w *JSONWriter) Write(out io.Writer, cues []Cue) error {
	if cues == nil {
		cues = []Cue{}
	}

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", w.Indent)
	if err := enc.Encode(cues); err != nil {
		return fmt.Errorf("failed to encode cues: %w", err)
	}
	return nil
}

// writes the cues as a WebVTT document
func (w *VTTWriter) Write(out io.Writer, cues []Cue) error {
	bw := bufio.NewWriter(out)

	// VTT header
	bw.WriteString(vttHeader + "\n\n")

	for i, cue := range cues {
		// cue identifier, skipped again on parse
		fmt.Fprintf(bw, "%d\n", i+1)

		// timestamps: 00:00:00.000 --> 00:00:00.000
		fmt.Fprintf(bw, "%s --> %s\n",
			formatVTTTime(cue.Start),
			formatVTTTime(cue.End))

		bw.WriteString(cue.Text)
		bw.WriteString("\n\n")
	}

	return bw.Flush()
}

// writes speaker-attributed paragraphs, misc cues are left out
func (w *InterviewWriter) Write(out io.Writer, cues []Cue) error {
	var sb strings.Builder
	currentSpeaker := 0

	for _, cue := range cues {
		if cue.IsMisc() {
			continue
		}

		if speaker, ok := cue.SpeakerID(); ok && speaker != currentSpeaker {
			currentSpeaker = speaker
			sb.WriteString(fmt.Sprintf("\n\n%s: ", w.speakerName(speaker)))
		}

		sb.WriteString(cue.Text)
		sb.WriteString(" ")
	}

	_, err := io.WriteString(out, sb.String())
	return err
}

func (w *InterviewWriter) speakerName(speaker int) string {
	if speaker >= 1 && speaker <= len(w.Speakers) {
		return w.Speakers[speaker-1]
	}
	return fmt.Sprintf("Speaker %d", speaker)
}

func EncodeSegmented(out io.Writer, doc *SegmentedDocument) error {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode segmented document: %w", err)
	}
	return nil
}

func formatVTTTime(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / 3_600_000
	minutes := (ms / 60_000) % 60
	seconds := (ms / 1_000) % 60
	millis := ms % 1_000

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}

// transcript format based on file extension
func FormatFromPath(path string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return FormatJSON, true
	case ".vtt":
		return FormatVTT, true
	case ".txt":
		return FormatText, true
	default:
		return "", false
	}
}

// file extension for a format
func ExtensionForFormat(format Format) string {
	switch format {
	case FormatVTT:
		return ".vtt"
	case FormatText:
		return ".txt"
	default:
		return ".json"
	}
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "vtt", "webvtt":
		return FormatVTT, nil
	case "txt", "text", "interview":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use json, vtt, or txt", s)
	}
}
