package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/transcue/internal/audio"
	"github.com/mgpai22/transcue/internal/config"
	"github.com/mgpai22/transcue/internal/storage"
	"github.com/mgpai22/transcue/internal/subtitle"
	"github.com/mgpai22/transcue/internal/transcribe"
	"github.com/spf13/cobra"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [media_file]",
	Short: "Transcribe an audio or video file into a segmented JSON transcript",
	Long: `Transcribe the specified audio or video file using AI speech-to-text.

The command accepts both audio files (mp3, wav, aac, etc.) and video files (mp4, mkv, etc.).
The audio track is re-encoded to 16 kHz mono mp3 with ffmpeg before upload.

Gemini labels each segment with a speaker id; OpenAI Whisper does not diarize.
The result is a segmented JSON transcript that "transcue convert" can import.

Examples:
  transcue transcribe interview.mp4
  transcue transcribe podcast.mp3 --provider openai -o podcast.json
  transcue transcribe meeting.m4a --language de --prompt "Speakers are Anna and Ben."`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

func init() {
	rootCmd.AddCommand(transcribeCmd)

	transcribeCmd.Flags().
		StringP("provider", "p", "", "Transcription provider (gemini, openai)")
	transcribeCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY / OPENAI_API_KEY env var)")
	transcribeCmd.Flags().
		String("model", "", "Model to use for transcription (provider default when empty)")
	transcribeCmd.Flags().
		String("prompt", "", "Extra instructions or vocabulary for the transcriber")
	transcribeCmd.Flags().
		String("transcript-language", "native", "Output language for transcript (e.g., 'english', or 'native' for original language)")
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	ctx := cmd.Context()

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !audio.IsMediaFile(mediaPath) {
		return fmt.Errorf("unsupported file type: %s (expected audio or video file)", filepath.Ext(mediaPath))
	}

	providerStr, _ := cmd.Flags().GetString("provider")
	apiKey, _ := cmd.Flags().GetString("api-key")
	model, _ := cmd.Flags().GetString("model")
	prompt, _ := cmd.Flags().GetString("prompt")
	language, _ := cmd.Flags().GetString("language")
	transcriptLang, _ := cmd.Flags().GetString("transcript-language")
	outputPath, _ := cmd.Flags().GetString("output")

	providerStr, opts := transcribeOptions(cfg, providerStr, transcribe.Options{
		Language:           language,
		TranscriptLanguage: transcriptLang,
		Model:              model,
		Prompt:             prompt,
	})

	provider, err := transcribe.ParseProvider(providerStr)
	if err != nil {
		return err
	}

	if provider == transcribe.ProviderOpenAI &&
		!isValidOpenAITranscriptLanguage(opts.TranscriptLanguage) {
		return fmt.Errorf(
			"OpenAI can only transcribe in the original language or translate to English, got %q",
			opts.TranscriptLanguage,
		)
	}

	apiKey, err = config.APIKey(apiKey, string(provider))
	if err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = defaultTranscriptPath(mediaPath)
	}

	logger.Infow("Starting transcription",
		"input", mediaPath,
		"output", outputPath,
		"provider", provider,
		"model", opts.Model,
	)

	tempDir, err := os.MkdirTemp("", "transcue-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	extractOpts := audio.DefaultExtractOptions()
	audioPath := filepath.Join(tempDir, "audio."+extractOpts.Format)

	if audio.IsVideoFile(mediaPath) {
		logger.Infow("Extracting audio from video")
	} else {
		logger.Infow("Compressing audio for transcription")
	}
	if err := audio.ExtractAudio(ctx, mediaPath, audioPath, extractOpts); err != nil {
		return fmt.Errorf("failed to prepare audio: %w", err)
	}

	transcriber, err := transcribe.Factory(ctx, provider, apiKey, opts)
	if err != nil {
		return fmt.Errorf("failed to create transcriber: %w", err)
	}

	logger.Infow("Transcribing audio")

	doc, err := transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	logger.Infow("Transcription complete",
		"segments", len(doc.Segments),
		"language", doc.Language,
	)

	store := storage.NewLocalStorage()
	store.Stdout = cmd.OutOrStdout()
	if err := store.Write(outputPath, func(w io.Writer) error {
		return subtitle.EncodeSegmented(w, doc)
	}); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}

	if outputPath != storage.StdStream {
		absOutput, _ := filepath.Abs(outputPath)
		fmt.Fprintf(cmd.ErrOrStderr(), "Transcript generated successfully: %s\n", absOutput)
		fmt.Fprintf(cmd.ErrOrStderr(), "  Segments: %d\n", len(doc.Segments))
	}

	return nil
}

// flag values win over the config file
func transcribeOptions(c *config.Config, provider string, flags transcribe.Options) (string, transcribe.Options) {
	if c == nil {
		c = config.Default()
	}

	opts := flags
	if provider == "" {
		provider = c.Transcribe.Provider
	}
	if opts.Model == "" {
		opts.Model = c.Transcribe.Model
	}
	if opts.Language == "" {
		opts.Language = c.Transcribe.Language
	}
	if opts.Prompt == "" {
		opts.Prompt = c.Transcribe.Prompt
	}
	return provider, opts
}

// Whisper either keeps the spoken language or translates to English
func isValidOpenAITranscriptLanguage(lang string) bool {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "", "native", "english", "en":
		return true
	default:
		return false
	}
}

func defaultTranscriptPath(mediaPath string) string {
	return strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath)) + subtitle.ExtensionForFormat(subtitle.FormatJSON)
}
