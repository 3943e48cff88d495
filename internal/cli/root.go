package cli

import (
	"github.com/mgpai22/transcue/internal/config"
	"github.com/mgpai22/transcue/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "transcue",
	Short: "Convert dialogue transcripts between WebVTT, JSON and interview text",
	Long: `Transcue is a CLI tool for working with spoken-dialogue transcripts.

It reads WebVTT subtitles or JSON transcripts (including diarized speech-to-text
output), optionally merges sentence fragments into whole cues, and writes JSON,
WebVTT or speaker-labelled interview text. It can also transcribe audio and
video files with Gemini or OpenAI Whisper.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		logger.Debugw("Configuration loaded",
			"path", configPath,
			"speakers", len(cfg.Speakers),
			"merge", cfg.Merge,
		)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "YAML config file (or set TRANSCUE_CONFIG env var)")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Language code (e.g., en, es, fr)")
}
