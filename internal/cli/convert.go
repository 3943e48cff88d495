package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/mgpai22/transcue/internal/storage"
	"github.com/mgpai22/transcue/internal/subtitle"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [input_file]",
	Short: "Convert a transcript between WebVTT, JSON and interview text",
	Long: `Convert a WebVTT or JSON transcript into JSON, WebVTT or interview text.

The input format is taken from the file extension unless --from is given; files
without a known extension are sniffed for a WEBVTT header. The output format is
taken from --to, then from the extension of --output, and defaults to JSON.
Without --output (or with "-") the result is written to stdout.

With --merge, cues that begin with a lowercase letter are folded into the cue
before them so that sentences split across cues become one cue.

Examples:
  transcue convert talk.vtt
  transcue convert talk.vtt --merge -o talk.json
  transcue convert diarized.json -o interview.txt --speakers Host,Guest
  cat talk.vtt | transcue convert - --from vtt --to txt`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().
		String("from", "", "Input format (vtt, json); detected when empty")
	convertCmd.Flags().
		StringP("to", "t", "", "Output format (json, vtt, txt)")
	convertCmd.Flags().
		BoolP("merge", "m", false, "Merge sentence fragments into whole cues")
	convertCmd.Flags().
		StringSliceP("speakers", "s", nil, "Speaker names for interview text, in speaker id order")
}

type convertOptions struct {
	InputPath  string
	OutputPath string
	From       string
	To         string
	Merge      bool
	Speakers   []string
}

type convertResult struct {
	From  subtitle.Format
	To    subtitle.Format
	Read  int
	Wrote int
}

func runConvert(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	merge, _ := cmd.Flags().GetBool("merge")
	speakers, _ := cmd.Flags().GetStringSlice("speakers")
	outputPath, _ := cmd.Flags().GetString("output")

	if !cmd.Flags().Changed("merge") {
		merge = cfg.Merge
	}
	if !cmd.Flags().Changed("speakers") {
		speakers = cfg.Speakers
	}

	opts := convertOptions{
		InputPath:  args[0],
		OutputPath: outputPath,
		From:       from,
		To:         to,
		Merge:      merge,
		Speakers:   speakers,
	}

	logger.Debugw("Converting transcript",
		"input", opts.InputPath,
		"output", opts.OutputPath,
		"merge", opts.Merge,
		"speakers", opts.Speakers,
	)

	store := storage.NewLocalStorage()
	store.Stdin = cmd.InOrStdin()
	store.Stdout = cmd.OutOrStdout()

	result, err := convert(store, opts)
	if err != nil {
		return err
	}

	logger.Infow("Conversion complete",
		"from", result.From,
		"to", result.To,
		"cues_read", result.Read,
		"cues_written", result.Wrote,
	)

	if opts.OutputPath != "" && opts.OutputPath != storage.StdStream {
		absOutput, _ := filepath.Abs(opts.OutputPath)
		fmt.Fprintf(cmd.ErrOrStderr(), "Transcript written successfully: %s\n", absOutput)
	}

	return nil
}

func convert(store *storage.LocalStorage, opts convertOptions) (*convertResult, error) {
	data, err := store.Read(opts.InputPath)
	if err != nil {
		return nil, err
	}

	from, err := resolveInputFormat(opts.From, opts.InputPath, data)
	if err != nil {
		return nil, err
	}

	to, err := resolveOutputFormat(opts.To, opts.OutputPath)
	if err != nil {
		return nil, err
	}

	cues, err := subtitle.Load(data, from)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", opts.InputPath, err)
	}

	result := &convertResult{From: from, To: to, Read: len(cues)}

	if opts.Merge {
		cues = subtitle.Merge(cues)
	}
	result.Wrote = len(cues)

	writer, err := subtitle.NewWriter(to, subtitle.WriterOptions{Speakers: opts.Speakers})
	if err != nil {
		return nil, fmt.Errorf("failed to create transcript writer: %w", err)
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = storage.StdStream
	}

	if err := store.Write(outputPath, func(w io.Writer) error {
		return writer.Write(w, cues)
	}); err != nil {
		return nil, fmt.Errorf("failed to write transcript: %w", err)
	}

	return result, nil
}

func resolveInputFormat(flagValue, path string, data []byte) (subtitle.Format, error) {
	if flagValue == "" {
		return subtitle.DetectFormat(path, data)
	}

	format, err := subtitle.ParseFormat(flagValue)
	if err != nil {
		return "", err
	}
	if format == subtitle.FormatText {
		return "", fmt.Errorf("interview text cannot be used as input: use vtt or json")
	}
	return format, nil
}

// --to wins, then the output extension, then JSON
func resolveOutputFormat(flagValue, outputPath string) (subtitle.Format, error) {
	if flagValue != "" {
		return subtitle.ParseFormat(flagValue)
	}
	if format, ok := subtitle.FormatFromPath(outputPath); ok {
		return format, nil
	}
	return subtitle.FormatJSON, nil
}
