package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jpalmeida/narro/internal/audio"
	"github.com/jpalmeida/narro/internal/export"
	"github.com/jpalmeida/narro/internal/subtitle"
	"github.com/jpalmeida/narro/internal/synth"
	"github.com/jpalmeida/narro/internal/timeline"
	"github.com/jpalmeida/narro/internal/translate"
)

var convertCmd = &cobra.Command{
	Use:   "convert [subtitle_file]",
	Short: "Narrate a subtitle file into a single audio track",
	Long: `Narrate the specified subtitle file into one audio track.

Each cue is synthesized to speech and laid out on the timeline
following the cue start times. When an utterance runs past the next
cue, the following pause is shortened (or dropped) to absorb the
overrun, so later cues stay aligned with their start times.

A CSV history of the rendered segments is written next to the audio
track. Cue text can optionally be translated before synthesis.

Examples:
  narro convert episode.srt
  narro convert episode.srt -o narration.mp3 --provider openai
  narro convert episode.srt --voices --concurrency 5
  narro convert episode.srt --translate-to Spanish -l es-ES`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().
		StringP("format", "f", "kdenlive", "Subtitle format of the input file")
	convertCmd.Flags().
		StringP("provider", "p", "google", "Speech provider (google, openai, gemini)")
	convertCmd.Flags().
		String("voice", "", "Voice name (provider-specific, uses sensible defaults)")
	convertCmd.Flags().
		String("model", "", "Model to use for speech synthesis (provider-specific)")
	convertCmd.Flags().
		StringP("api-key", "k", "", "Speech API key (or set OPENAI_API_KEY/GEMINI_API_KEY env var)")
	convertCmd.Flags().
		Float64("speed", 0, "Speech speed multiplier (provider-specific)")
	convertCmd.Flags().
		Int("concurrency", 3, "Number of parallel synthesis workers")
	convertCmd.Flags().
		Bool("voices", false, "Keep each utterance as a separate clip next to the output")
	convertCmd.Flags().
		String("translate-to", "", "Translate cue text to this language before synthesis")
	convertCmd.Flags().
		String("translate-provider", "anthropic", "Translation provider (anthropic, openai, gemini)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]
	ctx := context.Background()

	if _, err := os.Stat(subtitlePath); os.IsNotExist(err) {
		return fmt.Errorf("subtitle file not found: %s", subtitlePath)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	formatStr := resolveString(cmd, "format", cfg.Format)
	providerStr := resolveString(cmd, "provider", cfg.Provider)
	voice := resolveString(cmd, "voice", cfg.Voice)
	model := resolveString(cmd, "model", cfg.Model)
	language := resolveString(cmd, "language", cfg.Language)
	concurrency := resolveInt(cmd, "concurrency", cfg.Concurrency)
	saveClips := resolveBool(cmd, "voices", cfg.SaveClips)

	apiKeyFlag, _ := cmd.Flags().GetString("api-key")
	speed, _ := cmd.Flags().GetFloat64("speed")
	outputPath, _ := cmd.Flags().GetString("output")
	translateTo, _ := cmd.Flags().GetString("translate-to")
	translateProvider, _ := cmd.Flags().GetString("translate-provider")

	if concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}

	grammar, err := subtitle.Lookup(formatStr)
	if err != nil {
		return fmt.Errorf(
			"unsupported format %q: supported formats are %s",
			formatStr,
			strings.Join(subtitle.Names(), ", "),
		)
	}

	planner, err := timeline.PlannerFor(formatStr)
	if err != nil {
		return fmt.Errorf("no narration planner for format %q", formatStr)
	}

	if outputPath == "" {
		outputPath = defaultOutputPath(subtitlePath)
	}

	runID := uuid.NewString()
	logger.Infow("Starting narration",
		"run_id", runID,
		"input", subtitlePath,
		"output", outputPath,
		"format", formatStr,
		"provider", providerStr,
		"concurrency", concurrency,
	)

	lines, err := subtitle.ReadLines(subtitlePath)
	if err != nil {
		return fmt.Errorf("failed to read subtitle file: %w", err)
	}

	cues, skips := grammar.Parse(lines)
	for _, skip := range skips {
		logger.Warnw("Skipping malformed cue",
			"line", skip.Line,
			"reason", skip.Reason,
		)
	}

	logger.Infow("Parsed subtitle file",
		"cues", len(cues),
		"skipped", len(skips),
	)

	if translateTo != "" {
		cues, err = translateCueText(ctx, cues, translateTo, translateProvider, concurrency)
		if err != nil {
			return err
		}
	}

	tokens, err := planner.Plan(cues)
	if err != nil {
		if errors.Is(err, timeline.ErrEmptyInput) {
			return fmt.Errorf("%s: %w", subtitlePath, err)
		}
		return fmt.Errorf("failed to plan narration: %w", err)
	}

	provider := synth.Provider(providerStr)
	apiKey, err := synthAPIKey(provider, apiKeyFlag)
	if err != nil {
		return err
	}

	synthesizer, err := synth.Factory(ctx, provider, apiKey, synth.Options{
		Language: language,
		Voice:    voice,
		Model:    model,
		Speed:    speed,
	})
	if err != nil {
		return fmt.Errorf("failed to create synthesizer: %w", err)
	}

	codec := audio.NewCodec()

	opts := timeline.AssembleOptions{
		Progress: func(done, total int) {
			logger.Debugw("Rendering timeline", "done", done, "total", total)
		},
	}
	if saveClips {
		opts.Clips = export.NewClipStore(outputPath)
	}

	logger.Infow("Rendering narration",
		"tokens", len(tokens),
	)

	assembler := timeline.NewAssembler(synthesizer, codec, opts)
	assembly, err := assembler.AssembleParallel(ctx, tokens, concurrency)
	if err != nil {
		return fmt.Errorf("narration failed: %w", err)
	}

	exporter := export.NewExporter(codec)
	result, err := exporter.Export(ctx, assembly, outputPath, filepath.Base(subtitlePath))
	if err != nil {
		return fmt.Errorf("failed to export narration: %w", err)
	}

	if duration, err := audio.GetDuration(result.AudioPath); err != nil {
		logger.Warnw("Could not verify output duration",
			"error", err,
		)
	} else {
		logger.Infow("Narration complete",
			"run_id", runID,
			"duration", duration.String(),
			"segments", result.Segments,
		)
	}

	absOutput, _ := filepath.Abs(result.AudioPath)
	fmt.Printf("Narration written successfully: %s\n", absOutput)
	fmt.Printf("  Segments: %d\n", result.Segments)
	fmt.Printf("  Duration: %s\n", formatTrackDuration(result.DurationMS))
	fmt.Printf("  History: %s\n", result.HistoryPath)

	return nil
}

func translateCueText(
	ctx context.Context,
	cues []subtitle.Cue,
	targetLanguage string,
	providerStr string,
	concurrency int,
) ([]subtitle.Cue, error) {
	provider := translate.Provider(providerStr)
	apiKey, err := translateAPIKey(provider)
	if err != nil {
		return nil, err
	}

	translator, err := translate.Factory(ctx, provider, apiKey, translate.Options{
		TargetLanguage: targetLanguage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create translator: %w", err)
	}

	logger.Infow("Translating cues",
		"target_language", targetLanguage,
		"provider", providerStr,
		"cues", len(cues),
	)

	translated, err := translate.TranslateCues(ctx, translator, cues, concurrency)
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}
	return translated, nil
}

func formatTrackDuration(ms float64) string {
	d := time.Duration(ms * float64(time.Millisecond))
	return d.Round(time.Millisecond).String()
}
