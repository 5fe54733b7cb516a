package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ytranslate/ytranslate/internal/config"
	"github.com/ytranslate/ytranslate/internal/format"
	"github.com/ytranslate/ytranslate/internal/lang"
	"github.com/ytranslate/ytranslate/internal/parallel"
	"github.com/ytranslate/ytranslate/internal/youtube"
)

// TranscriptCmd creates the transcript command.
// The env parameter provides injectable dependencies for testing.
func TranscriptCmd(env *Env) *cobra.Command {
	var (
		language string
		output   string
		workers  int
		model    string
	)

	cmd := &cobra.Command{
		Use:   "transcript <youtube-url>",
		Short: "Translate a video's transcript to text",
		Long: `Fetch a YouTube video's transcript and translate it.

The transcript is grouped into chunks, translated in parallel, and written
as timestamped text. No audio is generated; use the video command for that.`,
		Example: `  ytranslate transcript https://youtu.be/dQw4w9WgXcQ
  ytranslate transcript https://www.youtube.com/watch?v=dQw4w9WgXcQ -l uk -o lecture.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscript(cmd, env, args[0], language, output, workers, model)
		},
	}

	cmd.Flags().StringVarP(&language, "lang", "l", "", "Target language (ISO 639-1 code, default: "+lang.DefaultTarget+")")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: <video-id>_<lang>.txt)")
	cmd.Flags().IntVarP(&workers, "parallel", "p", parallel.MaxRecommendedWorkers, "Max concurrent API requests (1-10)")
	cmd.Flags().StringVar(&model, "model", "", "Chat model for translation")

	return cmd
}

// runTranscript executes the transcript translation pipeline.
// Validation order: URL -> language -> output -> parallel -> API key
func runTranscript(cmd *cobra.Command, env *Env, url, language, output string, workers int, model string) error {
	ctx := cmd.Context()

	// === VALIDATION (fail-fast) ===

	videoID, err := youtube.ExtractVideoID(url)
	if err != nil {
		return err
	}

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	language = resolveTargetLang(language, cfg)
	if err := lang.Validate(language); err != nil {
		return err
	}

	defaultOutput := fmt.Sprintf("%s_%s.txt", videoID, language)
	output = config.ResolveOutputPath(output, cfg.OutputDir, defaultOutput)
	if err := checkOutputNew(output); err != nil {
		return err
	}

	workers = clampParallel(workers)

	apiKey := env.Getenv(EnvOpenAIAPIKey)
	if apiKey == "" {
		return fmt.Errorf("%w (set it with: export %s=sk-...)", ErrAPIKeyMissing, EnvOpenAIAPIKey)
	}

	// === PIPELINE ===

	start := env.Now()

	translated, _, err := fetchAndTranslate(ctx, env, videoID, language, apiKey, model, workers)
	if err != nil {
		return err
	}

	// === WRITE OUTPUT ===

	var b strings.Builder
	for _, c := range translated {
		fmt.Fprintf(&b, "[%s] %s\n\n", format.Seconds(c.Start), c.Text)
	}

	if err := writeFileAtomic(output, b.String()); err != nil {
		return err
	}

	reportDone(env, start, output)
	return nil
}

// resolveTargetLang applies flag, config and built-in default in that order.
func resolveTargetLang(flagValue string, cfg config.Config) string {
	switch {
	case flagValue != "":
		return lang.Normalize(flagValue)
	case cfg.Lang != "":
		return lang.Normalize(cfg.Lang)
	default:
		return lang.DefaultTarget
	}
}
