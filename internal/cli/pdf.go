package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ytranslate/ytranslate/internal/config"
	"github.com/ytranslate/ytranslate/internal/deepl"
	"github.com/ytranslate/ytranslate/internal/lang"
)

// PDFCmd creates the pdf command.
// The env parameter provides injectable dependencies for testing.
func PDFCmd(env *Env) *cobra.Command {
	var (
		language string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "pdf <file.pdf>",
		Short: "Translate a PDF document",
		Long: `Translate a PDF document using the DeepL Document API.

The document's layout is preserved; DeepL translates the text in place.
Requires the DEEPL_API_KEY environment variable.`,
		Example: `  ytranslate pdf paper.pdf
  ytranslate pdf manual.pdf -l uk -o manual_uk.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPDF(cmd, env, args[0], language, output)
		},
	}

	cmd.Flags().StringVarP(&language, "lang", "l", "", "Target language (ISO 639-1 code, default: "+lang.DefaultTarget+")")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: <input>_<lang>.pdf)")

	return cmd
}

// runPDF executes the document translation.
// Validation order: file exists -> format -> language -> output -> API key
func runPDF(cmd *cobra.Command, env *Env, inputPath, language, output string) error {
	ctx := cmd.Context()

	// === VALIDATION (fail-fast) ===

	if _, err := os.Stat(inputPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, inputPath)
		}
		return fmt.Errorf("cannot access input file: %w", err)
	}

	if ext := strings.ToLower(filepath.Ext(inputPath)); ext != ".pdf" {
		return fmt.Errorf("%w: %q (only .pdf is supported)", ErrUnsupportedFormat, ext)
	}

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	language = resolveTargetLang(language, cfg)
	if err := lang.Validate(language); err != nil {
		return err
	}
	// Fail before upload if DeepL has no target for this language.
	if _, err := lang.DeepLCode(language); err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	defaultOutput := fmt.Sprintf("%s_%s.pdf", base, language)
	output = config.ResolveOutputPath(output, cfg.OutputDir, defaultOutput)

	if err := checkOutputNew(output); err != nil {
		return err
	}

	apiKey := env.Getenv(EnvDeepLAPIKey)
	if apiKey == "" {
		return fmt.Errorf("%w (set it with: export %s=...)", ErrDeepLKeyMissing, EnvDeepLAPIKey)
	}

	// === TRANSLATION ===

	start := env.Now()

	client := env.DeepLFactory.NewClient(apiKey, deepl.WithStderr(env.Stderr))
	if err := client.TranslateDocument(ctx, inputPath, output, language); err != nil {
		return err
	}

	reportDone(env, start, output)
	return nil
}
