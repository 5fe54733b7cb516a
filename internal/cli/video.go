package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ytranslate/ytranslate/internal/config"
	"github.com/ytranslate/ytranslate/internal/format"
	"github.com/ytranslate/ytranslate/internal/lang"
	"github.com/ytranslate/ytranslate/internal/parallel"
	"github.com/ytranslate/ytranslate/internal/transcript"
	"github.com/ytranslate/ytranslate/internal/translate"
	"github.com/ytranslate/ytranslate/internal/tts"
	"github.com/ytranslate/ytranslate/internal/video"
	"github.com/ytranslate/ytranslate/internal/youtube"
)

// Output formats for the video command.
const (
	FormatAudio = "audio"
	FormatVideo = "video"
)

// DefaultOriginalVolume is the background level for the source audio when
// --keep-original is set. Loud enough to preserve atmosphere, quiet enough
// not to fight the dub.
const DefaultOriginalVolume = 0.1

// videoOptions collects the video command's flag values.
type videoOptions struct {
	language       string
	outputFormat   string
	voice          string
	keepOriginal   bool
	originalVolume float64
	output         string
	workers        int
	model          string
	ttsModel       string
}

// VideoCmd creates the video command.
// The env parameter provides injectable dependencies for testing.
func VideoCmd(env *Env) *cobra.Command {
	var opts videoOptions

	cmd := &cobra.Command{
		Use:   "video <youtube-url>",
		Short: "Dub a YouTube video into another language",
		Long: `Dub a YouTube video: fetch its transcript, translate it, synthesize
speech, and assemble a time-aligned dub track.

With --format video (the default) the video is downloaded with yt-dlp and
the dub is muxed in, optionally mixing the original audio underneath with
--keep-original. With --format audio only the dub track is produced.`,
		Example: `  ytranslate video https://youtu.be/dQw4w9WgXcQ
  ytranslate video https://youtu.be/dQw4w9WgXcQ -l uk --voice onyx
  ytranslate video https://youtu.be/dQw4w9WgXcQ --keep-original --original-volume 0.2
  ytranslate video https://youtu.be/dQw4w9WgXcQ -f audio -o dub.mp3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVideo(cmd, env, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.language, "lang", "l", "", "Target language (ISO 639-1 code, default: "+lang.DefaultTarget+")")
	cmd.Flags().StringVarP(&opts.outputFormat, "format", "f", FormatVideo, "Output format: audio, video")
	cmd.Flags().StringVar(&opts.voice, "voice", string(tts.DefaultVoice), "TTS voice")
	cmd.Flags().BoolVar(&opts.keepOriginal, "keep-original", false, "Mix the original audio under the dub")
	cmd.Flags().Float64Var(&opts.originalVolume, "original-volume", DefaultOriginalVolume, "Original audio level when mixed (0.0-1.0)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file path (default: <video-id>_<lang>.mp4 or .mp3)")
	cmd.Flags().IntVarP(&opts.workers, "parallel", "p", parallel.MaxRecommendedWorkers, "Max concurrent API requests (1-10)")
	cmd.Flags().StringVar(&opts.model, "model", "", "Chat model for translation")
	cmd.Flags().StringVar(&opts.ttsModel, "tts-model", "", "Speech model for synthesis")

	return cmd
}

// runVideo executes the dubbing pipeline.
// Validation order: URL -> language -> format -> volume -> output -> parallel -> API key
func runVideo(cmd *cobra.Command, env *Env, url string, opts videoOptions) error {
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

	opts.language = resolveTargetLang(opts.language, cfg)
	if err := lang.Validate(opts.language); err != nil {
		return err
	}

	if opts.outputFormat != FormatAudio && opts.outputFormat != FormatVideo {
		return fmt.Errorf("%w: %q (use audio or video)", ErrInvalidOutputFormat, opts.outputFormat)
	}

	if opts.originalVolume < 0 || opts.originalVolume > 1 {
		return fmt.Errorf("%w: %g (must be 0.0-1.0)", ErrInvalidVolume, opts.originalVolume)
	}

	if opts.voice == "" {
		opts.voice = cfg.Voice
	}

	ext := ".mp4"
	if opts.outputFormat == FormatAudio {
		ext = ".mp3"
	}
	defaultOutput := fmt.Sprintf("%s_%s%s", videoID, opts.language, ext)
	opts.output = config.ResolveOutputPath(opts.output, cfg.OutputDir, defaultOutput)
	if err := checkOutputNew(opts.output); err != nil {
		return err
	}

	opts.workers = clampParallel(opts.workers)

	apiKey := env.Getenv(EnvOpenAIAPIKey)
	if apiKey == "" {
		return fmt.Errorf("%w (set it with: export %s=sk-...)", ErrAPIKeyMissing, EnvOpenAIAPIKey)
	}

	// === SETUP ===

	start := env.Now()

	// Resolve FFmpeg (may auto-download). Both formats need it for the
	// dub track; the video format additionally muxes with it.
	ffmpegPath, err := env.FFmpegResolver.Resolve(ctx)
	if err != nil {
		return err
	}
	env.FFmpegResolver.CheckVersion(ctx, ffmpegPath)

	// Resolve yt-dlp before any API spend.
	var downloader VideoDownloader
	if opts.outputFormat == FormatVideo {
		ytdlpPath, err := env.DownloaderFactory.Resolve(env.Getenv, env.LookPath)
		if err != nil {
			return err
		}
		downloader = env.DownloaderFactory.NewDownloader(ytdlpPath)
	}

	workDir, err := os.MkdirTemp("", "ytranslate_")
	if err != nil {
		return fmt.Errorf("cannot create work directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			fmt.Fprintf(env.Stderr, "Warning: failed to cleanup %s: %v\n", workDir, err)
		}
	}()

	prober := env.MediaFactory.NewProber(ffmpegPath)

	// === TRANSLATION and DOWNLOAD (concurrent) ===

	// The translation fan-out and the video download only share the network,
	// so they run side by side.
	var (
		translated   []translate.Chunk
		segments     []transcript.Segment
		videoPath    string
		originalPath string
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		chunks, segs, err := fetchAndTranslate(gctx, env, videoID, opts.language, apiKey, opts.model, opts.workers)
		if err != nil {
			return err
		}
		translated = chunks
		segments = segs
		return nil
	})

	if opts.outputFormat == FormatVideo {
		g.Go(func() error {
			fmt.Fprintln(env.Stderr, "Downloading video...")
			path, err := downloader.Download(gctx, videoID, workDir)
			if err != nil {
				return err
			}
			videoPath = path

			if opts.keepOriginal {
				fmt.Fprintln(env.Stderr, "Extracting original audio...")
				audioPath := filepath.Join(workDir, videoID+"_original.mp3")
				if err := prober.Extract(gctx, videoPath, audioPath); err != nil {
					// Mixing is best effort; the dub still replaces the audio.
					fmt.Fprintf(env.Stderr, "Warning: cannot extract original audio: %v\n", err)
					return nil
				}
				originalPath = audioPath
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	// === SYNTHESIS ===

	var synthOpts []tts.SynthesizerOption
	if opts.voice != "" {
		synthOpts = append(synthOpts, tts.WithVoice(opts.voice))
	}
	if opts.ttsModel != "" {
		synthOpts = append(synthOpts, tts.WithSpeechModel(opts.ttsModel))
	}
	synth := env.SynthesizerFactory.NewSynthesizer(apiKey, synthOpts...)
	fitter := env.MediaFactory.NewFitter(ffmpegPath)

	fmt.Fprintf(env.Stderr, "Synthesizing %d chunks...\n", len(translated))
	clips, err := tts.SynthesizeAll(ctx, synth, fitter, translated, workDir, tts.ClipsOptions{
		Workers: opts.workers,
		Stderr:  env.Stderr,
	})
	if err != nil {
		return err
	}

	// === ASSEMBLY ===

	target := secondsDuration(transcript.TotalDuration(segments))
	if opts.outputFormat == FormatVideo {
		if d, err := prober.Duration(ctx, videoPath); err == nil {
			target = d
		} else {
			fmt.Fprintf(env.Stderr, "Warning: cannot probe video duration: %v\n", err)
		}
	}

	dubPath := filepath.Join(workDir, "dub.mp3")
	assembler := env.MediaFactory.NewAssembler(ffmpegPath, env.Stderr)

	fmt.Fprintf(env.Stderr, "Assembling dub track (%s)...\n", format.Duration(target))
	if err := assembler.Assemble(ctx, clips, workDir, dubPath, target); err != nil {
		return err
	}

	if opts.outputFormat == FormatAudio {
		if err := deliverFile(dubPath, opts.output); err != nil {
			return err
		}
		reportDone(env, start, opts.output)
		return nil
	}

	// === MUX ===

	fmt.Fprintln(env.Stderr, "Merging dub into video...")
	muxer := env.MediaFactory.NewMuxer(ffmpegPath)
	muxedPath := filepath.Join(workDir, "out.mp4")

	req := video.MuxRequest{
		VideoPath: videoPath,
		DubPath:   dubPath,
		OutPath:   muxedPath,
	}
	if opts.keepOriginal && originalPath != "" {
		req.OriginalPath = originalPath
		req.OriginalVolume = opts.originalVolume
	}

	if muxErr := muxer.Mux(ctx, req); muxErr != nil {
		if errors.Is(muxErr, context.Canceled) {
			return muxErr
		}
		// The expensive work (translation, synthesis) is done, so salvage
		// the dub track instead of discarding it.
		audioOut := strings.TrimSuffix(opts.output, filepath.Ext(opts.output)) + ".mp3"
		fmt.Fprintf(env.Stderr, "Warning: mux failed (%v), saving dub track instead\n", muxErr)
		if err := deliverFile(dubPath, audioOut); err != nil {
			return muxErr
		}
		reportDone(env, start, audioOut)
		return nil
	}

	if err := deliverFile(muxedPath, opts.output); err != nil {
		return err
	}
	reportDone(env, start, opts.output)
	return nil
}

// secondsDuration converts float seconds to a time.Duration.
func secondsDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
