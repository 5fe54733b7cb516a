package cli

import (
	"context"
	"io"
	"os"
	"os/exec"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ytranslate/ytranslate/internal/audio"
	"github.com/ytranslate/ytranslate/internal/config"
	"github.com/ytranslate/ytranslate/internal/deepl"
	"github.com/ytranslate/ytranslate/internal/ffmpeg"
	"github.com/ytranslate/ytranslate/internal/timeline"
	"github.com/ytranslate/ytranslate/internal/translate"
	"github.com/ytranslate/ytranslate/internal/tts"
	"github.com/ytranslate/ytranslate/internal/video"
	"github.com/ytranslate/ytranslate/internal/youtube"
)

// Environment variable names read by commands.
const (
	EnvOpenAIAPIKey   = "OPENAI_API_KEY"
	EnvDeepLAPIKey    = "DEEPL_API_KEY"
	EnvYouTubeProxy   = "YOUTUBE_PROXY"
	EnvYouTubeCookies = "YOUTUBE_COOKIES_PATH"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stderr   io.Writer
	Getenv   func(string) string
	LookPath func(string) (string, error)
	Now      func() time.Time

	// Factories for domain objects
	FFmpegResolver     FFmpegResolver
	ConfigLoader       ConfigLoader
	TranscriptFactory  TranscriptFactory
	TranslatorFactory  TranslatorFactory
	SynthesizerFactory SynthesizerFactory
	MediaFactory       MediaFactory
	DownloaderFactory  DownloaderFactory
	DeepLFactory       DeepLFactory
}

// FFmpegResolver resolves the path to the FFmpeg binary.
type FFmpegResolver interface {
	Resolve(ctx context.Context) (string, error)
	CheckVersion(ctx context.Context, ffmpegPath string)
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// TranscriptFetcher fetches a video's timed transcript.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) (youtube.Transcript, error)
}

// TranscriptFactory creates transcript fetchers.
type TranscriptFactory interface {
	NewFetcher(opts ...youtube.TranscriptOption) TranscriptFetcher
}

// TranslatorFactory creates translators for transcript text.
type TranslatorFactory interface {
	NewTranslator(apiKey string, opts ...translate.TranslatorOption) translate.Translator
}

// SynthesizerFactory creates speech synthesizers.
type SynthesizerFactory interface {
	NewSynthesizer(apiKey string, opts ...tts.SynthesizerOption) tts.Synthesizer
}

// MediaProber probes and extracts media with FFmpeg.
type MediaProber interface {
	Duration(ctx context.Context, path string) (time.Duration, error)
	Extract(ctx context.Context, videoPath, outPath string) error
}

// MediaAssembler builds the dub track from clips.
type MediaAssembler interface {
	Assemble(ctx context.Context, clips []tts.Clip, dir, outPath string, target time.Duration) error
}

// VideoMuxer merges a dub track into a video.
type VideoMuxer interface {
	Mux(ctx context.Context, req video.MuxRequest) error
}

// MediaFactory creates FFmpeg-backed media processors for a resolved binary.
type MediaFactory interface {
	NewProber(ffmpegPath string) MediaProber
	NewFitter(ffmpegPath string) tts.Fitter
	NewAssembler(ffmpegPath string, stderr io.Writer) MediaAssembler
	NewMuxer(ffmpegPath string) VideoMuxer
}

// VideoDownloader downloads a video into a directory.
type VideoDownloader interface {
	Download(ctx context.Context, videoID, dir string) (string, error)
}

// DownloaderFactory resolves and creates yt-dlp downloaders.
type DownloaderFactory interface {
	Resolve(getenv func(string) string, lookPath func(string) (string, error)) (string, error)
	NewDownloader(path string) VideoDownloader
}

// DocumentTranslator translates a document file.
type DocumentTranslator interface {
	TranslateDocument(ctx context.Context, inPath, outPath, targetLang string) error
}

// DeepLFactory creates document translators.
type DeepLFactory interface {
	NewClient(apiKey string, opts ...deepl.ClientOption) DocumentTranslator
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithLookPath sets the PATH lookup function.
func WithLookPath(fn func(string) (string, error)) EnvOption {
	return func(e *Env) {
		e.LookPath = fn
	}
}

// WithNow sets the time provider.
func WithNow(fn func() time.Time) EnvOption {
	return func(e *Env) {
		e.Now = fn
	}
}

// WithFFmpegResolver sets the FFmpeg resolver.
func WithFFmpegResolver(r FFmpegResolver) EnvOption {
	return func(e *Env) {
		e.FFmpegResolver = r
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithTranscriptFactory sets the transcript fetcher factory.
func WithTranscriptFactory(f TranscriptFactory) EnvOption {
	return func(e *Env) {
		e.TranscriptFactory = f
	}
}

// WithTranslatorFactory sets the translator factory.
func WithTranslatorFactory(f TranslatorFactory) EnvOption {
	return func(e *Env) {
		e.TranslatorFactory = f
	}
}

// WithSynthesizerFactory sets the synthesizer factory.
func WithSynthesizerFactory(f SynthesizerFactory) EnvOption {
	return func(e *Env) {
		e.SynthesizerFactory = f
	}
}

// WithMediaFactory sets the media processor factory.
func WithMediaFactory(f MediaFactory) EnvOption {
	return func(e *Env) {
		e.MediaFactory = f
	}
}

// WithDownloaderFactory sets the downloader factory.
func WithDownloaderFactory(f DownloaderFactory) EnvOption {
	return func(e *Env) {
		e.DownloaderFactory = f
	}
}

// WithDeepLFactory sets the document translator factory.
func WithDeepLFactory(f DeepLFactory) EnvOption {
	return func(e *Env) {
		e.DeepLFactory = f
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stderr:             os.Stderr,
		Getenv:             os.Getenv,
		LookPath:           exec.LookPath,
		Now:                time.Now,
		FFmpegResolver:     &defaultFFmpegResolver{},
		ConfigLoader:       &defaultConfigLoader{},
		TranscriptFactory:  &defaultTranscriptFactory{},
		TranslatorFactory:  &defaultTranslatorFactory{},
		SynthesizerFactory: &defaultSynthesizerFactory{},
		MediaFactory:       &defaultMediaFactory{},
		DownloaderFactory:  &defaultDownloaderFactory{},
		DeepLFactory:       &defaultDeepLFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultFFmpegResolver implements FFmpegResolver using the ffmpeg package.
type defaultFFmpegResolver struct{}

func (defaultFFmpegResolver) Resolve(ctx context.Context) (string, error) {
	return ffmpeg.Resolve(ctx)
}

func (defaultFFmpegResolver) CheckVersion(ctx context.Context, ffmpegPath string) {
	ffmpeg.CheckVersion(ctx, ffmpegPath)
}

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultTranscriptFactory implements TranscriptFactory using the youtube package.
type defaultTranscriptFactory struct{}

func (defaultTranscriptFactory) NewFetcher(opts ...youtube.TranscriptOption) TranscriptFetcher {
	return youtube.NewTranscriptClient(opts...)
}

// defaultTranslatorFactory implements TranslatorFactory using OpenAI.
type defaultTranslatorFactory struct{}

func (defaultTranslatorFactory) NewTranslator(apiKey string, opts ...translate.TranslatorOption) translate.Translator {
	client := openai.NewClient(apiKey)
	return translate.NewOpenAITranslator(client, opts...)
}

// defaultSynthesizerFactory implements SynthesizerFactory using OpenAI.
type defaultSynthesizerFactory struct{}

func (defaultSynthesizerFactory) NewSynthesizer(apiKey string, opts ...tts.SynthesizerOption) tts.Synthesizer {
	client := openai.NewClient(apiKey)
	return tts.NewOpenAISynthesizer(client, opts...)
}

// defaultMediaFactory implements MediaFactory using the audio, timeline
// and video packages.
type defaultMediaFactory struct{}

func (defaultMediaFactory) NewProber(ffmpegPath string) MediaProber {
	return audio.NewToolchain(ffmpegPath)
}

func (defaultMediaFactory) NewFitter(ffmpegPath string) tts.Fitter {
	return audio.NewFitter(audio.NewToolchain(ffmpegPath))
}

func (defaultMediaFactory) NewAssembler(ffmpegPath string, stderr io.Writer) MediaAssembler {
	return timeline.NewAssembler(audio.NewToolchain(ffmpegPath), timeline.WithStderr(stderr))
}

func (defaultMediaFactory) NewMuxer(ffmpegPath string) VideoMuxer {
	return video.NewMuxer(ffmpegPath)
}

// defaultDownloaderFactory implements DownloaderFactory using the video package.
type defaultDownloaderFactory struct{}

func (defaultDownloaderFactory) Resolve(getenv func(string) string, lookPath func(string) (string, error)) (string, error) {
	return video.ResolveDownloader(getenv, lookPath)
}

func (defaultDownloaderFactory) NewDownloader(path string) VideoDownloader {
	return video.NewDownloader(path)
}

// defaultDeepLFactory implements DeepLFactory using the deepl package.
type defaultDeepLFactory struct{}

func (defaultDeepLFactory) NewClient(apiKey string, opts ...deepl.ClientOption) DocumentTranslator {
	return deepl.NewClient(apiKey, opts...)
}

// Compile-time interface verification.
var (
	_ FFmpegResolver     = (*defaultFFmpegResolver)(nil)
	_ ConfigLoader       = (*defaultConfigLoader)(nil)
	_ TranscriptFactory  = (*defaultTranscriptFactory)(nil)
	_ TranslatorFactory  = (*defaultTranslatorFactory)(nil)
	_ SynthesizerFactory = (*defaultSynthesizerFactory)(nil)
	_ MediaFactory       = (*defaultMediaFactory)(nil)
	_ DownloaderFactory  = (*defaultDownloaderFactory)(nil)
	_ DeepLFactory       = (*defaultDeepLFactory)(nil)
)
