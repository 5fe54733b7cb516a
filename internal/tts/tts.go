// Package tts synthesizes speech from translated text using OpenAI's
// speech API and fits each clip into its transcript time window.
package tts

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ytranslate/ytranslate/internal/apierr"
)

// ModelGPT4oMiniTTS is the cost-effective speech model.
// Not yet defined in go-openai, so we define it locally.
const ModelGPT4oMiniTTS openai.SpeechModel = "gpt-4o-mini-tts"

// DefaultVoice is the voice used when the user does not pick one.
const DefaultVoice = openai.VoiceAlloy

// Default retry configuration.
const (
	defaultMaxRetries = 5
	defaultBaseDelay  = 1 * time.Second
	defaultMaxDelay   = 30 * time.Second
)

// Synthesizer generates speech audio for text, writing MP3 to outPath.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, outPath string) error
}

// speechCreator is an internal interface for OpenAI speech synthesis.
// *openai.Client implements this implicitly.
// This allows injecting mocks in tests.
type speechCreator interface {
	CreateSpeech(ctx context.Context, req openai.CreateSpeechRequest) (openai.RawResponse, error)
}

// Compile-time interface compliance checks.
var (
	_ Synthesizer   = (*OpenAISynthesizer)(nil)
	_ speechCreator = (*openai.Client)(nil)
)

// OpenAISynthesizer generates speech using OpenAI's speech API.
// It supports automatic retries with exponential backoff for transient errors.
type OpenAISynthesizer struct {
	client     speechCreator
	model      openai.SpeechModel
	voice      openai.SpeechVoice
	speed      float64
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// SynthesizerOption configures an OpenAISynthesizer.
type SynthesizerOption func(*OpenAISynthesizer)

// WithVoice sets the speech voice.
func WithVoice(voice string) SynthesizerOption {
	return func(s *OpenAISynthesizer) {
		if voice != "" {
			s.voice = openai.SpeechVoice(voice)
		}
	}
}

// WithSpeechModel sets the speech model.
func WithSpeechModel(model string) SynthesizerOption {
	return func(s *OpenAISynthesizer) {
		if model != "" {
			s.model = openai.SpeechModel(model)
		}
	}
}

// WithSpeed sets the base synthesis speed (the fitter applies fine
// adjustment afterwards).
func WithSpeed(speed float64) SynthesizerOption {
	return func(s *OpenAISynthesizer) {
		if speed > 0 {
			s.speed = speed
		}
	}
}

// WithMaxRetries sets the maximum number of retry attempts.
func WithMaxRetries(n int) SynthesizerOption {
	return func(s *OpenAISynthesizer) {
		if n >= 0 {
			s.maxRetries = n
		}
	}
}

// WithRetryDelays sets the base and max delays for exponential backoff.
func WithRetryDelays(base, max time.Duration) SynthesizerOption {
	return func(s *OpenAISynthesizer) {
		if base > 0 {
			s.baseDelay = base
		}
		if max > 0 {
			s.maxDelay = max
		}
	}
}

// NewOpenAISynthesizer creates a new OpenAISynthesizer.
// The client is injected to enable testing with mocks.
func NewOpenAISynthesizer(client *openai.Client, opts ...SynthesizerOption) *OpenAISynthesizer {
	s := &OpenAISynthesizer{
		client:     client,
		model:      ModelGPT4oMiniTTS,
		voice:      DefaultVoice,
		speed:      1.0,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
		maxDelay:   defaultMaxDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize generates speech for text and writes it to outPath as MP3.
// Empty or whitespace-only input writes nothing and returns nil.
func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text, outPath string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	req := openai.CreateSpeechRequest{
		Model: s.model,
		Input: text,
		Voice: s.voice,
		Speed: s.speed,
	}

	cfg := apierr.RetryConfig{
		MaxRetries: s.maxRetries,
		BaseDelay:  s.baseDelay,
		MaxDelay:   s.maxDelay,
	}

	_, err := apierr.RetryWithBackoff(ctx, cfg, func() (struct{}, error) {
		resp, err := s.client.CreateSpeech(ctx, req)
		if err != nil {
			return struct{}{}, apierr.ClassifyOpenAI(err)
		}
		defer func() { _ = resp.Close() }()

		if err := writeStream(outPath, resp); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	}, apierr.IsRetryable)

	return err
}

// writeStream copies the speech stream to disk.
func writeStream(outPath string, r io.Reader) error {
	f, err := os.Create(outPath) // #nosec G304 -- outPath is in our temp dir
	if err != nil {
		return fmt.Errorf("create audio file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(outPath)
		return fmt.Errorf("write audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(outPath)
		return fmt.Errorf("write audio file: %w", err)
	}
	return nil
}
