// Package translate turns transcript text into the target language using
// OpenAI chat completions. Translations are tuned for voice-over: natural
// phrasing wins over literal fidelity.
package translate

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ytranslate/ytranslate/internal/apierr"
	"github.com/ytranslate/ytranslate/internal/lang"
)

// DefaultModel is the chat model used for translation.
const DefaultModel = "gpt-4.1-mini-2025-04-14"

// defaultTemperature keeps translations close to the source while still
// allowing natural rephrasing.
const defaultTemperature = 0.3

// systemPrompt frames the model as a dubbing translator.
const systemPrompt = "You are a professional translator specializing in video dubbing and subtitles."

// Default retry configuration.
const (
	defaultMaxRetries = 5
	defaultBaseDelay  = 1 * time.Second
	defaultMaxDelay   = 30 * time.Second
)

// Translator translates a piece of text into the target language.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// chatCompleter is an internal interface for OpenAI chat completion.
// *openai.Client implements this implicitly.
// This allows injecting mocks in tests.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Compile-time interface compliance checks.
var (
	_ Translator    = (*OpenAITranslator)(nil)
	_ chatCompleter = (*openai.Client)(nil)
)

// OpenAITranslator translates text using OpenAI's chat API.
// It supports automatic retries with exponential backoff for transient errors.
type OpenAITranslator struct {
	client      chatCompleter
	model       string
	temperature float32
	maxRetries  int
	baseDelay   time.Duration
	maxDelay    time.Duration
}

// TranslatorOption configures an OpenAITranslator.
type TranslatorOption func(*OpenAITranslator)

// WithModel sets the chat model used for translation.
func WithModel(model string) TranslatorOption {
	return func(t *OpenAITranslator) {
		if model != "" {
			t.model = model
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temp float32) TranslatorOption {
	return func(t *OpenAITranslator) {
		if temp >= 0 {
			t.temperature = temp
		}
	}
}

// WithMaxRetries sets the maximum number of retry attempts.
func WithMaxRetries(n int) TranslatorOption {
	return func(t *OpenAITranslator) {
		if n >= 0 {
			t.maxRetries = n
		}
	}
}

// WithRetryDelays sets the base and max delays for exponential backoff.
func WithRetryDelays(base, max time.Duration) TranslatorOption {
	return func(t *OpenAITranslator) {
		if base > 0 {
			t.baseDelay = base
		}
		if max > 0 {
			t.maxDelay = max
		}
	}
}

// NewOpenAITranslator creates a new OpenAITranslator.
// The client is injected to enable testing with mocks.
func NewOpenAITranslator(client *openai.Client, opts ...TranslatorOption) *OpenAITranslator {
	t := &OpenAITranslator{
		client:      client,
		model:       DefaultModel,
		temperature: defaultTemperature,
		maxRetries:  defaultMaxRetries,
		baseDelay:   defaultBaseDelay,
		maxDelay:    defaultMaxDelay,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate translates text into targetLang.
// Empty or whitespace-only input returns an empty string without an API call.
func (t *OpenAITranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	prompt := fmt.Sprintf(
		"Translate the following text from a YouTube video transcript into %s. "+
			"The translation should be natural-sounding for voice-over, simplified if necessary, "+
			"and maintain the original meaning. Only return the translated text.\n\nText:\n%s",
		lang.DisplayName(targetLang), text)

	req := openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: t.temperature,
	}

	cfg := apierr.RetryConfig{
		MaxRetries: t.maxRetries,
		BaseDelay:  t.baseDelay,
		MaxDelay:   t.maxDelay,
	}

	return apierr.RetryWithBackoff(ctx, cfg, func() (string, error) {
		resp, err := t.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", apierr.ClassifyOpenAI(err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("empty completion response")
		}
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	}, apierr.IsRetryable)
}
