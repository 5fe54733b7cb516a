package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/ytranslate/ytranslate/internal/config"
)

// testURL is a well-formed YouTube URL used across command tests.
const testURL = "https://youtu.be/dQw4w9WgXcQ"

// testVideoID is the video ID embedded in testURL.
const testVideoID = "dQw4w9WgXcQ"

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Compile-time check that syncBuffer implements io.Writer.
var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// testMocks - convenience struct for grouping all mocks
// ---------------------------------------------------------------------------

type testMocks struct {
	ffmpegResolver *mockFFmpegResolver
	configLoader   *mockConfigLoader
	transcripts    *mockTranscriptFactory
	translators    *mockTranslatorFactory
	synthesizers   *mockSynthesizerFactory
	media          *mockMediaFactory
	downloaders    *mockDownloaderFactory
	deepl          *mockDeepLFactory
}

func newTestMocks() *testMocks {
	return &testMocks{
		ffmpegResolver: &mockFFmpegResolver{},
		configLoader:   &mockConfigLoader{},
		transcripts:    &mockTranscriptFactory{},
		translators:    &mockTranslatorFactory{},
		synthesizers:   &mockSynthesizerFactory{},
		media:          &mockMediaFactory{},
		downloaders:    &mockDownloaderFactory{},
		deepl:          &mockDeepLFactory{},
	}
}

// ---------------------------------------------------------------------------
// testEnv - creates a fully mocked Env for testing
// ---------------------------------------------------------------------------

// testEnvOptions configures a test environment.
type testEnvOptions struct {
	stderr *syncBuffer
	getenv func(string) string
	mocks  *testMocks
}

// testEnvOption configures testEnv.
type testEnvOption func(*testEnvOptions)

// withTestGetenv overrides the environment variable getter.
func withTestGetenv(fn func(string) string) testEnvOption {
	return func(o *testEnvOptions) { o.getenv = fn }
}

// withTestMocks overrides the mock set.
func withTestMocks(m *testMocks) testEnvOption {
	return func(o *testEnvOptions) { o.mocks = m }
}

// testEnv creates a test Env with all dependencies mocked.
// Returns the Env, the mocks for assertions, and the stderr buffer.
func testEnv(opts ...testEnvOption) (*Env, *testMocks, *syncBuffer) {
	options := &testEnvOptions{
		stderr: &syncBuffer{},
		getenv: defaultTestGetenv,
		mocks:  newTestMocks(),
	}

	for _, opt := range opts {
		opt(options)
	}

	env := &Env{
		Stderr:             options.stderr,
		Getenv:             options.getenv,
		LookPath:           func(string) (string, error) { return "/usr/bin/yt-dlp", nil },
		Now:                time.Now,
		FFmpegResolver:     options.mocks.ffmpegResolver,
		ConfigLoader:       options.mocks.configLoader,
		TranscriptFactory:  options.mocks.transcripts,
		TranslatorFactory:  options.mocks.translators,
		SynthesizerFactory: options.mocks.synthesizers,
		MediaFactory:       options.mocks.media,
		DownloaderFactory:  options.mocks.downloaders,
		DeepLFactory:       options.mocks.deepl,
	}

	return env, options.mocks, options.stderr
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// makeCmd creates a cobra.Command carrying the given context, as the run
// functions expect.
func makeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(ctx)
	return cmd
}

// staticEnv returns a getenv function backed by the given map.
func staticEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

// defaultTestGetenv returns API keys for both OpenAI and DeepL.
func defaultTestGetenv(key string) string {
	switch key {
	case EnvOpenAIAPIKey:
		return "test-openai-key"
	case EnvDeepLAPIKey:
		return "test-deepl-key"
	default:
		return ""
	}
}

// createTestFile creates a non-empty file in a temp dir and returns its path.
func createTestFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("test content"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

// configWith returns a ConfigLoader that returns the given config.
func configWith(cfg config.Config) *mockConfigLoader {
	return &mockConfigLoader{
		LoadFunc: func() (config.Config, error) {
			return cfg, nil
		},
	}
}
