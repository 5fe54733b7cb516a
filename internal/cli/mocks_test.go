package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ytranslate/ytranslate/internal/config"
	"github.com/ytranslate/ytranslate/internal/deepl"
	"github.com/ytranslate/ytranslate/internal/transcript"
	"github.com/ytranslate/ytranslate/internal/translate"
	"github.com/ytranslate/ytranslate/internal/tts"
	"github.com/ytranslate/ytranslate/internal/video"
	"github.com/ytranslate/ytranslate/internal/youtube"
)

// ---------------------------------------------------------------------------
// Mock FFmpegResolver
// ---------------------------------------------------------------------------

type mockFFmpegResolver struct {
	ResolveFunc      func(ctx context.Context) (string, error)
	CheckVersionFunc func(ctx context.Context, ffmpegPath string)

	mu           sync.Mutex
	resolveCalls int
}

func (m *mockFFmpegResolver) Resolve(ctx context.Context) (string, error) {
	m.mu.Lock()
	m.resolveCalls++
	m.mu.Unlock()

	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx)
	}
	return "/usr/bin/ffmpeg", nil
}

func (m *mockFFmpegResolver) CheckVersion(ctx context.Context, ffmpegPath string) {
	if m.CheckVersionFunc != nil {
		m.CheckVersionFunc(ctx, ffmpegPath)
	}
}

func (m *mockFFmpegResolver) ResolveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolveCalls
}

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return config.Config{}, nil
}

// ---------------------------------------------------------------------------
// Mock TranscriptFactory + TranscriptFetcher
// ---------------------------------------------------------------------------

type mockTranscriptFactory struct {
	NewFetcherFunc func(opts ...youtube.TranscriptOption) TranscriptFetcher

	mu              sync.Mutex
	newFetcherCalls int
	mockFetcher     *mockTranscriptFetcher
}

func (m *mockTranscriptFactory) NewFetcher(opts ...youtube.TranscriptOption) TranscriptFetcher {
	m.mu.Lock()
	m.newFetcherCalls++
	m.mu.Unlock()

	if m.NewFetcherFunc != nil {
		return m.NewFetcherFunc(opts...)
	}
	if m.mockFetcher != nil {
		return m.mockFetcher
	}
	return &mockTranscriptFetcher{}
}

func (m *mockTranscriptFactory) NewFetcherCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.newFetcherCalls
}

type mockTranscriptFetcher struct {
	FetchFunc func(ctx context.Context, videoID string) (youtube.Transcript, error)

	mu         sync.Mutex
	fetchCalls []string
}

func (m *mockTranscriptFetcher) Fetch(ctx context.Context, videoID string) (youtube.Transcript, error) {
	m.mu.Lock()
	m.fetchCalls = append(m.fetchCalls, videoID)
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, videoID)
	}
	// A short two-segment transcript by default.
	return youtube.Transcript{
		Segments: []transcript.Segment{
			{Text: "hello world", Start: 0, Duration: 2, HasDuration: true},
			{Text: "goodbye", Start: 2, Duration: 2, HasDuration: true},
		},
		Language: "en",
	}, nil
}

func (m *mockTranscriptFetcher) FetchCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.fetchCalls...)
}

// ---------------------------------------------------------------------------
// Mock TranslatorFactory + Translator
// ---------------------------------------------------------------------------

type mockTranslatorFactory struct {
	NewTranslatorFunc func(apiKey string, opts ...translate.TranslatorOption) translate.Translator

	mu                 sync.Mutex
	newTranslatorCalls []string // API keys passed
	mockTranslator     *mockTranslator
}

func (m *mockTranslatorFactory) NewTranslator(apiKey string, opts ...translate.TranslatorOption) translate.Translator {
	m.mu.Lock()
	m.newTranslatorCalls = append(m.newTranslatorCalls, apiKey)
	m.mu.Unlock()

	if m.NewTranslatorFunc != nil {
		return m.NewTranslatorFunc(apiKey, opts...)
	}
	if m.mockTranslator != nil {
		return m.mockTranslator
	}
	return &mockTranslator{}
}

func (m *mockTranslatorFactory) NewTranslatorCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.newTranslatorCalls...)
}

type mockTranslator struct {
	TranslateFunc func(ctx context.Context, text, targetLang string) (string, error)

	mu             sync.Mutex
	translateCalls []string // Texts passed
}

func (m *mockTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	m.mu.Lock()
	m.translateCalls = append(m.translateCalls, text)
	m.mu.Unlock()

	if m.TranslateFunc != nil {
		return m.TranslateFunc(ctx, text, targetLang)
	}
	return "translated text", nil
}

func (m *mockTranslator) TranslateCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.translateCalls...)
}

// ---------------------------------------------------------------------------
// Mock SynthesizerFactory + Synthesizer
// ---------------------------------------------------------------------------

type mockSynthesizerFactory struct {
	NewSynthesizerFunc func(apiKey string, opts ...tts.SynthesizerOption) tts.Synthesizer

	mu                  sync.Mutex
	newSynthesizerCalls []string // API keys passed
	mockSynthesizer     *mockSynthesizer
}

func (m *mockSynthesizerFactory) NewSynthesizer(apiKey string, opts ...tts.SynthesizerOption) tts.Synthesizer {
	m.mu.Lock()
	m.newSynthesizerCalls = append(m.newSynthesizerCalls, apiKey)
	m.mu.Unlock()

	if m.NewSynthesizerFunc != nil {
		return m.NewSynthesizerFunc(apiKey, opts...)
	}
	if m.mockSynthesizer != nil {
		return m.mockSynthesizer
	}
	return &mockSynthesizer{}
}

type mockSynthesizer struct {
	SynthesizeFunc func(ctx context.Context, text, outPath string) error

	mu              sync.Mutex
	synthesizeCalls []string // Texts passed
}

func (m *mockSynthesizer) Synthesize(ctx context.Context, text, outPath string) error {
	m.mu.Lock()
	m.synthesizeCalls = append(m.synthesizeCalls, text)
	m.mu.Unlock()

	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, text, outPath)
	}
	// Produce a real file so downstream stages have something to read.
	return os.WriteFile(outPath, []byte("synthesized audio"), 0644)
}

func (m *mockSynthesizer) SynthesizeCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.synthesizeCalls...)
}

// ---------------------------------------------------------------------------
// Mock MediaFactory + media processors
// ---------------------------------------------------------------------------

type mockMediaFactory struct {
	mockProber    *mockProber
	mockFitter    *mockMediaFitter
	mockAssembler *mockAssembler
	mockMuxer     *mockMuxer
}

func (m *mockMediaFactory) NewProber(ffmpegPath string) MediaProber {
	if m.mockProber != nil {
		return m.mockProber
	}
	return &mockProber{}
}

func (m *mockMediaFactory) NewFitter(ffmpegPath string) tts.Fitter {
	if m.mockFitter != nil {
		return m.mockFitter
	}
	return &mockMediaFitter{}
}

func (m *mockMediaFactory) NewAssembler(ffmpegPath string, stderr io.Writer) MediaAssembler {
	if m.mockAssembler != nil {
		return m.mockAssembler
	}
	return &mockAssembler{}
}

func (m *mockMediaFactory) NewMuxer(ffmpegPath string) VideoMuxer {
	if m.mockMuxer != nil {
		return m.mockMuxer
	}
	return &mockMuxer{}
}

type mockProber struct {
	DurationFunc func(ctx context.Context, path string) (time.Duration, error)
	ExtractFunc  func(ctx context.Context, videoPath, outPath string) error

	mu           sync.Mutex
	extractCalls []string // Video paths passed
}

func (m *mockProber) Duration(ctx context.Context, path string) (time.Duration, error) {
	if m.DurationFunc != nil {
		return m.DurationFunc(ctx, path)
	}
	return time.Minute, nil
}

func (m *mockProber) Extract(ctx context.Context, videoPath, outPath string) error {
	m.mu.Lock()
	m.extractCalls = append(m.extractCalls, videoPath)
	m.mu.Unlock()

	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, videoPath, outPath)
	}
	return os.WriteFile(outPath, []byte("original audio"), 0644)
}

func (m *mockProber) ExtractCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.extractCalls...)
}

type mockMediaFitter struct {
	FitFunc func(ctx context.Context, inPath, outPath string, target time.Duration) (string, error)
}

func (m *mockMediaFitter) Fit(ctx context.Context, inPath, outPath string, target time.Duration) (string, error) {
	if m.FitFunc != nil {
		return m.FitFunc(ctx, inPath, outPath, target)
	}
	return inPath, nil
}

type mockAssembler struct {
	AssembleFunc func(ctx context.Context, clips []tts.Clip, dir, outPath string, target time.Duration) error

	mu            sync.Mutex
	assembleCalls []assembleCall
}

type assembleCall struct {
	Clips  []tts.Clip
	Target time.Duration
}

func (m *mockAssembler) Assemble(ctx context.Context, clips []tts.Clip, dir, outPath string, target time.Duration) error {
	m.mu.Lock()
	m.assembleCalls = append(m.assembleCalls, assembleCall{Clips: clips, Target: target})
	m.mu.Unlock()

	if m.AssembleFunc != nil {
		return m.AssembleFunc(ctx, clips, dir, outPath, target)
	}
	return os.WriteFile(outPath, []byte("dub track"), 0644)
}

func (m *mockAssembler) AssembleCalls() []assembleCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]assembleCall, len(m.assembleCalls))
	copy(result, m.assembleCalls)
	return result
}

type mockMuxer struct {
	MuxFunc func(ctx context.Context, req video.MuxRequest) error

	mu       sync.Mutex
	muxCalls []video.MuxRequest
}

func (m *mockMuxer) Mux(ctx context.Context, req video.MuxRequest) error {
	m.mu.Lock()
	m.muxCalls = append(m.muxCalls, req)
	m.mu.Unlock()

	if m.MuxFunc != nil {
		return m.MuxFunc(ctx, req)
	}
	return os.WriteFile(req.OutPath, []byte("muxed video"), 0644)
}

func (m *mockMuxer) MuxCalls() []video.MuxRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]video.MuxRequest, len(m.muxCalls))
	copy(result, m.muxCalls)
	return result
}

// ---------------------------------------------------------------------------
// Mock DownloaderFactory + VideoDownloader
// ---------------------------------------------------------------------------

type mockDownloaderFactory struct {
	ResolveFunc       func(getenv func(string) string, lookPath func(string) (string, error)) (string, error)
	NewDownloaderFunc func(path string) VideoDownloader

	mu             sync.Mutex
	resolveCalls   int
	mockDownloader *mockDownloader
}

func (m *mockDownloaderFactory) Resolve(getenv func(string) string, lookPath func(string) (string, error)) (string, error) {
	m.mu.Lock()
	m.resolveCalls++
	m.mu.Unlock()

	if m.ResolveFunc != nil {
		return m.ResolveFunc(getenv, lookPath)
	}
	return "/usr/bin/yt-dlp", nil
}

func (m *mockDownloaderFactory) NewDownloader(path string) VideoDownloader {
	if m.NewDownloaderFunc != nil {
		return m.NewDownloaderFunc(path)
	}
	if m.mockDownloader != nil {
		return m.mockDownloader
	}
	return &mockDownloader{}
}

func (m *mockDownloaderFactory) ResolveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolveCalls
}

type mockDownloader struct {
	DownloadFunc func(ctx context.Context, videoID, dir string) (string, error)

	mu            sync.Mutex
	downloadCalls []string // Video IDs passed
}

func (m *mockDownloader) Download(ctx context.Context, videoID, dir string) (string, error) {
	m.mu.Lock()
	m.downloadCalls = append(m.downloadCalls, videoID)
	m.mu.Unlock()

	if m.DownloadFunc != nil {
		return m.DownloadFunc(ctx, videoID, dir)
	}
	path := filepath.Join(dir, videoID+".mp4")
	if err := os.WriteFile(path, []byte("video content"), 0644); err != nil {
		return "", err
	}
	return path, nil
}

func (m *mockDownloader) DownloadCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.downloadCalls...)
}

// ---------------------------------------------------------------------------
// Mock DeepLFactory + DocumentTranslator
// ---------------------------------------------------------------------------

type mockDeepLFactory struct {
	NewClientFunc func(apiKey string, opts ...deepl.ClientOption) DocumentTranslator

	mu             sync.Mutex
	newClientCalls []string // API keys passed
	mockTranslator *mockDocTranslator
}

func (m *mockDeepLFactory) NewClient(apiKey string, opts ...deepl.ClientOption) DocumentTranslator {
	m.mu.Lock()
	m.newClientCalls = append(m.newClientCalls, apiKey)
	m.mu.Unlock()

	if m.NewClientFunc != nil {
		return m.NewClientFunc(apiKey, opts...)
	}
	if m.mockTranslator != nil {
		return m.mockTranslator
	}
	return &mockDocTranslator{}
}

func (m *mockDeepLFactory) NewClientCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.newClientCalls...)
}

type mockDocTranslator struct {
	TranslateDocumentFunc func(ctx context.Context, inPath, outPath, targetLang string) error

	mu             sync.Mutex
	translateCalls []docTranslateCall
}

type docTranslateCall struct {
	InPath     string
	OutPath    string
	TargetLang string
}

func (m *mockDocTranslator) TranslateDocument(ctx context.Context, inPath, outPath, targetLang string) error {
	m.mu.Lock()
	m.translateCalls = append(m.translateCalls, docTranslateCall{InPath: inPath, OutPath: outPath, TargetLang: targetLang})
	m.mu.Unlock()

	if m.TranslateDocumentFunc != nil {
		return m.TranslateDocumentFunc(ctx, inPath, outPath, targetLang)
	}
	return os.WriteFile(outPath, []byte("translated document"), 0644)
}

func (m *mockDocTranslator) TranslateCalls() []docTranslateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]docTranslateCall, len(m.translateCalls))
	copy(result, m.translateCalls)
	return result
}

// ---------------------------------------------------------------------------
// Compile-time interface verification
// ---------------------------------------------------------------------------

var (
	_ FFmpegResolver       = (*mockFFmpegResolver)(nil)
	_ ConfigLoader         = (*mockConfigLoader)(nil)
	_ TranscriptFactory    = (*mockTranscriptFactory)(nil)
	_ TranscriptFetcher    = (*mockTranscriptFetcher)(nil)
	_ TranslatorFactory    = (*mockTranslatorFactory)(nil)
	_ translate.Translator = (*mockTranslator)(nil)
	_ SynthesizerFactory   = (*mockSynthesizerFactory)(nil)
	_ tts.Synthesizer      = (*mockSynthesizer)(nil)
	_ MediaFactory         = (*mockMediaFactory)(nil)
	_ MediaProber          = (*mockProber)(nil)
	_ tts.Fitter           = (*mockMediaFitter)(nil)
	_ MediaAssembler       = (*mockAssembler)(nil)
	_ VideoMuxer           = (*mockMuxer)(nil)
	_ DownloaderFactory    = (*mockDownloaderFactory)(nil)
	_ VideoDownloader      = (*mockDownloader)(nil)
	_ DeepLFactory         = (*mockDeepLFactory)(nil)
	_ DocumentTranslator   = (*mockDocTranslator)(nil)
)
