package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/ytranslate/ytranslate/internal/parallel"
	"github.com/ytranslate/ytranslate/internal/transcript"
	"github.com/ytranslate/ytranslate/internal/translate"
	"github.com/ytranslate/ytranslate/internal/youtube"
)

// clampParallel constrains parallel request count to valid range [1, MaxRecommendedWorkers].
func clampParallel(n int) int {
	if n < 1 {
		return 1
	}
	if n > parallel.MaxRecommendedWorkers {
		return parallel.MaxRecommendedWorkers
	}
	return n
}

// newFetcher builds a transcript fetcher from the environment: proxies from
// YOUTUBE_PROXY (comma-separated), cookies from YOUTUBE_COOKIES_PATH.
func newFetcher(env *Env) (TranscriptFetcher, error) {
	opts := []youtube.TranscriptOption{
		youtube.WithTranscriptStderr(env.Stderr),
	}

	if raw := env.Getenv(EnvYouTubeProxy); raw != "" {
		var proxies []string
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				proxies = append(proxies, p)
			}
		}
		opts = append(opts, youtube.WithTranscriptProxies(proxies))
	}

	if path := env.Getenv(EnvYouTubeCookies); path != "" {
		cookies, err := youtube.LoadCookieFile(path)
		if err != nil {
			return nil, fmt.Errorf("load YouTube cookies: %w", err)
		}
		opts = append(opts, youtube.WithTranscriptCookies(cookies))
	}

	return env.TranscriptFactory.NewFetcher(opts...), nil
}

// fetchAndTranslate runs the text half of the pipeline: fetch the transcript,
// group it into chunks, translate them.
func fetchAndTranslate(
	ctx context.Context,
	env *Env,
	videoID, targetLang, apiKey, model string,
	workers int,
) ([]translate.Chunk, []transcript.Segment, error) {
	fetcher, err := newFetcher(env)
	if err != nil {
		return nil, nil, err
	}

	fmt.Fprintln(env.Stderr, "Fetching transcript...")
	tr, err := fetcher.Fetch(ctx, videoID)
	if err != nil {
		return nil, nil, err
	}

	chunks := transcript.Split(tr.Segments, transcript.DefaultMaxChunkChars)
	if len(chunks) == 0 {
		return nil, nil, fmt.Errorf("%w: video %s", ErrEmptyTranscript, videoID)
	}
	fmt.Fprintf(env.Stderr, "Grouped %d segments into %d chunks\n", len(tr.Segments), len(chunks))

	var trOpts []translate.TranslatorOption
	if model != "" {
		trOpts = append(trOpts, translate.WithModel(model))
	}
	translator := env.TranslatorFactory.NewTranslator(apiKey, trOpts...)

	fmt.Fprintln(env.Stderr, "Translating...")
	translated, err := translate.Chunks(ctx, translator, chunks, translate.ChunksOptions{
		TargetLang: targetLang,
		Workers:    workers,
		Estimate:   transcript.DefaultEstimate,
		Stderr:     env.Stderr,
	})
	if err != nil {
		return nil, nil, err
	}
	if len(translated) == 0 {
		return nil, nil, fmt.Errorf("%w: video %s", ErrEmptyTranscript, videoID)
	}

	return translated, tr.Segments, nil
}
