package translate

import (
	"context"
	"fmt"
	"io"

	"github.com/ytranslate/ytranslate/internal/parallel"
	"github.com/ytranslate/ytranslate/internal/transcript"
)

// Chunk is a translated transcript chunk with its resolved time window.
type Chunk struct {
	Start        float64 // Seconds from video start
	End          float64 // Seconds from video start
	Text         string  // Translated text
	OriginalText string  // Source text, kept for logs and fallbacks
}

// Duration returns the chunk's window length in seconds.
func (c Chunk) Duration() float64 {
	return c.End - c.Start
}

// ChunksOptions configures a Chunks call.
type ChunksOptions struct {
	// TargetLang is the translation target language code.
	TargetLang string

	// Workers limits concurrent API requests. Values below 1 run serially.
	Workers int

	// Estimate configures duration estimation for chunks whose transcript
	// carries no explicit timing.
	Estimate transcript.EstimateConfig

	// Stderr receives per-chunk fallback warnings. Nil discards them.
	Stderr io.Writer
}

// Chunks translates transcript chunks in parallel, preserving input order.
//
// Translation is fail-soft per chunk: when a chunk's translation fails after
// retries, its source text is carried through unchanged and a warning is
// written to Stderr, so one bad chunk never sinks the whole video. Chunks
// whose text ends up empty are dropped. Only context cancellation aborts
// the operation.
func Chunks(
	ctx context.Context,
	tr Translator,
	chunks []transcript.Chunk,
	opts ChunksOptions,
) ([]Chunk, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	est := opts.Estimate
	workers := parallel.Clamp(len(chunks), opts.Workers, parallel.MaxRecommendedWorkers)

	texts, errs, err := parallel.Map(ctx, chunks, workers,
		func(ctx context.Context, i int, c transcript.Chunk) (string, error) {
			return tr.Translate(ctx, c.Text(), opts.TargetLang)
		})
	if err != nil {
		return nil, err
	}

	out := make([]Chunk, 0, len(chunks))
	for i, c := range chunks {
		text := texts[i]
		if errs[i] != nil {
			// Fall back to the source text so timing stays intact.
			if opts.Stderr != nil {
				fmt.Fprintf(opts.Stderr, "Warning: chunk %d translation failed (%v), keeping source text\n", i, errs[i])
			}
			text = c.Text()
		}
		if text == "" {
			continue
		}

		out = append(out, Chunk{
			Start:        c.Start(),
			End:          transcript.ResolveEnd(c, est),
			Text:         text,
			OriginalText: c.Text(),
		})
	}

	return out, nil
}
