package tts

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/ytranslate/ytranslate/internal/audio"
	"github.com/ytranslate/ytranslate/internal/parallel"
	"github.com/ytranslate/ytranslate/internal/translate"
)

// Fitter adjusts a clip to a target window, returning the path holding the
// fitted audio. *audio.Fitter implements this.
type Fitter interface {
	Fit(ctx context.Context, inPath, outPath string, target time.Duration) (string, error)
}

var _ Fitter = (*audio.Fitter)(nil)

// Clip is one synthesized chunk placed on the dub timeline.
// A failed or empty chunk yields a Clip with an empty Path so the
// assembler can skip it without losing positional information.
type Clip struct {
	Index int     // Position in the chunk sequence
	Start float64 // Seconds from video start
	Path  string  // Fitted MP3 file, empty if synthesis failed
}

// ClipsOptions configures a SynthesizeAll call.
type ClipsOptions struct {
	// Workers limits concurrent API requests. Values below 1 run serially.
	Workers int

	// Stderr receives per-chunk failure warnings. Nil discards them.
	Stderr io.Writer
}

// SynthesizeAll voices translated chunks in parallel into dir and fits each
// clip into its time window. Clips come back in chunk order.
//
// Synthesis is fail-soft per chunk: a chunk whose synthesis fails after
// retries produces a Clip with an empty Path and a warning, and the rest of
// the dub proceeds. Only context cancellation aborts the operation.
func SynthesizeAll(
	ctx context.Context,
	synth Synthesizer,
	fitter Fitter,
	chunks []translate.Chunk,
	dir string,
	opts ClipsOptions,
) ([]Clip, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	workers := parallel.Clamp(len(chunks), opts.Workers, parallel.MaxRecommendedWorkers)

	paths, errs, err := parallel.Map(ctx, chunks, workers,
		func(ctx context.Context, i int, c translate.Chunk) (string, error) {
			if c.Text == "" {
				return "", nil
			}

			rawPath := filepath.Join(dir, fmt.Sprintf("chunk_%04d.mp3", i))
			if err := synth.Synthesize(ctx, c.Text, rawPath); err != nil {
				return "", err
			}

			window := clipWindow(chunks, i)
			if window <= 0 {
				return rawPath, nil
			}

			fitted, err := fitter.Fit(ctx, rawPath, filepath.Join(dir, fmt.Sprintf("adj_%04d.mp3", i)), window)
			if err != nil {
				// An unfitted clip still beats a silent gap.
				return rawPath, nil
			}
			return fitted, nil
		})
	if err != nil {
		return nil, err
	}

	clips := make([]Clip, len(chunks))
	for i, c := range chunks {
		clips[i] = Clip{Index: i, Start: c.Start, Path: paths[i]}
		if errs[i] != nil && opts.Stderr != nil {
			fmt.Fprintf(opts.Stderr, "Warning: chunk %d synthesis failed (%v), skipping\n", i, errs[i])
		}
	}

	return clips, nil
}

// clipWindow returns the time available for chunk i: its own window when the
// end is known, otherwise the gap to the next chunk's start. The final chunk
// without an end gets no window and plays at natural length.
func clipWindow(chunks []translate.Chunk, i int) time.Duration {
	c := chunks[i]
	if c.End > c.Start {
		return time.Duration((c.End - c.Start) * float64(time.Second))
	}
	if i+1 < len(chunks) {
		return time.Duration((chunks[i+1].Start - c.Start) * float64(time.Second))
	}
	return 0
}
