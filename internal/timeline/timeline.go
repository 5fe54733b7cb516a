// Package timeline assembles synthesized clips into one continuous dub
// track, filling transcript gaps with silence so each clip plays at its
// original timestamp.
package timeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/ytranslate/ytranslate/internal/audio"
	"github.com/ytranslate/ytranslate/internal/tts"
)

// ErrNoClips indicates every clip failed synthesis, leaving nothing to assemble.
var ErrNoClips = errors.New("no clips to assemble")

// minSilence is the shortest silence worth encoding. Gaps below this come
// from timestamp rounding, not from real pauses.
const minSilence = 10 * time.Millisecond

// Assembler builds the final dub track from clips and silence.
type Assembler struct {
	toolchain *audio.Toolchain
	stderr    io.Writer
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithStderr sets the writer for warnings.
func WithStderr(w io.Writer) AssemblerOption {
	return func(a *Assembler) { a.stderr = w }
}

// NewAssembler creates an Assembler using the given toolchain.
func NewAssembler(toolchain *audio.Toolchain, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		toolchain: toolchain,
		stderr:    os.Stderr,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble concatenates clips in order into outPath, inserting silence
// wherever a clip starts later than the running cursor. Clips with an empty
// path (failed synthesis) are skipped with a warning; the silence logic then
// covers their window. When target is positive and the assembled track ends
// short of it, trailing silence pads the difference so the track can be
// muxed against the full-length video.
//
// dir holds the intermediate silence files and must outlive the call.
func (a *Assembler) Assemble(ctx context.Context, clips []tts.Clip, dir, outPath string, target time.Duration) error {
	var parts []string
	cursor := time.Duration(0)

	for _, clip := range clips {
		if clip.Path == "" {
			fmt.Fprintf(a.stderr, "Warning: no audio for chunk %d, leaving silence\n", clip.Index)
			continue
		}

		start := secondsToDuration(clip.Start)
		if gap := start - cursor; gap >= minSilence {
			silencePath := filepath.Join(dir, fmt.Sprintf("silence_%04d.mp3", clip.Index))
			if err := a.toolchain.Silence(ctx, silencePath, gap); err != nil {
				return err
			}
			parts = append(parts, silencePath)
			cursor = start
		}

		parts = append(parts, clip.Path)

		d, err := a.toolchain.Duration(ctx, clip.Path)
		if err != nil {
			// Unknown length shifts subsequent timing, but keeping the clip
			// beats dropping finished speech.
			fmt.Fprintf(a.stderr, "Warning: cannot probe chunk %d duration: %v\n", clip.Index, err)
			d = 0
		}
		cursor += d
	}

	if len(parts) == 0 {
		return ErrNoClips
	}

	if target > 0 {
		if pad := target - cursor; pad >= minSilence {
			padPath := filepath.Join(dir, "silence_tail.mp3")
			if err := a.toolchain.Silence(ctx, padPath, pad); err != nil {
				return err
			}
			parts = append(parts, padPath)
		}
	}

	return a.toolchain.Concat(ctx, parts, outPath)
}

// secondsToDuration converts a float timestamp to Duration at millisecond
// precision, matching the rounding on the silence lengths.
func secondsToDuration(s float64) time.Duration {
	return time.Duration(math.Round(s*1000)) * time.Millisecond
}
