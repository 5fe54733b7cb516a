// Package audio wraps the FFmpeg operations the dubbing pipeline needs:
// probing durations, tempo adjustment, silence generation, concatenation
// and audio extraction.
package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ytranslate/ytranslate/internal/ffmpeg"
)

// MP3 encoding settings shared by every operation that re-encodes.
// V2 VBR is transparent for speech and keeps intermediate files small.
const (
	mp3Codec   = "libmp3lame"
	mp3Quality = "2"
)

// silenceSource is the lavfi source used to synthesize silence. The sample
// rate and layout must match the TTS output so concat does not resample.
const silenceSource = "anullsrc=r=44100:cl=stereo"

// Toolchain runs FFmpeg audio operations against a resolved binary.
type Toolchain struct {
	ffmpegPath string
	exec       *ffmpeg.Executor
}

// ToolchainOption configures a Toolchain.
type ToolchainOption func(*Toolchain)

// WithExecutor sets the FFmpeg executor (for testing).
func WithExecutor(e *ffmpeg.Executor) ToolchainOption {
	return func(t *Toolchain) { t.exec = e }
}

// NewToolchain creates a Toolchain using the given ffmpeg binary.
func NewToolchain(ffmpegPath string, opts ...ToolchainOption) *Toolchain {
	t := &Toolchain{
		ffmpegPath: ffmpegPath,
		exec:       ffmpeg.NewExecutor(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Duration probes a media file's duration.
// Decodes to the null muxer so the probe works on any input FFmpeg can read.
func (t *Toolchain) Duration(ctx context.Context, path string) (time.Duration, error) {
	output, err := t.exec.RunOutput(ctx, t.ffmpegPath, []string{
		"-i", path,
		"-f", "null", "-",
	})
	// FFmpeg exits non-zero on some valid probes; trust the parsed output.
	d, parseErr := ffmpeg.ParseDuration(output)
	if parseErr != nil {
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrNoDuration, path, err)
		}
		return 0, fmt.Errorf("%w: %s", ErrNoDuration, path)
	}
	return d, nil
}

// Stretch re-times an audio file by factor without changing pitch.
// A factor above 1.0 speeds the audio up, below 1.0 slows it down.
// The caller is responsible for keeping factor within atempo's 0.5-2.0 range.
func (t *Toolchain) Stretch(ctx context.Context, inPath, outPath string, factor float64) error {
	output, err := t.exec.RunOutput(ctx, t.ffmpegPath, []string{
		"-i", inPath,
		"-filter:a", fmt.Sprintf("atempo=%g", factor),
		"-y", outPath,
	})
	if err != nil {
		return opError("stretch", inPath, output, err)
	}
	return nil
}

// Silence writes d of stereo silence as MP3 to outPath.
func (t *Toolchain) Silence(ctx context.Context, outPath string, d time.Duration) error {
	output, err := t.exec.RunOutput(ctx, t.ffmpegPath, []string{
		"-f", "lavfi",
		"-i", silenceSource,
		"-t", fmt.Sprintf("%.3f", d.Seconds()),
		"-y", outPath,
	})
	if err != nil {
		return opError("silence", outPath, output, err)
	}
	return nil
}

// Concat joins files in order into a single MP3 using the concat demuxer.
// Inputs are re-encoded so mixed-bitrate parts (TTS output next to
// synthesized silence) join cleanly.
func (t *Toolchain) Concat(ctx context.Context, files []string, outPath string) error {
	if len(files) == 0 {
		return fmt.Errorf("%w: concat: no input files", ErrOperationFailed)
	}

	listPath := outPath + ".concat.txt"
	if err := writeConcatList(listPath, files); err != nil {
		return err
	}
	defer func() { _ = os.Remove(listPath) }()

	output, err := t.exec.RunOutput(ctx, t.ffmpegPath, []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", mp3Codec,
		"-q:a", mp3Quality,
		"-y", outPath,
	})
	if err != nil {
		return opError("concat", outPath, output, err)
	}
	return nil
}

// Extract demuxes the audio track of a video file into an MP3.
func (t *Toolchain) Extract(ctx context.Context, videoPath, outPath string) error {
	output, err := t.exec.RunOutput(ctx, t.ffmpegPath, []string{
		"-i", videoPath,
		"-vn",
		"-acodec", mp3Codec,
		"-q:a", mp3Quality,
		"-y", outPath,
	})
	if err != nil {
		return opError("extract", videoPath, output, err)
	}
	return nil
}

// writeConcatList writes a concat demuxer file list.
// Single quotes in paths are escaped per the demuxer's quoting rules.
func writeConcatList(listPath string, files []string) error {
	var b strings.Builder
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			abs = f
		}
		abs = filepath.ToSlash(abs)
		abs = strings.ReplaceAll(abs, `'`, `'\''`)
		fmt.Fprintf(&b, "file '%s'\n", abs)
	}
	if err := os.WriteFile(listPath, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("%w: write concat list: %v", ErrOperationFailed, err)
	}
	return nil
}

// opError wraps an FFmpeg failure with the tail of its stderr, which holds
// the actual diagnostic.
func opError(op, path, output string, err error) error {
	tail := output
	if len(tail) > 500 {
		tail = "..." + tail[len(tail)-500:]
	}
	tail = strings.TrimSpace(tail)
	if tail == "" {
		return fmt.Errorf("%w: %s %s: %v", ErrOperationFailed, op, path, err)
	}
	return fmt.Errorf("%w: %s %s: %v: %s", ErrOperationFailed, op, path, err, tail)
}
