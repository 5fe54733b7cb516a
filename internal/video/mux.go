package video

import (
	"context"
	"fmt"
	"strings"

	"github.com/ytranslate/ytranslate/internal/ffmpeg"
)

// Output audio encoding. AAC at 192k plays everywhere mp4 does.
const (
	muxAudioCodec   = "aac"
	muxAudioBitrate = "192k"
)

// MuxRequest describes one merge of a dub track into a video.
type MuxRequest struct {
	VideoPath string // Source video (stream-copied)
	DubPath   string // Assembled dub track
	OutPath   string // Destination mp4

	// OriginalPath, when set with a positive OriginalVolume, mixes the
	// source audio underneath the dub instead of replacing it.
	OriginalPath   string
	OriginalVolume float64
}

// mixMode reports whether the original audio is kept as background.
func (r MuxRequest) mixMode() bool {
	return r.OriginalPath != "" && r.OriginalVolume > 0
}

// Muxer merges dub tracks into videos.
type Muxer struct {
	ffmpegPath string
	exec       *ffmpeg.Executor
}

// MuxerOption configures a Muxer.
type MuxerOption func(*Muxer)

// WithMuxExecutor sets the FFmpeg executor (for testing).
func WithMuxExecutor(e *ffmpeg.Executor) MuxerOption {
	return func(m *Muxer) { m.exec = e }
}

// NewMuxer creates a Muxer using the given ffmpeg binary.
func NewMuxer(ffmpegPath string, opts ...MuxerOption) *Muxer {
	m := &Muxer{
		ffmpegPath: ffmpegPath,
		exec:       ffmpeg.NewExecutor(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mux merges the dub track into the video, copying the video stream.
//
// In replace mode the dub becomes the only audio and the output stops at
// the shorter stream. In mix mode the original audio is ducked under the
// dub with amix at duration=longest, and the output keeps the video's full
// length even when one audio input runs short.
func (m *Muxer) Mux(ctx context.Context, req MuxRequest) error {
	var args []string
	if req.mixMode() {
		filter := fmt.Sprintf(
			"[1:a]volume=1.0[dub];[2:a]volume=%g[orig];[dub][orig]amix=inputs=2:duration=longest[aout]",
			req.OriginalVolume)
		args = []string{
			"-i", req.VideoPath,
			"-i", req.DubPath,
			"-i", req.OriginalPath,
			"-filter_complex", filter,
			"-map", "0:v",
			"-map", "[aout]",
			"-c:v", "copy",
			"-c:a", muxAudioCodec,
			"-b:a", muxAudioBitrate,
			"-y", req.OutPath,
		}
	} else {
		args = []string{
			"-i", req.VideoPath,
			"-i", req.DubPath,
			"-map", "0:v",
			"-map", "1:a",
			"-c:v", "copy",
			"-c:a", muxAudioCodec,
			"-b:a", muxAudioBitrate,
			"-shortest",
			"-y", req.OutPath,
		}
	}

	output, err := m.exec.RunOutput(ctx, m.ffmpegPath, args)
	if err != nil {
		tail := strings.TrimSpace(output)
		if len(tail) > 500 {
			tail = "..." + tail[len(tail)-500:]
		}
		return fmt.Errorf("%w: %v: %s", ErrMuxFailed, err, tail)
	}
	return nil
}
