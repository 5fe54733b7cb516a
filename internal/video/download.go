// Package video downloads source videos with yt-dlp and muxes the finished
// dub track back into them with FFmpeg.
package video

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// EnvYTDLPPath is the environment variable for a custom yt-dlp path.
const EnvYTDLPPath = "YTDLP_PATH"

// downloadFormat prefers a single mp4 with m4a audio so the mux step can
// copy the video stream without re-encoding.
const downloadFormat = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"

// commandRunner runs a command and returns its combined output.
type commandRunner func(ctx context.Context, name string, args []string) (string, error)

// defaultRunner is the production commandRunner.
func defaultRunner(ctx context.Context, name string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	return out.String(), err
}

// ResolveDownloader finds the yt-dlp binary: YTDLP_PATH first, then the
// system PATH. Unlike FFmpeg there is no auto-download; yt-dlp updates too
// often for a pinned checksum to stay valid.
func ResolveDownloader(getenv func(string) string, lookPath func(string) (string, error)) (string, error) {
	if p := getenv(EnvYTDLPPath); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%w: %s is set to %q but binary not found", ErrDownloaderNotFound, EnvYTDLPPath, p)
		}
		return p, nil
	}
	if p, err := lookPath("yt-dlp"); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("%w: install it (pip install yt-dlp) or set %s", ErrDownloaderNotFound, EnvYTDLPPath)
}

// Downloader fetches YouTube videos via the yt-dlp CLI.
type Downloader struct {
	path string
	run  commandRunner
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithRunner sets the command runner (for testing).
func WithRunner(run commandRunner) DownloaderOption {
	return func(d *Downloader) { d.run = run }
}

// NewDownloader creates a Downloader using the given yt-dlp binary.
func NewDownloader(path string, opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		path: path,
		run:  defaultRunner,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Download fetches a video into dir and returns the mp4 path.
func (d *Downloader) Download(ctx context.Context, videoID, dir string) (string, error) {
	outPath := filepath.Join(dir, videoID+".mp4")

	output, err := d.run(ctx, d.path, []string{
		"-f", downloadFormat,
		"--merge-output-format", "mp4",
		"-o", outPath,
		"--no-warnings",
		"--quiet",
		"https://www.youtube.com/watch?v=" + videoID,
	})
	if err != nil {
		tail := output
		if len(tail) > 500 {
			tail = "..." + tail[len(tail)-500:]
		}
		return "", fmt.Errorf("%w: %s: %v: %s", ErrDownloadFailed, videoID, err, tail)
	}

	if _, err := os.Stat(outPath); err != nil {
		return "", fmt.Errorf("%w: %s: yt-dlp produced no file", ErrDownloadFailed, videoID)
	}
	return outPath, nil
}
