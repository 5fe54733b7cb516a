package video

import "errors"

// Sentinel errors for video operations.
var (
	// ErrDownloaderNotFound indicates yt-dlp is not installed and YTDLP_PATH is unset.
	ErrDownloaderNotFound = errors.New("yt-dlp not found")

	// ErrDownloadFailed indicates the video download did not produce a file.
	ErrDownloadFailed = errors.New("video download failed")

	// ErrMuxFailed indicates merging the dub track into the video failed.
	ErrMuxFailed = errors.New("mux failed")
)
