// Package youtube extracts video IDs from YouTube URLs and fetches
// timed transcripts from the timedtext caption endpoint.
package youtube

import "errors"

// Sentinel errors for transcript fetching.
var (
	// ErrInvalidURL indicates the URL does not contain a YouTube video ID.
	ErrInvalidURL = errors.New("invalid YouTube URL")

	// ErrTranscriptsDisabled indicates the video has captions turned off.
	ErrTranscriptsDisabled = errors.New("transcripts are disabled for this video")

	// ErrNoTranscript indicates no caption track matched the requested languages.
	ErrNoTranscript = errors.New("no transcript found")

	// ErrFetchFailed indicates a network or HTTP failure talking to YouTube.
	ErrFetchFailed = errors.New("transcript fetch failed")
)
