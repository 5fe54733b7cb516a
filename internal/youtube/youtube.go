package youtube

import (
	"fmt"
	"regexp"
)

// videoIDPatterns match the video ID in the URL forms YouTube uses:
// watch?v=, youtu.be/, embed/, v/ and shorts/.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})(?:[^0-9A-Za-z_-]|$)`),
	regexp.MustCompile(`(?:embed/|v/|shorts/|youtu\.be/)([0-9A-Za-z_-]{11})`),
}

// ExtractVideoID extracts the 11-character video ID from a YouTube URL.
// A bare video ID is also accepted.
func ExtractVideoID(url string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("%w: empty URL", ErrInvalidURL)
	}

	// Accept a bare video ID as-is.
	if bareID.MatchString(url) {
		return url, nil
	}

	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidURL, url)
}

var bareID = regexp.MustCompile(`^[0-9A-Za-z_-]{11}$`)

// WatchURL returns the canonical watch page URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
