package ffmpeg

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Probe patterns for FFmpeg stderr. FFmpeg has no machine-readable duration
// output without ffprobe, so the human-readable lines are parsed instead.
var (
	// Pattern: Duration: 00:05:23.45
	durationRe = regexp.MustCompile(`Duration:\s*(\d+):(\d+):(\d+)\.(\d+)`)

	// Fallback pattern: time=00:05:23.45 (from progress output)
	timeRe = regexp.MustCompile(`time=(\d+):(\d+):(\d+)\.(\d+)`)
)

// ParseDuration extracts a media duration from FFmpeg stderr output.
// Looks for "Duration: HH:MM:SS.ms" first, then the last "time=HH:MM:SS.ms"
// progress line.
func ParseDuration(output string) (time.Duration, error) {
	if matches := durationRe.FindStringSubmatch(output); matches != nil {
		return parseTimeComponents(matches[1], matches[2], matches[3], matches[4])
	}

	// Find all progress matches and use the last one (final time).
	allMatches := timeRe.FindAllStringSubmatch(output, -1)
	if len(allMatches) > 0 {
		matches := allMatches[len(allMatches)-1]
		return parseTimeComponents(matches[1], matches[2], matches[3], matches[4])
	}

	return 0, ErrNoDuration
}

// parseTimeComponents converts HH:MM:SS.frac strings to Duration.
func parseTimeComponents(hours, minutes, seconds, fractional string) (time.Duration, error) {
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.Atoi(seconds)

	// Normalize the fractional part to milliseconds.
	// Input may be 1-6+ digits (e.g., ".4", ".45", ".456", ".456789").
	frac, _ := strconv.Atoi(fractional)
	ms := frac
	switch n := len(fractional); {
	case n == 1:
		ms = frac * 100
	case n == 2:
		ms = frac * 10
	case n == 3:
		// Already milliseconds.
	case n > 3:
		// Truncate excess precision by dividing.
		for i := n; i > 3; i-- {
			ms /= 10
		}
	}

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}

// FormatTime formats a duration for FFmpeg -ss/-t/-to arguments.
func FormatTime(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := d.Seconds() - float64(h*3600+m*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", h, m, s)
}
