package transcript

import "unicode/utf8"

// EstimateConfig parameterizes the reading-rate heuristic used when a chunk
// carries no usable timing metadata. The defaults mirror typical narrated
// speech; they are heuristics, not derived constants, so callers may tune
// them.
type EstimateConfig struct {
	WordsPerMinute float64 // speaking rate for the text-length estimate
	CharsPerWord   float64 // average word length in characters
	MinSeconds     float64 // floor so very short text never rounds to ~0
}

// DefaultEstimate is the standard reading-rate heuristic.
var DefaultEstimate = EstimateConfig{
	WordsPerMinute: 150,
	CharsPerWord:   5,
	MinSeconds:     2.0,
}

// normalize guards against zero or negative configuration values.
func (e EstimateConfig) normalize() EstimateConfig {
	if e.WordsPerMinute <= 0 {
		e.WordsPerMinute = DefaultEstimate.WordsPerMinute
	}
	if e.CharsPerWord <= 0 {
		e.CharsPerWord = DefaultEstimate.CharsPerWord
	}
	if e.MinSeconds <= 0 {
		e.MinSeconds = DefaultEstimate.MinSeconds
	}
	return e
}

// ReadingSeconds estimates how long the given text takes to speak, never
// less than the configured floor.
func (e EstimateConfig) ReadingSeconds(text string) float64 {
	e = e.normalize()
	chars := float64(utf8.RuneCountInString(text))
	seconds := chars / e.CharsPerWord / e.WordsPerMinute * 60
	return max(seconds, e.MinSeconds)
}

// ResolveEnd computes a chunk's authoritative end time on the source
// timeline. The policy reflects decreasing confidence:
//
//  1. The last segment carries an explicit duration: use it.
//  2. Multiple segments: extrapolate the average inter-segment spacing past
//     the last segment's start.
//  3. Single segment with no duration: estimate from text length via est.
//
// The result bounds how much synthesized audio the chunk may occupy.
func ResolveEnd(c Chunk, est EstimateConfig) float64 {
	if len(c.Segments) == 0 {
		return 0
	}

	last := c.Segments[len(c.Segments)-1]

	if last.HasDuration {
		return last.Start + last.Duration
	}

	if n := len(c.Segments); n > 1 {
		avg := (last.Start - c.Segments[0].Start) / float64(n-1)
		return last.Start + avg
	}

	return last.Start + est.ReadingSeconds(last.Text)
}
