// Package transcript defines the timed transcript model and the pure
// transforms that prepare it for translation: grouping ordered segments into
// size-bounded chunks and resolving how much audio-duration budget each
// chunk has on the source timeline.
package transcript

import (
	"strings"
	"unicode/utf8"
)

// Segment is one timed caption line as fetched from the transcript source.
// Immutable once fetched; the sequence order is temporal and significant.
type Segment struct {
	Text  string
	Start float64 // seconds from the beginning of the video

	// Duration is optional in the upstream data. HasDuration distinguishes
	// an explicit zero from an absent value.
	Duration    float64
	HasDuration bool
}

// End returns the segment's explicit end time, valid only when HasDuration.
func (s Segment) End() float64 {
	return s.Start + s.Duration
}

// Chunk is an ordered, non-empty run of consecutive segments grouped for a
// single translation request.
type Chunk struct {
	Segments []Segment
}

// Start returns the chunk's start time (first segment's start).
func (c Chunk) Start() float64 {
	if len(c.Segments) == 0 {
		return 0
	}
	return c.Segments[0].Start
}

// Text joins the segment texts with newlines so the translator sees the
// whole chunk as one coherent passage, not isolated fragments.
func (c Chunk) Text() string {
	parts := make([]string, len(c.Segments))
	for i, s := range c.Segments {
		parts[i] = s.Text
	}
	return strings.Join(parts, "\n")
}

// Len returns the combined character length of the chunk's segment texts.
func (c Chunk) Len() int {
	n := 0
	for _, s := range c.Segments {
		n += utf8.RuneCountInString(s.Text)
	}
	return n
}

// DefaultMaxChunkChars bounds the combined text length per chunk. One
// translation request per chunk; larger chunks give the model more context
// but risk truncated responses.
const DefaultMaxChunkChars = 1000

// Split groups segments into chunks whose combined text length stays within
// maxChars, preserving order. A single segment longer than maxChars becomes
// its own chunk; segments are never split. Empty input yields nil.
//
// This greedy packing is deliberately simple: no look-ahead, no rebalancing.
// Concatenating the chunks' segments always reproduces the input exactly.
func Split(segments []Segment, maxChars int) []Chunk {
	if len(segments) == 0 {
		return nil
	}
	if maxChars <= 0 {
		maxChars = DefaultMaxChunkChars
	}

	var chunks []Chunk
	var current []Segment
	currentLen := 0

	for _, seg := range segments {
		segLen := utf8.RuneCountInString(seg.Text)
		if currentLen+segLen > maxChars && len(current) > 0 {
			chunks = append(chunks, Chunk{Segments: current})
			current = nil
			currentLen = 0
		}
		current = append(current, seg)
		currentLen += segLen
	}

	// Don't forget the last chunk.
	if len(current) > 0 {
		chunks = append(chunks, Chunk{Segments: current})
	}

	return chunks
}

// TotalDuration returns the natural end of the transcript: the last
// segment's start plus its duration when known.
func TotalDuration(segments []Segment) float64 {
	if len(segments) == 0 {
		return 0
	}
	last := segments[len(segments)-1]
	if last.HasDuration {
		return last.Start + last.Duration
	}
	return last.Start
}
