package tts

import (
	"time"

	"github.com/ytranslate/ytranslate/internal/translate"
)

// NewTestSynthesizer builds an OpenAISynthesizer around a mock speech client.
func NewTestSynthesizer(client speechCreator, opts ...SynthesizerOption) *OpenAISynthesizer {
	s := NewOpenAISynthesizer(nil, opts...)
	s.client = client
	return s
}

// ClipWindow exposes the window computation for tests.
func ClipWindow(chunks []translate.Chunk, i int) time.Duration {
	return clipWindow(chunks, i)
}
