package youtube

// Bridge for black-box tests of unexported parsing internals.

type CaptionTrack = captionTrack

var (
	ExtractCaptionTracks = extractCaptionTracks
	PickTrack            = pickTrack
	ParseTimedtext       = parseTimedtext
	TransientFetchErr    = transientFetchErr
)

// NewStatusError builds the internal HTTP status error for classification tests.
func NewStatusError(code int) error {
	return &statusError{code: code}
}
