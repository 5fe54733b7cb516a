package cli

import "errors"

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrAPIKeyMissing indicates OPENAI_API_KEY environment variable is not set.
	ErrAPIKeyMissing = errors.New("OPENAI_API_KEY environment variable not set")

	// ErrDeepLKeyMissing indicates DEEPL_API_KEY environment variable is not set.
	ErrDeepLKeyMissing = errors.New("DEEPL_API_KEY environment variable not set")

	// ErrFileNotFound indicates the specified input file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrUnsupportedFormat indicates an input file has an unsupported extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrInvalidOutputFormat indicates --format is neither audio nor video.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrInvalidVolume indicates --original-volume is outside [0.0, 1.0].
	ErrInvalidVolume = errors.New("invalid volume")

	// ErrOutputExists indicates the output file already exists.
	ErrOutputExists = errors.New("output file already exists")

	// ErrEmptyTranscript indicates the video's transcript produced no usable text.
	ErrEmptyTranscript = errors.New("transcript is empty")
)
