package audio

import "errors"

// ErrOperationFailed indicates an FFmpeg audio operation exited with an error.
var ErrOperationFailed = errors.New("audio operation failed")

// ErrNoDuration indicates a file's duration could not be probed.
var ErrNoDuration = errors.New("cannot determine audio duration")
