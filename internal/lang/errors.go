package lang

import "errors"

// ErrInvalid indicates a language code that is not a recognized ISO 639-1
// code or locale.
var ErrInvalid = errors.New("invalid language code")

// ErrUnsupportedDocLang indicates a language DeepL document translation
// cannot produce.
var ErrUnsupportedDocLang = errors.New("language not supported for document translation")
