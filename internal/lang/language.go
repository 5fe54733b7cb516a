// Package lang validates and describes translation target languages.
// Codes are ISO 639-1, optionally with a region (pt-BR). The translation
// prompt needs an English display name; DeepL document translation needs
// its own uppercase target codes.
package lang

import (
	"fmt"
	"strings"
)

// DefaultTarget is the target language assumed when none is specified.
const DefaultTarget = "ru"

// validLanguages contains the ISO 639-1 codes accepted as translation
// targets. Not exhaustive; covers the languages the translation model
// handles reliably.
var validLanguages = map[string]bool{
	"ar": true, // Arabic
	"bg": true, // Bulgarian
	"cs": true, // Czech
	"da": true, // Danish
	"de": true, // German
	"el": true, // Greek
	"en": true, // English
	"es": true, // Spanish
	"et": true, // Estonian
	"fi": true, // Finnish
	"fr": true, // French
	"he": true, // Hebrew
	"hi": true, // Hindi
	"hu": true, // Hungarian
	"id": true, // Indonesian
	"it": true, // Italian
	"ja": true, // Japanese
	"ko": true, // Korean
	"lt": true, // Lithuanian
	"lv": true, // Latvian
	"nl": true, // Dutch
	"no": true, // Norwegian
	"pl": true, // Polish
	"pt": true, // Portuguese
	"ro": true, // Romanian
	"ru": true, // Russian
	"sk": true, // Slovak
	"sl": true, // Slovenian
	"sv": true, // Swedish
	"tr": true, // Turkish
	"uk": true, // Ukrainian
	"vi": true, // Vietnamese
	"zh": true, // Chinese
}

// Normalize normalizes a language code to lowercase with hyphen separator.
// Accepts: "pt-BR", "pt_BR", "PT-BR", "pt-br" -> "pt-br"
func Normalize(code string) string {
	return strings.ToLower(strings.ReplaceAll(code, "_", "-"))
}

// base extracts the ISO 639-1 base language from a locale (pt-br -> pt).
func base(normalized string) string {
	if idx := strings.Index(normalized, "-"); idx != -1 {
		return normalized[:idx]
	}
	return normalized
}

// Validate checks that code is a recognized translation target.
// Accepts ISO 639-1 codes (e.g., "ru", "uk") and locales (e.g., "pt-BR").
// Empty string is invalid: a dubbing run always has a concrete target.
func Validate(code string) error {
	if code == "" {
		return fmt.Errorf("target language cannot be empty: %w", ErrInvalid)
	}
	if !validLanguages[base(Normalize(code))] {
		return fmt.Errorf("invalid language code %q (use ISO 639-1 codes like 'ru', 'uk', 'pt-BR'): %w",
			code, ErrInvalid)
	}
	return nil
}

// displayNames maps normalized codes to the English names used in the
// translation prompt.
var displayNames = map[string]string{
	"ar":    "Arabic",
	"de":    "German",
	"en":    "English",
	"en-gb": "British English",
	"en-us": "American English",
	"es":    "Spanish",
	"fr":    "French",
	"it":    "Italian",
	"ja":    "Japanese",
	"ko":    "Korean",
	"nl":    "Dutch",
	"pl":    "Polish",
	"pt":    "Portuguese",
	"pt-br": "Brazilian Portuguese",
	"ru":    "Russian",
	"tr":    "Turkish",
	"uk":    "Ukrainian",
	"zh":    "Chinese",
}

// DisplayName returns a human-readable English name for the code, falling
// back to the code itself for unknown locales. Used verbatim in the
// translation prompt, so it must read naturally in an English sentence.
func DisplayName(code string) string {
	normalized := Normalize(code)
	if name, ok := displayNames[normalized]; ok {
		return name
	}
	if name, ok := displayNames[base(normalized)]; ok {
		return name
	}
	return code
}

// deeplTargets maps base codes to DeepL target_lang values. DeepL requires
// region-qualified English and Portuguese targets; the most common variant
// is chosen.
var deeplTargets = map[string]string{
	"bg": "BG",
	"cs": "CS",
	"da": "DA",
	"de": "DE",
	"el": "EL",
	"en": "EN-US",
	"es": "ES",
	"et": "ET",
	"fi": "FI",
	"fr": "FR",
	"hu": "HU",
	"id": "ID",
	"it": "IT",
	"ja": "JA",
	"ko": "KO",
	"lt": "LT",
	"lv": "LV",
	"nl": "NL",
	"no": "NB",
	"pl": "PL",
	"pt": "PT-PT",
	"ro": "RO",
	"ru": "RU",
	"sk": "SK",
	"sl": "SL",
	"sv": "SV",
	"tr": "TR",
	"uk": "UK",
	"zh": "ZH",
}

// DeepLCode maps a target language to DeepL's target_lang value.
// Returns ErrUnsupportedDocLang for languages DeepL cannot produce.
func DeepLCode(code string) (string, error) {
	normalized := Normalize(code)

	// Full locale first (pt-br -> PT-BR style targets).
	switch normalized {
	case "pt-br":
		return "PT-BR", nil
	case "en-gb":
		return "EN-GB", nil
	case "en-us":
		return "EN-US", nil
	}

	if target, ok := deeplTargets[base(normalized)]; ok {
		return target, nil
	}
	return "", fmt.Errorf("%q: %w", code, ErrUnsupportedDocLang)
}
