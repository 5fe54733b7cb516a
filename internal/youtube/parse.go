package youtube

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"strings"

	"github.com/ytranslate/ytranslate/internal/transcript"
)

// captionTrack mirrors one entry of the captionTracks array embedded in the
// watch page's player response JSON.
type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" for auto-generated tracks
}

// extractCaptionTracks pulls the captionTracks array out of a watch page.
// The array is located by key and sliced out with bracket matching rather
// than parsing the full player response, which is several MB of JSON.
func extractCaptionTracks(page string) ([]captionTrack, error) {
	const key = `"captionTracks":`

	idx := strings.Index(page, key)
	if idx < 0 {
		return nil, ErrTranscriptsDisabled
	}

	rest := page[idx+len(key):]
	start := strings.IndexByte(rest, '[')
	if start < 0 {
		return nil, fmt.Errorf("%w: malformed captionTracks", ErrFetchFailed)
	}

	end, err := matchBracket(rest, start)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	var tracks []captionTrack
	if err := json.Unmarshal([]byte(rest[start:end+1]), &tracks); err != nil {
		return nil, fmt.Errorf("%w: parse captionTracks: %v", ErrFetchFailed, err)
	}
	if len(tracks) == 0 {
		return nil, ErrTranscriptsDisabled
	}
	return tracks, nil
}

// matchBracket returns the index of the ']' closing the '[' at start,
// skipping brackets inside JSON string literals.
func matchBracket(s string, start int) (int, error) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("unterminated captionTracks array")
}

// pickTrack selects a caption track using the preferred language order.
// Manual tracks win over auto-generated ones for the same language. If no
// preferred language is available, an auto-generated English track is used
// as a last resort.
func pickTrack(tracks []captionTrack, languages []string) (captionTrack, error) {
	for _, lang := range languages {
		var generated *captionTrack
		for i, t := range tracks {
			if !strings.EqualFold(baseLang(t.LanguageCode), lang) {
				continue
			}
			if t.Kind != "asr" {
				return t, nil
			}
			if generated == nil {
				generated = &tracks[i]
			}
		}
		if generated != nil {
			return *generated, nil
		}
	}

	// Fallback: auto-generated English.
	for _, t := range tracks {
		if t.Kind == "asr" && strings.EqualFold(baseLang(t.LanguageCode), "en") {
			return t, nil
		}
	}

	return captionTrack{}, fmt.Errorf("%w: no track for languages %v", ErrNoTranscript, languages)
}

// baseLang strips a regional suffix ("en-US" -> "en").
func baseLang(code string) string {
	if i := strings.IndexByte(code, '-'); i >= 0 {
		return code[:i]
	}
	return code
}

// timedtext is the XML document served by the caption endpoint:
//
//	<transcript><text start="1.2" dur="3.4">Hello</text>...</transcript>
type timedtext struct {
	XMLName xml.Name       `xml:"transcript"`
	Texts   []timedtextCue `xml:"text"`
}

type timedtextCue struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Body  string `xml:",chardata"`
}

// parseTimedtext converts a timedtext XML document into transcript segments.
// Cue text arrives HTML-escaped inside the XML, so it is unescaped a second
// time after decoding. Empty cues are dropped.
func parseTimedtext(data []byte) ([]transcript.Segment, error) {
	var doc timedtext
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse timedtext: %v", ErrFetchFailed, err)
	}

	segments := make([]transcript.Segment, 0, len(doc.Texts))
	for _, cue := range doc.Texts {
		text := strings.TrimSpace(html.UnescapeString(cue.Body))
		if text == "" {
			continue
		}

		var seg transcript.Segment
		seg.Text = text
		if _, err := fmt.Sscanf(cue.Start, "%g", &seg.Start); err != nil {
			return nil, fmt.Errorf("%w: bad start %q: %v", ErrFetchFailed, cue.Start, err)
		}
		if cue.Dur != "" {
			if _, err := fmt.Sscanf(cue.Dur, "%g", &seg.Duration); err != nil {
				return nil, fmt.Errorf("%w: bad dur %q: %v", ErrFetchFailed, cue.Dur, err)
			}
			seg.HasDuration = true
		}
		segments = append(segments, seg)
	}

	if len(segments) == 0 {
		return nil, ErrNoTranscript
	}
	return segments, nil
}
