package youtube

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ytranslate/ytranslate/internal/transcript"
)

// DefaultLanguages is the preferred caption language order when the caller
// does not specify one.
var DefaultLanguages = []string{"en", "ru", "uk"}

// userAgent is sent on watch page requests. Without a browser user agent
// YouTube serves a page stripped of the player response.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// maxPageBytes caps the watch page read. The player response sits well
// within the first few MB.
const maxPageBytes = 16 * 1024 * 1024

// httpDoer abstracts the HTTP client for testing.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Transcript is a fetched caption track with its timed segments.
type Transcript struct {
	Segments  []transcript.Segment
	Language  string
	Generated bool
}

// TranscriptClient fetches video transcripts from the watch page and the
// timedtext caption endpoint. When proxies are configured, each request is
// retried through the next proxy on transient failures.
type TranscriptClient struct {
	doers     []httpDoer
	languages []string
	cookies   []*http.Cookie
	stderr    io.Writer

	proxies    []string
	httpSet    bool
	newClients func(proxies []string) []httpDoer
}

// TranscriptOption configures a TranscriptClient.
type TranscriptOption func(*TranscriptClient)

// WithTranscriptHTTPClient sets the HTTP client, disabling proxy rotation.
func WithTranscriptHTTPClient(d httpDoer) TranscriptOption {
	return func(c *TranscriptClient) {
		c.doers = []httpDoer{d}
		c.httpSet = true
	}
}

// WithTranscriptLanguages sets the preferred caption language order.
func WithTranscriptLanguages(languages []string) TranscriptOption {
	return func(c *TranscriptClient) {
		if len(languages) > 0 {
			c.languages = languages
		}
	}
}

// WithTranscriptProxies sets proxy URLs tried in order before a direct
// connection. Matches the comma-separated YOUTUBE_PROXY format.
func WithTranscriptProxies(proxies []string) TranscriptOption {
	return func(c *TranscriptClient) { c.proxies = proxies }
}

// WithTranscriptCookies sets cookies sent on every YouTube request.
func WithTranscriptCookies(cookies []*http.Cookie) TranscriptOption {
	return func(c *TranscriptClient) { c.cookies = cookies }
}

// WithTranscriptStderr sets the writer for status messages.
func WithTranscriptStderr(w io.Writer) TranscriptOption {
	return func(c *TranscriptClient) { c.stderr = w }
}

// NewTranscriptClient creates a TranscriptClient with the given options.
func NewTranscriptClient(opts ...TranscriptOption) *TranscriptClient {
	c := &TranscriptClient{
		languages:  DefaultLanguages,
		stderr:     os.Stderr,
		newClients: buildClients,
	}
	for _, opt := range opts {
		opt(c)
	}
	if !c.httpSet {
		c.doers = c.newClients(c.proxies)
	}
	return c
}

// buildClients returns one HTTP client per proxy followed by a direct client.
// Invalid proxy URLs are skipped.
func buildClients(proxies []string) []httpDoer {
	var doers []httpDoer
	for _, p := range proxies {
		u, err := url.Parse(strings.TrimSpace(p))
		if err != nil || u.Host == "" {
			continue
		}
		doers = append(doers, &http.Client{
			Timeout:   60 * time.Second,
			Transport: &http.Transport{Proxy: http.ProxyURL(u)},
		})
	}
	doers = append(doers, &http.Client{Timeout: 60 * time.Second})
	return doers
}

// Fetch downloads the transcript for a video ID, preferring the configured
// languages and falling back to an auto-generated English track.
func (c *TranscriptClient) Fetch(ctx context.Context, videoID string) (Transcript, error) {
	page, err := c.get(ctx, WatchURL(videoID))
	if err != nil {
		return Transcript{}, fmt.Errorf("fetch watch page for %s: %w", videoID, err)
	}

	tracks, err := extractCaptionTracks(string(page))
	if err != nil {
		return Transcript{}, err
	}

	track, err := pickTrack(tracks, c.languages)
	if err != nil {
		return Transcript{}, err
	}

	body, err := c.get(ctx, track.BaseURL)
	if err != nil {
		return Transcript{}, fmt.Errorf("fetch captions for %s: %w", videoID, err)
	}

	segments, err := parseTimedtext(body)
	if err != nil {
		return Transcript{}, err
	}

	if track.Kind == "asr" {
		fmt.Fprintf(c.stderr, "Using auto-generated %s transcript\n", track.LanguageCode)
	} else {
		fmt.Fprintf(c.stderr, "Found transcript in language: %s\n", track.LanguageCode)
	}

	return Transcript{
		Segments:  segments,
		Language:  track.LanguageCode,
		Generated: track.Kind == "asr",
	}, nil
}

// get performs a GET request, rotating through the configured clients on
// transient failures. Non-transient HTTP errors stop the rotation.
func (c *TranscriptClient) get(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error

	for i, doer := range c.doers {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		for _, ck := range c.cookies {
			req.AddCookie(ck)
		}

		body, err := doRead(doer, req)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !transientFetchErr(err) {
			break
		}
		if i < len(c.doers)-1 {
			fmt.Fprintf(c.stderr, "Request failed (%v), trying next route\n", err)
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrFetchFailed, lastErr)
}

func doRead(doer httpDoer, req *http.Request) ([]byte, error) {
	resp, err := doer.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, err
	}
	return body, nil
}

// statusError carries an HTTP status for transient classification.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.code)
}

// transientFetchErr reports whether a failure is worth retrying through
// another proxy. Network errors, rate limits, blocks and server errors
// qualify; anything else is terminal.
func transientFetchErr(err error) bool {
	var se *statusError
	if !errors.As(err, &se) {
		return true // Network-level failure
	}
	switch {
	case se.code == http.StatusTooManyRequests:
		return true
	case se.code == http.StatusForbidden:
		return true
	case se.code >= 500:
		return true
	}
	return false
}

// LoadCookieFile parses a Netscape-format cookie file (the format yt-dlp
// and browser exporters produce) and returns the YouTube cookies in it.
func LoadCookieFile(path string) ([]*http.Cookie, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from user configuration
	if err != nil {
		return nil, fmt.Errorf("open cookie file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var cookies []*http.Cookie
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// domain, include-subdomains, path, secure, expiry, name, value
		fields := strings.Split(line, "\t")
		if len(fields) != 7 {
			continue
		}
		if !strings.Contains(fields[0], "youtube.com") {
			continue
		}
		cookies = append(cookies, &http.Cookie{
			Name:  fields[5],
			Value: fields[6],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read cookie file: %w", err)
	}

	return cookies, nil
}
