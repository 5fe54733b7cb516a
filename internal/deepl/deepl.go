// Package deepl translates PDF documents through the DeepL Document API:
// upload, poll until done, download the result.
package deepl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ytranslate/ytranslate/internal/apierr"
	"github.com/ytranslate/ytranslate/internal/lang"
)

// API endpoints. Keys issued for the free tier carry a ":fx" suffix and
// must hit the free host.
const (
	proBaseURL  = "https://api.deepl.com"
	freeBaseURL = "https://api-free.deepl.com"
)

// deeplQuotaStatus is DeepL's non-standard "quota exceeded" status code.
const deeplQuotaStatus = 456

// Default polling and retry configuration.
const (
	defaultPollInterval = 3 * time.Second
	defaultMaxRetries   = 3
	defaultBaseDelay    = 2 * time.Second
	defaultMaxDelay     = 30 * time.Second
)

// ErrTranslationFailed indicates DeepL reported an error for the document.
var ErrTranslationFailed = errors.New("document translation failed")

// httpDoer abstracts the HTTP client for testing.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the DeepL Document API.
type Client struct {
	http         httpDoer
	apiKey       string
	baseURL      string
	pollInterval time.Duration
	stderr       io.Writer
	maxRetries   int
	baseDelay    time.Duration
	maxDelay     time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client (for testing).
func WithHTTPClient(d httpDoer) ClientOption {
	return func(c *Client) { c.http = d }
}

// WithBaseURL overrides the API host (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// WithPollInterval sets the delay between status polls.
func WithPollInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithStderr sets the writer for progress messages.
func WithStderr(w io.Writer) ClientOption {
	return func(c *Client) { c.stderr = w }
}

// WithMaxRetries sets the maximum upload retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// NewClient creates a DeepL client for the given API key.
// The host is picked from the key's tier suffix.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		http:         &http.Client{Timeout: 5 * time.Minute},
		apiKey:       apiKey,
		baseURL:      proBaseURL,
		pollInterval: defaultPollInterval,
		stderr:       os.Stderr,
		maxRetries:   defaultMaxRetries,
		baseDelay:    defaultBaseDelay,
		maxDelay:     defaultMaxDelay,
	}
	if strings.HasSuffix(apiKey, ":fx") {
		c.baseURL = freeBaseURL
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// documentHandle identifies an uploaded document for polling and download.
type documentHandle struct {
	DocumentID  string `json:"document_id"`
	DocumentKey string `json:"document_key"`
}

// documentStatus is the poll response.
type documentStatus struct {
	Status           string `json:"status"` // queued, translating, done, error
	SecondsRemaining int    `json:"seconds_remaining"`
	ErrorMessage     string `json:"error_message"`
}

// TranslateDocument translates the PDF at inPath into targetLang and writes
// the translated PDF to outPath. The call blocks until DeepL finishes or
// ctx is cancelled.
func (c *Client) TranslateDocument(ctx context.Context, inPath, outPath, targetLang string) error {
	deeplLang, err := lang.DeepLCode(targetLang)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.stderr, "Uploading document for translation to %s\n", deeplLang)

	cfg := apierr.RetryConfig{
		MaxRetries: c.maxRetries,
		BaseDelay:  c.baseDelay,
		MaxDelay:   c.maxDelay,
	}
	handle, err := apierr.RetryWithBackoff(ctx, cfg, func() (documentHandle, error) {
		return c.upload(ctx, inPath, deeplLang)
	}, apierr.IsRetryable)
	if err != nil {
		return fmt.Errorf("upload document: %w", err)
	}

	if err := c.waitForCompletion(ctx, handle); err != nil {
		return err
	}

	return c.download(ctx, handle, outPath)
}

// upload posts the document and returns its handle.
func (c *Client) upload(ctx context.Context, inPath, deeplLang string) (documentHandle, error) {
	var zero documentHandle

	file, err := os.Open(inPath) // #nosec G304 -- inPath is the user's input document
	if err != nil {
		return zero, fmt.Errorf("open document: %w", err)
	}
	defer func() { _ = file.Close() }()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(inPath))
	if err != nil {
		return zero, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return zero, fmt.Errorf("build upload form: %w", err)
	}
	if err := writer.WriteField("target_lang", deeplLang); err != nil {
		return zero, fmt.Errorf("build upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return zero, fmt.Errorf("build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/document", &body)
	if err != nil {
		return zero, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	respBody, err := c.do(req)
	if err != nil {
		return zero, err
	}

	var handle documentHandle
	if err := json.Unmarshal(respBody, &handle); err != nil {
		return zero, fmt.Errorf("parse upload response: %w", err)
	}
	if handle.DocumentID == "" || handle.DocumentKey == "" {
		return zero, fmt.Errorf("upload response missing document handle")
	}
	return handle, nil
}

// waitForCompletion polls until the document is done or errored.
func (c *Client) waitForCompletion(ctx context.Context, handle documentHandle) error {
	for {
		status, err := c.poll(ctx, handle)
		if err != nil {
			return fmt.Errorf("poll document status: %w", err)
		}

		switch status.Status {
		case "done":
			return nil
		case "error":
			msg := status.ErrorMessage
			if msg == "" {
				msg = "no error message"
			}
			return fmt.Errorf("%w: %s", ErrTranslationFailed, msg)
		case "translating":
			if status.SecondsRemaining > 0 {
				fmt.Fprintf(c.stderr, "Translating, about %ds remaining\n", status.SecondsRemaining)
			}
		}

		timer := time.NewTimer(c.pollInterval)
		select {
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// poll fetches the current translation status.
func (c *Client) poll(ctx context.Context, handle documentHandle) (documentStatus, error) {
	var zero documentStatus

	form := url.Values{"document_key": {handle.DocumentKey}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v2/document/"+handle.DocumentID, strings.NewReader(form.Encode()))
	if err != nil {
		return zero, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.authorize(req)

	body, err := c.do(req)
	if err != nil {
		return zero, err
	}

	var status documentStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return zero, fmt.Errorf("parse status response: %w", err)
	}
	return status, nil
}

// download fetches the translated document to outPath.
func (c *Client) download(ctx context.Context, handle documentHandle, outPath string) error {
	form := url.Values{"document_key": {handle.DocumentKey}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v2/document/"+handle.DocumentID+"/result", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.authorize(req)

	body, err := c.do(req)
	if err != nil {
		return fmt.Errorf("download document: %w", err)
	}

	if err := os.WriteFile(outPath, body, 0644); err != nil {
		return fmt.Errorf("write translated document: %w", err)
	}
	return nil
}

// authorize sets the DeepL auth header.
func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "DeepL-Auth-Key "+c.apiKey)
}

// do executes a request and returns the body, classifying HTTP errors into
// the shared sentinels.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := extractMessage(body)
		if resp.StatusCode == deeplQuotaStatus {
			return nil, fmt.Errorf("%s: %w", msg, apierr.ErrQuotaExceeded)
		}
		return nil, apierr.ClassifyHTTP(resp.StatusCode, msg)
	}
	return body, nil
}

// extractMessage pulls the error message out of a DeepL error body.
func extractMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return strings.TrimSpace(string(body))
}
