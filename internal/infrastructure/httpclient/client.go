package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultTimeout is the fixed per-call timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultBaseDelay seeds the backoff schedule.
	DefaultBaseDelay = time.Second
	// MaxBackoff caps any single backoff delay.
	MaxBackoff = 30 * time.Second
)

// Transport error codes attached to normalized errors.
const (
	CodeConnectionReset   = "connection-reset"
	CodeTimeout           = "timeout"
	CodeDNSNotFound       = "dns-not-found"
	CodeConnectionRefused = "connection-refused"
)

// retryableStatuses are the HTTP statuses worth retrying.
var retryableStatuses = map[int]bool{
	http.StatusRequestTimeout:      true, // 408
	http.StatusTooManyRequests:     true, // 429
	http.StatusInternalServerError: true, // 500
	http.StatusBadGateway:          true, // 502
	http.StatusServiceUnavailable:  true, // 503
	http.StatusGatewayTimeout:      true, // 504
}

// Error is the normalized failure shape for every outbound call.
type Error struct {
	Message    string
	Status     int    // HTTP status, 0 for transport failures
	StatusText string
	Data       json.RawMessage // raw response body, when any
	Code       string          // transport error code, when any
	Retryable  bool
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration     // zero means DefaultTimeout
	Headers map[string]string // sent on every request
}

// RetryPolicy enables retries for a single call. MaxRetries counts
// extra attempts: MaxRetries=3 allows up to 4 total attempts.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration // zero means DefaultBaseDelay
}

// RequestOptions tunes one call. Headers merge over the client
// defaults; Retry nil means exactly one attempt.
type RequestOptions struct {
	Headers map[string]string
	Retry   *RetryPolicy
}

// Client wraps outbound HTTP calls with error normalization and
// optional bounded exponential backoff.
type Client struct {
	baseURL string
	headers map[string]string
	http    *http.Client
	log     zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		headers: headers,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Request performs one call and decodes a JSON response into out (may
// be nil). Failures are always returned as *Error; with a retry policy
// set, retryable failures are reattempted with backoff until the
// attempt budget is spent.
func (c *Client) Request(ctx context.Context, method, path string, body, out interface{}, opts *RequestOptions) error {
	maxAttempts := 1
	baseDelay := DefaultBaseDelay
	if opts != nil && opts.Retry != nil {
		maxAttempts = opts.Retry.MaxRetries + 1
		if opts.Retry.BaseDelay > 0 {
			baseDelay = opts.Retry.BaseDelay
		}
	}
	var lastErr *Error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := c.do(ctx, method, path, body, out, opts)
		if err == nil {
			return nil
		}
		lastErr = err
		if !err.Retryable || attempt == maxAttempts {
			return err
		}
		delay := Backoff(attempt, baseDelay)
		c.log.Warn().
			Str("method", method).
			Str("path", path).
			Int("attempt", attempt).
			Dur("backoff", delay).
			Str("error", err.Message).
			Msg("retrying request")
		select {
		case <-ctx.Done():
			// The caller gave up while we were waiting; that is not a
			// transport failure, so no transport code is attached.
			return &Error{Message: ctx.Err().Error(), Retryable: false}
		case <-time.After(delay):
		}
	}
	return lastErr
}

// Backoff returns the delay before retrying after attempt n
// (1-indexed): min(base * 2^(n-1) * (1 + up to 30% jitter), 30s).
func Backoff(attempt int, baseDelay time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	jitter := 1 + rand.Float64()*0.3
	d := time.Duration(float64(baseDelay) * math.Pow(2, float64(attempt-1)) * jitter)
	if d > MaxBackoff {
		d = MaxBackoff
	}
	return d
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, opts *RequestOptions) *Error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: err.Error()}
		}
		reader = bytes.NewReader(buf)
	}
	url := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		url = c.baseURL + path
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if opts != nil {
		for k, v := range opts.Headers {
			req.Header.Set(k, v)
		}
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return normalizeTransport(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return normalizeTransport(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return normalizeStatus(resp.StatusCode, data)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return &Error{Message: "invalid response body: " + err.Error(), Status: resp.StatusCode, Data: data}
		}
	}
	return nil
}

// normalizeStatus builds an Error from a non-2xx response. The message
// prefers a server-supplied message field over the generic fallback.
func normalizeStatus(status int, data []byte) *Error {
	message := serverMessage(data)
	if message == "" {
		message = "Request failed"
	}
	return &Error{
		Message:    message,
		Status:     status,
		StatusText: http.StatusText(status),
		Data:       data,
		Retryable:  retryableStatuses[status],
	}
}

// normalizeTransport maps network failures to stable codes. Only a
// known-transient code makes the failure retryable.
func normalizeTransport(err error) *Error {
	code := transportCode(err)
	message := err.Error()
	if message == "" {
		message = "Request failed"
	}
	return &Error{Message: message, Code: code, Retryable: code != ""}
}

func transportCode(err error) string {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CodeTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CodeTimeout
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CodeDNSNotFound
	}
	if errors.Is(err, syscall.ECONNRESET) {
		return CodeConnectionReset
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return CodeConnectionRefused
	}
	return ""
}

// serverMessage extracts a "message" or "error" field from a JSON body.
func serverMessage(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
