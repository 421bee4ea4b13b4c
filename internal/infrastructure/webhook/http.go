package webhook

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/easebox-25/easebox-backend/internal/application/ports"
	"github.com/easebox-25/easebox-backend/internal/infrastructure/httpclient"
)

// HTTPEmitter sends audit events to an HTTP endpoint via POST JSON,
// through the resilient request client so transient endpoint failures
// are retried with backoff.
type HTTPEmitter struct {
	client     *httpclient.Client
	maxRetries int
}

// HTTPEmitterOption configures HTTPEmitter.
type HTTPEmitterOption func(*config)

type config struct {
	timeout    time.Duration
	headers    map[string]string
	maxRetries int
}

// WithTimeout sets the per-call timeout (default 10s).
func WithTimeout(d time.Duration) HTTPEmitterOption {
	return func(c *config) { c.timeout = d }
}

// WithHeader sets a header sent on every request (e.g. Authorization, X-API-Key).
func WithHeader(key, value string) HTTPEmitterOption {
	return func(c *config) {
		if c.headers == nil {
			c.headers = make(map[string]string)
		}
		c.headers[key] = value
	}
}

// WithMaxRetries sets how many extra delivery attempts are allowed (default 2).
func WithMaxRetries(n int) HTTPEmitterOption {
	return func(c *config) { c.maxRetries = n }
}

// NewHTTPEmitter returns a WebhookEmitter that POSTs AuditEvent as JSON to url.
func NewHTTPEmitter(url string, log zerolog.Logger, opts ...HTTPEmitterOption) *HTTPEmitter {
	cfg := config{timeout: 10 * time.Second, maxRetries: 2}
	for _, opt := range opts {
		opt(&cfg)
	}
	client := httpclient.New(httpclient.Config{
		BaseURL: url,
		Timeout: cfg.timeout,
		Headers: cfg.headers,
	}, log)
	return &HTTPEmitter{client: client, maxRetries: cfg.maxRetries}
}

// Emit implements ports.WebhookEmitter.
func (e *HTTPEmitter) Emit(ctx context.Context, event ports.AuditEvent) error {
	return e.client.Request(ctx, http.MethodPost, "", event, nil, &httpclient.RequestOptions{
		Retry: &httpclient.RetryPolicy{MaxRetries: e.maxRetries},
	})
}

var _ ports.WebhookEmitter = (*HTTPEmitter)(nil)
