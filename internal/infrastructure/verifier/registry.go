package verifier

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/easebox-25/easebox-backend/internal/application/ports"
	"github.com/easebox-25/easebox-backend/internal/domain"
	"github.com/easebox-25/easebox-backend/internal/infrastructure/httpclient"
)

// Config holds settings for the live registry provider.
type Config struct {
	BaseURL     string
	APIKey      string
	NINPath     string
	CACPath     string
	SuccessCode string
	Timeout     time.Duration
	MaxRetries  int
}

// DefaultConfig returns defaults for the registry provider.
func DefaultConfig() Config {
	return Config{
		NINPath:     "/api/v1/nin/verify",
		CACPath:     "/api/v1/cac/verify",
		SuccessCode: "00",
		Timeout:     30 * time.Second,
		MaxRetries:  3,
	}
}

// Registry is the live provider backed by an external NIN/CAC lookup
// API, called through the resilient request client.
type Registry struct {
	client      *httpclient.Client
	ninPath     string
	cacPath     string
	successCode string
	maxRetries  int
	log         zerolog.Logger
}

// registryResponse is the provider's wire shape. Success is signaled
// by the boolean flag AND the expected response code together.
type registryResponse struct {
	Status       bool              `json:"status"`
	ResponseCode string            `json:"response_code"`
	Message      string            `json:"message"`
	Data         map[string]string `json:"data"`
}

func NewRegistry(cfg Config, log zerolog.Logger) *Registry {
	def := DefaultConfig()
	if cfg.NINPath == "" {
		cfg.NINPath = def.NINPath
	}
	if cfg.CACPath == "" {
		cfg.CACPath = def.CACPath
	}
	if cfg.SuccessCode == "" {
		cfg.SuccessCode = def.SuccessCode
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = def.MaxRetries
	}
	client := httpclient.New(httpclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Headers: map[string]string{"Authorization": "Bearer " + cfg.APIKey},
	}, log)
	return &Registry{
		client:      client,
		ninPath:     cfg.NINPath,
		cacPath:     cfg.CACPath,
		successCode: cfg.SuccessCode,
		maxRetries:  cfg.MaxRetries,
		log:         log,
	}
}

func (r *Registry) VerifyNationalID(ctx context.Context, number string) (*ports.RawVerification, error) {
	return r.lookup(ctx, r.ninPath, number)
}

// VerifyRegistrationNumber strips the RC prefix before dispatch; the
// registry API expects bare digits.
func (r *Registry) VerifyRegistrationNumber(ctx context.Context, number string) (*ports.RawVerification, error) {
	return r.lookup(ctx, r.cacPath, StripRCPrefix(number))
}

// lookup posts {"number": ...} to the given path. Transport failures
// (exhausted retries included) become a failed RawVerification so the
// orchestrator never handles transport errors.
func (r *Registry) lookup(ctx context.Context, path, number string) (*ports.RawVerification, error) {
	var resp registryResponse
	err := r.client.Request(ctx, "POST", path, map[string]string{"number": number}, &resp, &httpclient.RequestOptions{
		Retry: &httpclient.RetryPolicy{MaxRetries: r.maxRetries},
	})
	if err != nil {
		r.log.Warn().Err(err).Str("path", path).Msg("registry lookup failed")
		return &ports.RawVerification{Status: false, Message: failureMessage(err)}, nil
	}
	return &ports.RawVerification{
		Status:  resp.Status,
		Code:    resp.ResponseCode,
		Message: resp.Message,
		Fields:  resp.Data,
	}, nil
}

// Normalize maps the provider's success signals onto the uniform
// result. A missing response code is a failure even when the status
// flag is true.
func (r *Registry) Normalize(raw *ports.RawVerification) domain.VerificationResult {
	if raw == nil {
		return domain.VerificationResult{Valid: false, Reason: "empty provider response"}
	}
	if !raw.Status {
		return domain.VerificationResult{Valid: false, Reason: raw.Message}
	}
	if raw.Code != r.successCode {
		reason := raw.Message
		if reason == "" {
			reason = "unexpected provider response code"
		}
		return domain.VerificationResult{Valid: false, Reason: reason}
	}
	fields := make(map[string]string, len(raw.Fields))
	for k, v := range raw.Fields {
		fields[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	return domain.VerificationResult{Valid: true, Fields: fields}
}

// StripRCPrefix removes a leading RC marker ("RC-1234567", "rc1234567")
// leaving bare digits.
func StripRCPrefix(number string) string {
	return domain.NormalizeRCNumber(number)
}

func failureMessage(err error) string {
	if herr, ok := err.(*httpclient.Error); ok {
		return herr.Message
	}
	return err.Error()
}

var _ ports.VerificationProvider = (*Registry)(nil)
