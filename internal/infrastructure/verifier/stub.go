package verifier

import (
	"context"
	"time"

	"github.com/easebox-25/easebox-backend/internal/application/ports"
	"github.com/easebox-25/easebox-backend/internal/domain"
)

// Stub is a deterministic provider for tests and offline development:
// every lookup succeeds after a fixed latency and returns no fields,
// so profile cross-checks are skipped.
type Stub struct {
	Latency time.Duration
}

func NewStub(latency time.Duration) *Stub {
	return &Stub{Latency: latency}
}

func (s *Stub) VerifyNationalID(ctx context.Context, number string) (*ports.RawVerification, error) {
	return s.respond(ctx)
}

func (s *Stub) VerifyRegistrationNumber(ctx context.Context, number string) (*ports.RawVerification, error) {
	return s.respond(ctx)
}

func (s *Stub) respond(ctx context.Context) (*ports.RawVerification, error) {
	if s.Latency > 0 {
		select {
		case <-ctx.Done():
			return &ports.RawVerification{Status: false, Message: ctx.Err().Error()}, nil
		case <-time.After(s.Latency):
		}
	}
	return &ports.RawVerification{Status: true, Code: "00", Message: "verified"}, nil
}

func (s *Stub) Normalize(raw *ports.RawVerification) domain.VerificationResult {
	if raw == nil || !raw.Status {
		reason := ""
		if raw != nil {
			reason = raw.Message
		}
		return domain.VerificationResult{Valid: false, Reason: reason}
	}
	return domain.VerificationResult{Valid: true, Fields: raw.Fields}
}

var _ ports.VerificationProvider = (*Stub)(nil)
