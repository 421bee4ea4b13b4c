package ports

import (
	"context"

	"github.com/easebox-25/easebox-backend/internal/domain"
)

// RawVerification is one provider-specific lookup response before
// normalization. Status and Code are the provider's own success
// signals; Fields carries whatever attributes it returned.
type RawVerification struct {
	Status  bool
	Code    string
	Message string
	Fields  map[string]string
}

// VerificationProvider is the capability interface over identity
// verification backends. Implementations absorb transport failures and
// report them as a failed RawVerification, never as an error; the
// error return is reserved for programming faults (bad input encoding).
type VerificationProvider interface {
	VerifyNationalID(ctx context.Context, number string) (*RawVerification, error)
	VerifyRegistrationNumber(ctx context.Context, number string) (*RawVerification, error)
	Normalize(raw *RawVerification) domain.VerificationResult
}
