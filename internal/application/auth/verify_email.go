package auth

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/easebox-25/easebox-backend/internal/application/ports"
	"github.com/easebox-25/easebox-backend/internal/domain"
	domerrors "github.com/easebox-25/easebox-backend/internal/domain/errors"
)

type VerifyEmailInput struct {
	Email string
	Code  string
}

// VerifyEmail redeems a dispatched verification code and flips the
// account's email_verified flag. Unknown emails, missing codes, expired
// codes and wrong codes all collapse into the same error so responses
// cannot be used to enumerate accounts.
type VerifyEmail struct {
	users ports.UserRepository
	otps  ports.OTPRepository
}

func NewVerifyEmail(users ports.UserRepository, otps ports.OTPRepository) *VerifyEmail {
	return &VerifyEmail{users: users, otps: otps}
}

func (uc *VerifyEmail) Execute(ctx context.Context, input VerifyEmailInput) (*domain.User, error) {
	user, err := uc.users.GetByEmail(ctx, NormalizeEmail(input.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domerrors.ErrInvalidOTP
	}
	otp, err := uc.otps.GetActive(ctx, user.ID, domain.OTPChannelEmail)
	if err != nil {
		return nil, err
	}
	// The store only returns unexpired codes; the time check guards
	// fetch-to-compare skew.
	if otp == nil || time.Now().After(otp.ExpiresAt) {
		return nil, domerrors.ErrInvalidOTP
	}
	if subtle.ConstantTimeCompare([]byte(otp.CodeHash), []byte(hashCode(input.Code))) != 1 {
		return nil, domerrors.ErrInvalidOTP
	}
	if err := uc.otps.MarkUsed(ctx, user.ID, domain.OTPChannelEmail); err != nil {
		return nil, err
	}
	if err := uc.users.SetEmailVerified(ctx, user.ID); err != nil {
		return nil, err
	}
	user.EmailVerified = true
	return user, nil
}
