package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/easebox-25/easebox-backend/internal/application/ports"
	"github.com/easebox-25/easebox-backend/internal/domain"
)

const otpExpiry = 15 * time.Minute

// otpDispatcher creates a verification code and enqueues its delivery.
// Failures never propagate to the caller; registration must succeed
// even when the code cannot be stored or sent.
type otpDispatcher struct {
	otps     ports.OTPRepository
	enqueuer ports.TaskEnqueuer
	log      zerolog.Logger
}

func newOTPDispatcher(otps ports.OTPRepository, enqueuer ports.TaskEnqueuer, log zerolog.Logger) *otpDispatcher {
	return &otpDispatcher{otps: otps, enqueuer: enqueuer, log: log}
}

// dispatch generates a 6-digit code, stores its hash and enqueues the
// email. Best-effort: errors are logged and swallowed.
func (d *otpDispatcher) dispatch(ctx context.Context, user *domain.User) {
	code, err := generateCode()
	if err != nil {
		d.log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("otp code generation failed")
		return
	}
	otp := &domain.OTP{
		ID:        uuid.New(),
		UserID:    user.ID,
		Channel:   domain.OTPChannelEmail,
		CodeHash:  hashCode(code),
		ExpiresAt: time.Now().Add(otpExpiry),
		CreatedAt: time.Now(),
	}
	if err := d.otps.Create(ctx, otp); err != nil {
		d.log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("otp store failed")
		return
	}
	if err := d.enqueuer.EnqueueSendOTP(ctx, user.Email, code, string(domain.OTPChannelEmail)); err != nil {
		d.log.Warn().Err(err).Str("email", user.Email).Msg("enqueue otp email failed")
	}
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
