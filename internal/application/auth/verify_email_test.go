package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/easebox-25/easebox-backend/internal/domain"
	domerrors "github.com/easebox-25/easebox-backend/internal/domain/errors"
)

func seedOTP(otps *memOTPRepo, userID domain.UserID, code string, expiresAt time.Time) {
	otps.otps = append(otps.otps, &domain.OTP{
		ID:        uuid.New(),
		UserID:    userID,
		Channel:   domain.OTPChannelEmail,
		CodeHash:  hashCode(code),
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	})
}

func TestVerifyEmail(t *testing.T) {
	users := &memUserRepo{}
	otps := &memOTPRepo{}
	user := seedUser(users, nil, "jane@example.com", "s3cretpass", true)
	seedOTP(otps, user.ID, "123456", time.Now().Add(otpExpiry))
	uc := NewVerifyEmail(users, otps)

	verified, err := uc.Execute(context.Background(), VerifyEmailInput{Email: " Jane@Example.com ", Code: "123456"})
	if err != nil {
		t.Fatalf("verify email: %v", err)
	}
	if verified.ID != user.ID {
		t.Error("wrong user returned")
	}
	if !user.EmailVerified {
		t.Error("email_verified not set")
	}
	if otps.otps[0].UsedAt == nil {
		t.Error("code not marked used")
	}
}

func TestVerifyEmailCodeSingleUse(t *testing.T) {
	users := &memUserRepo{}
	otps := &memOTPRepo{}
	user := seedUser(users, nil, "jane@example.com", "s3cretpass", true)
	seedOTP(otps, user.ID, "123456", time.Now().Add(otpExpiry))
	uc := NewVerifyEmail(users, otps)

	if _, err := uc.Execute(context.Background(), VerifyEmailInput{Email: "jane@example.com", Code: "123456"}); err != nil {
		t.Fatalf("first redemption: %v", err)
	}
	if _, err := uc.Execute(context.Background(), VerifyEmailInput{Email: "jane@example.com", Code: "123456"}); !errors.Is(err, domerrors.ErrInvalidOTP) {
		t.Errorf("second redemption err = %v, want INVALID_OTP", err)
	}
}

func TestVerifyEmailErrorPaths(t *testing.T) {
	users := &memUserRepo{}
	otps := &memOTPRepo{}
	user := seedUser(users, nil, "jane@example.com", "s3cretpass", true)
	stale := seedUser(users, nil, "stale@example.com", "s3cretpass", true)
	seedUser(users, nil, "nocode@example.com", "s3cretpass", true)
	seedOTP(otps, user.ID, "123456", time.Now().Add(otpExpiry))
	seedOTP(otps, stale.ID, "654321", time.Now().Add(-time.Minute))
	uc := NewVerifyEmail(users, otps)

	tests := []struct {
		name  string
		email string
		code  string
	}{
		{"unknown email", "nobody@example.com", "123456"},
		{"wrong code", "jane@example.com", "000000"},
		{"no active code", "nocode@example.com", "123456"},
		{"expired code", "stale@example.com", "654321"},
	}
	for _, tt := range tests {
		_, err := uc.Execute(context.Background(), VerifyEmailInput{Email: tt.email, Code: tt.code})
		if !errors.Is(err, domerrors.ErrInvalidOTP) {
			t.Errorf("%s: err = %v, want INVALID_OTP", tt.name, err)
		}
	}
	if user.EmailVerified {
		t.Error("wrong code must not verify the account")
	}
}

func TestVerifyEmailNoAccountEnumeration(t *testing.T) {
	users := &memUserRepo{}
	otps := &memOTPRepo{}
	user := seedUser(users, nil, "jane@example.com", "s3cretpass", true)
	seedOTP(otps, user.ID, "123456", time.Now().Add(otpExpiry))
	uc := NewVerifyEmail(users, otps)

	_, unknownErr := uc.Execute(context.Background(), VerifyEmailInput{Email: "nobody@example.com", Code: "123456"})
	_, wrongCodeErr := uc.Execute(context.Background(), VerifyEmailInput{Email: "jane@example.com", Code: "000000"})
	if unknownErr == nil || wrongCodeErr == nil {
		t.Fatal("expected errors")
	}
	if unknownErr.Error() != wrongCodeErr.Error() {
		t.Errorf("errors differ: %q vs %q", unknownErr, wrongCodeErr)
	}
}
