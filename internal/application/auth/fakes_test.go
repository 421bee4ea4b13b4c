package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/easebox-25/easebox-backend/internal/application/ports"
	"github.com/easebox-25/easebox-backend/internal/domain"
)

// In-memory fakes mirroring the repository contracts: lookups return
// (nil, nil) when nothing matches.

type memUserRepo struct {
	users []*domain.User
}

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	m.users = append(m.users, user)
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id domain.UserID) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) SetEmailVerified(_ context.Context, id domain.UserID) error {
	for _, u := range m.users {
		if u.ID == id {
			u.EmailVerified = true
			return nil
		}
	}
	return errors.New("no such user")
}

func (m *memUserRepo) SetActive(_ context.Context, id domain.UserID, active bool) error {
	for _, u := range m.users {
		if u.ID == id {
			u.IsActive = active
			return nil
		}
	}
	return errors.New("no such user")
}

type memProfileRepo struct {
	profiles []*domain.Profile
}

func (m *memProfileRepo) Create(_ context.Context, profile *domain.Profile) error {
	m.profiles = append(m.profiles, profile)
	return nil
}

func (m *memProfileRepo) GetByUserID(_ context.Context, userID domain.UserID) (*domain.Profile, error) {
	for _, p := range m.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memProfileRepo) GetByRegistrationNumber(_ context.Context, rcNumber string) (*domain.Profile, error) {
	for _, p := range m.profiles {
		if p.RegistrationNumber == rcNumber && rcNumber != "" {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memProfileRepo) GetByNationalID(_ context.Context, nationalID string) (*domain.Profile, error) {
	for _, p := range m.profiles {
		if p.NationalID == nationalID && nationalID != "" {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memProfileRepo) SetRegistrationNumber(_ context.Context, userID domain.UserID, rcNumber string) error {
	for _, p := range m.profiles {
		if p.UserID == userID {
			p.RegistrationNumber = rcNumber
			p.IDVerified = true
			return nil
		}
	}
	return errors.New("no such profile")
}

func (m *memProfileRepo) SetNationalID(_ context.Context, userID domain.UserID, nationalID string) error {
	for _, p := range m.profiles {
		if p.UserID == userID {
			p.NationalID = nationalID
			p.IDVerified = true
			return nil
		}
	}
	return errors.New("no such profile")
}

type memIdentityRepo struct {
	identities []*domain.OAuthIdentity
}

func (m *memIdentityRepo) Create(_ context.Context, identity *domain.OAuthIdentity) error {
	m.identities = append(m.identities, identity)
	return nil
}

func (m *memIdentityRepo) GetByProviderAccount(_ context.Context, provider domain.Provider, providerAccountID string) (*domain.OAuthIdentity, error) {
	for _, id := range m.identities {
		if id.Provider == provider && id.ProviderAccountID == providerAccountID {
			return id, nil
		}
	}
	return nil, nil
}

func (m *memIdentityRepo) GetByUserAndProvider(_ context.Context, userID domain.UserID, provider domain.Provider) (*domain.OAuthIdentity, error) {
	for _, id := range m.identities {
		if id.UserID == userID && id.Provider == provider {
			return id, nil
		}
	}
	return nil, nil
}

func (m *memIdentityRepo) ListByUser(_ context.Context, userID domain.UserID) ([]*domain.OAuthIdentity, error) {
	var out []*domain.OAuthIdentity
	for _, id := range m.identities {
		if id.UserID == userID {
			out = append(out, id)
		}
	}
	return out, nil
}

func (m *memIdentityRepo) Delete(_ context.Context, userID domain.UserID, provider domain.Provider) error {
	for i, id := range m.identities {
		if id.UserID == userID && id.Provider == provider {
			m.identities = append(m.identities[:i], m.identities[i+1:]...)
			return nil
		}
	}
	return nil
}

type memOTPRepo struct {
	otps      []*domain.OTP
	createErr error
}

func (m *memOTPRepo) Create(_ context.Context, otp *domain.OTP) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.otps = append(m.otps, otp)
	return nil
}

func (m *memOTPRepo) GetActive(_ context.Context, userID domain.UserID, channel domain.OTPChannel) (*domain.OTP, error) {
	for i := len(m.otps) - 1; i >= 0; i-- {
		if m.otps[i].UserID == userID && m.otps[i].Channel == channel && m.otps[i].UsedAt == nil {
			return m.otps[i], nil
		}
	}
	return nil, nil
}

func (m *memOTPRepo) MarkUsed(_ context.Context, userID domain.UserID, channel domain.OTPChannel) error {
	now := time.Now()
	for _, otp := range m.otps {
		if otp.UserID == userID && otp.Channel == channel && otp.UsedAt == nil {
			otp.UsedAt = &now
		}
	}
	return nil
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Verify(password, hash string) bool { return hash == "hashed:"+password }

type staticIssuer struct{}

func (staticIssuer) Issue(email, userID string, userType string) (*ports.TokenPair, error) {
	return &ports.TokenPair{AccessToken: "access-" + userID, RefreshToken: "refresh-" + userID, ExpiresIn: 900}, nil
}

func (staticIssuer) ValidateAccessToken(string) (string, string, string, error) {
	return "", "", "", errors.New("not implemented")
}

// ValidateRefreshToken mirrors Issue: tokens of the form
// "refresh-<user id>" validate, anything else is rejected.
func (staticIssuer) ValidateRefreshToken(token string) (string, string, string, error) {
	if !strings.HasPrefix(token, "refresh-") {
		return "", "", "", errors.New("not a refresh token")
	}
	return "", strings.TrimPrefix(token, "refresh-"), "", nil
}

type memEnqueuer struct {
	otpSends   int
	webhooks   int
	enqueueErr error
}

func (m *memEnqueuer) EnqueueSendOTP(_ context.Context, _, _, _ string) error {
	if m.enqueueErr != nil {
		return m.enqueueErr
	}
	m.otpSends++
	return nil
}

func (m *memEnqueuer) EnqueueWebhook(_ context.Context, _ string, _ interface{}) error {
	m.webhooks++
	return nil
}

var (
	_ ports.UserRepository          = (*memUserRepo)(nil)
	_ ports.ProfileRepository       = (*memProfileRepo)(nil)
	_ ports.OAuthIdentityRepository = (*memIdentityRepo)(nil)
	_ ports.OTPRepository           = (*memOTPRepo)(nil)
	_ ports.PasswordHasher          = plainHasher{}
	_ ports.TokenIssuer             = staticIssuer{}
	_ ports.TaskEnqueuer            = (*memEnqueuer)(nil)
)
