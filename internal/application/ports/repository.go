package ports

import (
	"context"

	"github.com/easebox-25/easebox-backend/internal/domain"
)

// UserRepository defines persistence for users. Lookups return
// (nil, nil) when no row matches; "not found" is never an error here.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	// GetByEmail matches case-insensitively; stored emails are lowercase.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	SetEmailVerified(ctx context.Context, id domain.UserID) error
	SetActive(ctx context.Context, id domain.UserID, active bool) error
}

// ProfileRepository defines persistence for the 1:1 profile row.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByUserID(ctx context.Context, userID domain.UserID) (*domain.Profile, error)
	GetByRegistrationNumber(ctx context.Context, rcNumber string) (*domain.Profile, error)
	GetByNationalID(ctx context.Context, nationalID string) (*domain.Profile, error)
	SetRegistrationNumber(ctx context.Context, userID domain.UserID, rcNumber string) error
	SetNationalID(ctx context.Context, userID domain.UserID, nationalID string) error
}

// OAuthIdentityRepository defines persistence for provider links.
type OAuthIdentityRepository interface {
	Create(ctx context.Context, identity *domain.OAuthIdentity) error
	GetByProviderAccount(ctx context.Context, provider domain.Provider, providerAccountID string) (*domain.OAuthIdentity, error)
	GetByUserAndProvider(ctx context.Context, userID domain.UserID, provider domain.Provider) (*domain.OAuthIdentity, error)
	ListByUser(ctx context.Context, userID domain.UserID) ([]*domain.OAuthIdentity, error)
	Delete(ctx context.Context, userID domain.UserID, provider domain.Provider) error
}

// OTPRepository defines storage for short-lived verification codes.
type OTPRepository interface {
	Create(ctx context.Context, otp *domain.OTP) error
	GetActive(ctx context.Context, userID domain.UserID, channel domain.OTPChannel) (*domain.OTP, error)
	MarkUsed(ctx context.Context, id domain.UserID, channel domain.OTPChannel) error
}
