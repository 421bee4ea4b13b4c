package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/easebox-25/easebox-backend/internal/application/ports"
	"github.com/easebox-25/easebox-backend/internal/domain"
	domerrors "github.com/easebox-25/easebox-backend/internal/domain/errors"
)

// OAuthAssertion is the minimal verified claim set from a provider
// callback (Goth user).
type OAuthAssertion struct {
	Email             string
	EmailVerified     bool
	FirstName         string
	LastName          string
	Provider          domain.Provider
	ProviderAccountID string
}

// OAuthResult returns the resolved user, profile and tokens. Created
// is true when a brand-new account was provisioned.
type OAuthResult struct {
	User    *domain.User
	Profile *domain.Profile
	Tokens  *ports.TokenPair
	Created bool
}

// OAuthAuthenticate resolves an incoming OAuth assertion to exactly one
// durable user identity. Resolution order is strict:
//  1. existing link by (provider, providerAccountID)
//  2. existing user by email — link the provider identity
//  3. new user (individual, no password)
type OAuthAuthenticate struct {
	users      ports.UserRepository
	profiles   ports.ProfileRepository
	identities ports.OAuthIdentityRepository
	issuer     ports.TokenIssuer
}

func NewOAuthAuthenticate(users ports.UserRepository, profiles ports.ProfileRepository, identities ports.OAuthIdentityRepository, issuer ports.TokenIssuer) *OAuthAuthenticate {
	return &OAuthAuthenticate{users: users, profiles: profiles, identities: identities, issuer: issuer}
}

func (uc *OAuthAuthenticate) Execute(ctx context.Context, assertion OAuthAssertion) (*OAuthResult, error) {
	linked, err := uc.identities.GetByProviderAccount(ctx, assertion.Provider, assertion.ProviderAccountID)
	if err != nil {
		return nil, err
	}
	if linked != nil {
		// Returning user.
		user, err := uc.users.GetByID(ctx, linked.UserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, domerrors.ErrUserNotFound
		}
		return uc.finish(ctx, user, false)
	}

	email := NormalizeEmail(assertion.Email)
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		// Known email: link this provider identity to the account.
		if err := uc.link(ctx, user.ID, assertion); err != nil {
			return nil, err
		}
		if assertion.EmailVerified && !user.EmailVerified {
			if err := uc.users.SetEmailVerified(ctx, user.ID); err != nil {
				return nil, err
			}
			user.EmailVerified = true
		}
		return uc.finish(ctx, user, false)
	}

	// Brand-new identity: provision user + profile, then link.
	now := time.Now()
	user = &domain.User{
		ID:            domain.NewUserID(uuid.New()),
		Email:         email,
		UserType:      domain.UserTypeIndividual,
		EmailVerified: assertion.EmailVerified,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	profile := &domain.Profile{
		ID:        uuid.New(),
		UserID:    user.ID,
		FirstName: assertion.FirstName,
		LastName:  assertion.LastName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}
	if err := uc.link(ctx, user.ID, assertion); err != nil {
		return nil, err
	}
	tokens, err := uc.issuer.Issue(user.Email, user.ID.String(), string(user.UserType))
	if err != nil {
		return nil, err
	}
	return &OAuthResult{User: user, Profile: profile, Tokens: tokens, Created: true}, nil
}

// link creates the (userID, provider) identity row. Invariants:
//   - a provider account bound to a different user is a conflict, no mutation
//   - an existing (userID, provider) row makes this a no-op, so retried
//     callbacks stay idempotent
func (uc *OAuthAuthenticate) link(ctx context.Context, userID domain.UserID, assertion OAuthAssertion) error {
	existing, err := uc.identities.GetByProviderAccount(ctx, assertion.Provider, assertion.ProviderAccountID)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.UserID != userID {
			return domerrors.ErrOAuthAccountLinked
		}
		return nil
	}
	current, err := uc.identities.GetByUserAndProvider(ctx, userID, assertion.Provider)
	if err != nil {
		return err
	}
	if current != nil {
		return nil
	}
	return uc.identities.Create(ctx, &domain.OAuthIdentity{
		ID:                uuid.New(),
		UserID:            userID,
		Provider:          assertion.Provider,
		ProviderAccountID: assertion.ProviderAccountID,
		ProviderEmail:     NormalizeEmail(assertion.Email),
		CreatedAt:         time.Now(),
	})
}

func (uc *OAuthAuthenticate) finish(ctx context.Context, user *domain.User, created bool) (*OAuthResult, error) {
	profile, err := uc.profiles.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domerrors.ErrProfileNotFound
	}
	tokens, err := uc.issuer.Issue(user.Email, user.ID.String(), string(user.UserType))
	if err != nil {
		return nil, err
	}
	return &OAuthResult{User: user, Profile: profile, Tokens: tokens, Created: created}, nil
}
