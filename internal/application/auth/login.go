package auth

import (
	"context"

	"github.com/easebox-25/easebox-backend/internal/application/ports"
	"github.com/easebox-25/easebox-backend/internal/domain"
	domerrors "github.com/easebox-25/easebox-backend/internal/domain/errors"
)

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	User    *domain.User
	Profile *domain.Profile
	Tokens  *ports.TokenPair
}

// Login authenticates a password credential and issues tokens.
type Login struct {
	users    ports.UserRepository
	profiles ports.ProfileRepository
	hasher   ports.PasswordHasher
	issuer   ports.TokenIssuer
}

func NewLogin(users ports.UserRepository, profiles ports.ProfileRepository, hasher ports.PasswordHasher, issuer ports.TokenIssuer) *Login {
	return &Login{users: users, profiles: profiles, hasher: hasher, issuer: issuer}
}

// Execute resolves the user by normalized email and verifies the
// password. Unknown email and wrong password return the same error so
// responses cannot be used to enumerate accounts.
func (uc *Login) Execute(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := NormalizeEmail(input.Email)
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domerrors.ErrInvalidCredentials
	}
	if !user.HasPassword() {
		return nil, domerrors.ErrNoPassword
	}
	if !uc.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, domerrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domerrors.ErrAccountDeactivated
	}
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
	return &LoginResult{User: user, Profile: profile, Tokens: tokens}, nil
}
