package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/easebox-25/easebox-backend/internal/application/ports"
	"github.com/easebox-25/easebox-backend/internal/domain"
	domerrors "github.com/easebox-25/easebox-backend/internal/domain/errors"
)

type RefreshInput struct {
	RefreshToken string
}

type RefreshResult struct {
	User   *domain.User
	Tokens *ports.TokenPair
}

// Refresh exchanges a valid refresh token for a fresh token pair.
// Refresh tokens are stateless JWTs; the user row is re-read on every
// exchange so a deactivated account cannot keep minting access tokens
// for the remainder of the refresh window.
type Refresh struct {
	users  ports.UserRepository
	issuer ports.TokenIssuer
}

func NewRefresh(users ports.UserRepository, issuer ports.TokenIssuer) *Refresh {
	return &Refresh{users: users, issuer: issuer}
}

func (uc *Refresh) Execute(ctx context.Context, input RefreshInput) (*RefreshResult, error) {
	_, subject, _, err := uc.issuer.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, domerrors.ErrInvalidToken
	}
	id, err := uuid.Parse(subject)
	if err != nil {
		return nil, domerrors.ErrInvalidToken
	}
	user, err := uc.users.GetByID(ctx, domain.NewUserID(id))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domerrors.ErrInvalidToken
	}
	if !user.IsActive {
		return nil, domerrors.ErrAccountDeactivated
	}
	tokens, err := uc.issuer.Issue(user.Email, user.ID.String(), string(user.UserType))
	if err != nil {
		return nil, err
	}
	return &RefreshResult{User: user, Tokens: tokens}, nil
}
