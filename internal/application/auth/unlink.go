package auth

import (
	"context"

	"github.com/easebox-25/easebox-backend/internal/application/ports"
	"github.com/easebox-25/easebox-backend/internal/domain"
	domerrors "github.com/easebox-25/easebox-backend/internal/domain/errors"
)

// UnlinkProvider removes one provider identity from a user, guarded
// against orphaning: a passwordless user must keep at least one link.
type UnlinkProvider struct {
	users      ports.UserRepository
	identities ports.OAuthIdentityRepository
}

func NewUnlinkProvider(users ports.UserRepository, identities ports.OAuthIdentityRepository) *UnlinkProvider {
	return &UnlinkProvider{users: users, identities: identities}
}

// Execute counts identities before deletion; a stored password counts
// as an independent auth method. Unlinking a provider that is not
// linked is a no-op.
func (uc *UnlinkProvider) Execute(ctx context.Context, userID domain.UserID, provider domain.Provider) error {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domerrors.ErrUserNotFound
	}
	linked, err := uc.identities.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	if !user.HasPassword() && len(linked) <= 1 {
		return domerrors.ErrCannotUnlinkOnlyAuth
	}
	return uc.identities.Delete(ctx, userID, provider)
}

// ListLinkedProviders returns the user's linked provider identities.
type ListLinkedProviders struct {
	users      ports.UserRepository
	identities ports.OAuthIdentityRepository
}

func NewListLinkedProviders(users ports.UserRepository, identities ports.OAuthIdentityRepository) *ListLinkedProviders {
	return &ListLinkedProviders{users: users, identities: identities}
}

func (uc *ListLinkedProviders) Execute(ctx context.Context, userID domain.UserID) ([]*domain.OAuthIdentity, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domerrors.ErrUserNotFound
	}
	return uc.identities.ListByUser(ctx, userID)
}
