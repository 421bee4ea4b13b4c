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

func googleAssertion(email, accountID string) OAuthAssertion {
	return OAuthAssertion{
		Email:             email,
		EmailVerified:     true,
		FirstName:         "Jane",
		LastName:          "Doe",
		Provider:          domain.ProviderGoogle,
		ProviderAccountID: accountID,
	}
}

func TestOAuthNewUserProvisioned(t *testing.T) {
	users := &memUserRepo{}
	profiles := &memProfileRepo{}
	identities := &memIdentityRepo{}
	uc := NewOAuthAuthenticate(users, profiles, identities, staticIssuer{})

	result, err := uc.Execute(context.Background(), googleAssertion("Jane@Example.com", "google-123"))
	if err != nil {
		t.Fatalf("oauth: %v", err)
	}
	if !result.Created {
		t.Error("expected Created=true for a new identity")
	}
	if result.User.Email != "jane@example.com" {
		t.Errorf("email not normalized: %q", result.User.Email)
	}
	if result.User.HasPassword() {
		t.Error("oauth-provisioned user must have no password")
	}
	if result.User.UserType != domain.UserTypeIndividual {
		t.Errorf("user type = %q, want individual", result.User.UserType)
	}
	if len(profiles.profiles) != 1 {
		t.Fatalf("expected exactly 1 profile, got %d", len(profiles.profiles))
	}
	if profiles.profiles[0].FirstName != "Jane" || profiles.profiles[0].LastName != "Doe" {
		t.Error("profile names not taken from assertion")
	}
	if len(identities.identities) != 1 {
		t.Fatalf("expected 1 identity link, got %d", len(identities.identities))
	}
}

func TestOAuthReturningUser(t *testing.T) {
	users := &memUserRepo{}
	profiles := &memProfileRepo{}
	identities := &memIdentityRepo{}
	uc := NewOAuthAuthenticate(users, profiles, identities, staticIssuer{})

	first, err := uc.Execute(context.Background(), googleAssertion("jane@example.com", "google-123"))
	if err != nil {
		t.Fatalf("first callback: %v", err)
	}
	second, err := uc.Execute(context.Background(), googleAssertion("jane@example.com", "google-123"))
	if err != nil {
		t.Fatalf("second callback: %v", err)
	}
	if second.Created {
		t.Error("returning user must not be Created")
	}
	if second.User.ID != first.User.ID {
		t.Error("returning user resolved to a different account")
	}
	if len(users.users) != 1 || len(identities.identities) != 1 {
		t.Errorf("repeat callback created rows: users=%d identities=%d", len(users.users), len(identities.identities))
	}
}

func TestOAuthLinksToExistingEmail(t *testing.T) {
	users := &memUserRepo{}
	profiles := &memProfileRepo{}
	identities := &memIdentityRepo{}
	existing := seedUser(users, profiles, "jane@example.com", "s3cretpass", true)
	uc := NewOAuthAuthenticate(users, profiles, identities, staticIssuer{})

	result, err := uc.Execute(context.Background(), googleAssertion("jane@example.com", "google-123"))
	if err != nil {
		t.Fatalf("oauth: %v", err)
	}
	if result.Created {
		t.Error("existing email must not create a new account")
	}
	if result.User.ID != existing.ID {
		t.Error("assertion not linked to the existing account")
	}
	if len(identities.identities) != 1 || identities.identities[0].UserID != existing.ID {
		t.Error("identity link missing or bound to wrong user")
	}
	if !result.User.EmailVerified {
		t.Error("verified provider email must flip email_verified")
	}
}

func TestOAuthProviderAccountBoundElsewhere(t *testing.T) {
	users := &memUserRepo{}
	profiles := &memProfileRepo{}
	identities := &memIdentityRepo{}
	other := seedUser(users, profiles, "other@example.com", "s3cretpass", true)
	identities.identities = append(identities.identities, &domain.OAuthIdentity{
		ID:                uuid.New(),
		UserID:            other.ID,
		Provider:          domain.ProviderGoogle,
		ProviderAccountID: "google-123",
		CreatedAt:         time.Now(),
	})
	uc := NewOAuthAuthenticate(users, profiles, identities, staticIssuer{})

	// The provider account already belongs to other; resolution path 1
	// returns that user rather than conflicting.
	result, err := uc.Execute(context.Background(), googleAssertion("jane@example.com", "google-123"))
	if err != nil {
		t.Fatalf("oauth: %v", err)
	}
	if result.User.ID != other.ID {
		t.Error("expected resolution to the already-linked user")
	}
	if len(users.users) != 1 {
		t.Error("no new user should be created")
	}
}

func TestOAuthLinkConflictAcrossUsers(t *testing.T) {
	users := &memUserRepo{}
	profiles := &memProfileRepo{}
	identities := &memIdentityRepo{}
	uc := NewOAuthAuthenticate(users, profiles, identities, staticIssuer{})

	jane := seedUser(users, profiles, "jane@example.com", "s3cretpass", true)
	other := seedUser(users, profiles, "other@example.com", "s3cretpass", true)
	identities.identities = append(identities.identities, &domain.OAuthIdentity{
		ID:                uuid.New(),
		UserID:            other.ID,
		Provider:          domain.ProviderGoogle,
		ProviderAccountID: "google-999",
		CreatedAt:         time.Now(),
	})

	err := uc.link(context.Background(), jane.ID, googleAssertion("jane@example.com", "google-999"))
	if !errors.Is(err, domerrors.ErrOAuthAccountLinked) {
		t.Fatalf("expected OAUTH_ACCOUNT_LINKED, got %v", err)
	}
	if len(identities.identities) != 1 {
		t.Error("conflicting link must not mutate state")
	}
}

func TestOAuthLinkIdempotentPerUserProvider(t *testing.T) {
	users := &memUserRepo{}
	profiles := &memProfileRepo{}
	identities := &memIdentityRepo{}
	jane := seedUser(users, profiles, "jane@example.com", "s3cretpass", true)
	identities.identities = append(identities.identities, &domain.OAuthIdentity{
		ID:                uuid.New(),
		UserID:            jane.ID,
		Provider:          domain.ProviderGoogle,
		ProviderAccountID: "google-123",
		CreatedAt:         time.Now(),
	})
	uc := NewOAuthAuthenticate(users, profiles, identities, staticIssuer{})

	// Same user, same provider, different account id: existing link wins.
	if err := uc.link(context.Background(), jane.ID, googleAssertion("jane@example.com", "google-456")); err != nil {
		t.Fatalf("link: %v", err)
	}
	if len(identities.identities) != 1 {
		t.Errorf("expected 1 identity after re-link, got %d", len(identities.identities))
	}
}
