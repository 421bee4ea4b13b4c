package auth

import (
	"context"
	"errors"
	"testing"

	domerrors "github.com/easebox-25/easebox-backend/internal/domain/errors"
)

func TestRefresh(t *testing.T) {
	users := &memUserRepo{}
	user := seedUser(users, nil, "jane@example.com", "s3cretpass", true)
	uc := NewRefresh(users, staticIssuer{})

	result, err := uc.Execute(context.Background(), RefreshInput{RefreshToken: "refresh-" + user.ID.String()})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if result.User.ID != user.ID {
		t.Error("wrong user returned")
	}
	if result.Tokens == nil || result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		t.Error("expected a full token pair")
	}
}

func TestRefreshErrorPaths(t *testing.T) {
	users := &memUserRepo{}
	deactivated := seedUser(users, nil, "gone@example.com", "s3cretpass", false)
	uc := NewRefresh(users, staticIssuer{})

	tests := []struct {
		name  string
		token string
		want  *domerrors.Error
	}{
		{"garbage token", "not-a-token", domerrors.ErrInvalidToken},
		{"access token presented", "access-" + deactivated.ID.String(), domerrors.ErrInvalidToken},
		{"malformed subject", "refresh-not-a-uuid", domerrors.ErrInvalidToken},
		{"unknown user", "refresh-00000000-0000-0000-0000-000000000000", domerrors.ErrInvalidToken},
		{"deactivated account", "refresh-" + deactivated.ID.String(), domerrors.ErrAccountDeactivated},
	}
	for _, tt := range tests {
		_, err := uc.Execute(context.Background(), RefreshInput{RefreshToken: tt.token})
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %s", tt.name, err, tt.want.Code)
		}
	}
}
