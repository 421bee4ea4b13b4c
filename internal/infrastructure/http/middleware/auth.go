package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/easebox-25/easebox-backend/internal/application/ports"
)

// AuthValidator validates the JWT and sets the caller in context (see
// AuthFromContext).
type AuthValidator struct {
	issuer ports.TokenIssuer
}

func NewAuthValidator(issuer ports.TokenIssuer) *AuthValidator {
	return &AuthValidator{issuer: issuer}
}

func (m *AuthValidator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			unauthorized(w, "missing or invalid authorization")
			return
		}
		tokenString := strings.TrimPrefix(auth, "Bearer ")
		email, userID, userType, err := m.issuer.ValidateAccessToken(tokenString)
		if err != nil {
			unauthorized(w, "invalid token")
			return
		}
		ctx := WithAuth(r.Context(), AuthInfo{Email: email, UserID: userID, UserType: userType})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": "unauthorized"})
}
