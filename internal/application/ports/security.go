package ports

// PasswordHasher hashes and verifies passwords (Argon2id).
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenPair is one issued access/refresh pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // access token lifetime, seconds
}

// TokenIssuer signs and validates JWTs. The payload contract is fixed:
// every token carries email, user_id and user_type. Access and refresh
// tokens are distinguished by claim; neither validates as the other.
type TokenIssuer interface {
	Issue(email, userID string, userType string) (*TokenPair, error)
	// ValidateAccessToken returns the payload claims of a valid access token.
	ValidateAccessToken(tokenString string) (email, userID, userType string, err error)
	// ValidateRefreshToken returns the payload claims of a valid refresh token.
	ValidateRefreshToken(tokenString string) (email, userID, userType string, err error)
}
