package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/easebox-25/easebox-backend/internal/application/ports"
)

// TokenIssuer implements ports.TokenIssuer with HS256. Every token
// carries the fixed payload {email, user_id, user_type}.
type TokenIssuer struct {
	secret     []byte
	issuer     string
	accessExp  int64 // seconds
	refreshExp int64 // seconds
}

type accessClaims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	UserID   string `json:"user_id"`
	UserType string `json:"user_type"`
	Refresh  bool   `json:"refresh,omitempty"`
}

func NewTokenIssuer(secret []byte, issuer string, accessExp, refreshExp int64) *TokenIssuer {
	if accessExp <= 0 {
		accessExp = 900 // 15 min
	}
	if refreshExp <= 0 {
		refreshExp = 604800 // 7 days
	}
	return &TokenIssuer{secret: secret, issuer: issuer, accessExp: accessExp, refreshExp: refreshExp}
}

func (t *TokenIssuer) Issue(email, userID, userType string) (*ports.TokenPair, error) {
	access, err := t.sign(email, userID, userType, t.accessExp, false)
	if err != nil {
		return nil, err
	}
	refresh, err := t.sign(email, userID, userType, t.refreshExp, true)
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresIn: t.accessExp}, nil
}

func (t *TokenIssuer) sign(email, userID, userType string, expiresInSeconds int64, refresh bool) (string, error) {
	now := time.Now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expiresInSeconds) * time.Second)),
		},
		Email:    email,
		UserID:   userID,
		UserType: userType,
		Refresh:  refresh,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

func (t *TokenIssuer) ValidateAccessToken(tokenString string) (email, userID, userType string, err error) {
	claims, err := t.parse(tokenString)
	if err != nil {
		return "", "", "", err
	}
	if claims.Refresh {
		return "", "", "", errors.New("refresh token used as access token")
	}
	return claims.Email, claims.UserID, claims.UserType, nil
}

func (t *TokenIssuer) ValidateRefreshToken(tokenString string) (email, userID, userType string, err error) {
	claims, err := t.parse(tokenString)
	if err != nil {
		return "", "", "", err
	}
	if !claims.Refresh {
		return "", "", "", errors.New("access token used as refresh token")
	}
	return claims.Email, claims.UserID, claims.UserType, nil
}

func (t *TokenIssuer) parse(tokenString string) (*accessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

var _ ports.TokenIssuer = (*TokenIssuer)(nil)
