package domain

import (
	"time"

	"github.com/google/uuid"
)

// Provider names an external OAuth identity provider.
type Provider string

const (
	ProviderGoogle   Provider = "google"
	ProviderFacebook Provider = "facebook"
	ProviderApple    Provider = "apple"
)

// Valid reports whether p is a known provider.
func (p Provider) Valid() bool {
	switch p {
	case ProviderGoogle, ProviderFacebook, ProviderApple:
		return true
	}
	return false
}

// OAuthIdentity links one external provider account to a User.
// Unique per (user_id, provider) and per (provider, provider_account_id).
type OAuthIdentity struct {
	ID                uuid.UUID
	UserID            UserID
	Provider          Provider
	ProviderAccountID string
	ProviderEmail     string
	CreatedAt         time.Time
}

// OTPChannel is the delivery channel of a verification code.
type OTPChannel string

const (
	OTPChannelEmail OTPChannel = "email"
	OTPChannelPhone OTPChannel = "phone"
)

// OTP is a short-lived verification code tied to a user and channel.
// ExpiresAt is a hard cutoff; UsedAt marks single-use consumption.
type OTP struct {
	ID        uuid.UUID
	UserID    UserID
	Channel   OTPChannel
	CodeHash  string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}
