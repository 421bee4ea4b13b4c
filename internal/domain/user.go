package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserID is a value object for user identity.
type UserID struct{ uuid.UUID }

// NewUserID creates a new UserID from uuid.
func NewUserID(id uuid.UUID) UserID { return UserID{UUID: id} }

// String returns the canonical string form.
func (u UserID) String() string { return u.UUID.String() }

// UserType discriminates the account kind and its profile shape.
type UserType string

const (
	UserTypeIndividual UserType = "individual"
	UserTypeCompany    UserType = "company"
	UserTypeRider      UserType = "rider"
)

// Valid reports whether t is a known user type.
func (t UserType) Valid() bool {
	switch t {
	case UserTypeIndividual, UserTypeCompany, UserTypeRider:
		return true
	}
	return false
}

// User is the identity root. Email is stored lowercase and is globally
// unique. An empty PasswordHash means the account is OAuth-only.
type User struct {
	ID            UserID
	Email         string
	PasswordHash  string
	UserType      UserType
	EmailVerified bool
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasPassword reports whether a password is an available auth method.
func (u *User) HasPassword() bool { return u.PasswordHash != "" }

// Profile is the 1:1 companion row of a User. One struct carries all
// variants; the owner's UserType decides which fields are meaningful.
type Profile struct {
	ID     uuid.UUID
	UserID UserID

	// individual / rider
	FirstName  string
	LastName   string
	Phone      string
	NationalID string
	IDVerified bool

	// company
	CompanyName        string
	RegistrationNumber string
	Address            string
	City               string
	State              string
	LogoURL            string

	CreatedAt time.Time
	UpdatedAt time.Time
}
