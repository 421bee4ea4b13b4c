package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/easebox-25/easebox-backend/internal/application/ports"
	"github.com/easebox-25/easebox-backend/internal/domain"
	domerrors "github.com/easebox-25/easebox-backend/internal/domain/errors"
)

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type RegisterIndividualInput struct {
	Email         string
	Password      string
	FirstName     string
	LastName      string
	Phone         string
	TermsAccepted bool
	UserType      domain.UserType // individual or rider; zero value means individual
}

type RegisterCompanyInput struct {
	Email              string
	Password           string
	CompanyName        string
	RegistrationNumber string
	Address            string
	City               string
	State              string
	Phone              string
	LogoURL            string
	TermsAccepted      bool
}

// RegisterResult returns the created profile and issued tokens.
type RegisterResult struct {
	UserID  domain.UserID
	Profile *domain.Profile
	Tokens  *ports.TokenPair
}

// RegisterIndividual creates an individual (or rider) account with a
// password credential.
type RegisterIndividual struct {
	users    ports.UserRepository
	profiles ports.ProfileRepository
	hasher   ports.PasswordHasher
	issuer   ports.TokenIssuer
	otp      *otpDispatcher
}

func NewRegisterIndividual(users ports.UserRepository, profiles ports.ProfileRepository, hasher ports.PasswordHasher, issuer ports.TokenIssuer, otps ports.OTPRepository, enqueuer ports.TaskEnqueuer, log zerolog.Logger) *RegisterIndividual {
	return &RegisterIndividual{
		users:    users,
		profiles: profiles,
		hasher:   hasher,
		issuer:   issuer,
		otp:      newOTPDispatcher(otps, enqueuer, log),
	}
}

func (uc *RegisterIndividual) Execute(ctx context.Context, input RegisterIndividualInput) (*RegisterResult, error) {
	if !input.TermsAccepted {
		return nil, domerrors.ErrTermsNotAccepted
	}
	userType := input.UserType
	if userType == "" {
		userType = domain.UserTypeIndividual
	}
	email := NormalizeEmail(input.Email)
	existing, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domerrors.ErrEmailExists
	}
	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &domain.User{
		ID:           domain.NewUserID(uuid.New()),
		Email:        email,
		PasswordHash: hash,
		UserType:     userType,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	profile := &domain.Profile{
		ID:        uuid.New(),
		UserID:    user.ID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}
	uc.otp.dispatch(ctx, user)
	tokens, err := uc.issuer.Issue(user.Email, user.ID.String(), string(user.UserType))
	if err != nil {
		return nil, err
	}
	return &RegisterResult{UserID: user.ID, Profile: profile, Tokens: tokens}, nil
}

// RegisterCompany creates a company account. The supplied registration
// number is claimed (unverified) at registration; verification against
// the corporate registry happens later.
type RegisterCompany struct {
	users    ports.UserRepository
	profiles ports.ProfileRepository
	hasher   ports.PasswordHasher
	issuer   ports.TokenIssuer
	otp      *otpDispatcher
}

func NewRegisterCompany(users ports.UserRepository, profiles ports.ProfileRepository, hasher ports.PasswordHasher, issuer ports.TokenIssuer, otps ports.OTPRepository, enqueuer ports.TaskEnqueuer, log zerolog.Logger) *RegisterCompany {
	return &RegisterCompany{
		users:    users,
		profiles: profiles,
		hasher:   hasher,
		issuer:   issuer,
		otp:      newOTPDispatcher(otps, enqueuer, log),
	}
}

func (uc *RegisterCompany) Execute(ctx context.Context, input RegisterCompanyInput) (*RegisterResult, error) {
	if !input.TermsAccepted {
		return nil, domerrors.ErrTermsNotAccepted
	}
	email := NormalizeEmail(input.Email)
	existing, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domerrors.ErrEmailExists
	}
	rcNumber := domain.NormalizeRCNumber(input.RegistrationNumber)
	if rcNumber != "" {
		claimed, err := uc.profiles.GetByRegistrationNumber(ctx, rcNumber)
		if err != nil {
			return nil, err
		}
		if claimed != nil {
			return nil, domerrors.ErrRCNumberExists
		}
	}
	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &domain.User{
		ID:           domain.NewUserID(uuid.New()),
		Email:        email,
		PasswordHash: hash,
		UserType:     domain.UserTypeCompany,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	profile := &domain.Profile{
		ID:                 uuid.New(),
		UserID:             user.ID,
		CompanyName:        input.CompanyName,
		RegistrationNumber: rcNumber,
		Address:            input.Address,
		City:               input.City,
		State:              input.State,
		Phone:              input.Phone,
		LogoURL:            input.LogoURL,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}
	uc.otp.dispatch(ctx, user)
	tokens, err := uc.issuer.Issue(user.Email, user.ID.String(), string(user.UserType))
	if err != nil {
		return nil, err
	}
	return &RegisterResult{UserID: user.ID, Profile: profile, Tokens: tokens}, nil
}
