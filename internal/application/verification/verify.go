package verification

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/easebox-25/easebox-backend/internal/application/ports"
	"github.com/easebox-25/easebox-backend/internal/domain"
	domerrors "github.com/easebox-25/easebox-backend/internal/domain/errors"
)

// DefaultRCPattern accepts CAC numbers of 6 or 7 digits, with or
// without the RC prefix ("RC-1234567", "RC1234567", "1234567").
const DefaultRCPattern = `^(?i:RC)?-?[0-9]{6,7}$`

// allowedIDTypes is the static capability table: which id types each
// account type may verify.
var allowedIDTypes = map[domain.UserType][]domain.IDType{
	domain.UserTypeIndividual: {domain.IDTypeNationalID},
	domain.UserTypeRider:      {domain.IDTypeNationalID},
	domain.UserTypeCompany:    {domain.IDTypeRegistrationNumber},
}

type VerifyIDInput struct {
	UserID   domain.UserID
	IDNumber string
	IDType   domain.IDType
}

type VerifyIDResult struct {
	IDType   domain.IDType
	IDNumber string
	Fields   map[string]string
}

// VerifyID reconciles a user-supplied identity claim against the
// external registry provider and the stored profile.
type VerifyID struct {
	users     ports.UserRepository
	profiles  ports.ProfileRepository
	provider  ports.VerificationProvider
	rcPattern *regexp.Regexp
	log       zerolog.Logger
}

// NewVerifyID builds the orchestrator. rcPattern may be empty to use
// DefaultRCPattern; an invalid pattern also falls back to the default.
func NewVerifyID(users ports.UserRepository, profiles ports.ProfileRepository, provider ports.VerificationProvider, rcPattern string, log zerolog.Logger) *VerifyID {
	if rcPattern == "" {
		rcPattern = DefaultRCPattern
	}
	re, err := regexp.Compile(rcPattern)
	if err != nil {
		log.Warn().Err(err).Str("pattern", rcPattern).Msg("invalid rc pattern, using default")
		re = regexp.MustCompile(DefaultRCPattern)
	}
	return &VerifyID{users: users, profiles: profiles, provider: provider, rcPattern: re, log: log}
}

func (uc *VerifyID) Execute(ctx context.Context, input VerifyIDInput) (*VerifyIDResult, error) {
	user, err := uc.users.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domerrors.ErrUserNotFound
	}
	if !permitted(user.UserType, input.IDType) {
		return nil, domerrors.ErrInvalidIDType
	}
	switch input.IDType {
	case domain.IDTypeRegistrationNumber:
		return uc.verifyRegistrationNumber(ctx, user, input.IDNumber)
	case domain.IDTypeNationalID:
		return uc.verifyNationalID(ctx, user, input.IDNumber)
	default:
		return nil, domerrors.ErrUnsupportedIDType
	}
}

func permitted(userType domain.UserType, idType domain.IDType) bool {
	for _, t := range allowedIDTypes[userType] {
		if t == idType {
			return true
		}
	}
	return false
}

func (uc *VerifyID) verifyRegistrationNumber(ctx context.Context, user *domain.User, number string) (*VerifyIDResult, error) {
	number = strings.TrimSpace(number)
	if !uc.rcPattern.MatchString(number) {
		return nil, domerrors.ErrInvalidRCFormat
	}
	// Canonical form everywhere past this point: "RC-1234567" and
	// "1234567" are the same number.
	number = domain.NormalizeRCNumber(number)
	profile, err := uc.profiles.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domerrors.ErrProfileNotFound
	}
	claimed, err := uc.profiles.GetByRegistrationNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if claimed != nil && claimed.UserID != user.ID {
		return nil, domerrors.ErrRCNumberExists
	}
	raw, err := uc.provider.VerifyRegistrationNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	result := uc.provider.Normalize(raw)
	if !result.Valid {
		return nil, domerrors.VerificationFailed(result.Reason)
	}
	// Registry data must agree with the stored profile; a mismatch is a
	// verification failure, not a format error.
	if name := result.Field("company_name"); name != "" && !equalFold(name, profile.CompanyName) {
		return nil, domerrors.VerificationFailed("company name does not match registry records")
	}
	if addr := result.Field("address"); addr != "" && profile.Address != "" && !equalFold(addr, profile.Address) {
		return nil, domerrors.VerificationFailed("address does not match registry records")
	}
	if err := uc.profiles.SetRegistrationNumber(ctx, user.ID, number); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID.String()).Msg("registration number verified")
	return &VerifyIDResult{IDType: domain.IDTypeRegistrationNumber, IDNumber: number, Fields: result.Fields}, nil
}

func (uc *VerifyID) verifyNationalID(ctx context.Context, user *domain.User, number string) (*VerifyIDResult, error) {
	number = strings.TrimSpace(number)
	claimed, err := uc.profiles.GetByNationalID(ctx, number)
	if err != nil {
		return nil, err
	}
	if claimed != nil && claimed.UserID != user.ID {
		return nil, domerrors.ErrNationalIDExists
	}
	raw, err := uc.provider.VerifyNationalID(ctx, number)
	if err != nil {
		return nil, err
	}
	result := uc.provider.Normalize(raw)
	if !result.Valid {
		return nil, domerrors.VerificationFailed(result.Reason)
	}
	profile, err := uc.profiles.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		if first := result.Field("first_name"); first != "" && profile.FirstName != "" && !equalFold(first, profile.FirstName) {
			return nil, domerrors.VerificationFailed("first name does not match registry records")
		}
		if last := result.Field("last_name"); last != "" && profile.LastName != "" && !equalFold(last, profile.LastName) {
			return nil, domerrors.VerificationFailed("last name does not match registry records")
		}
	}
	if err := uc.profiles.SetNationalID(ctx, user.ID, number); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID.String()).Msg("national id verified")
	return &VerifyIDResult{IDType: domain.IDTypeNationalID, IDNumber: number, Fields: result.Fields}, nil
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
