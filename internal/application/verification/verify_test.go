package verification

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/easebox-25/easebox-backend/internal/application/ports"
	"github.com/easebox-25/easebox-backend/internal/domain"
	domerrors "github.com/easebox-25/easebox-backend/internal/domain/errors"
)

type memUserRepo struct {
	users []*domain.User
}

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	m.users = append(m.users, user)
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id domain.UserID) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) SetEmailVerified(_ context.Context, _ domain.UserID) error { return nil }

func (m *memUserRepo) SetActive(_ context.Context, _ domain.UserID, _ bool) error { return nil }

type memProfileRepo struct {
	profiles []*domain.Profile
}

func (m *memProfileRepo) Create(_ context.Context, profile *domain.Profile) error {
	m.profiles = append(m.profiles, profile)
	return nil
}

func (m *memProfileRepo) GetByUserID(_ context.Context, userID domain.UserID) (*domain.Profile, error) {
	for _, p := range m.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memProfileRepo) GetByRegistrationNumber(_ context.Context, rcNumber string) (*domain.Profile, error) {
	for _, p := range m.profiles {
		if p.RegistrationNumber == rcNumber && rcNumber != "" {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memProfileRepo) GetByNationalID(_ context.Context, nationalID string) (*domain.Profile, error) {
	for _, p := range m.profiles {
		if p.NationalID == nationalID && nationalID != "" {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memProfileRepo) SetRegistrationNumber(_ context.Context, userID domain.UserID, rcNumber string) error {
	for _, p := range m.profiles {
		if p.UserID == userID {
			p.RegistrationNumber = rcNumber
			p.IDVerified = true
			return nil
		}
	}
	return errors.New("no such profile")
}

func (m *memProfileRepo) SetNationalID(_ context.Context, userID domain.UserID, nationalID string) error {
	for _, p := range m.profiles {
		if p.UserID == userID {
			p.NationalID = nationalID
			p.IDVerified = true
			return nil
		}
	}
	return errors.New("no such profile")
}

// scriptedProvider returns canned lookup results; Normalize mirrors the
// live provider's success rule (status flag plus code "00").
type scriptedProvider struct {
	result *ports.RawVerification
	calls  int
}

func (s *scriptedProvider) VerifyNationalID(_ context.Context, _ string) (*ports.RawVerification, error) {
	s.calls++
	return s.result, nil
}

func (s *scriptedProvider) VerifyRegistrationNumber(_ context.Context, _ string) (*ports.RawVerification, error) {
	s.calls++
	return s.result, nil
}

func (s *scriptedProvider) Normalize(raw *ports.RawVerification) domain.VerificationResult {
	if !raw.Status || raw.Code != "00" {
		reason := raw.Message
		if reason == "" {
			reason = "verification failed"
		}
		return domain.VerificationResult{Valid: false, Reason: reason}
	}
	return domain.VerificationResult{Valid: true, Fields: raw.Fields}
}

var (
	_ ports.UserRepository       = (*memUserRepo)(nil)
	_ ports.ProfileRepository    = (*memProfileRepo)(nil)
	_ ports.VerificationProvider = (*scriptedProvider)(nil)
)

func okLookup(fields map[string]string) *ports.RawVerification {
	return &ports.RawVerification{Status: true, Code: "00", Fields: fields}
}

func seed(users *memUserRepo, profiles *memProfileRepo, userType domain.UserType, profile domain.Profile) *domain.User {
	user := &domain.User{
		ID:        domain.NewUserID(uuid.New()),
		Email:     string(userType) + "@example.com",
		UserType:  userType,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	users.users = append(users.users, user)
	profile.ID = uuid.New()
	profile.UserID = user.ID
	profiles.profiles = append(profiles.profiles, &profile)
	return user
}

func newVerifyID(users *memUserRepo, profiles *memProfileRepo, provider ports.VerificationProvider) *VerifyID {
	return NewVerifyID(users, profiles, provider, "", zerolog.Nop())
}

func TestVerifyIDCapabilityTable(t *testing.T) {
	tests := []struct {
		userType domain.UserType
		idType   domain.IDType
		allowed  bool
	}{
		{domain.UserTypeIndividual, domain.IDTypeNationalID, true},
		{domain.UserTypeIndividual, domain.IDTypeRegistrationNumber, false},
		{domain.UserTypeRider, domain.IDTypeNationalID, true},
		{domain.UserTypeRider, domain.IDTypeRegistrationNumber, false},
		{domain.UserTypeCompany, domain.IDTypeRegistrationNumber, true},
		{domain.UserTypeCompany, domain.IDTypeNationalID, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.userType)+"/"+string(tt.idType), func(t *testing.T) {
			users := &memUserRepo{}
			profiles := &memProfileRepo{}
			user := seed(users, profiles, tt.userType, domain.Profile{CompanyName: "Acme"})
			uc := newVerifyID(users, profiles, &scriptedProvider{result: okLookup(nil)})

			number := "12345678901"
			if tt.idType == domain.IDTypeRegistrationNumber {
				number = "1234567"
			}
			_, err := uc.Execute(context.Background(), VerifyIDInput{UserID: user.ID, IDNumber: number, IDType: tt.idType})
			if tt.allowed && err != nil {
				t.Fatalf("expected allowed, got %v", err)
			}
			if !tt.allowed && !errors.Is(err, domerrors.ErrInvalidIDType) {
				t.Fatalf("expected INVALID_ID_TYPE, got %v", err)
			}
		})
	}
}

func TestVerifyIDUnknownUser(t *testing.T) {
	uc := newVerifyID(&memUserRepo{}, &memProfileRepo{}, &scriptedProvider{result: okLookup(nil)})
	_, err := uc.Execute(context.Background(), VerifyIDInput{
		UserID: domain.NewUserID(uuid.New()), IDNumber: "12345678901", IDType: domain.IDTypeNationalID,
	})
	if !errors.Is(err, domerrors.ErrUserNotFound) {
		t.Fatalf("expected USER_NOT_FOUND, got %v", err)
	}
}

func TestVerifyRegistrationNumberFormat(t *testing.T) {
	users := &memUserRepo{}
	profiles := &memProfileRepo{}
	user := seed(users, profiles, domain.UserTypeCompany, domain.Profile{CompanyName: "Acme"})
	provider := &scriptedProvider{result: okLookup(nil)}
	uc := newVerifyID(users, profiles, provider)

	for _, bad := range []string{"12345", "123456789", "RC-12", "abc1234"} {
		_, err := uc.Execute(context.Background(), VerifyIDInput{UserID: user.ID, IDNumber: bad, IDType: domain.IDTypeRegistrationNumber})
		if !errors.Is(err, domerrors.ErrInvalidRCFormat) {
			t.Errorf("%q: expected INVALID_RC_FORMAT, got %v", bad, err)
		}
	}
	if provider.calls != 0 {
		t.Error("format rejection must not reach the provider")
	}

	for _, good := range []string{"1234567", "RC1234567", "rc-123456", "RC-1234567"} {
		if _, err := uc.Execute(context.Background(), VerifyIDInput{UserID: user.ID, IDNumber: good, IDType: domain.IDTypeRegistrationNumber}); err != nil {
			t.Errorf("%q: expected accepted format, got %v", good, err)
		}
	}
}

// "RC-1234567" and "1234567" are the same number for uniqueness and
// storage.
func TestVerifyRegistrationNumberCanonicalized(t *testing.T) {
	users := &memUserRepo{}
	profiles := &memProfileRepo{}
	user := seed(users, profiles, domain.UserTypeCompany, domain.Profile{CompanyName: "Acme"})
	seed(users, profiles, domain.UserTypeCompany, domain.Profile{CompanyName: "Other", RegistrationNumber: "1234567"})
	uc := newVerifyID(users, profiles, &scriptedProvider{result: okLookup(nil)})

	_, err := uc.Execute(context.Background(), VerifyIDInput{UserID: user.ID, IDNumber: "RC-1234567", IDType: domain.IDTypeRegistrationNumber})
	if !errors.Is(err, domerrors.ErrRCNumberExists) {
		t.Fatalf("prefixed claim of a taken number: expected RC_NUMBER_EXISTS, got %v", err)
	}
}

func TestVerifyRegistrationNumberStoresBareDigits(t *testing.T) {
	users := &memUserRepo{}
	profiles := &memProfileRepo{}
	user := seed(users, profiles, domain.UserTypeCompany, domain.Profile{CompanyName: "Acme"})
	uc := newVerifyID(users, profiles, &scriptedProvider{result: okLookup(nil)})

	result, err := uc.Execute(context.Background(), VerifyIDInput{UserID: user.ID, IDNumber: "RC-1234567", IDType: domain.IDTypeRegistrationNumber})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result.IDNumber != "1234567" {
		t.Errorf("id number = %q, want bare digits", result.IDNumber)
	}
	p, _ := profiles.GetByUserID(context.Background(), user.ID)
	if p.RegistrationNumber != "1234567" {
		t.Errorf("stored number = %q, want bare digits", p.RegistrationNumber)
	}
}

func TestVerifyRegistrationNumberClaimedElsewhere(t *testing.T) {
	users := &memUserRepo{}
	profiles := &memProfileRepo{}
	user := seed(users, profiles, domain.UserTypeCompany, domain.Profile{CompanyName: "Acme"})
	seed(users, profiles, domain.UserTypeCompany, domain.Profile{CompanyName: "Other", RegistrationNumber: "1234567"})
	provider := &scriptedProvider{result: okLookup(nil)}
	uc := newVerifyID(users, profiles, provider)

	_, err := uc.Execute(context.Background(), VerifyIDInput{UserID: user.ID, IDNumber: "1234567", IDType: domain.IDTypeRegistrationNumber})
	if !errors.Is(err, domerrors.ErrRCNumberExists) {
		t.Fatalf("expected RC_NUMBER_EXISTS, got %v", err)
	}
	if provider.calls != 0 {
		t.Error("claimed number must not reach the provider")
	}
}

func TestVerifyRegistrationNumberSuccess(t *testing.T) {
	users := &memUserRepo{}
	profiles := &memProfileRepo{}
	user := seed(users, profiles, domain.UserTypeCompany, domain.Profile{CompanyName: "Acme Ltd", Address: "1 Broad St"})
	provider := &scriptedProvider{result: okLookup(map[string]string{
		"company_name": "ACME LTD",
		"address":      "1 broad st",
	})}
	uc := newVerifyID(users, profiles, provider)

	result, err := uc.Execute(context.Background(), VerifyIDInput{UserID: user.ID, IDNumber: "1234567", IDType: domain.IDTypeRegistrationNumber})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result.IDNumber != "1234567" {
		t.Errorf("id number = %q", result.IDNumber)
	}
	p, _ := profiles.GetByUserID(context.Background(), user.ID)
	if p.RegistrationNumber != "1234567" || !p.IDVerified {
		t.Error("verified registration number not persisted")
	}
}

func TestVerifyRegistrationNumberNameMismatch(t *testing.T) {
	users := &memUserRepo{}
	profiles := &memProfileRepo{}
	user := seed(users, profiles, domain.UserTypeCompany, domain.Profile{CompanyName: "Acme Ltd"})
	provider := &scriptedProvider{result: okLookup(map[string]string{"company_name": "Totally Different Co"})}
	uc := newVerifyID(users, profiles, provider)

	_, err := uc.Execute(context.Background(), VerifyIDInput{UserID: user.ID, IDNumber: "1234567", IDType: domain.IDTypeRegistrationNumber})
	if !errors.Is(err, domerrors.ErrVerificationFailed) {
		t.Fatalf("expected VERIFICATION_FAILED, got %v", err)
	}
	p, _ := profiles.GetByUserID(context.Background(), user.ID)
	if p.IDVerified {
		t.Error("mismatch must not persist verification")
	}
}

func TestVerifyRegistrationNumberProviderRejection(t *testing.T) {
	users := &memUserRepo{}
	profiles := &memProfileRepo{}
	user := seed(users, profiles, domain.UserTypeCompany, domain.Profile{CompanyName: "Acme"})
	provider := &scriptedProvider{result: &ports.RawVerification{Status: false, Message: "record not found"}}
	uc := newVerifyID(users, profiles, provider)

	_, err := uc.Execute(context.Background(), VerifyIDInput{UserID: user.ID, IDNumber: "1234567", IDType: domain.IDTypeRegistrationNumber})
	var derr *domerrors.Error
	if !errors.As(err, &derr) || derr.Code != "VERIFICATION_FAILED" {
		t.Fatalf("expected VERIFICATION_FAILED, got %v", err)
	}
	if !strings.Contains(derr.Message, "record not found") {
		t.Errorf("reason not propagated: %q", derr.Message)
	}
}

func TestVerifyNationalIDSuccess(t *testing.T) {
	users := &memUserRepo{}
	profiles := &memProfileRepo{}
	user := seed(users, profiles, domain.UserTypeIndividual, domain.Profile{FirstName: "Jane", LastName: "Doe"})
	provider := &scriptedProvider{result: okLookup(map[string]string{
		"first_name": "JANE",
		"last_name":  "doe",
	})}
	uc := newVerifyID(users, profiles, provider)

	result, err := uc.Execute(context.Background(), VerifyIDInput{UserID: user.ID, IDNumber: "12345678901", IDType: domain.IDTypeNationalID})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result.IDType != domain.IDTypeNationalID {
		t.Errorf("id type = %q", result.IDType)
	}
	p, _ := profiles.GetByUserID(context.Background(), user.ID)
	if p.NationalID != "12345678901" || !p.IDVerified {
		t.Error("verified national id not persisted")
	}
}

func TestVerifyNationalIDClaimedElsewhere(t *testing.T) {
	users := &memUserRepo{}
	profiles := &memProfileRepo{}
	user := seed(users, profiles, domain.UserTypeIndividual, domain.Profile{FirstName: "Jane"})
	seed(users, profiles, domain.UserTypeIndividual, domain.Profile{FirstName: "Other", NationalID: "12345678901"})
	uc := newVerifyID(users, profiles, &scriptedProvider{result: okLookup(nil)})

	_, err := uc.Execute(context.Background(), VerifyIDInput{UserID: user.ID, IDNumber: "12345678901", IDType: domain.IDTypeNationalID})
	if !errors.Is(err, domerrors.ErrNationalIDExists) {
		t.Fatalf("expected NATIONAL_ID_EXISTS, got %v", err)
	}
}

func TestVerifyNationalIDNameMismatch(t *testing.T) {
	users := &memUserRepo{}
	profiles := &memProfileRepo{}
	user := seed(users, profiles, domain.UserTypeIndividual, domain.Profile{FirstName: "Jane", LastName: "Doe"})
	provider := &scriptedProvider{result: okLookup(map[string]string{"first_name": "Janet"})}
	uc := newVerifyID(users, profiles, provider)

	_, err := uc.Execute(context.Background(), VerifyIDInput{UserID: user.ID, IDNumber: "12345678901", IDType: domain.IDTypeNationalID})
	if !errors.Is(err, domerrors.ErrVerificationFailed) {
		t.Fatalf("expected VERIFICATION_FAILED, got %v", err)
	}
}
