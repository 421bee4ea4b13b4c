package errors

import "fmt"

// Error is a domain failure with a stable machine-readable code and a
// human message. Handlers map codes to HTTP status; clients branch on
// the code, never the message.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches by code so dynamically-built errors (e.g. verification
// failures carrying a provider message) compare equal to sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Sentinel errors for handlers to map to HTTP status.
var (
	ErrEmailExists          = &Error{Code: "EMAIL_EXISTS", Message: "an account with this email already exists"}
	ErrTermsNotAccepted     = &Error{Code: "TERMS_NOT_ACCEPTED", Message: "terms and conditions must be accepted"}
	ErrInvalidCredentials   = &Error{Code: "INVALID_CREDENTIALS", Message: "invalid email or password"}
	ErrNoPassword           = &Error{Code: "NO_PASSWORD", Message: "account has no password; sign in with a linked provider"}
	ErrAccountDeactivated   = &Error{Code: "ACCOUNT_DEACTIVATED", Message: "account is deactivated"}
	ErrUserNotFound         = &Error{Code: "USER_NOT_FOUND", Message: "user not found"}
	ErrProfileNotFound      = &Error{Code: "PROFILE_NOT_FOUND", Message: "profile not found"}
	ErrOAuthAccountLinked   = &Error{Code: "OAUTH_ACCOUNT_LINKED", Message: "this provider account is already linked to another user"}
	ErrCannotUnlinkOnlyAuth = &Error{Code: "CANNOT_UNLINK_ONLY_AUTH", Message: "cannot unlink the only authentication method"}
	ErrRCNumberExists       = &Error{Code: "RC_NUMBER_EXISTS", Message: "this registration number is already claimed"}
	ErrNationalIDExists     = &Error{Code: "NATIONAL_ID_EXISTS", Message: "this national ID is already claimed"}
	ErrInvalidIDType        = &Error{Code: "INVALID_ID_TYPE", Message: "id type is not permitted for this account type"}
	ErrInvalidRCFormat      = &Error{Code: "INVALID_RC_FORMAT", Message: "registration number format is invalid"}
	ErrUnsupportedIDType    = &Error{Code: "UNSUPPORTED_ID_TYPE", Message: "unsupported id type"}
	ErrVerificationFailed   = &Error{Code: "VERIFICATION_FAILED", Message: "identity verification failed"}
	ErrInvalidToken         = &Error{Code: "INVALID_TOKEN", Message: "invalid or expired token"}
	ErrInvalidOTP           = &Error{Code: "INVALID_OTP", Message: "invalid or expired verification code"}
)

// VerificationFailed builds a VERIFICATION_FAILED error carrying the
// provider's explanatory message when present.
func VerificationFailed(reason string) *Error {
	if reason == "" {
		return ErrVerificationFailed
	}
	return &Error{Code: ErrVerificationFailed.Code, Message: fmt.Sprintf("identity verification failed: %s", reason)}
}
