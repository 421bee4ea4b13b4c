package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	domerrors "github.com/easebox-25/easebox-backend/internal/domain/errors"
)

// writeErr sends JSON { "error": message, "code": errCode }. If errCode is empty, a default is used from code.
func writeErr(w http.ResponseWriter, code int, errCode string, message string) {
	if errCode == "" {
		errCode = defaultErrCode(code)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": errCode})
}

// writeDomainErr maps a domain error onto its transport status, or
// falls through to a generic 500 for unknown failures. Returns true
// when the error carried a domain code.
func writeDomainErr(w http.ResponseWriter, err error) bool {
	var derr *domerrors.Error
	if !errors.As(err, &derr) {
		return false
	}
	writeErr(w, statusForCode(derr.Code), derr.Code, derr.Message)
	return true
}

func statusForCode(code string) int {
	switch code {
	case "EMAIL_EXISTS", "OAUTH_ACCOUNT_LINKED", "RC_NUMBER_EXISTS", "NATIONAL_ID_EXISTS", "CANNOT_UNLINK_ONLY_AUTH":
		return http.StatusConflict
	case "TERMS_NOT_ACCEPTED", "INVALID_RC_FORMAT", "INVALID_ID_TYPE", "UNSUPPORTED_ID_TYPE", "INVALID_OTP":
		return http.StatusBadRequest
	case "INVALID_CREDENTIALS", "NO_PASSWORD", "INVALID_TOKEN":
		return http.StatusUnauthorized
	case "ACCOUNT_DEACTIVATED":
		return http.StatusForbidden
	case "USER_NOT_FOUND", "PROFILE_NOT_FOUND":
		return http.StatusNotFound
	case "VERIFICATION_FAILED":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func defaultErrCode(httpCode int) string {
	switch httpCode {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusForbidden:
		return ErrCodeForbidden
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	case http.StatusInternalServerError:
		return ErrCodeInternal
	default:
		return ErrCodeInternal
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
