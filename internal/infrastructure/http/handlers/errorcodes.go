package handlers

// Generic API error codes for failures without a domain code, returned
// in JSON { "error": "...", "code": "..." }.
const (
	ErrCodeUnauthorized   = "unauthorized"
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeNotFound       = "not_found"
	ErrCodeConflict       = "conflict"
	ErrCodeForbidden      = "forbidden"
	ErrCodeInternal       = "internal_error"
)
