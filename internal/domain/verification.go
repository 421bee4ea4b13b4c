package domain

import "strings"

// IDType names a government identifier a user can submit for verification.
type IDType string

const (
	IDTypeNationalID         IDType = "national_id"
	IDTypeRegistrationNumber IDType = "registration_number"
)

// VerificationResult is the normalized outcome of one provider lookup.
// Fields holds provider-returned attributes (names, address) keyed by
// canonical lowercase names. It is never persisted as-is.
type VerificationResult struct {
	Valid  bool
	Fields map[string]string
	Reason string
}

// Field returns the named field or "".
func (r VerificationResult) Field(name string) string {
	if r.Fields == nil {
		return ""
	}
	return r.Fields[name]
}

// NormalizeRCNumber strips a leading RC marker and separator
// ("RC-1234567", "rc1234567") leaving the bare digits used for storage,
// uniqueness checks and registry dispatch.
func NormalizeRCNumber(number string) string {
	s := strings.TrimSpace(number)
	if upper := strings.ToUpper(s); strings.HasPrefix(upper, "RC") {
		s = s[2:]
	}
	return strings.TrimPrefix(s, "-")
}
