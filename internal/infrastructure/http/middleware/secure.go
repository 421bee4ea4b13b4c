package middleware

import (
	"net/http"

	"github.com/unrolled/secure"
)

// SecureOptions is the security-header policy for the API. Responses
// are JSON only, so the CSP blocks everything and framing is denied.
// isDev relaxes the HTTPS-dependent checks for local runs over plain
// HTTP.
func SecureOptions(isDev bool) secure.Options {
	return secure.Options{
		IsDevelopment:         isDev,
		ContentTypeNosniff:    true,
		FrameDeny:             true,
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		ReferrerPolicy:        "no-referrer",
		STSSeconds:            31536000,
		STSIncludeSubdomains:  true,
	}
}

// NewSecure wraps the policy as router middleware.
func NewSecure(opts secure.Options) func(next http.Handler) http.Handler {
	return secure.New(opts).Handler
}
