package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/apple"
	"github.com/markbates/goth/providers/facebook"
	"github.com/markbates/goth/providers/google"
	"github.com/rs/zerolog"

	"github.com/easebox-25/easebox-backend/internal/application/auth"
	"github.com/easebox-25/easebox-backend/internal/application/ports"
	"github.com/easebox-25/easebox-backend/internal/domain"
	"github.com/easebox-25/easebox-backend/internal/infrastructure/http/middleware"
)

// OAuthProviderCreds holds client credentials for one provider; empty
// credentials leave the provider unregistered.
type OAuthProviderCreds struct {
	ClientID     string
	ClientSecret string
}

// InitOAuthProviders registers Goth providers and the session store.
// Call once at startup.
func InitOAuthProviders(callbackBaseURL, sessionSecret string, googleCreds, facebookCreds, appleCreds OAuthProviderCreds) {
	var providers []goth.Provider
	if googleCreds.ClientID != "" && googleCreds.ClientSecret != "" {
		providers = append(providers, google.New(googleCreds.ClientID, googleCreds.ClientSecret, callbackBaseURL+"/auth/google/callback"))
	}
	if facebookCreds.ClientID != "" && facebookCreds.ClientSecret != "" {
		providers = append(providers, facebook.New(facebookCreds.ClientID, facebookCreds.ClientSecret, callbackBaseURL+"/auth/facebook/callback"))
	}
	if appleCreds.ClientID != "" && appleCreds.ClientSecret != "" {
		providers = append(providers, apple.New(appleCreds.ClientID, appleCreds.ClientSecret, callbackBaseURL+"/auth/apple/callback", nil, apple.ScopeName, apple.ScopeEmail))
	}
	if len(providers) > 0 {
		goth.UseProviders(providers...)
	}
	if sessionSecret != "" {
		gothic.Store = sessions.NewCookieStore([]byte(sessionSecret))
	}
}

type OAuthHandler struct {
	authenticate *auth.OAuthAuthenticate
	unlink       *auth.UnlinkProvider
	listLinks    *auth.ListLinkedProviders
	enqueuer     ports.TaskEnqueuer
	redirectURL  string
	log          zerolog.Logger
}

func NewOAuthHandler(authenticate *auth.OAuthAuthenticate, unlink *auth.UnlinkProvider, listLinks *auth.ListLinkedProviders, enqueuer ports.TaskEnqueuer, redirectURL string, log zerolog.Logger) *OAuthHandler {
	return &OAuthHandler{
		authenticate: authenticate,
		unlink:       unlink,
		listLinks:    listLinks,
		enqueuer:     enqueuer,
		redirectURL:  redirectURL,
		log:          log,
	}
}

// Begin redirects to the OAuth provider. Provider from URL: /auth/{provider}.
func (h *OAuthHandler) Begin(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	if !domain.Provider(provider).Valid() {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "unknown provider")
		return
	}
	if _, err := goth.GetProvider(provider); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "provider not configured")
		return
	}
	// Gothic expects provider in query
	r2 := r.Clone(r.Context())
	q := r2.URL.Query()
	q.Set("provider", provider)
	r2.URL.RawQuery = q.Encode()
	authURL, err := gothic.GetAuthURL(w, r2)
	if err != nil {
		h.log.Error().Err(err).Str("provider", provider).Msg("oauth begin failed")
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
		return
	}
	http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
}

// Callback completes the provider handshake, resolves the user and
// redirects to the frontend with tokens in the query (client should
// move them to storage and strip the URL).
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	if !domain.Provider(provider).Valid() {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "unknown provider")
		return
	}
	r2 := r.Clone(r.Context())
	q := r2.URL.Query()
	q.Set("provider", provider)
	r2.URL.RawQuery = q.Encode()
	gothUser, err := gothic.CompleteUserAuth(w, r2)
	if err != nil {
		AuditEmit(h.log, r, h.enqueuer, "oauth.callback", "", false, err.Error())
		middleware.RecordAuthAttempt("oauth", false)
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "oauth failed")
		return
	}
	result, err := h.authenticate.Execute(r.Context(), auth.OAuthAssertion{
		Email:             gothUser.Email,
		EmailVerified:     rawEmailVerified(gothUser),
		FirstName:         gothUser.FirstName,
		LastName:          gothUser.LastName,
		Provider:          domain.Provider(provider),
		ProviderAccountID: gothUser.UserID,
	})
	if err != nil {
		AuditEmit(h.log, r, h.enqueuer, "oauth.callback", "", false, err.Error())
		middleware.RecordAuthAttempt("oauth", false)
		if writeDomainErr(w, err) {
			return
		}
		h.log.Error().Err(err).Str("provider", provider).Msg("oauth callback failed")
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
		return
	}
	event := "oauth.login"
	if result.Created {
		event = "oauth.registered"
	}
	AuditEmit(h.log, r, h.enqueuer, event, result.User.ID.String(), true, "")
	middleware.RecordAuthAttempt("oauth", true)

	u, _ := url.Parse(h.redirectURL)
	uq := u.Query()
	uq.Set("access_token", result.Tokens.AccessToken)
	uq.Set("refresh_token", result.Tokens.RefreshToken)
	uq.Set("expires_in", strconv.FormatInt(result.Tokens.ExpiresIn, 10))
	u.RawQuery = uq.Encode()
	http.Redirect(w, r, u.String(), http.StatusTemporaryRedirect)
}

// Unlink removes one linked provider identity from the caller.
func (h *OAuthHandler) Unlink(w http.ResponseWriter, r *http.Request) {
	info := middleware.AuthFromContext(r.Context())
	if info == nil {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
		return
	}
	provider := chi.URLParam(r, "provider")
	if !domain.Provider(provider).Valid() {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "unknown provider")
		return
	}
	userID, err := uuid.Parse(info.UserID)
	if err != nil {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := h.unlink.Execute(r.Context(), domain.NewUserID(userID), domain.Provider(provider)); err != nil {
		AuditLog(h.log, r, "oauth.unlink", info.UserID, false, err.Error())
		if writeDomainErr(w, err) {
			return
		}
		h.log.Error().Err(err).Msg("unlink failed")
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
		return
	}
	AuditLog(h.log, r, "oauth.unlink", info.UserID, true, "")
	w.WriteHeader(http.StatusNoContent)
}

type linkedProviderResponse struct {
	Provider      string `json:"provider"`
	ProviderEmail string `json:"provider_email,omitempty"`
}

// ListLinks returns the caller's linked provider identities.
func (h *OAuthHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	info := middleware.AuthFromContext(r.Context())
	if info == nil {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
		return
	}
	userID, err := uuid.Parse(info.UserID)
	if err != nil {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
		return
	}
	linked, err := h.listLinks.Execute(r.Context(), domain.NewUserID(userID))
	if err != nil {
		if writeDomainErr(w, err) {
			return
		}
		h.log.Error().Err(err).Msg("list links failed")
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
		return
	}
	out := make([]linkedProviderResponse, 0, len(linked))
	for _, id := range linked {
		out = append(out, linkedProviderResponse{
			Provider:      string(id.Provider),
			ProviderEmail: id.ProviderEmail,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"providers": out})
}

// rawEmailVerified pulls the verified-email claim out of provider raw
// data; providers disagree on the key.
func rawEmailVerified(u goth.User) bool {
	for _, key := range []string{"email_verified", "verified_email"} {
		switch v := u.RawData[key].(type) {
		case bool:
			return v
		case string:
			return v == "true"
		}
	}
	return false
}
