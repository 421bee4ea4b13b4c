package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/easebox-25/easebox-backend/internal/application/auth"
	"github.com/easebox-25/easebox-backend/internal/application/ports"
	"github.com/easebox-25/easebox-backend/internal/domain"
	"github.com/easebox-25/easebox-backend/internal/infrastructure/http/middleware"
)

type AuthHandler struct {
	registerIndividual *auth.RegisterIndividual
	registerCompany    *auth.RegisterCompany
	login              *auth.Login
	verifyEmail        *auth.VerifyEmail
	refresh            *auth.Refresh
	enqueuer           ports.TaskEnqueuer
	validate           *validator.Validate
	log                zerolog.Logger
}

func NewAuthHandler(registerIndividual *auth.RegisterIndividual, registerCompany *auth.RegisterCompany, login *auth.Login, verifyEmail *auth.VerifyEmail, refresh *auth.Refresh, enqueuer ports.TaskEnqueuer, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		registerIndividual: registerIndividual,
		registerCompany:    registerCompany,
		login:              login,
		verifyEmail:        verifyEmail,
		refresh:            refresh,
		enqueuer:           enqueuer,
		validate:           validator.New(),
		log:                log,
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type profileResponse struct {
	UserID             string    `json:"user_id"`
	FirstName          string    `json:"first_name,omitempty"`
	LastName           string    `json:"last_name,omitempty"`
	Phone              string    `json:"phone,omitempty"`
	CompanyName        string    `json:"company_name,omitempty"`
	RegistrationNumber string    `json:"registration_number,omitempty"`
	Address            string    `json:"address,omitempty"`
	City               string    `json:"city,omitempty"`
	State              string    `json:"state,omitempty"`
	LogoURL            string    `json:"logo_url,omitempty"`
	IDVerified         bool      `json:"id_verified"`
	CreatedAt          time.Time `json:"created_at"`
}

func toTokenResponse(t *ports.TokenPair) tokenResponse {
	return tokenResponse{AccessToken: t.AccessToken, RefreshToken: t.RefreshToken, ExpiresIn: t.ExpiresIn}
}

func toProfileResponse(p *domain.Profile) profileResponse {
	return profileResponse{
		UserID:             p.UserID.String(),
		FirstName:          p.FirstName,
		LastName:           p.LastName,
		Phone:              p.Phone,
		CompanyName:        p.CompanyName,
		RegistrationNumber: p.RegistrationNumber,
		Address:            p.Address,
		City:               p.City,
		State:              p.State,
		LogoURL:            p.LogoURL,
		IDVerified:         p.IDVerified,
		CreatedAt:          p.CreatedAt,
	}
}

func (h *AuthHandler) RegisterIndividual(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email         string `json:"email" validate:"required,email,max=254"`
		Password      string `json:"password" validate:"required,min=8,max=128"`
		FirstName     string `json:"first_name" validate:"required,max=100"`
		LastName      string `json:"last_name" validate:"required,max=100"`
		Phone         string `json:"phone" validate:"max=20"`
		UserType      string `json:"user_type" validate:"omitempty,oneof=individual rider"`
		TermsAccepted bool   `json:"terms_accepted"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	email := SanitizeEmail(body.Email)
	password := SanitizePassword(body.Password)
	if email == "" || password == "" {
		writeErr(w, http.StatusBadRequest, "", "invalid email or password length")
		return
	}
	result, err := h.registerIndividual.Execute(r.Context(), auth.RegisterIndividualInput{
		Email:         email,
		Password:      password,
		FirstName:     body.FirstName,
		LastName:      body.LastName,
		Phone:         body.Phone,
		UserType:      domain.UserType(body.UserType),
		TermsAccepted: body.TermsAccepted,
	})
	if err != nil {
		AuditEmit(h.log, r, h.enqueuer, "user.registered", "", false, err.Error())
		middleware.RecordAuthAttempt("register", false)
		if writeDomainErr(w, err) {
			return
		}
		h.log.Error().Err(err).Msg("register individual failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	AuditEmit(h.log, r, h.enqueuer, "user.registered", result.UserID.String(), true, "")
	middleware.RecordAuthAttempt("register", true)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user_id": result.UserID.String(),
		"profile": toProfileResponse(result.Profile),
		"tokens":  toTokenResponse(result.Tokens),
	})
}

func (h *AuthHandler) RegisterCompany(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email              string `json:"email" validate:"required,email,max=254"`
		Password           string `json:"password" validate:"required,min=8,max=128"`
		CompanyName        string `json:"company_name" validate:"required,max=200"`
		RegistrationNumber string `json:"registration_number" validate:"max=32"`
		Address            string `json:"address" validate:"max=300"`
		City               string `json:"city" validate:"max=100"`
		State              string `json:"state" validate:"max=100"`
		Phone              string `json:"phone" validate:"max=20"`
		LogoURL            string `json:"logo_url" validate:"omitempty,url,max=500"`
		TermsAccepted      bool   `json:"terms_accepted"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	email := SanitizeEmail(body.Email)
	password := SanitizePassword(body.Password)
	if email == "" || password == "" {
		writeErr(w, http.StatusBadRequest, "", "invalid email or password length")
		return
	}
	result, err := h.registerCompany.Execute(r.Context(), auth.RegisterCompanyInput{
		Email:              email,
		Password:           password,
		CompanyName:        body.CompanyName,
		RegistrationNumber: body.RegistrationNumber,
		Address:            body.Address,
		City:               body.City,
		State:              body.State,
		Phone:              body.Phone,
		LogoURL:            body.LogoURL,
		TermsAccepted:      body.TermsAccepted,
	})
	if err != nil {
		AuditEmit(h.log, r, h.enqueuer, "company.registered", "", false, err.Error())
		middleware.RecordAuthAttempt("register_company", false)
		if writeDomainErr(w, err) {
			return
		}
		h.log.Error().Err(err).Msg("register company failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	AuditEmit(h.log, r, h.enqueuer, "company.registered", result.UserID.String(), true, "")
	middleware.RecordAuthAttempt("register_company", true)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user_id": result.UserID.String(),
		"profile": toProfileResponse(result.Profile),
		"tokens":  toTokenResponse(result.Tokens),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email" validate:"required,email,max=254"`
		Password string `json:"password" validate:"required,max=128"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	result, err := h.login.Execute(r.Context(), auth.LoginInput{
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		AuditLog(h.log, r, "user.login", "", false, err.Error())
		middleware.RecordAuthAttempt("login", false)
		if writeDomainErr(w, err) {
			return
		}
		h.log.Error().Err(err).Msg("login failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	AuditLog(h.log, r, "user.login", result.User.ID.String(), true, "")
	middleware.RecordAuthAttempt("login", true)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": result.User.ID.String(),
		"profile": toProfileResponse(result.Profile),
		"tokens":  toTokenResponse(result.Tokens),
	})
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email" validate:"required,email,max=254"`
		Code  string `json:"code" validate:"required,numeric,len=6"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	user, err := h.verifyEmail.Execute(r.Context(), auth.VerifyEmailInput{
		Email: SanitizeEmail(body.Email),
		Code:  body.Code,
	})
	if err != nil {
		AuditLog(h.log, r, "user.email_verified", "", false, err.Error())
		middleware.RecordAuthAttempt("verify_email", false)
		if writeDomainErr(w, err) {
			return
		}
		h.log.Error().Err(err).Msg("verify email failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	AuditEmit(h.log, r, h.enqueuer, "user.email_verified", user.ID.String(), true, "")
	middleware.RecordAuthAttempt("verify_email", true)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":        user.ID.String(),
		"email_verified": true,
	})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	result, err := h.refresh.Execute(r.Context(), auth.RefreshInput{RefreshToken: body.RefreshToken})
	if err != nil {
		AuditLog(h.log, r, "user.token_refreshed", "", false, err.Error())
		middleware.RecordAuthAttempt("refresh", false)
		if writeDomainErr(w, err) {
			return
		}
		h.log.Error().Err(err).Msg("token refresh failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	AuditLog(h.log, r, "user.token_refreshed", result.User.ID.String(), true, "")
	middleware.RecordAuthAttempt("refresh", true)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": result.User.ID.String(),
		"tokens":  toTokenResponse(result.Tokens),
	})
}
