package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/easebox-25/easebox-backend/internal/application/auth"
	"github.com/easebox-25/easebox-backend/internal/application/ports"
	"github.com/easebox-25/easebox-backend/internal/domain"
	"github.com/easebox-25/easebox-backend/internal/infrastructure/http/middleware"
)

type UsersHandler struct {
	users     ports.UserRepository
	profiles  ports.ProfileRepository
	listLinks *auth.ListLinkedProviders
	log       zerolog.Logger
}

func NewUsersHandler(users ports.UserRepository, profiles ports.ProfileRepository, listLinks *auth.ListLinkedProviders, log zerolog.Logger) *UsersHandler {
	return &UsersHandler{users: users, profiles: profiles, listLinks: listLinks, log: log}
}

type meResponse struct {
	UserID        string           `json:"user_id"`
	Email         string           `json:"email"`
	UserType      string           `json:"user_type"`
	EmailVerified bool             `json:"email_verified"`
	IsActive      bool             `json:"is_active"`
	HasPassword   bool             `json:"has_password"`
	CreatedAt     time.Time        `json:"created_at"`
	Profile       *profileResponse `json:"profile,omitempty"`
	Providers     []string         `json:"providers"`
}

// Me returns the caller's account, profile and linked providers.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	info := middleware.AuthFromContext(r.Context())
	if info == nil {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
		return
	}
	parsed, err := uuid.Parse(info.UserID)
	if err != nil {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
		return
	}
	userID := domain.NewUserID(parsed)

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("me lookup failed")
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
		return
	}
	if user == nil {
		writeErr(w, http.StatusNotFound, ErrCodeNotFound, "user not found")
		return
	}
	resp := meResponse{
		UserID:        user.ID.String(),
		Email:         user.Email,
		UserType:      string(user.UserType),
		EmailVerified: user.EmailVerified,
		IsActive:      user.IsActive,
		HasPassword:   user.HasPassword(),
		CreatedAt:     user.CreatedAt,
		Providers:     []string{},
	}
	profile, err := h.profiles.GetByUserID(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("me profile lookup failed")
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
		return
	}
	if profile != nil {
		pr := toProfileResponse(profile)
		resp.Profile = &pr
	}
	linked, err := h.listLinks.Execute(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("me links lookup failed")
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
		return
	}
	for _, id := range linked {
		resp.Providers = append(resp.Providers, string(id.Provider))
	}
	writeJSON(w, http.StatusOK, resp)
}
