package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/easebox-25/easebox-backend/internal/application/ports"
	"github.com/easebox-25/easebox-backend/internal/application/verification"
	"github.com/easebox-25/easebox-backend/internal/domain"
	"github.com/easebox-25/easebox-backend/internal/infrastructure/http/middleware"
)

type VerificationHandler struct {
	verifyID *verification.VerifyID
	enqueuer ports.TaskEnqueuer
	validate *validator.Validate
	log      zerolog.Logger
}

func NewVerificationHandler(verifyID *verification.VerifyID, enqueuer ports.TaskEnqueuer, log zerolog.Logger) *VerificationHandler {
	return &VerificationHandler{verifyID: verifyID, enqueuer: enqueuer, validate: validator.New(), log: log}
}

// VerifyID handles POST /verify/id for the authenticated caller.
func (h *VerificationHandler) VerifyID(w http.ResponseWriter, r *http.Request) {
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
	var body struct {
		IDType   string `json:"id_type" validate:"required,oneof=national_id registration_number"`
		IDNumber string `json:"id_number" validate:"required,max=32"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}
	number := SanitizeIDNumber(body.IDNumber)
	if number == "" {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid id number")
		return
	}
	result, err := h.verifyID.Execute(r.Context(), verification.VerifyIDInput{
		UserID:   domain.NewUserID(userID),
		IDNumber: number,
		IDType:   domain.IDType(body.IDType),
	})
	if err != nil {
		AuditEmit(h.log, r, h.enqueuer, "verification.id", info.UserID, false, err.Error())
		middleware.RecordVerificationAttempt(body.IDType, false)
		if writeDomainErr(w, err) {
			return
		}
		h.log.Error().Err(err).Msg("id verification failed")
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
		return
	}
	AuditEmit(h.log, r, h.enqueuer, "verification.id", info.UserID, true, "")
	middleware.RecordVerificationAttempt(body.IDType, true)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"verified":  true,
		"id_type":   string(result.IDType),
		"id_number": result.IDNumber,
		"fields":    result.Fields,
	})
}
