package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/petkeeper/internal/common"
)

// Client-facing messages.
const (
	msgInternal        = "Internal Server Error"
	msgUserExists      = "User already exists!"
	msgNotAuthorized   = "Not authorized"
	msgNoToken         = "Not authorized, no token"
	msgTokenFailed     = "Not authorized, token failed"
	msgBadCredentials  = "Invalid credentials!"
	msgTooManyAttempts = "Too many failed login attempts, try again later"
	msgNotConfigured   = "Image storage is not configured"
	msgPetNotFound     = "Pet not found!"
	msgNoPets          = "No pets found!"
	msgReminderMissing = "Reminder not found!"
	msgNoReminders     = "No reminders found!"
	msgNoImage         = "Pet has no image"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// writeError maps err onto a status code and a client-safe message.
// notFound is the message used for common.ErrorNotFound. Internal errors are
// logged and never echoed to the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var verr *common.ValidationError

	switch {
	case errors.As(err, &verr):
		writeMessage(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, common.ErrorAlreadyExists):
		writeMessage(w, http.StatusConflict, msgUserExists)
	case errors.Is(err, common.ErrTooManyAttempts):
		writeMessage(w, http.StatusTooManyRequests, msgTooManyAttempts)
	case errors.Is(err, common.ErrorNotConfigured):
		writeMessage(w, http.StatusNotImplemented, msgNotConfigured)
	case errors.Is(err, common.ErrorNotFound):
		writeMessage(w, http.StatusNotFound, notFound)
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		writeMessage(w, http.StatusUnauthorized, msgNotAuthorized)
	default:
		s.logger.Error(r.Context(), "request failed", "error", err, "path", r.URL.Path)
		writeMessage(w, http.StatusInternalServerError, msgInternal)
	}
}
