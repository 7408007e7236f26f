package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"familyhub/internal/service"
	"familyhub/internal/validation"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Warn("Failed to encode response")
	}
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		entry := logrus.WithError(err).WithField("status", status)
		if status >= http.StatusInternalServerError {
			entry.Error(logMsg)
		} else {
			entry.Debug(logMsg)
		}
	}

	respondJSON(w, status, errorResponse{Error: userMsg})
}

// respondWithServiceError maps a service error to its HTTP status
func respondWithServiceError(w http.ResponseWriter, logMsg string, err error) {
	var ve validation.ValidationError
	if errors.As(err, &ve) {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Message, Field: ve.Field})
		return
	}

	status := statusForError(err)
	userMsg := ErrInternalServerError
	if status != http.StatusInternalServerError {
		userMsg = err.Error()
	}
	respondWithError(w, status, userMsg, logMsg, err)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidJoinCode):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrFamilyNotFound),
		errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrMemberNotFound),
		errors.Is(err, service.ErrNoFamily):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotFamilyMember),
		errors.Is(err, service.ErrNotFamilyOwner),
		errors.Is(err, service.ErrNotPostAuthor),
		errors.Is(err, service.ErrCannotRemoveOwner):
		return http.StatusForbidden
	case errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrAlreadyLiked),
		errors.Is(err, service.ErrAlreadyAnswered):
		return http.StatusConflict
	case errors.Is(err, service.ErrJoinCodesExhausted):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
