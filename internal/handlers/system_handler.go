package handlers

import (
	"net/http"

	"familyhub/internal/security"
)

// Pinger checks that the database is reachable
type Pinger interface {
	Ping() error
}

// SystemHandler serves health and CSRF token routes
type SystemHandler struct {
	db   Pinger
	csrf *security.CSRFGenerator
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(db Pinger, csrf *security.CSRFGenerator) *SystemHandler {
	return &SystemHandler{db: db, csrf: csrf}
}

// Health reports whether the server can reach its database
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(); err != nil {
		respondWithError(w, http.StatusServiceUnavailable, "Database unavailable", "Health check failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CSRFToken issues a token bound to the caller's access token
func (h *SystemHandler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.csrf.GenerateToken(accessTokenFromContext(r.Context()))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to generate CSRF token", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"csrf_token": token})
}
