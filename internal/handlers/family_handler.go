package handlers

import (
	"net/http"

	"familyhub/internal/service"
)

// FamilyHandler handles family and membership routes
type FamilyHandler struct {
	familyService *service.FamilyService
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(familyService *service.FamilyService) *FamilyHandler {
	return &FamilyHandler{familyService: familyService}
}

type familyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListFamilies returns the caller's families, earliest joined first
func (h *FamilyHandler) ListFamilies(w http.ResponseWriter, r *http.Request) {
	families, err := h.familyService.GetUserFamilies(currentUserID(r))
	if err != nil {
		respondWithServiceError(w, "Failed to list families", err)
		return
	}
	respondJSON(w, http.StatusOK, families)
}

// CreateFamily creates a family owned by the caller
func (h *FamilyHandler) CreateFamily(w http.ResponseWriter, r *http.Request) {
	var req familyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	family, err := h.familyService.CreateFamily(currentUserID(r), req.Name, req.Description)
	if err != nil {
		respondWithServiceError(w, "Failed to create family", err)
		return
	}
	respondJSON(w, http.StatusCreated, family)
}

// JoinFamily adds the caller to the family with the given join code
func (h *FamilyHandler) JoinFamily(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	family, err := h.familyService.JoinFamily(currentUserID(r), req.Code)
	if err != nil {
		respondWithServiceError(w, "Failed to join family", err)
		return
	}
	respondJSON(w, http.StatusOK, family)
}

// GetFamily returns a family with its members
func (h *FamilyHandler) GetFamily(w http.ResponseWriter, r *http.Request) {
	view, err := h.familyService.GetFamilyWithMembers(currentUserID(r), r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, "Failed to get family", err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// UpdateFamily changes a family's name and description
func (h *FamilyHandler) UpdateFamily(w http.ResponseWriter, r *http.Request) {
	var req familyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	family, err := h.familyService.UpdateFamily(currentUserID(r), r.PathValue("id"), req.Name, req.Description)
	if err != nil {
		respondWithServiceError(w, "Failed to update family", err)
		return
	}
	respondJSON(w, http.StatusOK, family)
}

// LeaveFamily removes the caller from a family
func (h *FamilyHandler) LeaveFamily(w http.ResponseWriter, r *http.Request) {
	if err := h.familyService.LeaveFamily(currentUserID(r), r.PathValue("id")); err != nil {
		respondWithServiceError(w, "Failed to leave family", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveMember removes another member from the caller's family
func (h *FamilyHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	if err := h.familyService.RemoveMember(currentUserID(r), r.PathValue("id"), r.PathValue("userId")); err != nil {
		respondWithServiceError(w, "Failed to remove member", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Invite emails the family's join code
func (h *FamilyHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.familyService.InviteByEmail(r.Context(), currentUserID(r), r.PathValue("id"), req.Email); err != nil {
		respondWithServiceError(w, "Failed to send invite", err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
