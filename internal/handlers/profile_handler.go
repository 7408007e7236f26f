package handlers

import (
	"errors"
	"io"
	"net/http"

	"familyhub/internal/service"
	"familyhub/internal/validation"
)

// ProfileHandler handles profile routes
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Me returns the caller's profile
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.profileService.GetProfile(currentUserID(r))
	if err != nil {
		respondWithServiceError(w, "Failed to load profile", err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// EnsureProfile creates the caller's profile on first sign-in
func (h *ProfileHandler) EnsureProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, created, err := h.profileService.EnsureProfile(currentUserID(r), req.FirstName, req.LastName)
	if err != nil {
		respondWithServiceError(w, "Failed to ensure profile", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(w, status, user)
}

// UpdateProfile changes names and optionally replaces the avatar.
// The body is multipart with first_name, last_name and an optional avatar file.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, validation.MaxAvatarBytes+maxJSONBody)
	if err := r.ParseMultipartForm(validation.MaxAvatarBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "Failed to parse profile form", err)
		return
	}

	avatar, err := readAvatar(r)
	if err != nil {
		respondWithServiceError(w, "Failed to read avatar", err)
		return
	}

	user, err := h.profileService.UpdateProfile(r.Context(), currentUserID(r), r.FormValue("first_name"), r.FormValue("last_name"), avatar)
	if err != nil {
		respondWithServiceError(w, "Failed to update profile", err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// readAvatar returns the uploaded avatar, or nil when none was sent
func readAvatar(r *http.Request) (*service.AvatarUpload, error) {
	file, header, err := r.FormFile("avatar")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if err := validation.ValidateAvatar(contentType, header.Size); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &service.AvatarUpload{Filename: header.Filename, ContentType: contentType, Data: data}, nil
}

// GetUser returns another user's profile
func (h *ProfileHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.profileService.GetProfile(r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, "Failed to load profile", err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}
