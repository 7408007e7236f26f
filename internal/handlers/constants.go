package handlers

const (
	ErrInvalidJSON         = "Invalid request body"
	ErrInvalidFormData     = "Invalid form data"
	ErrInvalidID           = "Invalid id"
	ErrUnauthorized        = "Unauthorized"
	ErrInvalidCSRF         = "Invalid CSRF token"
	ErrRateLimited         = "Too many requests"
	ErrInternalServerError = "Internal server error"

	// maxJSONBody caps request bodies outside the avatar upload
	maxJSONBody = 1 << 20
)
