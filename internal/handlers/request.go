package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// decodeJSON reads a JSON body into dst, writing a 400 on failure
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "Failed to decode request body", err)
		return false
	}
	return true
}

// pathID parses a numeric path value, writing a 400 on failure
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, ErrInvalidID, "", nil)
		return 0, false
	}
	return id, true
}

// queryLimit returns the limit query parameter, or 0 when absent or malformed
func queryLimit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return n
}

// currentUserID returns the authenticated user's id. Routes using it sit
// behind RequireAuth.
func currentUserID(r *http.Request) string {
	if user := GetUserFromContext(r.Context()); user != nil {
		return user.ID
	}
	return ""
}
