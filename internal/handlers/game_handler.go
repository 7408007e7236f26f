package handlers

import (
	"net/http"

	"familyhub/internal/memorymatch"
	"familyhub/internal/models"
	"familyhub/internal/service"
)

// GameHandler handles the memory-match routes
type GameHandler struct {
	gameService *service.GameService
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameService *service.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

// SubmitSession records a finished game. family_id is optional and
// defaults to the caller's first family.
func (h *GameHandler) SubmitSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FamilyID   string `json:"family_id"`
		DurationMs int64  `json:"duration_ms"`
		Mistakes   int    `json:"mistakes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.gameService.SubmitSession(currentUserID(r), req.FamilyID, req.DurationMs, req.Mistakes)
	if err != nil {
		respondWithServiceError(w, "Failed to submit game session", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Leaderboard ranks today's best scores, lowest first
func (h *GameHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.gameService.TodayLeaderboard(currentUserID(r), r.URL.Query().Get("family_id"))
	if err != nil {
		respondWithServiceError(w, "Failed to load leaderboard", err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

type boardResponse struct {
	Tiles            []int `json:"tiles"`
	CompareDelayMs   int64 `json:"compare_delay_ms"`
	MistakePenaltyMs int64 `json:"mistake_penalty_ms"`
}

// Board deals a freshly shuffled deck for a new game
func (h *GameHandler) Board(w http.ResponseWriter, r *http.Request) {
	tiles := memorymatch.NewBoard(nil, nil).Tiles()
	values := make([]int, len(tiles))
	for i, tile := range tiles {
		values[i] = tile.Value
	}

	respondJSON(w, http.StatusOK, boardResponse{
		Tiles:            values,
		CompareDelayMs:   memorymatch.CompareDelay.Milliseconds(),
		MistakePenaltyMs: models.MistakePenaltyMs,
	})
}
