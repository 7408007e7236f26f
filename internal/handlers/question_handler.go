package handlers

import (
	"net/http"

	"familyhub/internal/service"
)

// QuestionHandler handles the daily question routes
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// Today returns today's question and the family's answers
func (h *QuestionHandler) Today(w http.ResponseWriter, r *http.Request) {
	view, err := h.questionService.Today(currentUserID(r), r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, "Failed to load daily question", err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Respond records the caller's answer to today's question
func (h *QuestionHandler) Respond(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Response string `json:"response"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.questionService.Respond(currentUserID(r), r.PathValue("id"), req.Response)
	if err != nil {
		respondWithServiceError(w, "Failed to save response", err)
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}
