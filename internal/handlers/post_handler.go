package handlers

import (
	"net/http"

	"familyhub/internal/service"
	"familyhub/internal/validation"
)

// PostHandler handles feed, post, like and comment routes
type PostHandler struct {
	postService    *service.PostService
	likeService    *service.LikeService
	commentService *service.CommentService
}

// NewPostHandler creates a new post handler
func NewPostHandler(postService *service.PostService, likeService *service.LikeService, commentService *service.CommentService) *PostHandler {
	return &PostHandler{
		postService:    postService,
		likeService:    likeService,
		commentService: commentService,
	}
}

// Feed returns the family's posts, newest first
func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.Feed(currentUserID(r), r.PathValue("id"), queryLimit(r))
	if err != nil {
		respondWithServiceError(w, "Failed to load feed", err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

// CreatePost publishes a post to the family
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type     string `json:"type"`
		Text     string `json:"text"`
		MediaURL string `json:"media_url"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.postService.CreatePost(currentUserID(r), r.PathValue("id"), req.Type, req.Text, req.MediaURL)
	if err != nil {
		respondWithServiceError(w, "Failed to create post", err)
		return
	}
	respondJSON(w, http.StatusCreated, post)
}

// Gallery returns image posts across all of the caller's families
func (h *PostHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.Gallery(currentUserID(r), queryLimit(r))
	if err != nil {
		respondWithServiceError(w, "Failed to load gallery", err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

// DeletePost removes the caller's own post
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.postService.DeletePost(r.Context(), currentUserID(r), postID); err != nil {
		respondWithServiceError(w, "Failed to delete post", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleLike adds or removes the caller's like
func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		CurrentlyLiked bool `json:"currently_liked"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	state, err := h.likeService.Toggle(currentUserID(r), postID, req.CurrentlyLiked)
	if err != nil {
		respondWithServiceError(w, "Failed to toggle like", err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// CreateComment adds a text and/or voice-note comment
func (h *PostHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Content         string `json:"content"`
		AudioURL        string `json:"audio_url"`
		AudioDurationMs int64  `json:"audio_duration_ms"`
		AudioMime       string `json:"audio_mime"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	var audio *validation.VoiceNote
	if req.AudioURL != "" {
		audio = &validation.VoiceNote{URL: req.AudioURL, DurationMs: req.AudioDurationMs, Mime: req.AudioMime}
	}

	comment, err := h.commentService.CreateComment(currentUserID(r), postID, req.Content, audio)
	if err != nil {
		respondWithServiceError(w, "Failed to create comment", err)
		return
	}
	respondJSON(w, http.StatusCreated, comment)
}
