package service

import (
	"strings"

	"familyhub/internal/metrics"
	"familyhub/internal/models"
	"familyhub/internal/repository"
	"familyhub/internal/storage"
	"familyhub/internal/validation"
)

// CommentService creates comments, optionally with a voice note
type CommentService struct {
	commentRepo *repository.CommentRepository
	postService *PostService
}

// NewCommentService creates a new comment service
func NewCommentService(commentRepo *repository.CommentRepository, postService *PostService) *CommentService {
	return &CommentService{commentRepo: commentRepo, postService: postService}
}

// CreateComment stores a comment with trimmed text, a voice note, or both.
// Voice notes must live in the comment-audio bucket.
func (s *CommentService) CreateComment(userID string, postID int64, text string, audio *validation.VoiceNote) (*models.Comment, error) {
	if err := validation.ValidateComment(text, audio); err != nil {
		return nil, err
	}
	if audio != nil && strings.TrimSpace(audio.URL) != "" {
		if _, ok := storage.PathFromPublicURL(strings.TrimSpace(audio.URL), storage.BucketCommentAudio); !ok {
			return nil, validation.ValidationError{Field: "audio_url", Message: "voice note must be uploaded to comment audio storage"}
		}
	}
	if _, err := s.postService.requirePostAccess(userID, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:    postID,
		AuthorID:  userID,
		Content:   optional(text),
		CreatedAt: s.postService.now(),
	}
	if audio != nil && strings.TrimSpace(audio.URL) != "" {
		duration := audio.DurationMs
		comment.AudioURL = optional(strings.TrimSpace(audio.URL))
		comment.AudioDurationMs = &duration
		comment.AudioMime = optional(audio.Mime)
	}

	if err := s.commentRepo.CreateComment(comment); err != nil {
		return nil, err
	}
	metrics.CommentCreated()
	return comment, nil
}
