package service

import (
	"errors"

	"familyhub/internal/metrics"
	"familyhub/internal/models"
	"familyhub/internal/repository"
)

var ErrAlreadyLiked = errors.New("post is already liked")

// LikeService toggles likes
type LikeService struct {
	likeRepo    *repository.LikeRepository
	postService *PostService
	isUnique    func(error) bool
}

// NewLikeService creates a new like service
func NewLikeService(likeRepo *repository.LikeRepository, postService *PostService, uniqueViolation func(error) bool) *LikeService {
	return &LikeService{likeRepo: likeRepo, postService: postService, isUnique: uniqueViolation}
}

// Toggle flips the like based on the caller's view of the current state:
// currentlyLiked removes the like, otherwise one is added. The flag is
// trusted, not read back. Removing a like that is not there is a no-op.
func (s *LikeService) Toggle(userID string, postID int64, currentlyLiked bool) (*models.LikeState, error) {
	if _, err := s.postService.requirePostAccess(userID, postID); err != nil {
		return nil, err
	}

	if currentlyLiked {
		if err := s.likeRepo.RemoveLike(postID, userID); err != nil {
			return nil, err
		}
	} else {
		if err := s.likeRepo.AddLike(postID, userID, s.postService.now()); err != nil {
			if s.isUnique(err) {
				return nil, ErrAlreadyLiked
			}
			return nil, err
		}
	}

	count, err := s.likeRepo.CountLikes(postID)
	if err != nil {
		return nil, err
	}
	metrics.LikeToggled()
	return &models.LikeState{PostID: postID, Liked: !currentlyLiked, LikeCount: count}, nil
}
