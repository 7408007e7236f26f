package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"familyhub/internal/metrics"
	"familyhub/internal/models"
	"familyhub/internal/repository"
	"familyhub/internal/storage"
	"familyhub/internal/validation"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrNotPostAuthor = errors.New("only the author can delete this post")
)

const (
	DefaultFeedLimit    = 50
	DefaultGalleryLimit = 100
	maxPageLimit        = 200
)

// PostService handles posts, the family feed and the gallery
type PostService struct {
	postRepo      *repository.PostRepository
	commentRepo   *repository.CommentRepository
	familyService *FamilyService
	store         storage.Store
	now           func() time.Time
}

// NewPostService creates a new post service
func NewPostService(postRepo *repository.PostRepository, commentRepo *repository.CommentRepository, familyService *FamilyService, store storage.Store) *PostService {
	return &PostService{
		postRepo:      postRepo,
		commentRepo:   commentRepo,
		familyService: familyService,
		store:         store,
		now:           utcNow,
	}
}

// CreatePost adds a post to a family the author belongs to
func (s *PostService) CreatePost(userID, familyID, postType, text, mediaURL string) (*models.Post, error) {
	if err := validation.ValidatePost(postType, text, mediaURL); err != nil {
		return nil, err
	}
	if err := s.familyService.VerifyFamilyAccess(userID, familyID); err != nil {
		return nil, err
	}

	post := &models.Post{
		FamilyID:  familyID,
		AuthorID:  userID,
		Type:      models.PostType(postType),
		Text:      optional(text),
		CreatedAt: s.now(),
	}
	if post.Type != models.PostTypeText {
		post.MediaURL = optional(mediaURL)
	}

	if err := s.postRepo.CreatePost(post); err != nil {
		return nil, err
	}
	metrics.PostCreated()
	return post, nil
}

// Feed returns a family's newest posts with likes and comments
func (s *PostService) Feed(userID, familyID string, limit int) ([]models.FeedPost, error) {
	if err := s.familyService.VerifyFamilyAccess(userID, familyID); err != nil {
		return nil, err
	}

	feed, err := s.postRepo.GetFamilyFeed(familyID, userID, clampLimit(limit, DefaultFeedLimit))
	if err != nil {
		return nil, err
	}
	if len(feed) == 0 {
		return feed, nil
	}

	ids := make([]int64, len(feed))
	for i, p := range feed {
		ids[i] = p.ID
	}
	comments, err := s.commentRepo.GetCommentsForPosts(ids)
	if err != nil {
		return nil, err
	}
	for i := range feed {
		if c, ok := comments[feed[i].ID]; ok {
			feed[i].Comments = c
		}
	}
	return feed, nil
}

// Gallery returns image posts across all of the user's families
func (s *PostService) Gallery(userID string, limit int) ([]models.Post, error) {
	return s.postRepo.GetGallery(userID, clampLimit(limit, DefaultGalleryLimit))
}

// DeletePost removes a post authored by userID. Comments and likes go with
// it. Media cleanup is best-effort and never fails the call.
func (s *PostService) DeletePost(ctx context.Context, userID string, postID int64) error {
	post, err := s.postRepo.GetPostByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.AuthorID != userID {
		return ErrNotPostAuthor
	}

	if err := s.postRepo.DeletePost(postID); err != nil {
		return err
	}
	metrics.PostDeleted()
	logrus.WithFields(logrus.Fields{"post_id": postID, "user_id": userID}).Info("Post deleted")

	if post.HasMedia() {
		removeByPublicURL(ctx, s.store, storage.BucketMedia, strings.TrimSpace(*post.MediaURL))
	}
	return nil
}

// requirePostAccess loads a post and checks the user belongs to its family
func (s *PostService) requirePostAccess(userID string, postID int64) (*models.Post, error) {
	post, err := s.postRepo.GetPostByID(postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if err := s.familyService.VerifyFamilyAccess(userID, post.FamilyID); err != nil {
		return nil, err
	}
	return post, nil
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}
