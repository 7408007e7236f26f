package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"familyhub/internal/models"
	"familyhub/internal/repository"
	"familyhub/internal/storage"
	"familyhub/internal/validation"
)

var ErrProfileNotFound = errors.New("profile not found")

// AvatarUpload is an image file sent with a profile update
type AvatarUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ProfileService manages user profile rows keyed by auth user id
type ProfileService struct {
	userRepo *repository.UserRepository
	store    storage.Store
	isUnique func(error) bool
	now      func() time.Time
}

// NewProfileService creates a new profile service
func NewProfileService(userRepo *repository.UserRepository, store storage.Store, uniqueViolation func(error) bool) *ProfileService {
	return &ProfileService{
		userRepo: userRepo,
		store:    store,
		isUnique: uniqueViolation,
		now:      utcNow,
	}
}

// EnsureProfile returns the user's profile, creating it from the given
// names when missing. created reports whether a row was inserted.
func (s *ProfileService) EnsureProfile(userID, firstName, lastName string) (user *models.User, created bool, err error) {
	if err := validation.ValidatePersonName("first_name", firstName); err != nil {
		return nil, false, err
	}
	if err := validation.ValidatePersonName("last_name", lastName); err != nil {
		return nil, false, err
	}

	existing, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	now := s.now()
	user = &models.User{
		ID:        userID,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		if s.isUnique(err) {
			existing, err := s.GetProfile(userID)
			return existing, false, err
		}
		return nil, false, err
	}
	return user, true, nil
}

// GetProfile retrieves a profile by user id
func (s *ProfileService) GetProfile(userID string) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if user == nil {
		return nil, ErrProfileNotFound
	}
	return user, nil
}

// UpdateProfile replaces the user's names and, when avatar is set, uploads
// it and points the profile at the new object. The previous avatar object
// is removed best-effort.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID, firstName, lastName string, avatar *AvatarUpload) (*models.User, error) {
	if err := validation.ValidatePersonName("first_name", firstName); err != nil {
		return nil, err
	}
	if err := validation.ValidatePersonName("last_name", lastName); err != nil {
		return nil, err
	}
	if avatar != nil {
		if err := validation.ValidateAvatar(avatar.ContentType, int64(len(avatar.Data))); err != nil {
			return nil, err
		}
	}

	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	previousAvatar := user.AvatarURL
	avatarURL := user.AvatarURL

	if avatar != nil {
		objectPath := storage.AvatarPath(userID, avatar.Filename, now)
		if err := s.store.Upload(ctx, storage.BucketAvatars, objectPath, avatar.Data, avatar.ContentType); err != nil {
			return nil, fmt.Errorf("failed to upload avatar: %w", err)
		}
		url := s.store.PublicURL(storage.BucketAvatars, objectPath)
		avatarURL = &url
	}

	if err := s.userRepo.UpdateProfile(userID, strings.TrimSpace(firstName), strings.TrimSpace(lastName), avatarURL, now); err != nil {
		if avatar != nil {
			removeByPublicURL(ctx, s.store, storage.BucketAvatars, *avatarURL)
		}
		return nil, err
	}

	if avatar != nil && previousAvatar != nil {
		removeByPublicURL(ctx, s.store, storage.BucketAvatars, *previousAvatar)
	}

	user.FirstName = strings.TrimSpace(firstName)
	user.LastName = strings.TrimSpace(lastName)
	user.AvatarURL = avatarURL
	user.UpdatedAt = now
	return user, nil
}

// removeByPublicURL deletes the object behind a public URL. Failures are
// logged and swallowed.
func removeByPublicURL(ctx context.Context, store storage.Store, bucket, publicURL string) {
	log := logrus.WithFields(logrus.Fields{"bucket": bucket, "url": publicURL})

	objectPath, ok := storage.PathFromPublicURL(publicURL, bucket)
	if !ok {
		log.Warn("Could not derive storage path from public URL")
		return
	}
	if store == nil {
		log.Warn("No object store configured, skipping cleanup")
		return
	}
	if err := store.Remove(ctx, bucket, objectPath); err != nil {
		log.WithError(err).Warn("Failed to remove storage object")
	}
}
