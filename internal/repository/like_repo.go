package repository

import (
	"fmt"
	"time"

	"familyhub/internal/database"
)

// LikeRepository handles database operations for likes
type LikeRepository struct {
	db *database.DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *database.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// AddLike records that userID likes postID
func (r *LikeRepository) AddLike(postID int64, userID string, now time.Time) error {
	query := "INSERT INTO likes (post_id, user_id, created_at) VALUES (?, ?, ?)"
	if _, err := r.db.Exec(query, postID, userID, now); err != nil {
		return fmt.Errorf("failed to add like: %w", err)
	}
	return nil
}

// RemoveLike deletes the like if present
func (r *LikeRepository) RemoveLike(postID int64, userID string) error {
	if _, err := r.db.Exec("DELETE FROM likes WHERE post_id = ? AND user_id = ?", postID, userID); err != nil {
		return fmt.Errorf("failed to remove like: %w", err)
	}
	return nil
}

// CountLikes returns the number of likes on a post
func (r *LikeRepository) CountLikes(postID int64) (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM likes WHERE post_id = ?", postID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}
