package repository

import (
	"database/sql"
	"fmt"

	"familyhub/internal/database"
	"familyhub/internal/models"
)

// CommentRepository handles database operations for comments
type CommentRepository struct {
	db *database.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *database.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// CreateComment inserts a comment and sets its ID
func (r *CommentRepository) CreateComment(comment *models.Comment) error {
	query := `
		INSERT INTO comments (post_id, author_id, content, audio_url, audio_duration_ms, audio_mime, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		comment.PostID,
		comment.AuthorID,
		nullString(comment.Content),
		nullString(comment.AudioURL),
		nullInt64(comment.AudioDurationMs),
		nullString(comment.AudioMime),
		comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	comment.ID = id
	return nil
}

// GetCommentsForPosts returns comments grouped by post, oldest first
func (r *CommentRepository) GetCommentsForPosts(postIDs []int64) (map[int64][]models.Comment, error) {
	result := make(map[int64][]models.Comment, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	args := make([]interface{}, len(postIDs))
	for i, id := range postIDs {
		args[i] = id
	}

	query := `
		SELECT c.id, c.post_id, c.author_id, c.content, c.audio_url, c.audio_duration_ms, c.audio_mime, c.created_at,
		       u.id, u.first_name, u.last_name, u.avatar_url
		FROM comments c
		LEFT JOIN users u ON c.author_id = u.id
		WHERE c.post_id IN (` + inPlaceholders(len(postIDs)) + `)
		ORDER BY c.created_at ASC, c.id ASC
	`
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Comment
		var content, audioURL, audioMime sql.NullString
		var duration sql.NullInt64
		var a nullableAuthor
		if err := rows.Scan(
			&c.ID, &c.PostID, &c.AuthorID, &content, &audioURL, &duration, &audioMime, &c.CreatedAt,
			&a.id, &a.firstName, &a.lastName, &a.avatarURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		c.Content = stringPtr(content)
		c.AudioURL = stringPtr(audioURL)
		c.AudioDurationMs = int64Ptr(duration)
		c.AudioMime = stringPtr(audioMime)
		c.Author = a.author()
		result[c.PostID] = append(result[c.PostID], c)
	}
	return result, rows.Err()
}
