package repository

import (
	"database/sql"
	"fmt"

	"familyhub/internal/database"
	"familyhub/internal/models"
)

// PostRepository handles database operations for posts
type PostRepository struct {
	db *database.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *database.DB) *PostRepository {
	return &PostRepository{db: db}
}

// CreatePost inserts a post and sets its ID
func (r *PostRepository) CreatePost(post *models.Post) error {
	query := `
		INSERT INTO posts (family_id, author_id, type, text, media_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, post.FamilyID, post.AuthorID, string(post.Type), nullString(post.Text), nullString(post.MediaURL), post.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	post.ID = id
	return nil
}

// GetPostByID retrieves a post, or nil if it does not exist
func (r *PostRepository) GetPostByID(postID int64) (*models.Post, error) {
	query := "SELECT id, family_id, author_id, type, text, media_url, created_at FROM posts WHERE id = ?"
	post, err := scanPost(r.db.QueryRow(query, postID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// DeletePost removes a post. Comments and likes go with it.
func (r *PostRepository) DeletePost(postID int64) error {
	if _, err := r.db.Exec("DELETE FROM posts WHERE id = ?", postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// GetFamilyFeed returns a family's posts newest first, decorated with author,
// like count and whether viewerID liked each one. Comments are left empty.
func (r *PostRepository) GetFamilyFeed(familyID, viewerID string, limit int) ([]models.FeedPost, error) {
	query := `
		SELECT p.id, p.family_id, p.author_id, p.type, p.text, p.media_url, p.created_at,
		       u.id, u.first_name, u.last_name, u.avatar_url,
		       (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id),
		       (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id AND l.user_id = ?)
		FROM posts p
		LEFT JOIN users u ON p.author_id = u.id
		WHERE p.family_id = ?
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, viewerID, familyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query feed: %w", err)
	}
	defer rows.Close()

	feed := []models.FeedPost{}
	for rows.Next() {
		var fp models.FeedPost
		var text, mediaURL sql.NullString
		var postType string
		var a nullableAuthor
		var likedByMe int
		if err := rows.Scan(
			&fp.ID, &fp.FamilyID, &fp.AuthorID, &postType, &text, &mediaURL, &fp.CreatedAt,
			&a.id, &a.firstName, &a.lastName, &a.avatarURL,
			&fp.LikeCount, &likedByMe,
		); err != nil {
			return nil, fmt.Errorf("failed to scan feed post: %w", err)
		}
		fp.Type = models.PostType(postType)
		fp.Text = stringPtr(text)
		fp.MediaURL = stringPtr(mediaURL)
		fp.Author = a.author()
		fp.LikedByMe = likedByMe > 0
		fp.Comments = []models.Comment{}
		feed = append(feed, fp)
	}
	return feed, rows.Err()
}

// GetGallery returns image posts from every family userID belongs to, newest first
func (r *PostRepository) GetGallery(userID string, limit int) ([]models.Post, error) {
	query := `
		SELECT id, family_id, author_id, type, text, media_url, created_at
		FROM posts
		WHERE type = 'image'
		  AND media_url IS NOT NULL
		  AND family_id IN (SELECT family_id FROM family_members WHERE user_id = ?)
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query gallery: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

func scanPost(row rowScanner) (*models.Post, error) {
	post := &models.Post{}
	var text, mediaURL sql.NullString
	var postType string
	if err := row.Scan(&post.ID, &post.FamilyID, &post.AuthorID, &postType, &text, &mediaURL, &post.CreatedAt); err != nil {
		return nil, err
	}
	post.Type = models.PostType(postType)
	post.Text = stringPtr(text)
	post.MediaURL = stringPtr(mediaURL)
	return post, nil
}
