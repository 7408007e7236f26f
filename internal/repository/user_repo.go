package repository

import (
	"database/sql"
	"fmt"
	"time"

	"familyhub/internal/database"
	"familyhub/internal/models"
)

// UserRepository handles database operations for member profiles
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a profile row
func (r *UserRepository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO users (id, first_name, last_name, avatar_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, user.ID, user.FirstName, user.LastName, nullString(user.AvatarURL), user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a profile, or nil if the user has none
func (r *UserRepository) GetUserByID(id string) (*models.User, error) {
	query := `
		SELECT id, first_name, last_name, avatar_url, created_at, updated_at
		FROM users
		WHERE id = ?
	`
	user := &models.User{}
	var avatarURL sql.NullString
	err := r.db.QueryRow(query, id).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&avatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.AvatarURL = stringPtr(avatarURL)
	return user, nil
}

// UpdateProfile replaces names and avatar URL
func (r *UserRepository) UpdateProfile(id, firstName, lastName string, avatarURL *string, now time.Time) error {
	query := "UPDATE users SET first_name = ?, last_name = ?, avatar_url = ?, updated_at = ? WHERE id = ?"
	result, err := r.db.Exec(query, firstName, lastName, nullString(avatarURL), now, id)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("failed to update user: %w", sql.ErrNoRows)
	}
	return nil
}
