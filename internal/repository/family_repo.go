package repository

import (
	"database/sql"
	"fmt"
	"time"

	"familyhub/internal/database"
	"familyhub/internal/models"
)

// FamilyRepository handles database operations for families and memberships
type FamilyRepository struct {
	db *database.DB
}

// NewFamilyRepository creates a new family repository
func NewFamilyRepository(db *database.DB) *FamilyRepository {
	return &FamilyRepository{db: db}
}

// FamilyExists reports whether a family with this join code exists
func (r *FamilyRepository) FamilyExists(familyID string) (bool, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM families WHERE id = ?", familyID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check family: %w", err)
	}
	return count > 0, nil
}

// CreateFamily inserts the family and adds the owner as its first member.
// A taken join code surfaces as a unique violation from the driver.
func (r *FamilyRepository) CreateFamily(family *models.Family) error {
	return r.db.WithTx(func(tx *database.Tx) error {
		query := `
			INSERT INTO families (id, name, description, owner_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`
		if _, err := tx.Exec(query, family.ID, family.Name, nullString(family.Description), family.OwnerID, family.CreatedAt, family.UpdatedAt); err != nil {
			return fmt.Errorf("failed to create family: %w", err)
		}

		query = "INSERT INTO family_members (family_id, user_id, joined_at) VALUES (?, ?, ?)"
		if _, err := tx.Exec(query, family.ID, family.OwnerID, family.CreatedAt); err != nil {
			return fmt.Errorf("failed to add family owner: %w", err)
		}
		return nil
	})
}

// GetFamilyByID retrieves a family by its join code
func (r *FamilyRepository) GetFamilyByID(familyID string) (*models.Family, error) {
	query := "SELECT id, name, description, owner_id, created_at, updated_at FROM families WHERE id = ?"
	family, err := scanFamily(r.db.QueryRow(query, familyID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	return family, nil
}

// GetUserFamilies retrieves the families a user belongs to, earliest joined first
func (r *FamilyRepository) GetUserFamilies(userID string) ([]models.Family, error) {
	query := `
		SELECT f.id, f.name, f.description, f.owner_id, f.created_at, f.updated_at
		FROM families f
		INNER JOIN family_members fm ON f.id = fm.family_id
		WHERE fm.user_id = ?
		ORDER BY fm.joined_at ASC, fm.id ASC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query families: %w", err)
	}
	defer rows.Close()

	families := []models.Family{}
	for rows.Next() {
		family, err := scanFamily(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan family: %w", err)
		}
		families = append(families, *family)
	}
	return families, rows.Err()
}

// ListFamilyIDs returns every family id
func (r *FamilyRepository) ListFamilyIDs() ([]string, error) {
	rows, err := r.db.Query("SELECT id FROM families ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query families: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan family id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AddFamilyMember adds a user to a family
func (r *FamilyRepository) AddFamilyMember(familyID, userID string, joinedAt time.Time) error {
	query := "INSERT INTO family_members (family_id, user_id, joined_at) VALUES (?, ?, ?)"
	if _, err := r.db.Exec(query, familyID, userID, joinedAt); err != nil {
		return fmt.Errorf("failed to add family member: %w", err)
	}
	return nil
}

// RemoveFamilyMember deletes a membership and reports whether one existed
func (r *FamilyRepository) RemoveFamilyMember(familyID, userID string) (bool, error) {
	result, err := r.db.Exec("DELETE FROM family_members WHERE family_id = ? AND user_id = ?", familyID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to remove family member: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to remove family member: %w", err)
	}
	return rows > 0, nil
}

// IsFamilyMember checks if a user is a member of a family
func (r *FamilyRepository) IsFamilyMember(userID, familyID string) (bool, error) {
	query := "SELECT COUNT(*) FROM family_members WHERE user_id = ? AND family_id = ?"
	var count int
	if err := r.db.QueryRow(query, userID, familyID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check family membership: %w", err)
	}
	return count > 0, nil
}

// GetFamilyMembers retrieves all members of a family with their profiles
func (r *FamilyRepository) GetFamilyMembers(familyID string) ([]models.FamilyMember, error) {
	query := `
		SELECT fm.family_id, fm.user_id, fm.joined_at,
		       u.id, u.first_name, u.last_name, u.avatar_url
		FROM family_members fm
		LEFT JOIN users u ON fm.user_id = u.id
		WHERE fm.family_id = ?
		ORDER BY fm.joined_at ASC, fm.id ASC
	`
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query family members: %w", err)
	}
	defer rows.Close()

	members := []models.FamilyMember{}
	for rows.Next() {
		var member models.FamilyMember
		var a nullableAuthor
		if err := rows.Scan(&member.FamilyID, &member.UserID, &member.JoinedAt, &a.id, &a.firstName, &a.lastName, &a.avatarURL); err != nil {
			return nil, fmt.Errorf("failed to scan family member: %w", err)
		}
		member.Profile = a.author()
		members = append(members, member)
	}
	return members, rows.Err()
}

// UpdateFamily updates a family's name and description
func (r *FamilyRepository) UpdateFamily(familyID, name string, description *string, now time.Time) error {
	query := "UPDATE families SET name = ?, description = ?, updated_at = ? WHERE id = ?"
	if _, err := r.db.Exec(query, name, nullString(description), now, familyID); err != nil {
		return fmt.Errorf("failed to update family: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFamily(row rowScanner) (*models.Family, error) {
	family := &models.Family{}
	var description sql.NullString
	if err := row.Scan(&family.ID, &family.Name, &description, &family.OwnerID, &family.CreatedAt, &family.UpdatedAt); err != nil {
		return nil, err
	}
	family.Description = stringPtr(description)
	return family, nil
}

// nullableAuthor scans the columns of a LEFT JOIN on users
type nullableAuthor struct {
	id        sql.NullString
	firstName sql.NullString
	lastName  sql.NullString
	avatarURL sql.NullString
}

func (a nullableAuthor) author() *models.Author {
	if !a.id.Valid {
		return nil
	}
	return &models.Author{
		ID:        a.id.String,
		FirstName: a.firstName.String,
		LastName:  a.lastName.String,
		AvatarURL: stringPtr(a.avatarURL),
	}
}
