package models

import "time"

// Family is a private group. ID doubles as the 5 character join code.
type Family struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsOwner reports whether userID owns the family
func (f *Family) IsOwner(userID string) bool {
	return f.OwnerID == userID
}

// FamilyMember links a user to a family
type FamilyMember struct {
	FamilyID string    `json:"family_id"`
	UserID   string    `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
	// Profile is nil when the user has not created a profile yet
	Profile *Author `json:"profile,omitempty"`
}

// FamilyWithMembers combines a family with its member information
type FamilyWithMembers struct {
	Family  Family         `json:"family"`
	Members []FamilyMember `json:"members"`
	IsOwner bool           `json:"is_owner"`
}
