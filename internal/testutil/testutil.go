// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"familyhub/internal/database"
)

// NewTestDB opens a migrated SQLite database in a temp dir
func NewTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "familyhub_test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(""); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// CreateUser inserts a profile row directly
func CreateUser(t *testing.T, db *database.DB, id, firstName, lastName string) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO users (id, first_name, last_name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		id, firstName, lastName, time.Now().UTC(), time.Now().UTC(),
	)
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", id, err)
	}
}

// CreateFamily inserts a family owned by ownerID with the owner as a member
func CreateFamily(t *testing.T, db *database.DB, id, name, ownerID string) {
	t.Helper()
	now := time.Now().UTC()
	if _, err := db.Exec("INSERT INTO families (id, name, owner_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)", id, name, ownerID, now, now); err != nil {
		t.Fatalf("Failed to create family %s: %v", id, err)
	}
	AddMember(t, db, id, ownerID)
}

// AddMember inserts a membership row
func AddMember(t *testing.T, db *database.DB, familyID, userID string) {
	t.Helper()
	if _, err := db.Exec("INSERT INTO family_members (family_id, user_id, joined_at) VALUES (?, ?, ?)", familyID, userID, time.Now().UTC()); err != nil {
		t.Fatalf("Failed to add member %s to %s: %v", userID, familyID, err)
	}
}

// FixedClock returns a clock function pinned to t, which can be advanced
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock starts the clock at now
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

// Now returns the current fake time
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// MemoryStore is an in-memory object store that records calls
type MemoryStore struct {
	mu        sync.Mutex
	BaseURL   string
	Objects   map[string][]byte
	Removed   []string
	UploadErr error
	RemoveErr error
}

// NewMemoryStore creates an empty store whose public URLs start with baseURL
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{BaseURL: baseURL, Objects: make(map[string][]byte)}
}

func (m *MemoryStore) Upload(ctx context.Context, bucket, objectPath string, body []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UploadErr != nil {
		return m.UploadErr
	}
	m.Objects[bucket+"/"+objectPath] = body
	return nil
}

func (m *MemoryStore) PublicURL(bucket, objectPath string) string {
	return m.BaseURL + "/storage/v1/object/public/" + bucket + "/" + objectPath
}

func (m *MemoryStore) Remove(ctx context.Context, bucket string, objectPaths ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range objectPaths {
		m.Removed = append(m.Removed, bucket+"/"+p)
	}
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	for _, p := range objectPaths {
		delete(m.Objects, bucket+"/"+p)
	}
	return nil
}

// RemovedPaths returns a copy of every bucket/path passed to Remove
func (m *MemoryStore) RemovedPaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Removed...)
}

// StrPtr returns a pointer to s
func StrPtr(s string) *string {
	return &s
}
