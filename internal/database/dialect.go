package database

import (
	"database/sql"
	"regexp"
	"strconv"
)

// Dialect defines the interface for database-specific operations
type Dialect interface {
	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN returns the data source name for the connection
	DSN(config DialectConfig) string

	// RewriteQuery converts placeholder syntax if needed (e.g., ? to $1 for postgres)
	RewriteQuery(query string) string

	// SupportsLastInsertId returns true if the driver supports LastInsertId()
	SupportsLastInsertId() bool

	// ConfigureConnection applies any database-specific connection settings
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir returns the subdirectory name for migrations (e.g., "sqlite", "postgres")
	MigrationsSubdir() string

	// CreateMigrationsTableQuery returns the SQL to create the migrations tracking table
	CreateMigrationsTableQuery() string

	// BoolValue returns the SQL representation of a boolean value
	BoolValue(b bool) string

	// IsUniqueViolation reports whether err came from a unique or primary key constraint
	IsUniqueViolation(err error) bool

	// UpsertBestScoreQuery inserts a game session for (round_id, user_id), or
	// overwrites the stored one only when the new score is strictly lower.
	// Arguments: round_id, user_id, duration_ms, mistakes, score, created_at.
	UpsertBestScoreQuery() string
}

// DialectConfig holds configuration for database connection
type DialectConfig struct {
	// For SQLite
	Path string

	// For PostgreSQL/MySQL
	URL string
}

// placeholderRegexp matches ? placeholders
var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(match string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}

// upsertBestScoreOnConflict is shared by SQLite and PostgreSQL, which both
// support ON CONFLICT ... DO UPDATE ... WHERE.
const upsertBestScoreOnConflict = `
	INSERT INTO game_sessions (round_id, user_id, duration_ms, mistakes, score, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (round_id, user_id) DO UPDATE SET
		duration_ms = excluded.duration_ms,
		mistakes = excluded.mistakes,
		score = excluded.score,
		created_at = excluded.created_at
	WHERE excluded.score < game_sessions.score
`
