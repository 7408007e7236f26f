package database

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

func TestDialectSQLite(t *testing.T) {
	dialect := NewSQLiteDialect()

	t.Run("DriverName", func(t *testing.T) {
		if got := dialect.DriverName(); got != "sqlite3" {
			t.Errorf("DriverName() = %v, want sqlite3", got)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if !dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return true for SQLite")
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		if got := dialect.MigrationsSubdir(); got != "sqlite" {
			t.Errorf("MigrationsSubdir() = %v, want sqlite", got)
		}
	})

	t.Run("BoolValue", func(t *testing.T) {
		if dialect.BoolValue(true) != "1" || dialect.BoolValue(false) != "0" {
			t.Error("BoolValue() should render 1/0 for SQLite")
		}
	})
}

func TestDialectPostgreSQL(t *testing.T) {
	dialect := NewPostgresDialect()

	t.Run("DriverName", func(t *testing.T) {
		if got := dialect.DriverName(); got != "postgres" {
			t.Errorf("DriverName() = %v, want postgres", got)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return false for PostgreSQL")
		}
	})

	t.Run("UpsertBestScoreQuery", func(t *testing.T) {
		q := dialect.RewriteQuery(dialect.UpsertBestScoreQuery())
		if !strings.Contains(q, "$6") {
			t.Errorf("expected six numbered placeholders, got %s", q)
		}
		if !strings.Contains(q, "WHERE excluded.score < game_sessions.score") {
			t.Error("upsert must only overwrite strictly better scores")
		}
	})
}

func TestDialectMySQL(t *testing.T) {
	dialect := NewMySQLDialect()

	t.Run("DriverName", func(t *testing.T) {
		if got := dialect.DriverName(); got != "mysql" {
			t.Errorf("DriverName() = %v, want mysql", got)
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		if got := dialect.MigrationsSubdir(); got != "mysql" {
			t.Errorf("MigrationsSubdir() = %v, want mysql", got)
		}
	})

	t.Run("UpsertUpdatesScoreLast", func(t *testing.T) {
		q := dialect.UpsertBestScoreQuery()
		if strings.LastIndex(q, "score = IF") < strings.LastIndex(q, "created_at = IF") {
			t.Error("score must be assigned after the columns that compare against it")
		}
	})
}

func TestMySQLDSNOptions(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"no params", "u:p@tcp(db:3306)/app", "u:p@tcp(db:3306)/app?parseTime=true&multiStatements=true"},
		{"existing params", "u:p@tcp(db:3306)/app?charset=utf8mb4", "u:p@tcp(db:3306)/app?charset=utf8mb4&parseTime=true&multiStatements=true"},
		{"already set", "u:p@tcp(db:3306)/app?parseTime=false", "u:p@tcp(db:3306)/app?parseTime=false&multiStatements=true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewMySQLDialect().DSN(DialectConfig{URL: tt.url})
			if got != tt.want {
				t.Errorf("DSN() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "SQLite no change",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT * FROM posts WHERE id = ?",
			expected: "SELECT * FROM posts WHERE id = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT * FROM posts WHERE id = ?",
			expected: "SELECT * FROM posts WHERE id = $1",
		},
		{
			name:     "PostgreSQL multiple placeholders",
			dialect:  NewPostgresDialect(),
			query:    "INSERT INTO likes (post_id, user_id) VALUES (?, ?)",
			expected: "INSERT INTO likes (post_id, user_id) VALUES ($1, $2)",
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "UPDATE families SET name = ?, description = ? WHERE id = ?",
			expected: "UPDATE families SET name = ?, description = ? WHERE id = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.RewriteQuery(tt.query); got != tt.expected {
				t.Errorf("RewriteQuery() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		err     error
		want    bool
	}{
		{"postgres unique", NewPostgresDialect(), &pq.Error{Code: "23505"}, true},
		{"postgres wrapped", NewPostgresDialect(), fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), true},
		{"postgres fk", NewPostgresDialect(), &pq.Error{Code: "23503"}, false},
		{"mysql duplicate", NewMySQLDialect(), &mysql.MySQLError{Number: 1062}, true},
		{"mysql other", NewMySQLDialect(), &mysql.MySQLError{Number: 1452}, false},
		{"sqlite unique", NewSQLiteDialect(), sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, true},
		{"sqlite primary key", NewSQLiteDialect(), sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}, true},
		{"plain error", NewSQLiteDialect(), errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.IsUniqueViolation(tt.err); got != tt.want {
				t.Errorf("IsUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSubstrings(t *testing.T) {
	got := substrings("abcd", 3)
	want := []string{"abc", "bcd", "abcd"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("substrings() = %v, want %v", got, want)
	}
	if len(substrings("ab", 3)) != 0 {
		t.Error("strings shorter than the minimum produce no candidates")
	}
}

func TestSQLiteDSNSetsPragmas(t *testing.T) {
	d := NewSQLiteDialect()
	if got := d.DSN(DialectConfig{Path: "/tmp/x.db"}); got != "/tmp/x.db?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL" {
		t.Errorf("DSN() = %v", got)
	}
	if got := d.DSN(DialectConfig{Path: "file:x.db?cache=shared"}); got != "file:x.db?cache=shared&_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL" {
		t.Errorf("DSN() = %v", got)
	}
}
