package database

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MySQLDialect implements Dialect for MySQL
type MySQLDialect struct{}

// NewMySQLDialect creates a new MySQL dialect
func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) DriverName() string {
	return "mysql"
}

// DSN enables parseTime (DATETIME scanning) and multiStatements (migration files).
func (d *MySQLDialect) DSN(config DialectConfig) string {
	dsn := config.URL
	for _, opt := range []string{"parseTime=true", "multiStatements=true"} {
		if strings.Contains(dsn, strings.SplitN(opt, "=", 2)[0]+"=") {
			continue
		}
		if strings.Contains(dsn, "?") {
			dsn += "&" + opt
		} else {
			dsn += "?" + opt
		}
	}
	return dsn
}

func (d *MySQLDialect) RewriteQuery(query string) string {
	return query
}

func (d *MySQLDialect) SupportsLastInsertId() bool {
	return true
}

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	if _, err := db.Exec("SET FOREIGN_KEY_CHECKS = 1;"); err != nil {
		return err
	}

	return nil
}

func (d *MySQLDialect) MigrationsSubdir() string {
	return "mysql"
}

func (d *MySQLDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			filename VARCHAR(255) UNIQUE NOT NULL,
			executed_at DATETIME(6) DEFAULT CURRENT_TIMESTAMP(6)
		);
	`
}

func (d *MySQLDialect) BoolValue(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// ER_DUP_ENTRY
const mysqlDuplicateEntry = 1062

func (d *MySQLDialect) IsUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	return false
}

// UpsertBestScoreQuery relies on MySQL evaluating assignments left to right,
// so score is compared before it is overwritten.
func (d *MySQLDialect) UpsertBestScoreQuery() string {
	return "INSERT INTO game_sessions (round_id, user_id, duration_ms, mistakes, score, created_at) " +
		"VALUES (?, ?, ?, ?, ?, ?) " +
		"ON DUPLICATE KEY UPDATE " +
		"duration_ms = IF(VALUES(score) < score, VALUES(duration_ms), duration_ms), " +
		"mistakes = IF(VALUES(score) < score, VALUES(mistakes), mistakes), " +
		"created_at = IF(VALUES(score) < score, VALUES(created_at), created_at), " +
		"score = IF(VALUES(score) < score, VALUES(score), score)"
}
