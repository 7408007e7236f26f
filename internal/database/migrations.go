package database

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
)

//go:embed migrations
var embeddedMigrations embed.FS

// RunMigrations executes all SQL migration files for the current dialect.
// When migrationsPath is empty the migrations compiled into the binary are used,
// otherwise files are read from <migrationsPath>/<dialect>/*.sql.
func (db *DB) RunMigrations(migrationsPath string) error {
	fsys, err := db.migrationsFS(migrationsPath)
	if err != nil {
		return err
	}

	if err := db.createMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	files, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	// Sort files to ensure they run in order
	sort.Strings(files)

	for _, filename := range files {
		hasRun, err := db.hasMigrationRun(filename)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if hasRun {
			continue
		}

		content, err := fs.ReadFile(fsys, filename)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", filename, err)
		}

		if err := db.executeMigration(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", filename, err)
		}

		if err := db.recordMigration(filename); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", filename, err)
		}

		logrus.WithField("migration", filename).Info("Migration completed")
	}

	return nil
}

func (db *DB) migrationsFS(migrationsPath string) (fs.FS, error) {
	subdir := db.Dialect.MigrationsSubdir()
	if migrationsPath == "" {
		sub, err := fs.Sub(embeddedMigrations, "migrations/"+subdir)
		if err != nil {
			return nil, fmt.Errorf("no embedded migrations for %s: %w", subdir, err)
		}
		return sub, nil
	}
	return os.DirFS(filepath.Join(migrationsPath, subdir)), nil
}

// createMigrationsTable creates the table to track completed migrations
func (db *DB) createMigrationsTable() error {
	_, err := db.Exec(db.Dialect.CreateMigrationsTableQuery())
	return err
}

// hasMigrationRun checks if a migration has already been executed
func (db *DB) hasMigrationRun(filename string) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM migrations WHERE filename = ?"
	if err := db.QueryRow(query, filename).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// executeMigration runs the SQL statements in a migration.
// All three drivers accept multiple statements in one Exec without arguments.
func (db *DB) executeMigration(content string) error {
	_, err := db.DB.Exec(content)
	return err
}

// recordMigration marks a migration as completed
func (db *DB) recordMigration(filename string) error {
	query := "INSERT INTO migrations (filename) VALUES (?)"
	_, err := db.Exec(query, filename)
	return err
}
