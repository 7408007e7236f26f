package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"familyhub/internal/config"
	"familyhub/internal/credentials"
	"familyhub/internal/database"
	"familyhub/internal/logging"
	"familyhub/internal/repository"
	"familyhub/internal/service"
)

func main() {
	familyCode := flag.String("family", "", "Join code of the family to export (required)")
	outputPath := flag.String("output", "", "Output file path (default: family_<CODE>_YYYYMMDD_HHMMSS.json)")
	flag.Usage = printUsage
	flag.Parse()

	familyID := credentials.NormalizeJoinCode(*familyCode)
	if !credentials.IsValidJoinCode(familyID) {
		fmt.Fprintln(os.Stderr, "Error: -family must be a 5 character join code")
		printUsage()
		os.Exit(1)
	}

	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	exportService := service.NewExportService(
		repository.NewFamilyRepository(db),
		repository.NewPostRepository(db),
		repository.NewCommentRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewGameRepository(db),
	)

	path := *outputPath
	if path == "" {
		path = fmt.Sprintf("family_%s_%s.json", familyID, time.Now().Format("20060102_150405"))
	}

	// Ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logrus.WithError(err).Fatal("Failed to create output directory")
		}
	}

	if err := exportService.ExportToFile(familyID, path); err != nil {
		logrus.WithError(err).Fatal("Export failed")
	}

	if info, err := os.Stat(path); err == nil {
		logrus.Infof("Export complete! File size: %.2f KB", float64(info.Size())/1024)
	}
}

func printUsage() {
	fmt.Println("FamilyHub Family Export Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  export -family <CODE> [-output <file>]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -family <CODE>    Join code of the family to export (required)")
	fmt.Println("  -output <file>    Output file path (default: family_<CODE>_YYYYMMDD_HHMMSS.json)")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DB_TYPE          Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  DB_PATH          SQLite database path (default: ./familyhub.db)")
	fmt.Println("  DATABASE_URL     PostgreSQL or MySQL connection URL")
}
