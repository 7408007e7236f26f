package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"familyhub/internal/config"
	"familyhub/internal/database"
	"familyhub/internal/handlers"
	"familyhub/internal/logging"
	"familyhub/internal/repository"
	"familyhub/internal/security"
	"familyhub/internal/service"
	"familyhub/internal/storage"
	"familyhub/internal/supabase"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logrus.WithField("type", cfg.DatabaseType).Info("Database connection established")

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	logrus.Info("Migrations completed successfully")

	// Seed bad words filter
	if err := db.SeedBadWords(); err != nil {
		logrus.WithError(err).Warn("Failed to seed bad words filter")
	}

	// Hosted backend: token verification and object storage
	sb, err := supabase.New(supabase.Config{
		ProjectURL: cfg.SupabaseURL,
		AnonKey:    cfg.SupabaseAnonKey,
		ServiceKey: cfg.SupabaseServiceKey,
		JWTSecret:  cfg.SupabaseJWTSecret,
	})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create Supabase client")
	}

	store, err := newObjectStore(cfg, sb)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize object storage")
	}

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.Debug)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize email service")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	postRepo := repository.NewPostRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	gameRepo := repository.NewGameRepository(db)

	// Initialize services
	familyService := service.NewFamilyService(familyRepo, userRepo, db, emailService)
	profileService := service.NewProfileService(userRepo, store, db.IsUniqueViolation)
	postService := service.NewPostService(postRepo, commentRepo, familyService, store)
	likeService := service.NewLikeService(likeRepo, postService, db.IsUniqueViolation)
	commentService := service.NewCommentService(commentRepo, postService)
	questionService := service.NewQuestionService(questionRepo, familyService, db.IsUniqueViolation)
	gameService := service.NewGameService(gameRepo, familyService, db.IsUniqueViolation)
	rolloverService := service.NewRolloverService(familyRepo, questionService, gameService)

	// Prepare each family's daily question and game round shortly after midnight UTC
	scheduler := cron.New(cron.WithLocation(time.UTC))
	if _, err := rolloverService.Schedule(scheduler, cfg.DailyRolloverSchedule); err != nil {
		logrus.WithError(err).Fatal("Failed to schedule daily rollover")
	}
	scheduler.Start()

	// Initialize handlers
	csrf := security.NewCSRFGenerator(cfg.CSRFSecret)
	limiter := security.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	middleware := handlers.NewMiddleware(sb.Auth(), csrf, limiter, cfg.LoginURL)

	handler := handlers.NewRouter(middleware, handlers.Handlers{
		System:   handlers.NewSystemHandler(db, csrf),
		Profile:  handlers.NewProfileHandler(profileService),
		Family:   handlers.NewFamilyHandler(familyService),
		Post:     handlers.NewPostHandler(postService, likeService, commentService),
		Question: handlers.NewQuestionHandler(questionService),
		Game:     handlers.NewGameHandler(gameService),
	})

	stopCleanup := make(chan struct{})
	go limiter.RunCleanup(5*time.Minute, 10*time.Minute, stopCleanup)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logrus.Infof("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Server shutting down...")

	close(stopCleanup)
	<-scheduler.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server shutdown failed")
	}
}

// newObjectStore picks the storage backend named by STORAGE_BACKEND
func newObjectStore(cfg *config.Config, sb *supabase.Client) (storage.Store, error) {
	if cfg.StorageBackend != "s3" {
		return sb.Storage(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return storage.NewS3Store(ctx, storage.S3Config{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		PublicBaseURL:   cfg.SupabaseURL,
	})
}
