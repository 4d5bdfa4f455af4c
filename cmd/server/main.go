package main

import (
	"context"
	"os"
	"strings"
	"time"

	"jobtrack-backend/auth"
	"jobtrack-backend/config"
	"jobtrack-backend/handlers"
	"jobtrack-backend/notify"
	"jobtrack-backend/repository"
	"jobtrack-backend/service"
	"jobtrack-backend/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	// Load .env file from project root (relative to cmd/server/)
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			// No .env file; rely on the environment.
		}
	}

	cfg := config.Load()

	log := newLogger(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	db, err := initPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Postgres")
	}
	defer db.Close()
	log.Info().Msg("Postgres connection established")

	presigner, err := storage.NewS3Presigner(storage.S3Config{
		Bucket:       cfg.S3Bucket,
		Region:       cfg.S3Region,
		AWSAccessKey: cfg.AWSAccessKey,
		AWSSecretKey: cfg.AWSSecretKey,
		Expires:      time.Duration(cfg.PresignExpires) * time.Second,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage presigner")
	}
	log.Info().Str("bucket", cfg.S3Bucket).Msg("Storage presigner initialized")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	stageRepo := repository.NewStageRepository(db)
	contactRepo := repository.NewContactRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	tagRepo := repository.NewTagRepository(db)
	docRepo := repository.NewDocumentRepository(db)

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpireMinutes)

	sweepService := service.NewReminderService(
		service.WithReminderSweeper(reminderRepo),
		service.WithNotifier(notify.NewNoop()),
	)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepo, tokens)
	appHandler := handlers.NewApplicationHandler(appRepo)
	stageHandler := handlers.NewStageHandler(stageRepo, appRepo)
	contactHandler := handlers.NewContactHandler(contactRepo, appRepo)
	noteHandler := handlers.NewNoteHandler(noteRepo, appRepo)
	reminderHandler := handlers.NewReminderHandler(reminderRepo, appRepo, sweepService)
	tagHandler := handlers.NewTagHandler(tagRepo, appRepo)
	docHandler := handlers.NewDocumentHandler(docRepo, appRepo, presigner)

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handlers.RequestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)

	authed := r.Group("/")
	authed.Use(handlers.RequireAuth(tokens, userRepo))
	{
		authed.GET("/auth/test-token", authHandler.TestToken)

		authed.GET("/applications", appHandler.List)
		authed.GET("/applications/search", appHandler.Search)
		authed.GET("/applications/:id", appHandler.Get)
		authed.POST("/applications", appHandler.Create)
		authed.PATCH("/applications/:id", appHandler.Update)
		authed.DELETE("/applications/:id", appHandler.Delete)

		authed.GET("/stages/:application_id", stageHandler.List)
		authed.POST("/stages", stageHandler.Create)
		authed.DELETE("/stages/:id", stageHandler.Delete)

		authed.GET("/contacts/:application_id", contactHandler.List)
		authed.POST("/contacts", contactHandler.Create)
		authed.DELETE("/contacts/:id", contactHandler.Delete)

		authed.GET("/notes/:application_id", noteHandler.List)
		authed.POST("/notes", noteHandler.Create)
		authed.DELETE("/notes/:id", noteHandler.Delete)

		authed.GET("/reminders/:application_id", reminderHandler.List)
		authed.POST("/reminders", reminderHandler.Create)
		authed.POST("/reminders/run-due", reminderHandler.RunDue)
		authed.DELETE("/reminders/:id", reminderHandler.Delete)

		authed.GET("/tags", tagHandler.List)
		authed.POST("/tags", tagHandler.Create)
		authed.POST("/tags/assign/:application_id/:tag_id", tagHandler.Assign)
		authed.DELETE("/tags/assign/:application_id/:tag_id", tagHandler.Unassign)

		authed.GET("/documents/:application_id", docHandler.List)
		authed.POST("/documents/:application_id/presign", docHandler.Presign)
		authed.POST("/documents", docHandler.Register)
		authed.GET("/documents/download/:document_id", docHandler.Download)
		authed.DELETE("/documents/:id", docHandler.Delete)
	}

	log.Info().Str("port", cfg.Port).Msg("Server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

func initPostgres(connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	return pool, nil
}
