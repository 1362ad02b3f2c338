package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/redis/go-redis/v9"

	"cinisense-api/internal/auth"
	"cinisense-api/internal/config"
	"cinisense-api/internal/database"
	"cinisense-api/internal/gemini"
	"cinisense-api/internal/handler"
	"cinisense-api/internal/middleware"
	"cinisense-api/internal/service"
	"cinisense-api/internal/storage"
	"cinisense-api/internal/tmdb"
)

func main() {
	// Structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Select the storage backend once at startup: PostgreSQL when a
	// connection string is configured, ephemeral in-memory otherwise.
	var store storage.Store
	if cfg.DatabaseURL != "" {
		db, err := database.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to PostgreSQL", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		store = storage.NewPostgresStore(db)
	} else {
		slog.Warn("DATABASE_URL not set, using in-memory storage (data lost on restart)")
		store = storage.NewMemoryStore()
	}

	// Connect to Redis (non-fatal if unavailable)
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = database.NewRedis(cfg.Redis)
		if err != nil {
			slog.Warn("Redis unavailable, running without cache", "error", err)
			rdb = nil
		}
	}

	// External clients
	tmdbClient := tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.BaseURL)
	geminiClient := gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.BaseURL)

	jwtManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		slog.Error("failed to initialize JWT manager", "error", err)
		os.Exit(1)
	}

	// Initialize layers
	authSvc := service.NewAuthService(store, jwtManager)
	movieSvc := service.NewMovieService(tmdbClient, store, rdb)
	moodSvc := service.NewMoodService(store, geminiClient)
	librarySvc := service.NewLibraryService(store)

	authH := handler.NewAuthHandler(authSvc)
	movieH := handler.NewMovieHandler(movieSvc)
	moodH := handler.NewMoodHandler(moodSvc)
	libraryH := handler.NewLibraryHandler(librarySvc)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "CiniSense API",
		ServerHeader: "CiniSense",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("unhandled error", "error", err, "status", code)
			return c.Status(code).JSON(handler.ErrorResponse{Error: "internal server error"})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	if rdb != nil {
		app.Use(middleware.NewRateLimiter(rdb, cfg.RateLimit.MaxRequests, cfg.RateLimit.WindowSec).Handler())
	}

	// API routes
	handler.RegisterRoutes(app, authH, movieH, moodH, libraryH, middleware.RequireAuth(jwtManager))

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	addr := ":" + cfg.Port
	slog.Info("starting CiniSense API", "addr", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
