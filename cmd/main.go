package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/encryptcookie"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/session"

	"movie-discovery-web/internal/config"
	"movie-discovery-web/internal/database"
	"movie-discovery-web/internal/handler"
	"movie-discovery-web/internal/repository"
	"movie-discovery-web/internal/service"
	"movie-discovery-web/internal/tmdb"
	"movie-discovery-web/internal/web"
)

func main() {
	// Structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Load configuration; missing credentials stop the process here
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Connect to Redis (non-fatal: sessions fall back to in-process memory
	// and the rate limiter fails open)
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, using in-memory sessions", "error", err)
	}

	// Initialize TMDB client
	tmdbClient := tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.BaseURL)

	// Initialize layers
	userRepo := repository.NewUserRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)

	catalogSvc := service.NewCatalogService(tmdbClient)
	authSvc := service.NewAuthService(userRepo)
	librarySvc := service.NewLibraryService(ratingRepo, favoriteRepo, catalogSvc)
	recommendSvc := service.NewRecommendationService(catalogSvc)

	authHandler := handler.NewAuthHandler(authSvc)
	movieHandler := handler.NewMovieHandler(catalogSvc, librarySvc)
	userHandler := handler.NewUserHandler(librarySvc, recommendSvc, catalogSvc)
	limiter := handler.NewRateLimiter(rdb, 10, 60)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Movie Discovery",
		ServerHeader: "Movie-Discovery",
		Views:        web.NewEngine(),
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("unhandled error", "error", err, "status", code)
			return c.Status(code).Render("error", fiber.Map{
				"Lang":    "hu",
				"UserID":  0,
				"Message": "The page could not be served, please try again.",
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: cfg.Session.Secret,
	}))

	sessionConfig := session.Config{
		CookieHTTPOnly: true,
		IdleTimeout:    24 * time.Hour,
	}
	if rdb != nil {
		sessionConfig.Storage = database.NewSessionStorage(rdb)
	}
	app.Use(session.New(sessionConfig))

	// Routes
	handler.RegisterRoutes(app, authHandler, movieHandler, userHandler, limiter)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutting down movie discovery...")
		_ = app.Shutdown()
	}()

	// Start server
	addr := ":" + cfg.Port
	slog.Info("starting movie discovery", "addr", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
