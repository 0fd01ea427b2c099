package main

import (
	"net/http"
	"os"

	_ "bookworm/docs" // swagger docs

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"bookworm/internal/auth"
	"bookworm/internal/cache"
	"bookworm/internal/config"
	"bookworm/internal/db"
	"bookworm/internal/handler"
	"bookworm/internal/keepalive"
	"bookworm/internal/media"
	"bookworm/internal/model"
	"bookworm/internal/repository"
	"bookworm/internal/router"
	"bookworm/internal/service"
)

// @title Bookworm API
// @version 1.0
// @description Book review API with JWT authentication and image hosting.
// @host localhost:3000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	e := echo.New()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Book{},
	); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	bookRepo := repository.NewBookRepository(gormDB)

	// Initialize collaborators
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	uploader := media.NewCloudinaryClient(
		cfg.CloudinaryCloudName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
	)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService)
	bookService := service.NewBookService(bookRepo, userRepo, uploader, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	bookHandler := handler.NewBookHandler(bookService)

	// Register routes
	router.Register(e, cfg, cacheClient, userRepo, authHandler, bookHandler)

	if cfg.SwaggerHost != "" {
		log.Info().Str("url", cfg.SwaggerHost+"/swagger/index.html").Msg("swagger docs")
	}

	if cfg.KeepAliveURL != "" {
		pinger := keepalive.New(cfg.KeepAliveURL, keepalive.DefaultInterval)
		pinger.Start()
		defer pinger.Stop()
	}

	addr := ":" + cfg.ServerPort
	log.Info().Str("addr", addr).Msg("starting server")
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server start")
	}
}
