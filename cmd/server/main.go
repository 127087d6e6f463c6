package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fcrit/campus-events/internal/config"
	"github.com/fcrit/campus-events/internal/database"
	"github.com/fcrit/campus-events/internal/handler"
	"github.com/fcrit/campus-events/internal/middleware"
	"github.com/fcrit/campus-events/internal/queue"
	"github.com/fcrit/campus-events/internal/repository"
	"github.com/fcrit/campus-events/internal/router"
	queuepublisher "github.com/fcrit/campus-events/internal/service"
)

func main() {
	// .env is optional; real deployments provide the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.Env == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	// Redis is optional: without it the cache and rate limiter disable
	// themselves and every request goes straight to MySQL.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable, response cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	moderators := repository.NewModeratorRepo(db)
	events := repository.NewEventRepo(db)
	approvals := repository.NewApprovalRepo(db)
	registrations := repository.NewRegistrationRepo(db)
	likes := repository.NewLikeRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens, moderators)
	publicH := handler.NewPublicHandler(events, likes, registrations)
	organizerH := handler.NewOrganizerHandler(events, approvals, registrations)
	moderatorH := handler.NewModeratorHandler(approvals, queuepublisher.PublishEventModerated)
	studentH := handler.NewStudentHandler(registrations, likes)
	adminH := handler.NewAdminHandler(cfg, users, moderators, events, approvals)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterOrganizer(e, organizerH, cfg.JWTSecret)
	router.RegisterModerator(e, moderatorH, cfg.JWTSecret)
	router.RegisterStudent(e, studentH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	// Background consumer that mirrors moderation outcomes to a log
	// file. It reconnects on its own and never stops the server.
	go func() {
		if err := queue.StartModerationConsumer(); err != nil {
			log.Error().Err(err).Msg("moderation consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
