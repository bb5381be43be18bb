package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/amelendez141/linkup-golf/internal/booking"
	"github.com/amelendez141/linkup-golf/internal/config"
	"github.com/amelendez141/linkup-golf/internal/database"
	"github.com/amelendez141/linkup-golf/internal/handler"
	"github.com/amelendez141/linkup-golf/internal/logger"
	appmw "github.com/amelendez141/linkup-golf/internal/middleware"
	"github.com/amelendez141/linkup-golf/internal/queue"
	"github.com/amelendez141/linkup-golf/internal/repository"
	"github.com/amelendez141/linkup-golf/internal/router"
	"github.com/amelendez141/linkup-golf/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment

	cfg := config.Load()
	log := logger.New(cfg.Env)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable, cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	courses := repository.NewCourseRepo(db)
	teeTimes := repository.NewTeeTimeRepo(db, users)
	messages := repository.NewMessageRepo(db)
	notifications := repository.NewNotificationRepo(db)

	engine := booking.NewEngine(teeTimes, log)
	publisher := &service.EventPublisher{URL: cfg.AMQPURL, Log: log}

	consumer := &queue.Consumer{URL: cfg.AMQPURL, Notifications: notifications, Log: log}
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()
	go consumer.Start(consumerCtx)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	profileH := handler.NewProfileHandler(users)
	courseH := handler.NewCourseHandler(courses)
	teeTimeH := handler.NewTeeTimeHandler(teeTimes, courses, users, publisher, log)
	slotH := handler.NewSlotHandler(engine, teeTimes, courses, users, publisher, log)
	matchH := handler.NewMatchHandler(users, teeTimes, cfg.RecommendLimit, log)
	messageH := handler.NewMessageHandler(messages, users)
	notificationH := handler.NewNotificationHandler(notifications)

	e := echo.New()
	e.HideBanner = true

	e.Use(appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := appmw.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH)
	router.RegisterPublic(e, courseH, teeTimeH, cache)
	router.RegisterMember(e, cfg.JWTSecret, profileH, teeTimeH, slotH, matchH, messageH, notificationH)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
