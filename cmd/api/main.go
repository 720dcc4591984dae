package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bookline/booking-system/internal/api"
	"github.com/bookline/booking-system/internal/core/domain"
	"github.com/bookline/booking-system/internal/infrastructure/config"
	mongodb "github.com/bookline/booking-system/internal/infrastructure/db/mongo"
	redisdb "github.com/bookline/booking-system/internal/infrastructure/db/redis"
	"github.com/bookline/booking-system/internal/infrastructure/queue"
	"github.com/bookline/booking-system/pkg/logger"
)

// @title           Booking System API
// @version         1.0
// @description     Appointment booking API: browse 30-minute slots, reserve, and manage bookings.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	boot := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg := config.Load(boot)

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	loc, err := time.LoadLocation(cfg.Booking.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Booking.Timezone).Msg("invalid booking timezone")
	}
	codec := domain.NewSlotCodec(loc)
	schedule, err := domain.NewSchedule(codec, cfg.Booking.DayStart, cfg.Booking.DayEnd, cfg.Booking.SlotLength)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid schedule configuration")
	}

	ctx := context.Background()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// The unique index on slot is the primitive the double-booking guarantee
	// rests on; refuse to start without it.
	if err := mongodb.NewBookingRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("bookings indexes failed")
	}
	if err := mongodb.NewAuthRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("users indexes failed")
	}

	cache := redisdb.NewAvailabilityCache(rdb, cfg.Booking.ViewCacheTTL)

	dispatcherCtx, stopDispatcher := context.WithCancel(ctx)
	defer stopDispatcher()
	invalidator := queue.NewInvalidationDispatcher(0, cache, log)
	invalidator.Start(dispatcherCtx)

	e := api.NewRouter(db, rdb, cache, invalidator, codec, schedule, cfg, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("timezone", cfg.Booking.Timezone).Msg("booking api started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	log.Info().Msg("booking api stopped")
}
