package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/bookline/booking-system/docs"
	"github.com/bookline/booking-system/internal/api/handler"
	"github.com/bookline/booking-system/internal/api/middleware"
	"github.com/bookline/booking-system/internal/core/domain"
	"github.com/bookline/booking-system/internal/core/ports"
	"github.com/bookline/booking-system/internal/core/service"
	"github.com/bookline/booking-system/internal/infrastructure/config"
	mongodb "github.com/bookline/booking-system/internal/infrastructure/db/mongo"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	cache ports.AvailabilityCache,
	invalidator ports.ViewInvalidator,
	codec domain.SlotCodec,
	schedule domain.Schedule,
	cfg *config.Config,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("booking"))

	// --- Dependencies ---
	authRepo := mongodb.NewAuthRepository(db)
	authService := service.NewAuthService(authRepo, cfg.JWTSecret, 24*time.Hour)
	authHandler := handler.NewAuthHandler(authService)

	bookingRepo := mongodb.NewBookingRepository(db)
	bookingService := service.NewBookingService(
		bookingRepo, codec, schedule, cache, invalidator, cfg.Booking.WindowDays, log,
	)
	bookingHandler := handler.NewBookingHandler(bookingService)
	availabilityHandler := handler.NewAvailabilityHandler(bookingService, codec.Location())

	authMW := middleware.Auth(cfg.JWTSecret)
	adminMW := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Booking routes ---
	v1 := e.Group("/v1", authMW)
	v1.POST("/bookings", bookingHandler.Create)
	v1.DELETE("/bookings/:id", bookingHandler.Cancel)
	v1.GET("/bookings", bookingHandler.ListAll, adminMW)
	v1.GET("/my/bookings", bookingHandler.ListMine)
	v1.GET("/my/upcoming", bookingHandler.ListUpcoming)
	v1.GET("/availability", availabilityHandler.Get)
	v1.GET("/availability/dates", availabilityHandler.Dates)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
