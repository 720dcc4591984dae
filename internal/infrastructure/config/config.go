package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Booking BookingConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type BookingConfig struct {
	// Timezone is the pinned business timezone used to interpret slot
	// selectors that carry no explicit UTC offset. It is the only local-time
	// rule in the system; the ambient process timezone is never consulted.
	Timezone     string        `env:"BOOKING_TIMEZONE,    default=UTC"`
	WindowDays   int           `env:"BOOKING_WINDOW_DAYS, default=14"`
	DayStart     string        `env:"BOOKING_DAY_START,   default=09:00"`
	DayEnd       string        `env:"BOOKING_DAY_END,     default=17:00"`
	SlotLength   time.Duration `env:"BOOKING_SLOT_LENGTH, default=30m"`
	ViewCacheTTL time.Duration `env:"BOOKING_CACHE_TTL,   default=5m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=booking_system"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(logger *slog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		logger.Error("Failed to load configuration", "error", err)
		panic(err)
	}
	return &cfg
}
