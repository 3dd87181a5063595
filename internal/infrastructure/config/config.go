package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth      AuthConfig
	Websocket WebsocketConfig
	Mongo     MongoConfig
	Redis     RedisConfig
}

type AuthConfig struct {
	JWTSecret       string        `env:"JWT_SECRET"`
	RefreshSecret   string        `env:"REFRESH_SECRET"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL,  default=30m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`
}

type WebsocketConfig struct {
	HeartbeatInterval time.Duration `env:"WS_HEARTBEAT_INTERVAL, default=30s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=taskmaster"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
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
