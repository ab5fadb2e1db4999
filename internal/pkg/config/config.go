package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// AuthSecret signs session tokens. Required outside development.
	AuthSecret string `env:"AUTH_SECRET"`

	// TokenTTL bounds the token itself; CookieMaxAge bounds how long the
	// browser keeps it.
	TokenTTL     time.Duration `env:"TOKEN_TTL,      default=24h"`
	CookieMaxAge time.Duration `env:"COOKIE_MAX_AGE, default=168h"`

	BcryptCost int `env:"BCRYPT_COST, default=10"`

	ThrottleLimit  int64         `env:"THROTTLE_LIMIT,  default=20"`
	ThrottleWindow time.Duration `env:"THROTTLE_WINDOW, default=1m"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=social_network"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
