package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// HTTP holds server listener settings.
type HTTP struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	MaxBodyBytes    int64         `env:"HTTP_MAX_BODY_BYTES" envDefault:"1048576"`
	RateBurst       int           `env:"HTTP_RATE_BURST" envDefault:"40"`
	RatePerSec      int           `env:"HTTP_RATE_PER_SEC" envDefault:"20"`
}

// DB holds PostgreSQL pool settings. An empty DSN runs the API on in-memory
// stores, which is only useful for local development.
type DB struct {
	DSN             string        `env:"PG_DSN"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"15m"`
	ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"5m"`
}

// Auth holds token issuance settings. The signing secret itself is read
// lazily by the auth package from BENEFICIOS_AUTH_SECRET.
type Auth struct {
	TokenTTL time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"8h"`
}

// Config is the full service configuration, read from BENEFICIOS_* variables.
type Config struct {
	HTTP HTTP
	DB   DB
	Auth Auth
}

// Load reads the environment (plus a local .env file when present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "BENEFICIOS_"}); err != nil {
		return nil, err
	}
	return cfg, nil
}
