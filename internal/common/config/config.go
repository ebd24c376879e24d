package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:5173"`
	}

	Firestore struct {
		// Empty means the project is auto-detected from the environment
		// (metadata server or GOOGLE_CLOUD_PROJECT). Credentials always
		// come from Application Default Credentials.
		ProjectID string `env:"FIRESTORE_PROJECT_ID" envDefault:""`
	}

	Cache struct {
		// "memory" keeps profile snapshots in an in-process LRU,
		// "redis" stores them in Redis with the same TTL.
		Backend string        `env:"CACHE_BACKEND" envDefault:"memory"`
		Size    int           `env:"CACHE_SIZE" envDefault:"1000"`
		TTL     time.Duration `env:"CACHE_TTL" envDefault:"10m"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// Ignore a missing .env file; in production the variables
		// are set directly.
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
