package config

import (
	"time"

	"github.com/caarlos0/env/v9"
)

// Config holds all runtime settings, loaded from the environment.
// REDIS_URL is optional: when empty the server runs without the
// conversation-lookup cache and the offline-notification queue.
type Config struct {
	Port        string        `env:"PORT" envDefault:"8080"`
	DatabaseURL string        `env:"DB_URL,required"`
	RedisURL    string        `env:"REDIS_URL"`
	Concurrency int           `env:"ASYNQ_CONCURRENCY" envDefault:"10"`
	CacheTTL    time.Duration `env:"CONVERSATION_CACHE_TTL" envDefault:"10m"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
