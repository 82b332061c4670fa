package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Meta struct {
	AppID       string `env:"META_APP_ID"`
	AppSecret   string `env:"META_APP_SECRET"`
	RedirectURI string `env:"META_REDIRECT_URI"`
	GraphURL    string `env:"META_GRAPH_URL" envDefault:"https://graph.facebook.com/v18.0"`
}

type Config struct {
	Address          string `env:"ADDRESS" envDefault:":3000"`
	PostgresURI      string `env:"POSTGRES_URI,required"`
	RedisURI         string `env:"REDIS_URI" envDefault:"localhost:6379"`
	SecretKey        string `env:"SECRET_KEY,required"`
	WorkerSigningKey string `env:"WORKER_SIGNING_KEY,required"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`

	RetryBudget        int           `env:"QUEUE_RETRY_BUDGET" envDefault:"3"`
	WorkerConcurrency  int           `env:"WORKER_CONCURRENCY" envDefault:"10"`
	PublishConcurrency int           `env:"PUBLISH_CONCURRENCY" envDefault:"4"`
	RailTimeout        time.Duration `env:"RAIL_TIMEOUT" envDefault:"30s"`

	RequeueInterval string        `env:"REQUEUE_INTERVAL" envDefault:"@every 5m"`
	RequeueAfter    time.Duration `env:"REQUEUE_AFTER" envDefault:"10m"`
	ExpireAfter     time.Duration `env:"EXPIRE_AFTER" envDefault:"24h"`

	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"100"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`

	Meta Meta
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		slog.Info("no .env file loaded", "error", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
