// Command worker-token signs the bearer token an external delivery mechanism
// presents to POST /api/workers/publish for one post.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/maheshrc27/feedrail/pkg/utils"
)

type signingConfig struct {
	WorkerSigningKey string `env:"WORKER_SIGNING_KEY,required"`
}

func main() {
	postID := flag.String("post", "", "post id the token is valid for")
	ttl := flag.Duration("ttl", 15*time.Minute, "token lifetime")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "error", err)
	}

	var cfg signingConfig
	if err := env.Parse(&cfg); err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	token, err := mint(cfg.WorkerSigningKey, *postID, *ttl)
	if err != nil {
		slog.Error("Unable to sign worker token", "error", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

func mint(signingKey, postID string, ttl time.Duration) (string, error) {
	if postID == "" {
		return "", errors.New("-post is required")
	}
	if ttl <= 0 {
		return "", errors.New("-ttl must be positive")
	}
	return utils.GenerateWorkerToken(signingKey, postID, ttl)
}
