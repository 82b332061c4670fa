package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/feedrail/configs"
	"github.com/maheshrc27/feedrail/internal/api/handlers"
	"github.com/maheshrc27/feedrail/internal/api/middleware"
	job "github.com/maheshrc27/feedrail/internal/jobs"
	"github.com/maheshrc27/feedrail/internal/queue"
	"github.com/maheshrc27/feedrail/internal/rails"
	"github.com/maheshrc27/feedrail/internal/repository"
	"github.com/maheshrc27/feedrail/internal/service"
	"github.com/robfig/cron"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	})))

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		slog.Error("Database is unreachable", "error", err)
		os.Exit(1)
	}

	if err := repository.Migrate(context.Background(), db); err != nil {
		slog.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	creds, err := service.NewCredentialService(cfg.SecretKey)
	if err != nil {
		slog.Error("Invalid credential key", "error", err)
		os.Exit(1)
	}

	postRepo := repository.NewPostRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	socialAccountRepo := repository.NewSocialAccountRepository(db)
	apiKeyRepository := repository.NewApiKeyRepository(db)

	publisher := queue.NewPublisher(client, cfg.RetryBudget)
	registry := rails.NewDefaultRegistry(cfg.Meta.GraphURL, cfg.RailTimeout)

	postService := service.NewPostService(postRepo, brandRepo, publisher)
	publishService := service.NewPublishService(postRepo, socialAccountRepo, creds, registry, cfg.PublishConcurrency)
	brandService := service.NewBrandService(brandRepo)
	platformService := service.NewPlatformService(cfg.Meta, brandRepo, socialAccountRepo, creds)
	apiKeyService := service.NewApiKeyService(apiKeyRepository)

	app := fiber.New(fiber.Config{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal Server Error"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}
			if code == fiber.StatusInternalServerError {
				slog.Error(err.Error(), "path", c.Path())
			}
			return c.Status(code).JSON(fiber.Map{"success": false, "error": message})
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, x-api-key",
		MaxAge:       3600,
	}))

	authMiddleware := middleware.NewAuthMiddleware(*cfg, apiKeyService)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "platforms": registry.Platforms()})
	})

	worker := handlers.NewWorkerHandler(publishService)
	app.Post("/api/workers/publish", authMiddleware.WorkerAuth(), worker.Publish)

	api := app.Group("/api/v1")
	api.Use(authMiddleware.AuthMiddleware())
	api.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitWindow,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.Get(middleware.APIKeyHeader)
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   "Too many requests",
			})
		},
	}))

	post := handlers.NewPostHandler(postService)
	api.Post("/posts", post.CreatePost)
	api.Get("/posts", post.ListPosts)
	api.Get("/posts/:id", post.GetPost)

	brand := handlers.NewBrandHandler(brandService)
	api.Post("/brands", brand.CreateBrand)
	api.Get("/brands", brand.ListBrands)

	platform := handlers.NewPlatformHandler(platformService)
	api.Get("/social-accounts/auth-url", platform.GetAuthURL)
	api.Post("/social-accounts", platform.LinkAccount)
	api.Get("/social-accounts", platform.ListAccounts)

	apiKeys := handlers.NewApiKeyHandler(apiKeyService)
	api.Post("/api-keys", apiKeys.CreateApiKey)
	api.Get("/api-keys", apiKeys.ListKeys)
	api.Delete("/api-keys/:id", apiKeys.RemoveAPIKey)

	// cron jobs
	requeueJob := job.NewRequeueJob(postRepo, publisher, cfg.RequeueAfter, cfg.ExpireAfter)

	c := cron.New()
	if err := c.AddFunc(cfg.RequeueInterval, requeueJob.RequeuePosts); err != nil {
		slog.Error("Invalid requeue schedule", "schedule", cfg.RequeueInterval, "error", err)
		os.Exit(1)
	}
	c.Start()

	//queue
	queueW := queue.NewQueue(publishService)
	server := asynq.NewServer(redisConn, asynq.Config{
		Concurrency: cfg.WorkerConcurrency,
		Queues:      map[string]int{queue.PublishQueue: 1},
	})

	slog.Info("Starting the Asynq server...")
	if err := server.Start(queueW.Mux()); err != nil {
		slog.Error("Could not start Asynq server", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := app.Listen(cfg.Address); err != nil {
			slog.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()
	slog.Info("Server is running", "address", cfg.Address)

	gracefulShutdown(app, server, c)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func closeDB(db *sql.DB) {
	slog.Info("Closing database connection")
	if err := db.Close(); err != nil {
		slog.Error("Failed to close database", "error", err)
	}
}

func gracefulShutdown(app *fiber.App, server *asynq.Server, c *cron.Cron) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	slog.Info("Shutting down server...")

	c.Stop()
	if err := app.Shutdown(); err != nil {
		slog.Error("Failed to shut down server", "error", err)
	}
	server.Shutdown()

	slog.Info("Server shutdown complete.")
}
