package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"adaptagent/docs"
	"adaptagent/internal/auth"
	"adaptagent/internal/cache"
	"adaptagent/internal/config"
	"adaptagent/internal/database"
	"adaptagent/internal/database/migration"
	handlers "adaptagent/internal/http/handler"
	"adaptagent/internal/http/middleware"
	"adaptagent/internal/llm"
	"adaptagent/internal/logging"
	"adaptagent/internal/otel"
	"adaptagent/internal/repository/postgres"
	"adaptagent/internal/service"
	"adaptagent/internal/storage"
)

// samplePassword is the password given to the seeded sample account.
const samplePassword = "sample_password"

// @title                      ADAPT Agent API
// @version                    1.0
// @description                Task, project and knowledge management with LLM-backed agent endpoints.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.Location())
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		fatal(logger, "config_invalid", err)
	}

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		fatal(logger, "tracing_init_failed", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Error("tracing_shutdown_failed", "error_message", err.Error())
		}
	}()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		fatal(logger, "db_connect_failed", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
		fatal(logger, "db_migration_failed", err)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		fatal(logger, "auth_init_failed", err)
	}

	if cfg.Database.Seed {
		hash, err := authManager.HashPassword(samplePassword)
		if err != nil {
			fatal(logger, "db_seed_failed", err)
		}
		if err := migration.Seed(ctx, db, logger, hash); err != nil {
			fatal(logger, "db_seed_failed", err)
		}
	}

	// Redis is optional at startup; cached paths degrade to the database.
	redisCache := cache.NewRedis(cfg.Redis)
	defer redisCache.Close()
	pingCtx, cancelPing := context.WithTimeout(ctx, 2*time.Second)
	if err := redisCache.Ping(pingCtx); err != nil {
		logger.Warn("cache_unavailable", "component", "cache", "redis_addr", cfg.Redis.Addr, "error_message", err.Error())
	}
	cancelPing()

	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		fatal(logger, "storage_init_failed", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	openAI, err := llm.NewOpenAI(cfg.LLM)
	if err != nil {
		fatal(logger, "llm_init_failed", err)
	}
	llmMetrics, err := llm.NewMetrics(reg)
	if err != nil {
		fatal(logger, "metrics_init_failed", err)
	}
	llmClient := llm.NewRetry(openAI, cfg.LLM.MaxRetries, cfg.LLM.RetryDelay, logger)

	users := postgres.NewUserPostgres(db)
	projects := postgres.NewProjectPostgres(db)
	tasks := postgres.NewTaskPostgres(db)
	knowledge := postgres.NewKnowledgePostgres(db)
	tags := postgres.NewTagPostgres(db)
	attachments := postgres.NewAttachmentPostgres(db)

	deps := handlers.Deps{
		DB:          db,
		Cache:       redisCache,
		Auth:        authManager,
		Users:       service.NewUserService(users, authManager),
		Projects:    service.NewProjectService(projects, redisCache, logger),
		Tasks:       service.NewTaskService(tasks, projects, redisCache, logger),
		Knowledge:   service.NewKnowledgeService(knowledge, projects),
		Tags:        service.NewTagService(tags),
		Attachments: service.NewAttachmentService(objStore, attachments),
		KV:          service.NewKVService(redisCache),
		Agent:       service.NewAgentService(llmClient, llmMetrics, projects, tasks, knowledge, logger),
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.RateLimit,
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    handlers.BodyLimit,
	})

	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		fatal(logger, "metrics_init_failed", err)
	}

	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger))
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	handlers.RegisterRoutes(app, deps)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port
	go func() {
		logger.Info("server_start", "component", "http", "addr", addr, "app_host", cfg.AppHost)
		if err := app.Listen(addr); err != nil {
			fatal(logger, "server_failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("server_shutdown", "component", "http", "status", "in_progress")

	sctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(sctx); err != nil {
		logger.Error("server_shutdown", "component", "http", "status", "error", "error_message", err.Error())
	}
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "status", "error", "error_message", err.Error())
	os.Exit(1)
}
