package handler

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"adaptagent/internal/config"
	"adaptagent/internal/http/middleware"
	"adaptagent/internal/service"
)

// BodyLimit is the largest request body accepted: one maximum-size upload plus multipart framing.
const BodyLimit = service.MaxUploadSize + 1<<20

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	DB    *sql.DB
	Cache Pinger
	Auth  middleware.TokenVerifier

	Users       service.UserService
	Projects    service.ProjectService
	Tasks       service.TaskService
	Knowledge   service.KnowledgeService
	Tags        service.TagService
	Attachments service.AttachmentService
	KV          service.KVService
	Agent       service.AgentService

	CORSOrigins string
	RateLimit   config.RateLimitConfig
}

// RegisterRoutes attaches global middleware and every route to app.
// Everything under /api except /api/auth requires a bearer token.
func RegisterRoutes(app *fiber.App, d Deps) {
	origins := d.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(
		recover.New(),
		cors.New(cors.Config{
			AllowOrigins: origins,
			AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
			AllowHeaders: "Origin,Content-Type,Accept,Authorization," + middleware.RequestIDHeader,
			MaxAge:       86400,
		}),
	)

	app.Get("/health", HealthCheck(d.DB, d.Cache))
	app.Get("/healthz", LivenessProbe())

	limit := rateLimiter(d.RateLimit)
	api := app.Group("/api")

	authRoutes := api.Group("/auth", limit)
	authRoutes.Post("/register", Register(d.Users))
	authRoutes.Post("/login", Login(d.Users))

	var lookup middleware.AccountLookup
	if d.Users != nil {
		lookup = d.Users.Me
	}
	requireAuth := middleware.AuthRequired(d.Auth, lookup)
	secured := func(prefix string) fiber.Router {
		return api.Group(prefix, requireAuth, limit)
	}

	users := secured("/users")
	users.Get("/me", GetMe(d.Users))
	users.Put("/me", UpdateMe(d.Users))

	projects := secured("/projects")
	projects.Post("/", CreateProject(d.Projects))
	projects.Get("/", ListProjects(d.Projects))
	projects.Get("/:id", GetProject(d.Projects))
	projects.Put("/:id", UpdateProject(d.Projects))
	projects.Delete("/:id", DeleteProject(d.Projects))

	tasks := secured("/tasks")
	tasks.Post("/", CreateTask(d.Tasks))
	tasks.Get("/", ListTasks(d.Tasks))
	tasks.Get("/:id", GetTask(d.Tasks))
	tasks.Put("/:id", UpdateTask(d.Tasks))
	tasks.Delete("/:id", DeleteTask(d.Tasks))

	knowledge := secured("/knowledge")
	knowledge.Post("/", CreateKnowledge(d.Knowledge))
	knowledge.Get("/", ListKnowledge(d.Knowledge))
	knowledge.Get("/:id", GetKnowledge(d.Knowledge))
	knowledge.Put("/:id", UpdateKnowledge(d.Knowledge))
	knowledge.Delete("/:id", DeleteKnowledge(d.Knowledge))

	secured("/tags").Get("/", ListTags(d.Tags))

	uploads := secured("/uploads")
	uploads.Post("/", UploadAttachment(d.Attachments))
	uploads.Get("/", ListAttachments(d.Attachments))
	uploads.Get("/:id", GetAttachment(d.Attachments))
	uploads.Delete("/:id", DeleteAttachment(d.Attachments))

	kv := secured("/cache")
	kv.Get("/:key", GetCacheValue(d.KV))
	kv.Put("/:key", SetCacheValue(d.KV))
	kv.Delete("/:key", DeleteCacheValue(d.KV))

	agent := secured("/agent")
	agent.Post("/analyze-task", AnalyzeTask(d.Agent))
	agent.Post("/generate-code", GenerateCode(d.Agent))
	agent.Post("/answer", AnswerQuestion(d.Agent))
	agent.Post("/query", QueryKnowledge(d.Agent))
	agent.Get("/projects/:id/analysis", AnalyzeProject(d.Agent))
}

// rateLimiter allows cfg.Max requests per cfg.Window for each user, or each
// IP before authentication. A non-positive Max disables limiting.
func rateLimiter(cfg config.RateLimitConfig) fiber.Handler {
	if cfg.Max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	window := cfg.Window
	if window <= 0 {
		window = 15 * time.Minute
	}
	return limiter.New(limiter.Config{
		Max:        cfg.Max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if uid := middleware.UserID(c); uid != "" {
				return "user:" + uid
			}
			return "ip:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return writeError(c, fiber.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "too many requests, please try again later")
		},
	})
}
