package main

import (
	"context"
	"strings"
	"time"

	"teamdesk/cmd/server/handlers"
	adminHandlers "teamdesk/cmd/server/handlers/admin"
	authHandlers "teamdesk/cmd/server/handlers/auth"
	fileHandlers "teamdesk/cmd/server/handlers/files"
	"teamdesk/cmd/server/handlers/httperr"
	messageHandlers "teamdesk/cmd/server/handlers/messages"
	noteHandlers "teamdesk/cmd/server/handlers/notes"
	realtimeHandlers "teamdesk/cmd/server/handlers/realtime"
	taskHandlers "teamdesk/cmd/server/handlers/tasks"
	"teamdesk/cmd/server/middlewares"
	"teamdesk/internal/clients/mongo"
	"teamdesk/internal/config"
	"teamdesk/internal/logger"
	adminService "teamdesk/internal/services/admin"
	authService "teamdesk/internal/services/auth"
	fileService "teamdesk/internal/services/files"
	messageService "teamdesk/internal/services/messages"
	noteService "teamdesk/internal/services/notes"
	"teamdesk/internal/services/realtime"
	taskService "teamdesk/internal/services/tasks"
	"teamdesk/internal/utils/crypto"

	_ "teamdesk/docs" // Load swagger docs

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

const (
	RateLimitExpiration = 1 * time.Minute
)

// setupRouter configures and returns a Fiber app with all routes
func setupRouter(ctx context.Context, cfg config.Config, store fileService.Storage) *fiber.App {

	// Initialize validator and register password validation
	v := validator.New()
	if err := crypto.RegisterPasswordValidator(v); err != nil {
		logger.L().Error("failed to register password validator", "err", err)
		panic(err)
	}

	// Validate JWT algorithm at boot
	alg := strings.ToUpper(cfg.JWTAlgorithm)
	switch alg {
	case "HS256":
		// Valid algorithm
	default:
		logger.L().Error(authService.ErrUnsupportedJWTAlg.Error(), "algorithm", cfg.JWTAlgorithm)
		panic(authService.ErrUnsupportedJWTAlg.Error() + ": " + cfg.JWTAlgorithm)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: httperr.Handler,
		Immutable:    true, // make Fiber copy all request-derived strings
		BodyLimit:    int(cfg.MaxUploadBytes) + 1<<20,
	})

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Content-Type, Authorization",
	}))

	if cfg.RouteMetricsEnabled {
		middlewares.AttachMetrics(app)
	}

	// Health check endpoint, outside the API group to appease scanners and to avoid logging
	app.Get("/healthz", handlers.Healthz)

	app.Get("/docs/*", swagger.HandlerDefault)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	var api fiber.Router
	if cfg.RequestLogging {
		api = app.Group("/api", fiberlogger.New())
		logger.L().Info("request logging enabled")
	} else {
		api = app.Group("/api")
		logger.L().Info("request logging disabled")
	}

	jwtMiddleware := middlewares.JWT(cfg)

	limiterMW := middlewares.BuildRateLimiter(cfg.SignInRatePerMin, RateLimitExpiration)

	// Repositories
	usersRepo := mongo.NewUsersRepo(mongo.DB())
	refreshTokensRepo := mongo.NewRefreshTokensRepo(mongo.DB())
	notesRepo, err := mongo.NewNotesRepo(ctx, mongo.DB())
	if err != nil {
		logger.L().Error(noteService.ErrCreateNotesRepo.Error(), "error", err)
		panic(err)
	}
	tasksRepo, err := mongo.NewTasksRepo(ctx, mongo.DB())
	if err != nil {
		logger.L().Error(taskService.ErrCreateTasksRepo.Error(), "error", err)
		panic(err)
	}
	filesRepo, err := mongo.NewFilesRepo(ctx, mongo.DB())
	if err != nil {
		logger.L().Error(fileService.ErrCreateFilesRepo.Error(), "error", err)
		panic(err)
	}
	adminRepo := mongo.NewAdminRepo(mongo.DB())

	// Realtime hub; every domain notification funnels through it.
	hub := realtime.NewHub(cfg.WSOutboxBuffer)

	// Services
	authSvc := authService.NewService(usersRepo, refreshTokensRepo, cfg, logger.L())
	notesSvc := noteService.NewService(notesRepo, hub, logger.L())
	tasksSvc := taskService.NewService(tasksRepo, usersRepo, hub, logger.L())
	filesSvc := fileService.NewService(filesRepo, store, cfg.MaxUploadBytes, logger.L())
	adminSvc := adminService.NewService(adminRepo, logger.L())
	messagesSvc := messageService.NewService(messageService.NewStore(), hub, usersRepo, logger.L())

	// Auth routes
	authH := authHandlers.NewHandlers(authSvc, v)
	authGrp := api.Group("/auth", limiterMW)
	authGrp.Post("/register", authH.Register)
	authGrp.Post("/login", authH.Login)
	authGrp.Post("/refresh", authH.Refresh)
	authGrp.Post("/logout", jwtMiddleware, authH.Logout)

	// Notes routes
	notesH := noteHandlers.NewHandlers(notesSvc, v)
	notesGrp := api.Group("/notes", jwtMiddleware)
	notesGrp.Post("/", notesH.Create)
	notesGrp.Get("/", notesH.List)
	notesGrp.Get("/:id", notesH.Get)
	notesGrp.Put("/:id", notesH.Update)
	notesGrp.Patch("/:id", notesH.Update)
	notesGrp.Delete("/:id", notesH.Delete)

	// Tasks routes
	tasksH := taskHandlers.NewHandlers(tasksSvc, v)
	tasksGrp := api.Group("/tasks", jwtMiddleware)
	tasksGrp.Post("/", tasksH.Create)
	tasksGrp.Get("/", tasksH.List)
	tasksGrp.Get("/:id", tasksH.Get)
	tasksGrp.Patch("/:id/complete", tasksH.Complete)
	tasksGrp.Put("/:id", tasksH.Update)
	tasksGrp.Patch("/:id", tasksH.Update)
	tasksGrp.Delete("/:id", tasksH.Delete)

	// Files routes
	filesH := fileHandlers.NewHandlers(filesSvc, v, cfg.MaxUploadBytes)
	filesGrp := api.Group("/files", jwtMiddleware)
	filesGrp.Post("/", filesH.Upload)
	filesGrp.Get("/", filesH.List)
	filesGrp.Get("/:id", filesH.Get)
	filesGrp.Delete("/:id", filesH.Delete)

	// Messages routes (legacy REST path, relayed through the hub)
	messagesH := messageHandlers.NewHandlers(messagesSvc, v)
	messagesGrp := api.Group("/messages", jwtMiddleware)
	messagesGrp.Post("/", messagesH.Send)
	messagesGrp.Get("/room/:roomId", messagesH.List)
	messagesGrp.Delete("/room/:roomId", messagesH.Clear)

	// Admin routes, role re-checked against the store per request
	adminH := adminHandlers.NewHandlers(adminSvc, v)
	adminGrp := api.Group("/admin", jwtMiddleware, middlewares.RequireAdmin(usersRepo))
	adminGrp.Get("/users", adminH.ListUsers)
	adminGrp.Get("/notes", adminH.ListNotes)
	adminGrp.Get("/tasks", adminH.ListTasks)
	adminGrp.Get("/files", adminH.ListFiles)
	adminGrp.Get("/stats", adminH.Stats)

	// WebSocket routes
	wsHandlers := realtimeHandlers.NewWebSocketHandlers(hub, cfg.JWTSecret, cfg.WSMaxSessionSec)
	app.Get("/ws/realtime", wsHandlers.WSUpgrade, websocket.New(wsHandlers.WSRealtime))

	return app
}
