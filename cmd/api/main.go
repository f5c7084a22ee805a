package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"strconv"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"

	"edulegal/internal/config"
	"edulegal/internal/handler"
	"edulegal/internal/middleware"
	"edulegal/internal/pkg/logging"
	"edulegal/internal/repository"
	"edulegal/internal/service"
	"edulegal/internal/service/auth"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()

	slog.SetDefault(logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat))
	if envErr != nil {
		slog.Info("no .env file found, using environment variables")
	}

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := repository.Migrate(context.Background(), db); err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	redis, err := config.NewRedisClient(cfg)
	if err != nil {
		slog.Warn("failed to connect to Redis, stats cache disabled", "error", err)
		redis = nil
	}
	if redis != nil {
		defer redis.Close()
	}

	var minioClient *minio.Client
	if cfg.StorageDriver == "minio" {
		minioClient, err = config.NewMinIOClient(cfg)
		if err != nil {
			slog.Error("failed to connect to MinIO", "error", err)
			os.Exit(1)
		}
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redis, minioClient, cfg)
	handlers := handler.NewHandlers(services)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.NewErrorHandler(cfg.IsProduction()),
		BodyLimit:    60 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendOrigin,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	setupRoutes(app, handlers, services.Auth)

	ln, err := listen(cfg.Port, cfg.PortFallbackAttempts)
	if err != nil {
		slog.Error("failed to bind port", "port", cfg.Port, "error", err)
		os.Exit(1)
	}

	slog.Info("server starting", "addr", ln.Addr().String(), "environment", cfg.Environment, "demo_mode", cfg.DemoMode)
	if err := app.Listener(ln); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// listen binds the configured port, moving on to the next one while the port
// is already in use.
func listen(port string, attempts int) (net.Listener, error) {
	start, err := strconv.Atoi(port)
	if err != nil {
		return nil, err
	}
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		candidate := start + i
		ln, err := net.Listen("tcp", ":"+strconv.Itoa(candidate))
		if err == nil {
			if i > 0 {
				slog.Warn("configured port busy, using fallback", "port", port, "fallback", candidate)
			}
			return ln, nil
		}
		if !errors.Is(err, syscall.EADDRINUSE) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/uploads/*", h.Upload.Serve)

	required := middleware.AuthRequired(authService)
	optional := middleware.AuthOptional(authService)
	staff := middleware.RequireAdminOrOfficer()
	admin := middleware.RequireAdmin()

	api := app.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", optional, h.Auth.Register)
	authRoutes.Post("/login", h.Auth.Login)
	authRoutes.Get("/me", required, h.Auth.Me)

	users := api.Group("/users", required)
	users.Get("/", admin, h.User.List)
	users.Get("/officers", staff, h.User.ListOfficers)
	users.Put("/:id/role", admin, h.User.AssignRole)

	settings := api.Group("/settings")
	settings.Get("/preferences", required, h.Settings.GetPreferences)
	settings.Put("/preferences", required, h.Settings.UpdatePreferences)
	settings.Delete("/complaint/:id", optional, h.Settings.DeleteComplaint)

	// Static segments must be registered before /:id.
	cases := api.Group("/cases")
	cases.Get("/categories", h.Case.Categories)
	cases.Get("/export", h.Export.Export)
	cases.Get("/stats", required, staff, h.Case.Stats)
	cases.Get("/assigned", required, staff, h.Case.ListAssigned)
	cases.Get("/", required, staff, h.Case.List)
	cases.Post("/", optional, h.Case.Create)
	cases.Get("/:id", required, staff, h.Case.Get)
	cases.Put("/:id", required, staff, h.Case.Update)
	cases.Delete("/:id", optional, h.Case.Delete)

	cases.Get("/:id/notes", required, staff, h.Case.ListNotes)
	cases.Post("/:id/notes", required, staff, h.Case.AddNote)
	cases.Put("/:id/notes/:noteId", required, staff, h.Case.UpdateNote)
	cases.Delete("/:id/notes/:noteId", required, staff, h.Case.DeleteNote)

	cases.Get("/:id/documents", required, staff, h.Case.ListDocuments)
	cases.Post("/:id/documents", required, staff, h.Case.UploadDocument)
	cases.Delete("/:id/documents/:documentId", required, staff, h.Case.DeleteDocument)

	cases.Get("/:id/timeline", required, staff, h.Case.Timeline)

	complaints := api.Group("/complaints")
	complaints.Post("/", h.Complaint.Submit)
	complaints.Get("/", required, staff, h.Complaint.List)
	complaints.Get("/:id", required, staff, h.Complaint.Get)
	complaints.Put("/:id", required, staff, h.Complaint.Update)

	forum := api.Group("/forum", required, staff)
	forum.Get("/posts", h.Forum.ListPosts)
	forum.Post("/posts", h.Forum.CreatePost)
	forum.Get("/posts/:id", h.Forum.GetPost)
	forum.Put("/posts/:id", h.Forum.UpdatePost)
	forum.Delete("/posts/:id", h.Forum.DeletePost)
	forum.Post("/posts/:id/comments", h.Forum.AddComment)
	forum.Put("/comments/:commentId", h.Forum.UpdateComment)
	forum.Delete("/comments/:commentId", h.Forum.DeleteComment)

	notifications := api.Group("/notifications", required)
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Put("/read-all", h.Notification.MarkAllAsRead)
	notifications.Put("/:id/read", h.Notification.MarkAsRead)
	notifications.Delete("/:id", h.Notification.Delete)
}
