package api

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/example/taskhub/modules/auth"
	"github.com/example/taskhub/modules/notify"
	"github.com/example/taskhub/modules/task"
	"github.com/go-monolith/mono"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const wsUserKey = "wsUserID"

// APIModule is the HTTP API module.
type APIModule struct {
	app           *fiber.App
	authContainer mono.ServiceContainer
	authAdapter   auth.AuthPort
	taskMod       *task.Module
	notifyMod     *notify.Module
	tasks         *task.Service
	hub           *notify.Hub
	port          string
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule. The task service and notify hub
// are resolved from their modules at Start; auth arrives through the
// service container.
func NewModule(taskMod *task.Module, notifyMod *notify.Module) *APIModule {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	return &APIModule{
		taskMod:   taskMod,
		notifyMod: notifyMod,
		port:      port,
	}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"auth"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authContainer = container
		m.authAdapter = auth.NewAuthAdapter(container)
	}
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.authContainer == nil {
		return fmt.Errorf("auth dependency not set")
	}
	m.tasks = m.taskMod.GetService()
	if m.tasks == nil {
		return fmt.Errorf("task module not started")
	}
	m.hub = m.notifyMod.GetHub()

	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	// Add middleware
	m.app.Use(recover.New())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	m.app.Use(cors.New(corsConfig()))

	// Setup routes
	m.setupRoutes()

	// Start server in goroutine
	go func() {
		if err := m.app.Listen(":" + m.port); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on :%s", m.port)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.port,
		},
	}
}

// setupRoutes configures all API routes.
func (m *APIModule) setupRoutes() {
	handlers := NewHandlers(m.authContainer, m.authAdapter, m.tasks, m.hub)

	// Liveness probe
	m.app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("API is running")
	})

	// Health check endpoint
	m.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(HealthResponse{
			Status: "healthy",
			Details: map[string]any{
				"module":            "api",
				"connected_clients": m.hub.ClientCount(),
			},
		})
	})

	// Public user routes
	users := m.app.Group("/api/users")
	users.Post("/", handlers.Register)
	users.Post("/login", handlers.Login)
	users.Post("/refresh", handlers.Refresh)

	// Protected user routes
	users.Get("/profile", AuthMiddleware(m.authAdapter), handlers.Profile)

	// Protected task routes
	tasks := m.app.Group("/api/tasks")
	tasks.Use(AuthMiddleware(m.authAdapter))
	tasks.Post("/", handlers.CreateTask)
	tasks.Get("/", handlers.ListTasks)
	tasks.Put("/:id", handlers.UpdateTask)
	tasks.Delete("/:id", handlers.DeleteTask)
	tasks.Put("/:id/toggle-complete", handlers.ToggleComplete)
	tasks.Put("/:id/toggle-pin", handlers.TogglePin)

	// WebSocket endpoint for reminder delivery. The token rides a
	// query parameter because browsers cannot set headers on WebSocket
	// handshakes.
	m.app.Use("/ws", m.wsUpgrade)
	m.app.Get("/ws", websocket.New(handlers.handleWebSocket))
}

// wsUpgrade authenticates the handshake and stashes the user ID for
// the connection handler.
func (m *APIModule) wsUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	token := c.Query("token")
	if token == "" {
		return unauthorized(c)
	}
	claims, err := m.authAdapter.ValidateToken(c.UserContext(), token)
	if err != nil {
		return unauthorized(c)
	}

	c.Locals(wsUserKey, claims.UserID)
	return c.Next()
}

// corsConfig builds the CORS settings. CORS_ALLOWED_ORIGINS is a
// comma-separated list; empty means allow all.
func corsConfig() cors.Config {
	origins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if origins == "" {
		return cors.Config{}
	}
	return cors.Config{
		AllowOrigins: strings.Join(strings.Split(origins, ","), ", "),
	}
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Server error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(MessageResponse{Message: message})
}
