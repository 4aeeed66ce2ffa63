package api

import (
	"encoding/json"
	"errors"
	"log"
	"strings"

	domain "github.com/example/taskhub/domain/task"
	"github.com/example/taskhub/modules/auth"
	"github.com/example/taskhub/modules/notify"
	"github.com/example/taskhub/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	userdomain "github.com/example/taskhub/domain/user"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	authContainer mono.ServiceContainer
	authAdapter   auth.AuthPort
	tasks         *task.Service
	hub           *notify.Hub
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authContainer mono.ServiceContainer, authAdapter auth.AuthPort, tasks *task.Service, hub *notify.Hub) *Handlers {
	return &Handlers{
		authContainer: authContainer,
		authAdapter:   authAdapter,
		tasks:         tasks,
		hub:           hub,
	}
}

// claims returns the authenticated user's claims. The auth middleware
// guarantees they are present on protected routes.
func (h *Handlers) claims(c *fiber.Ctx) (*userdomain.Claims, bool) {
	claims, ok := c.Locals(UserContextKey).(*userdomain.Claims)
	return claims, ok
}

// Register handles POST /api/users.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return badRequest(c, "Username, email and password are required")
	}

	authReq := auth.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
	var resp auth.AuthResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"register",
		json.Marshal,
		json.Unmarshal,
		&authReq,
		&resp,
	); err != nil {
		return h.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login handles POST /api/users/login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	authReq := auth.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	}
	var resp auth.AuthResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"login",
		json.Marshal,
		json.Unmarshal,
		&authReq,
		&resp,
	); err != nil {
		return h.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// Refresh handles POST /api/users/refresh.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.RefreshToken == "" {
		return badRequest(c, "Refresh token is required")
	}

	authReq := auth.RefreshRequest{RefreshToken: req.RefreshToken}
	var resp auth.RefreshResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"refresh-token",
		json.Marshal,
		json.Unmarshal,
		&authReq,
		&resp,
	); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(MessageResponse{
			Message: "Invalid or expired refresh token",
		})
	}

	return c.Status(fiber.StatusOK).JSON(TokenResponse{
		Token:        resp.Token,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	})
}

// Profile handles GET /api/users/profile.
func (h *Handlers) Profile(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c)
	}

	user, err := h.authAdapter.GetUser(c.UserContext(), claims.UserID)
	if err != nil {
		return serverError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(ProfileResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

// CreateTask handles POST /api/tasks.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c)
	}

	var req task.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	created, err := h.tasks.Create(c.UserContext(), claims.UserID, req)
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// ListTasks handles GET /api/tasks. With ?sorted=true the tasks come
// back in display order.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c)
	}

	sorted := c.Query("sorted") == "true"
	tasks, err := h.tasks.List(c.UserContext(), claims.UserID, sorted)
	if err != nil {
		return h.handleTaskError(c, err)
	}

	if tasks == nil {
		tasks = []domain.Task{}
	}
	return c.Status(fiber.StatusOK).JSON(tasks)
}

// UpdateTask handles PUT /api/tasks/:id.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c)
	}

	var patch domain.Patch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updated, err := h.tasks.Update(c.UserContext(), claims.UserID, c.Params("id"), patch)
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

// DeleteTask handles DELETE /api/tasks/:id.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.tasks.Delete(c.UserContext(), claims.UserID, c.Params("id")); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(MessageResponse{Message: "Task removed"})
}

// ToggleComplete handles PUT /api/tasks/:id/toggle-complete.
func (h *Handlers) ToggleComplete(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c)
	}

	updated, err := h.tasks.ToggleComplete(c.UserContext(), claims.UserID, c.Params("id"))
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

// TogglePin handles PUT /api/tasks/:id/toggle-pin.
func (h *Handlers) TogglePin(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c)
	}

	updated, err := h.tasks.TogglePin(c.UserContext(), claims.UserID, c.Params("id"))
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

// handleWebSocket handles GET /ws connections. The upgrade middleware
// has already validated the token and stashed the user ID.
func (h *Handlers) handleWebSocket(c *websocket.Conn) {
	userID, ok := c.Locals(wsUserKey).(string)
	if !ok || userID == "" {
		_ = c.Close()
		return
	}

	clientID := uuid.New().String()
	client := &notify.Client{
		ID:     clientID,
		UserID: userID,
		Conn:   c,
	}

	h.hub.Register(client)
	defer func() {
		h.hub.Unregister(client)
		log.Printf("[api] WebSocket client disconnected: %s", clientID)
	}()

	log.Printf("[api] WebSocket client connected: %s (user %s)", clientID, userID)

	// Clients only listen; the read loop just detects disconnects.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[api] Read error from %s: %v", clientID, err)
			}
			return
		}
	}
}

// handleTaskError maps task errors to HTTP responses.
func (h *Handlers) handleTaskError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(MessageResponse{Message: "Task not found"})
	case errors.Is(err, domain.ErrNotOwner):
		return c.Status(fiber.StatusUnauthorized).JSON(MessageResponse{Message: "Not authorized"})
	case errors.Is(err, domain.ErrTitleRequired):
		return badRequest(c, "Task title is required")
	case errors.Is(err, domain.ErrInvalidStatus):
		return badRequest(c, "Invalid status value")
	case errors.Is(err, domain.ErrInvalidUrgency):
		return badRequest(c, "Invalid urgency value")
	case errors.Is(err, domain.ErrInvalidCategory):
		return badRequest(c, "Invalid category value")
	default:
		return serverError(c, err)
	}
}

// handleAuthError maps auth service failures to HTTP responses. The
// request-reply boundary flattens errors to strings, so known
// messages are matched rather than sentinel values.
func (h *Handlers) handleAuthError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "invalid email or password"):
		return c.Status(fiber.StatusUnauthorized).JSON(MessageResponse{
			Message: "Invalid email or password",
		})
	case strings.Contains(errStr, "user already exists"):
		return badRequest(c, "User already exists")
	case strings.Contains(errStr, "invalid email format"):
		return badRequest(c, "Invalid email format")
	case strings.Contains(errStr, "username must be at least"):
		return badRequest(c, "Username must be at least 3 characters")
	case strings.Contains(errStr, "password must be at least"):
		return badRequest(c, "Password must be at least 6 characters")
	case strings.Contains(errStr, "password must be at most"):
		return badRequest(c, "Password must be at most 72 characters")
	default:
		return serverError(c, err)
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(MessageResponse{Message: message})
}

func serverError(c *fiber.Ctx, err error) error {
	// Log the actual error but don't expose it to the client.
	log.Printf("[api] Internal error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(MessageResponse{Message: "Server error"})
}
