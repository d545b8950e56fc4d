package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-tickets/internal/api/dto"
	"github.com/spec-kit/support-tickets/internal/auth"
	"github.com/spec-kit/support-tickets/internal/domain"
	"github.com/spec-kit/support-tickets/internal/service"
	apperrors "github.com/spec-kit/support-tickets/pkg/errorutil"
)

// UsersHandler exposes user creation and the email-only auth endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// Create handles POST /usuarios.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	req, role, err := parseCreateUser(c)
	if err != nil {
		return err
	}
	user, err := h.users.CreateUser(c.UserContext(), req.Name, req.Email, role)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewUserResponse(user))
}

// Register handles POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	req, role, err := parseCreateUser(c)
	if err != nil {
		return err
	}
	user, err := h.users.Register(c.UserContext(), req.Name, req.Email, role)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.RegisterResponse{
		Message: "User registered",
		UserID:  user.ID,
		Role:    user.Role,
	})
}

// Login handles POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	if req.Email == "" {
		return apperrors.NewInvalidArgument("email is required", nil)
	}

	session, err := h.users.Login(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{
		Message:   "Login successful",
		ID:        session.User.ID,
		Name:      session.User.Name,
		Role:      session.User.Role,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

// Me handles GET /me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	claims, _ := auth.ClaimsFromContext(c)
	user, err := h.users.Current(c.UserContext(), claims)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

func parseCreateUser(c *fiber.Ctx) (dto.CreateUserRequest, domain.Role, error) {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return req, 0, apperrors.NewInvalidArgument("invalid payload", nil)
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return req, 0, apperrors.NewInvalidArgument("invalid role", map[string]any{"role": req.Role})
	}
	return req, role, nil
}
