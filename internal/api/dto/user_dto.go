package dto

import (
	"time"

	"github.com/spec-kit/support-tickets/internal/domain"
)

// CreateUserRequest payload for POST /usuarios and POST /auth/register.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserLoginRequest payload for login. There is no password.
type UserLoginRequest struct {
	Email string `json:"email"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

// RegisterResponse is returned by POST /auth/register.
type RegisterResponse struct {
	Message string      `json:"message"`
	UserID  int64       `json:"user_id"`
	Role    domain.Role `json:"role"`
}

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	Message   string      `json:"message"`
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}
