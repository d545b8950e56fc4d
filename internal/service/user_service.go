package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-tickets/internal/auth"
	"github.com/spec-kit/support-tickets/internal/cache"
	"github.com/spec-kit/support-tickets/internal/domain"
	"github.com/spec-kit/support-tickets/internal/repository"
	apperrors "github.com/spec-kit/support-tickets/pkg/errorutil"
)

// UserService handles user registration and the email-only login.
type UserService struct {
	store    repository.Store
	tokenMgr *auth.TokenManager
	side     sideEffects
	logger   *zap.Logger
}

// UserDependencies bundles collaborators for the user service.
type UserDependencies struct {
	Store  repository.Store
	Tokens *auth.TokenManager
	Cache  cache.Cache
	Runner SideChannels
	Logger *zap.Logger
}

// Session is the result of a successful login.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// NewUserService builds the service.
func NewUserService(deps UserDependencies) *UserService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		store:    deps.Store,
		tokenMgr: deps.Tokens,
		side:     sideEffects{runner: deps.Runner, cache: deps.Cache},
		logger:   logger,
	}
}

// CreateUser inserts a user. A duplicate email is a Conflict.
func (s *UserService) CreateUser(ctx context.Context, name, email string, role domain.Role) (*domain.User, error) {
	user, err := newUser(name, email, role)
	if err != nil {
		return nil, err
	}
	if err := s.store.Repositories().Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, emailTaken(user.Email)
		}
		return nil, translateStoreError(s.logger, "create user", err)
	}
	s.side.cachePut(cache.UserKey(user.ID), cache.NewUserRecord(user))
	return user, nil
}

// Register checks the email before creating the user.
func (s *UserService) Register(ctx context.Context, name, email string, role domain.Role) (*domain.User, error) {
	user, err := newUser(name, email, role)
	if err != nil {
		return nil, err
	}
	_, err = s.store.Repositories().Users.GetByEmail(ctx, user.Email)
	switch {
	case err == nil:
		return nil, emailTaken(user.Email)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, translateStoreError(s.logger, "register", err)
	}
	return s.CreateUser(ctx, user.Name, user.Email, user.Role)
}

// Login resolves a user by email and issues a session token. There is no
// password check.
func (s *UserService) Login(ctx context.Context, email string) (*Session, error) {
	user, err := s.store.Repositories().Users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if err != nil {
		return nil, translateStoreError(s.logger, "login", err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		s.logger.Error("sign token", zap.Error(err))
		return nil, apperrors.NewStoreFailure(err)
	}
	return &Session{User: user, Token: token, ExpiresAt: exp}, nil
}

// Current resolves the caller. Without claims the earliest registered user
// stands in as the current user.
func (s *UserService) Current(ctx context.Context, claims *auth.Claims) (*domain.User, error) {
	users := s.store.Repositories().Users
	if claims != nil {
		id, err := claims.UserID()
		if err != nil {
			return nil, apperrors.NewUnauthorized("invalid token subject")
		}
		user, err := users.GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		if err != nil {
			return nil, translateStoreError(s.logger, "current user", err)
		}
		return user, nil
	}

	user, err := users.First(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("user", nil)
	}
	if err != nil {
		return nil, translateStoreError(s.logger, "current user", err)
	}
	return user, nil
}

func newUser(name, email string, role domain.Role) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, apperrors.NewInvalidArgument("name and email are required", nil)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.NewInvalidArgument("invalid email", map[string]any{"email": email})
	}
	if !role.Valid() {
		return nil, apperrors.NewInvalidArgument("invalid role", map[string]any{"allowed": []string{"client", "operator"}})
	}
	return &domain.User{Name: name, Email: email, Role: role}, nil
}

func emailTaken(email string) error {
	return apperrors.NewConflict("email already registered", map[string]any{"email": email})
}
