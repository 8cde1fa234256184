package rest

import (
	"context"
	"time"

	"userbase/internal/service"
	"userbase/pkg/pagination"

	"github.com/google/uuid"
)

type UserService interface {
	CreateUser(ctx context.Context, req service.CreateUserRequest) (service.UserResponse, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (service.UserResponse, error)
	GetUsers(ctx context.Context, in pagination.Request, base string) (pagination.Response[[]service.UserResponse], error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req service.UpdateUserRequest) (service.UserResponse, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

type AuthService interface {
	Login(ctx context.Context, req service.LoginRequest) (service.LoginResponse, error)
	Authenticate(raw string) (service.AuthUser, error)
}

type Config struct {
	// PublicBaseURL replaces scheme and host of pagination links when set,
	// e.g. "https://api.example.com".
	PublicBaseURL string
	CookieName    string
	CookieTTL     time.Duration
	CookieSecure  bool
}

type Handler struct {
	users UserService
	auth  AuthService
	cfg   Config
}

func NewHandler(users UserService, auth AuthService, cfg Config) *Handler {
	if cfg.CookieName == "" {
		cfg.CookieName = "auth"
	}
	if cfg.CookieTTL <= 0 {
		cfg.CookieTTL = 20 * time.Minute
	}
	return &Handler{
		users: users,
		auth:  auth,
		cfg:   cfg,
	}
}
