package service

import (
	"context"
	"errors"
	"fmt"

	"userbase/pkg/logger"

	"github.com/google/uuid"
)

type AuthService struct {
	userStorage UserStorage
	hasher      PasswordHasher
	tokens      TokenManager
}

func NewAuthService(userStorage UserStorage, hasher PasswordHasher, tokens TokenManager) *AuthService {
	return &AuthService{
		userStorage: userStorage,
		hasher:      hasher,
		tokens:      tokens,
	}
}

// Login checks the credentials and issues a session token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	if err := validateStruct(req); err != nil {
		return LoginResponse{}, err
	}

	log := logger.FromContext(ctx)
	email := normalizeEmail(req.Email)
	log.Info("login request", "email", email)

	u, err := s.userStorage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return LoginResponse{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return LoginResponse{}, err
	}
	if !s.hasher.Verify(req.Password, u.PasswordHash) {
		return LoginResponse{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	tok, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		log.Error("issue token", "error", err)
		return LoginResponse{}, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	return LoginResponse{User: toUserResponse(u), Token: tok}, nil
}

func (s *AuthService) Authenticate(raw string) (AuthUser, error) {
	if raw == "" {
		return AuthUser{}, fmt.Errorf("%w: missing token", ErrUnauthorized)
	}
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return AuthUser{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return AuthUser{}, fmt.Errorf("%w: bad subject", ErrUnauthorized)
	}
	return AuthUser{ID: id, Email: claims.Email}, nil
}
