package service

import (
	"context"

	"userbase/pkg/token"

	"github.com/google/uuid"
)

// TxManager runs fn in a transaction carried by the context passed to fn.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type PasswordHasher interface {
	Hash(password string) string
	Verify(password, hashed string) bool
}

type TokenManager interface {
	Issue(userID uuid.UUID, email string) (string, error)
	Verify(raw string) (*token.Claims, error)
}
