package service

import (
	"context"
	"fmt"
	"strings"

	"userbase/internal/model"
	"userbase/pkg/logger"
	"userbase/pkg/pagination"

	"github.com/google/uuid"
)

const MaxUsersPerPage = 250

//go:generate mockgen -source=users.go -destination=./user_storage_mock.go -package=service
type UserStorage interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	CountUsers(ctx context.Context) (int64, error)
	ListUsers(ctx context.Context, offset, limit int64) ([]model.User, error)
	UpdateUser(ctx context.Context, user model.User) (model.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

type UserService struct {
	userStorage UserStorage
	txManager   TxManager
	hasher      PasswordHasher
	pager       *pagination.Builder
}

func NewUserService(userStorage UserStorage, txManager TxManager, hasher PasswordHasher, pager *pagination.Builder) *UserService {
	if pager == nil {
		pager = pagination.NewBuilder(pagination.DefaultPerPage)
	}
	return &UserService{
		userStorage: userStorage,
		txManager:   txManager,
		hasher:      hasher,
		pager:       pager,
	}
}

func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (UserResponse, error) {
	if err := validateStruct(req); err != nil {
		return UserResponse{}, err
	}

	u, err := s.userStorage.CreateUser(ctx, model.User{
		ID:           uuid.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        normalizeEmail(req.Email),
		PasswordHash: s.hasher.Hash(req.Password),
	})
	if err != nil {
		return UserResponse{}, err
	}

	logger.FromContext(ctx).Info("user created", "user_id", u.ID)
	return toUserResponse(u), nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID uuid.UUID) (UserResponse, error) {
	if userID == uuid.Nil {
		return UserResponse{}, fmt.Errorf("user id is required: %w", ErrInvalidRequest)
	}
	u, err := s.userStorage.GetUserByID(ctx, userID)
	if err != nil {
		return UserResponse{}, err
	}
	return toUserResponse(u), nil
}

// GetUsers returns one page of users. A page past the end yields empty data
// without querying rows.
func (s *UserService) GetUsers(ctx context.Context, in pagination.Request, base string) (pagination.Response[[]UserResponse], error) {
	if in.PerPage != nil && *in.PerPage > MaxUsersPerPage {
		limit := int64(MaxUsersPerPage)
		in.PerPage = &limit
	}

	total, err := s.userStorage.CountUsers(ctx)
	if err != nil {
		return pagination.Response[[]UserResponse]{}, err
	}

	page := s.pager.ComputeRequest(in, total)

	data := make([]UserResponse, 0)
	if page.Offset >= 0 && page.Offset < page.Total {
		users, err := s.userStorage.ListUsers(ctx, page.Offset, page.PerPage)
		if err != nil {
			return pagination.Response[[]UserResponse]{}, err
		}
		data = toUserResponses(users)
	}

	return pagination.Paginate(page, data, base)
}

func (s *UserService) UpdateUser(ctx context.Context, userID uuid.UUID, req UpdateUserRequest) (UserResponse, error) {
	if userID == uuid.Nil {
		return UserResponse{}, fmt.Errorf("user id is required: %w", ErrInvalidRequest)
	}
	if err := validateStruct(req); err != nil {
		return UserResponse{}, err
	}

	var out model.User
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		u, err := s.userStorage.GetUserByID(ctx, userID)
		if err != nil {
			return err
		}

		u.FirstName = req.FirstName
		u.LastName = req.LastName
		u.Email = normalizeEmail(req.Email)

		out, err = s.userStorage.UpdateUser(ctx, u)
		return err
	})
	if err != nil {
		return UserResponse{}, err
	}
	return toUserResponse(out), nil
}

func (s *UserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return fmt.Errorf("user id is required: %w", ErrInvalidRequest)
	}
	if err := s.userStorage.DeleteUser(ctx, userID); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("user deleted", "user_id", userID)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
