package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"userbase/internal/model"
	"userbase/pkg/pagination"
	"userbase/pkg/password"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newHasher(t *testing.T) *password.Hasher {
	t.Helper()
	h, err := password.NewHasher("test-salt-value")
	require.NoError(t, err)
	return h
}

func i64(v int64) *int64 { return &v }

func TestUserService_CreateUser(t *testing.T) {
	t.Parallel()

	hasher := newHasher(t)
	valid := CreateUserRequest{
		FirstName: "Satoshi",
		LastName:  "Nakamoto",
		Email:     " Satoshi@NakamotoInstitute.org ",
		Password:  "123456",
	}

	tests := []struct {
		name     string
		req      CreateUserRequest
		setup    func(t *testing.T, m *MockUserStorage)
		wantErr  error
		wantMsgs []string
	}{
		{
			name:    "validation error",
			req:     CreateUserRequest{Email: "nope", Password: "123"},
			setup:   func(_ *testing.T, _ *MockUserStorage) {},
			wantErr: ErrInvalidRequest,
			wantMsgs: []string{
				"first_name is required",
				"last_name is required",
				"email must be a valid email",
				"password must be at least 6 characters",
			},
		},
		{
			name: "duplicate email",
			req:  valid,
			setup: func(t *testing.T, m *MockUserStorage) {
				m.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(model.User{}, ErrConflict)
			},
			wantErr: ErrConflict,
		},
		{
			name: "success",
			req:  valid,
			setup: func(t *testing.T, m *MockUserStorage) {
				m.EXPECT().
					CreateUser(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, u model.User) (model.User, error) {
						require.NotEqual(t, uuid.Nil, u.ID)
						require.Equal(t, "satoshi@nakamotoinstitute.org", u.Email)
						require.True(t, hasher.Verify("123456", u.PasswordHash))
						return u, nil
					})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := NewMockUserStorage(ctrl)
			tt.setup(t, m)

			svc := NewUserService(m, passthroughTx{}, hasher, nil)
			got, err := svc.CreateUser(context.Background(), tt.req)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				if tt.wantMsgs != nil {
					var verr *ValidationError
					require.ErrorAs(t, err, &verr)
					require.Equal(t, tt.wantMsgs, verr.Messages)
				}
				return
			}

			require.NoError(t, err)
			require.Equal(t, "Satoshi", got.FirstName)
			require.Equal(t, "satoshi@nakamotoinstitute.org", got.Email)
		})
	}
}

func TestUserService_GetUserByID(t *testing.T) {
	t.Parallel()

	id := uuid.New()

	tests := []struct {
		name    string
		userID  uuid.UUID
		setup   func(m *MockUserStorage)
		wantErr error
	}{
		{
			name:    "nil id",
			userID:  uuid.Nil,
			setup:   func(_ *MockUserStorage) {},
			wantErr: ErrInvalidRequest,
		},
		{
			name:   "not found",
			userID: id,
			setup: func(m *MockUserStorage) {
				m.EXPECT().GetUserByID(gomock.Any(), id).Return(model.User{}, ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name:   "success",
			userID: id,
			setup: func(m *MockUserStorage) {
				m.EXPECT().GetUserByID(gomock.Any(), id).
					Return(model.User{ID: id, FirstName: "A", PasswordHash: "secret"}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := NewMockUserStorage(ctrl)
			tt.setup(m)

			svc := NewUserService(m, passthroughTx{}, newHasher(t), nil)
			got, err := svc.GetUserByID(context.Background(), tt.userID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, UserResponse{ID: id, FirstName: "A"}, got)
		})
	}
}

func TestUserService_GetUsers(t *testing.T) {
	t.Parallel()

	const base = "http://localhost/api/v1/user"

	users := func(n int) []model.User {
		out := make([]model.User, n)
		for i := range out {
			out[i] = model.User{ID: uuid.New(), FirstName: "u"}
		}
		return out
	}

	tests := []struct {
		name      string
		req       pagination.Request
		setup     func(m *MockUserStorage)
		wantErr   bool
		wantPage  pagination.Pagination
		wantCount int
		wantNext  bool
		wantPrev  bool
	}{
		{
			name: "defaults",
			req:  pagination.Request{},
			setup: func(m *MockUserStorage) {
				m.EXPECT().CountUsers(gomock.Any()).Return(int64(25), nil)
				m.EXPECT().ListUsers(gomock.Any(), int64(0), int64(10)).Return(users(10), nil)
			},
			wantPage:  pagination.Pagination{Offset: 0, Page: 1, PerPage: 10, Total: 25, TotalPages: 3},
			wantCount: 10,
			wantNext:  true,
		},
		{
			name: "second page",
			req:  pagination.Request{Page: i64(2), PerPage: i64(10)},
			setup: func(m *MockUserStorage) {
				m.EXPECT().CountUsers(gomock.Any()).Return(int64(25), nil)
				m.EXPECT().ListUsers(gomock.Any(), int64(10), int64(10)).Return(users(10), nil)
			},
			wantPage:  pagination.Pagination{Offset: 10, Page: 2, PerPage: 10, Total: 25, TotalPages: 3},
			wantCount: 10,
			wantNext:  true,
			wantPrev:  true,
		},
		{
			name: "past the end skips listing",
			req:  pagination.Request{Page: i64(10), PerPage: i64(10)},
			setup: func(m *MockUserStorage) {
				m.EXPECT().CountUsers(gomock.Any()).Return(int64(25), nil)
			},
			wantPage: pagination.Pagination{Offset: 90, Page: 10, PerPage: 10, Total: 25, TotalPages: 3},
			wantPrev: true,
		},
		{
			name: "saturated offset skips listing",
			req:  pagination.Request{Page: i64(math.MaxInt64), PerPage: i64(MaxUsersPerPage)},
			setup: func(m *MockUserStorage) {
				m.EXPECT().CountUsers(gomock.Any()).Return(int64(25), nil)
			},
			wantPage: pagination.Pagination{Offset: math.MaxInt64, Page: math.MaxInt64, PerPage: MaxUsersPerPage, Total: 25, TotalPages: 1},
			wantPrev: true,
		},
		{
			name: "empty collection",
			req:  pagination.Request{},
			setup: func(m *MockUserStorage) {
				m.EXPECT().CountUsers(gomock.Any()).Return(int64(0), nil)
			},
			wantPage: pagination.Pagination{Offset: 0, Page: 1, PerPage: 10, Total: 0, TotalPages: 0},
		},
		{
			name: "per page capped",
			req:  pagination.Request{PerPage: i64(10_000)},
			setup: func(m *MockUserStorage) {
				m.EXPECT().CountUsers(gomock.Any()).Return(int64(3), nil)
				m.EXPECT().ListUsers(gomock.Any(), int64(0), int64(MaxUsersPerPage)).Return(users(3), nil)
			},
			wantPage:  pagination.Pagination{Offset: 0, Page: 1, PerPage: MaxUsersPerPage, Total: 3, TotalPages: 1},
			wantCount: 3,
		},
		{
			name: "count error",
			req:  pagination.Request{},
			setup: func(m *MockUserStorage) {
				m.EXPECT().CountUsers(gomock.Any()).Return(int64(0), errors.New("db fail"))
			},
			wantErr: true,
		},
		{
			name: "list error",
			req:  pagination.Request{},
			setup: func(m *MockUserStorage) {
				m.EXPECT().CountUsers(gomock.Any()).Return(int64(5), nil)
				m.EXPECT().ListUsers(gomock.Any(), int64(0), int64(10)).Return(nil, errors.New("db fail"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := NewMockUserStorage(ctrl)
			tt.setup(m)

			svc := NewUserService(m, passthroughTx{}, newHasher(t), pagination.NewBuilder(10))
			got, err := svc.GetUsers(context.Background(), tt.req, base)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.wantPage, got.Pagination)
			require.NotNil(t, got.Data)
			require.Len(t, got.Data, tt.wantCount)
			require.Equal(t, base, got.Links.Base)
			require.Equal(t, tt.wantNext, got.Links.Next != nil)
			require.Equal(t, tt.wantPrev, got.Links.Prev != nil)
		})
	}
}

func TestUserService_UpdateUser(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	req := UpdateUserRequest{FirstName: "New", LastName: "Name", Email: "NEW@example.com"}

	tests := []struct {
		name    string
		userID  uuid.UUID
		req     UpdateUserRequest
		setup   func(m *MockUserStorage)
		wantErr error
	}{
		{
			name:    "nil id",
			userID:  uuid.Nil,
			req:     req,
			setup:   func(_ *MockUserStorage) {},
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "validation error",
			userID:  id,
			req:     UpdateUserRequest{FirstName: "x"},
			setup:   func(_ *MockUserStorage) {},
			wantErr: ErrInvalidRequest,
		},
		{
			name:   "not found",
			userID: id,
			req:    req,
			setup: func(m *MockUserStorage) {
				m.EXPECT().GetUserByID(gomock.Any(), id).Return(model.User{}, ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name:   "success keeps password",
			userID: id,
			req:    req,
			setup: func(m *MockUserStorage) {
				m.EXPECT().GetUserByID(gomock.Any(), id).
					Return(model.User{ID: id, FirstName: "Old", LastName: "Old", Email: "old@example.com", PasswordHash: "h"}, nil)
				m.EXPECT().
					UpdateUser(gomock.Any(), model.User{ID: id, FirstName: "New", LastName: "Name", Email: "new@example.com", PasswordHash: "h"}).
					DoAndReturn(func(_ context.Context, u model.User) (model.User, error) { return u, nil })
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := NewMockUserStorage(ctrl)
			tt.setup(m)

			svc := NewUserService(m, passthroughTx{}, newHasher(t), nil)
			got, err := svc.UpdateUser(context.Background(), tt.userID, tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, UserResponse{ID: id, FirstName: "New", LastName: "Name", Email: "new@example.com"}, got)
		})
	}
}

func TestUserService_DeleteUser(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	ctrl := gomock.NewController(t)
	m := NewMockUserStorage(ctrl)
	svc := NewUserService(m, passthroughTx{}, newHasher(t), nil)

	require.ErrorIs(t, svc.DeleteUser(context.Background(), uuid.Nil), ErrInvalidRequest)

	m.EXPECT().DeleteUser(gomock.Any(), id).Return(ErrNotFound)
	require.ErrorIs(t, svc.DeleteUser(context.Background(), id), ErrNotFound)

	m.EXPECT().DeleteUser(gomock.Any(), id).Return(nil)
	require.NoError(t, svc.DeleteUser(context.Background(), id))
}
