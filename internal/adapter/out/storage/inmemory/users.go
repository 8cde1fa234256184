package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"userbase/internal/model"
	"userbase/internal/service"

	"github.com/google/uuid"
)

// UserStorage keeps users in insertion order, which is also the listing order.
type UserStorage struct {
	mu      sync.RWMutex
	users   []model.User
	byID    map[uuid.UUID]int
	byEmail map[string]uuid.UUID
	now     func() time.Time
}

func NewUserStorage() *UserStorage {
	return &UserStorage{
		byID:    make(map[uuid.UUID]int),
		byEmail: make(map[string]uuid.UUID),
		now:     time.Now,
	}
}

func (s *UserStorage) CreateUser(_ context.Context, in model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[in.Email]; ok {
		return model.User{}, service.ErrConflict
	}
	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	}
	if _, ok := s.byID[in.ID]; ok {
		return model.User{}, service.ErrConflict
	}

	now := s.now()
	if in.CreatedAt.IsZero() {
		in.CreatedAt = now
	}
	in.UpdatedAt = in.CreatedAt

	s.byID[in.ID] = len(s.users)
	s.byEmail[in.Email] = in.ID
	s.users = append(s.users, in)
	return in, nil
}

func (s *UserStorage) GetUserByID(_ context.Context, userID uuid.UUID) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[userID]
	if !ok {
		return model.User{}, service.ErrNotFound
	}
	return s.users[idx], nil
}

func (s *UserStorage) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return model.User{}, service.ErrNotFound
	}
	return s.users[s.byID[id]], nil
}

func (s *UserStorage) CountUsers(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.users)), nil
}

func (s *UserStorage) ListUsers(_ context.Context, offset, limit int64) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must be >= 0, got %d", service.ErrInvalidRequest, offset)
	}
	n := int64(len(s.users))
	if limit <= 0 || offset >= n {
		return []model.User{}, nil
	}

	end := n
	if limit < n-offset {
		end = offset + limit
	}
	out := make([]model.User, end-offset)
	copy(out, s.users[offset:end])
	return out, nil
}

func (s *UserStorage) UpdateUser(_ context.Context, in model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[in.ID]
	if !ok {
		return model.User{}, service.ErrNotFound
	}
	cur := s.users[idx]

	if in.Email != cur.Email {
		if _, taken := s.byEmail[in.Email]; taken {
			return model.User{}, service.ErrConflict
		}
		delete(s.byEmail, cur.Email)
		s.byEmail[in.Email] = in.ID
	}

	in.CreatedAt = cur.CreatedAt
	in.UpdatedAt = s.now()
	if in.PasswordHash == "" {
		in.PasswordHash = cur.PasswordHash
	}
	s.users[idx] = in
	return in, nil
}

func (s *UserStorage) DeleteUser(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[userID]
	if !ok {
		return service.ErrNotFound
	}

	delete(s.byEmail, s.users[idx].Email)
	delete(s.byID, userID)
	s.users = append(s.users[:idx], s.users[idx+1:]...)
	for i := idx; i < len(s.users); i++ {
		s.byID[s.users[i].ID] = i
	}
	return nil
}
