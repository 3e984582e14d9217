package app_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"conduit/internal/identity/domain/entities"
)

// memoryUserRepository хранит пользователей в памяти и, как уникальные
// индексы БД, отклоняет дубликаты username и email (без учета регистра) при вставке.
type memoryUserRepository struct {
	mu      sync.Mutex
	byID    map[string]*entities.User
	lookups atomic.Int32
	creates atomic.Int32
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{byID: make(map[string]*entities.User)}
}

func (r *memoryUserRepository) Create(_ context.Context, user *entities.User) (*entities.User, error) {
	r.creates.Add(1)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.Username == user.Username || strings.EqualFold(existing.Email, user.Email) {
			return nil, fmt.Errorf("error creating user: %w", entities.ErrConflict)
		}
	}

	now := time.Now().UTC()
	stored := *user
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.byID[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *memoryUserRepository) find(match func(*entities.User) bool) (*entities.User, error) {
	r.lookups.Add(1)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if match(u) {
			out := *u
			return &out, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *memoryUserRepository) FindByID(_ context.Context, id string) (*entities.User, error) {
	return r.find(func(u *entities.User) bool { return u.ID == id })
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	return r.find(func(u *entities.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *memoryUserRepository) FindByUsername(_ context.Context, username string) (*entities.User, error) {
	return r.find(func(u *entities.User) bool { return u.Username == username })
}

func (r *memoryUserRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// blindRepository скрывает существующих пользователей от поиска, имитируя
// гонку: предварительная проверка проходит, а вставка упирается в ограничение.
type blindRepository struct {
	*memoryUserRepository
}

func (r blindRepository) FindByEmail(context.Context, string) (*entities.User, error) {
	return nil, entities.ErrUserNotFound
}

func (r blindRepository) FindByUsername(context.Context, string) (*entities.User, error) {
	return nil, entities.ErrUserNotFound
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

type mockPasswordService struct {
	mock.Mock
}

func (m *mockPasswordService) Hash(ctx context.Context, password string) (string, error) {
	args := m.Called(ctx, password)
	return args.String(0), args.Error(1)
}

func (m *mockPasswordService) Verify(ctx context.Context, password, hash string) (bool, error) {
	args := m.Called(ctx, password, hash)
	return args.Bool(0), args.Error(1)
}

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GenerateAccessToken(ctx context.Context, userID, username string) (string, time.Time, error) {
	args := m.Called(ctx, userID, username)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockTokenService) ValidateAccessToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}
