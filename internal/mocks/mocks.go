package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vibtellect/user-service/internal/model"
)

// UserStore is a testify mock of model.UserStore.
type UserStore struct {
	mock.Mock
}

func (m *UserStore) GetByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByUsernameOrEmail(ctx context.Context, value string) (model.User, error) {
	args := m.Called(ctx, value)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *UserStore) ListActive(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *UserStore) Put(ctx context.Context, user model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// TokenManager is a testify mock of model.TokenManager.
type TokenManager struct {
	mock.Mock
}

func (m *TokenManager) Issue(username string) (string, error) {
	args := m.Called(username)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) Validate(token string) bool {
	args := m.Called(token)
	return args.Bool(0)
}

func (m *TokenManager) Subject(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

// Hasher is a testify mock of model.Hasher.
type Hasher struct {
	mock.Mock
}

func (m *Hasher) Hash(secret string) (string, error) {
	args := m.Called(secret)
	return args.String(0), args.Error(1)
}

func (m *Hasher) Verify(secret, digest string) bool {
	args := m.Called(secret, digest)
	return args.Bool(0)
}

// EventPublisher is a testify mock of model.EventPublisher.
type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) UserRegistered(ctx context.Context, user model.User) {
	m.Called(ctx, user)
}

func (m *EventPublisher) UserUpdated(ctx context.Context, user model.User) {
	m.Called(ctx, user)
}

func (m *EventPublisher) UserActivated(ctx context.Context, userID string) {
	m.Called(ctx, userID)
}

func (m *EventPublisher) UserDeactivated(ctx context.Context, userID string) {
	m.Called(ctx, userID)
}

func (m *EventPublisher) UserDeleted(ctx context.Context, userID string) {
	m.Called(ctx, userID)
}

func (m *EventPublisher) LoginSucceeded(ctx context.Context, userID, username string) {
	m.Called(ctx, userID, username)
}

func (m *EventPublisher) LoginFailed(ctx context.Context, usernameOrEmail, reason string) {
	m.Called(ctx, usernameOrEmail, reason)
}
