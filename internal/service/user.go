package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vibtellect/user-service/internal/logger"
	"github.com/vibtellect/user-service/internal/model"
)

// User orchestrates registration, authentication and lifecycle transitions.
// Event publishing is fire-and-forget: a degraded event bus never fails or
// rolls back the user mutation that triggered it.
type User struct {
	store  model.UserStore
	hasher model.Hasher
	tokens model.TokenManager
	events model.EventPublisher
	logger *logger.Logger
}

// NewUser creates a new user service.
func NewUser(
	store model.UserStore,
	hasher model.Hasher,
	tokens model.TokenManager,
	events model.EventPublisher,
	logger *logger.Logger,
) *User {
	return &User{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		events: events,
		logger: logger,
	}
}

// RegisterParams carries the fields of a registration request.
type RegisterParams struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// UpdateParams carries the fields of an update request. An empty Password
// leaves the stored credential unchanged.
type UpdateParams struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// AuthResult is a bearer token together with the authenticated user's view.
type AuthResult struct {
	Token string
	User  model.PublicUser
}

// Register creates a new user. Email and username must not be held by any
// existing user, active or not. The check is check-then-write: two
// concurrent registrations with the same email can both pass it, which is
// accepted as a known race of the storage model.
func (s *User) Register(ctx context.Context, params RegisterParams) (AuthResult, error) {
	s.logger.Debug("user service: registering user",
		"username", params.Username)

	if err := s.checkEmailFree(ctx, params.Email); err != nil {
		return AuthResult{}, err
	}
	if err := s.checkUsernameFree(ctx, params.Username); err != nil {
		return AuthResult{}, err
	}

	passwordHash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        params.Email,
		Username:     params.Username,
		PasswordHash: passwordHash,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Role:         model.RoleUser,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Put(ctx, user); err != nil {
		s.logger.Error("user service: failed to create user",
			"username", params.Username,
			"error", err.Error())
		return AuthResult{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.events.UserRegistered(ctx, user)

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("user service: user registered",
		"user_id", user.ID,
		"username", user.Username)

	return AuthResult{Token: token, User: user.Public()}, nil
}

// Authenticate verifies a credential against the user found by username or
// email. It classifies failures but publishes no login events; the caller
// boundary owns the raw input string and does that.
func (s *User) Authenticate(ctx context.Context, usernameOrEmail, password string) (AuthResult, error) {
	user, err := s.store.GetByUsernameOrEmail(ctx, usernameOrEmail)
	if errors.Is(err, model.ErrNotFound) {
		return AuthResult{}, model.ErrNotFound
	}
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.Active {
		return AuthResult{}, model.ErrUserDeactivated
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return AuthResult{}, model.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("user service: user authenticated",
		"user_id", user.ID,
		"username", user.Username)

	return AuthResult{Token: token, User: user.Public()}, nil
}

// GetByID returns the public view of the user with the given id.
func (s *User) GetByID(ctx context.Context, id string) (model.PublicUser, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.PublicUser{}, s.wrapLookupErr(err, "id")
	}
	return user.Public(), nil
}

// GetByUsername returns the public view of the user with the given username.
func (s *User) GetByUsername(ctx context.Context, username string) (model.PublicUser, error) {
	user, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return model.PublicUser{}, s.wrapLookupErr(err, "username")
	}
	return user.Public(), nil
}

// GetByEmail returns the public view of the user with the given email.
func (s *User) GetByEmail(ctx context.Context, email string) (model.PublicUser, error) {
	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return model.PublicUser{}, s.wrapLookupErr(err, "email")
	}
	return user.Public(), nil
}

// List returns all users in storage-scan order.
func (s *User) List(ctx context.Context) ([]model.PublicUser, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return publicViews(users), nil
}

// ListActive returns all active users in storage-scan order.
func (s *User) ListActive(ctx context.Context) ([]model.PublicUser, error) {
	users, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	return publicViews(users), nil
}

// Update replaces the user's profile fields. Uniqueness is re-checked only
// for an email or username that actually changed. A non-empty password is
// re-hashed; an empty one keeps the stored credential.
func (s *User) Update(ctx context.Context, id string, params UpdateParams) (model.PublicUser, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.PublicUser{}, s.wrapLookupErr(err, "id")
	}

	if user.Email != params.Email {
		if err := s.checkEmailFree(ctx, params.Email); err != nil {
			return model.PublicUser{}, err
		}
	}
	if user.Username != params.Username {
		if err := s.checkUsernameFree(ctx, params.Username); err != nil {
			return model.PublicUser{}, err
		}
	}

	user.Email = params.Email
	user.Username = params.Username
	user.FirstName = params.FirstName
	user.LastName = params.LastName

	if params.Password != "" {
		passwordHash, err := s.hasher.Hash(params.Password)
		if err != nil {
			return model.PublicUser{}, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = passwordHash
	}

	user.UpdatedAt = time.Now().UTC()

	if err := s.store.Put(ctx, user); err != nil {
		s.logger.Error("user service: failed to update user",
			"user_id", id,
			"error", err.Error())
		return model.PublicUser{}, fmt.Errorf("failed to update user: %w", err)
	}

	s.events.UserUpdated(ctx, user)

	s.logger.Info("user service: user updated", "user_id", user.ID)

	return user.Public(), nil
}

// Deactivate marks the user inactive and publishes a USER_DEACTIVATED event.
func (s *User) Deactivate(ctx context.Context, id string) error {
	user, err := s.setActive(ctx, id, false)
	if err != nil {
		return err
	}

	s.events.UserDeactivated(ctx, user.ID)

	s.logger.Info("user service: user deactivated", "user_id", user.ID)
	return nil
}

// Activate marks the user active again. Unlike Deactivate it publishes no
// event; downstream subscribers only observe deactivations.
func (s *User) Activate(ctx context.Context, id string) error {
	user, err := s.setActive(ctx, id, true)
	if err != nil {
		return err
	}

	s.logger.Info("user service: user activated", "user_id", user.ID)
	return nil
}

// Delete physically removes the user record and publishes a USER_DELETED
// event.
func (s *User) Delete(ctx context.Context, id string) error {
	if _, err := s.store.GetByID(ctx, id); err != nil {
		return s.wrapLookupErr(err, "id")
	}

	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.Error("user service: failed to delete user",
			"user_id", id,
			"error", err.Error())
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.events.UserDeleted(ctx, id)

	s.logger.Info("user service: user deleted", "user_id", id)
	return nil
}

func (s *User) setActive(ctx context.Context, id string, active bool) (model.User, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.User{}, s.wrapLookupErr(err, "id")
	}

	user.Active = active
	user.UpdatedAt = time.Now().UTC()

	if err := s.store.Put(ctx, user); err != nil {
		return model.User{}, fmt.Errorf("failed to save user: %w", err)
	}

	return user, nil
}

func (s *User) checkEmailFree(ctx context.Context, email string) error {
	_, err := s.store.GetByEmail(ctx, email)
	if err == nil {
		return model.ErrEmailTaken
	}
	if !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to get user by email: %w", err)
	}
	return nil
}

func (s *User) checkUsernameFree(ctx context.Context, username string) error {
	_, err := s.store.GetByUsername(ctx, username)
	if err == nil {
		return model.ErrUsernameTaken
	}
	if !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to get user by username: %w", err)
	}
	return nil
}

func (s *User) wrapLookupErr(err error, by string) error {
	if errors.Is(err, model.ErrNotFound) {
		return model.ErrNotFound
	}
	return fmt.Errorf("failed to get user by %s: %w", by, err)
}

func publicViews(users []model.User) []model.PublicUser {
	views := make([]model.PublicUser, 0, len(users))
	for _, u := range users {
		views = append(views, u.Public())
	}
	return views
}
