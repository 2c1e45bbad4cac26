package model

import (
	"context"
	"time"
)

// Role values assignable to a user. New registrations get RoleUser.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByUsernameOrEmail(ctx context.Context, value string) (User, error)
	List(ctx context.Context) ([]User, error)
	ListActive(ctx context.Context) ([]User, error)
	Put(ctx context.Context, user User) error
	Delete(ctx context.Context, id string) error
}

// User represents a stored user with authentication material.
// PasswordHash never leaves the service boundary; callers get PublicUser.
type User struct {
	ID           string    `dynamodbav:"userId"`
	Email        string    `dynamodbav:"email"`
	Username     string    `dynamodbav:"username"`
	PasswordHash string    `dynamodbav:"passwordHash"`
	FirstName    string    `dynamodbav:"firstName"`
	LastName     string    `dynamodbav:"lastName"`
	Role         string    `dynamodbav:"role"`
	Active       bool      `dynamodbav:"active"`
	CreatedAt    time.Time `dynamodbav:"createdAt"`
	UpdatedAt    time.Time `dynamodbav:"updatedAt"`
}

// PublicUser is the subset of User fields safe to expose to callers.
type PublicUser struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public returns the caller-visible view of the user.
func (u User) Public() PublicUser {
	return PublicUser{
		UserID:    u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
