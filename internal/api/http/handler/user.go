package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vibtellect/user-service/internal/api/http/middleware"
	"github.com/vibtellect/user-service/internal/logger"
	"github.com/vibtellect/user-service/internal/model"
	"github.com/vibtellect/user-service/internal/service"
)

// UserService defines the user operations exposed over HTTP.
type UserService interface {
	Register(ctx context.Context, params service.RegisterParams) (service.AuthResult, error)
	Authenticate(ctx context.Context, usernameOrEmail, password string) (service.AuthResult, error)
	GetByID(ctx context.Context, id string) (model.PublicUser, error)
	GetByUsername(ctx context.Context, username string) (model.PublicUser, error)
	GetByEmail(ctx context.Context, email string) (model.PublicUser, error)
	List(ctx context.Context) ([]model.PublicUser, error)
	ListActive(ctx context.Context) ([]model.PublicUser, error)
	Update(ctx context.Context, id string, params service.UpdateParams) (model.PublicUser, error)
	Deactivate(ctx context.Context, id string) error
	Activate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// TokenManager defines token validation for the validate endpoint.
type TokenManager interface {
	Validate(token string) bool
}

// EventPublisher defines the login events published from this boundary.
// The service layer only classifies authentication failures; the handler
// owns the raw login identifier, so it publishes the events.
type EventPublisher interface {
	LoginSucceeded(ctx context.Context, userID, username string)
	LoginFailed(ctx context.Context, usernameOrEmail, reason string)
}

// ContextManager reads the authenticated principal from the request context.
type ContextManager interface {
	GetUsername(c *gin.Context) (string, bool)
}

// User handles HTTP endpoints for user management and authentication.
type User struct {
	service        UserService
	tokens         TokenManager
	events         EventPublisher
	contextManager ContextManager
	logger         *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(
	service UserService,
	tokens TokenManager,
	events EventPublisher,
	contextManager ContextManager,
	logger *logger.Logger,
) *User {
	return &User{
		service:        service,
		tokens:         tokens,
		events:         events,
		contextManager: contextManager,
		logger:         logger,
	}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required,min=3,max=50"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
}

type updateRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required,min=3,max=50"`
	Password  string `json:"password"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

type authResponse struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

// Hello is a plain liveness endpoint.
func (h *User) Hello(c *gin.Context) {
	c.String(http.StatusOK, "Hello from User Service!")
}

// Register creates a new user and returns a token with the public view.
func (h *User) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Register(c.Request.Context(), service.RegisterParams{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.logger.Error("user handler: registration failed",
			"username", req.Username,
			"error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse{Token: result.Token, User: result.User})
}

// Login authenticates a user and publishes the corresponding login event.
func (h *User) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	result, err := h.service.Authenticate(ctx, req.UsernameOrEmail, req.Password)
	if err != nil {
		h.events.LoginFailed(ctx, req.UsernameOrEmail, loginFailureReason(err))

		h.logger.Info("user handler: login failed",
			"username_or_email", req.UsernameOrEmail,
			"reason", loginFailureReason(err))

		if statusForError(err) == http.StatusInternalServerError {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	h.events.LoginSucceeded(ctx, result.User.UserID, result.User.Username)

	c.JSON(http.StatusOK, authResponse{Token: result.Token, User: result.User})
}

// ValidateToken reports whether the bearer token in the Authorization
// header is valid. It always answers 200 with a boolean.
func (h *User) ValidateToken(c *gin.Context) {
	token := middleware.BearerToken(c)
	c.JSON(http.StatusOK, gin.H{"valid": token != "" && h.tokens.Validate(token)})
}

// Me resolves the authenticated principal to its public view.
func (h *User) Me(c *gin.Context) {
	username, ok := h.contextManager.GetUsername(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
		return
	}

	user, err := h.service.GetByUsername(c.Request.Context(), username)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListUsers returns all users.
func (h *User) ListUsers(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// ListActiveUsers returns users with the active flag set.
func (h *User) ListActiveUsers(c *gin.Context) {
	users, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUserByID returns a single user by id.
func (h *User) GetUserByID(c *gin.Context) {
	user, err := h.service.GetByID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUserByUsername returns a single user by username.
func (h *User) GetUserByUsername(c *gin.Context) {
	user, err := h.service.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUserByEmail returns a single user by email.
func (h *User) GetUserByEmail(c *gin.Context) {
	user, err := h.service.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser replaces the user's profile fields.
func (h *User) UpdateUser(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.Update(c.Request.Context(), c.Param("userId"), service.UpdateParams{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeactivateUser marks the user inactive.
func (h *User) DeactivateUser(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("userId")); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// ActivateUser marks the user active.
func (h *User) ActivateUser(c *gin.Context) {
	if err := h.service.Activate(c.Request.Context(), c.Param("userId")); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// DeleteUser removes the user record.
func (h *User) DeleteUser(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("userId")); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func loginFailureReason(err error) string {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return "user_not_found"
	case errors.Is(err, model.ErrUserDeactivated):
		return "account_deactivated"
	case errors.Is(err, model.ErrInvalidCredentials):
		return "invalid_credentials"
	default:
		return "internal_error"
	}
}
