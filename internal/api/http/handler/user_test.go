package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vibtellect/user-service/internal/api/http/httpctx"
	"github.com/vibtellect/user-service/internal/api/http/middleware"
	"github.com/vibtellect/user-service/internal/mocks"
	"github.com/vibtellect/user-service/internal/model"
	"github.com/vibtellect/user-service/internal/service"
	"github.com/vibtellect/user-service/internal/testutil"
)

type userServiceMock struct {
	mock.Mock
}

func (m *userServiceMock) Register(ctx context.Context, params service.RegisterParams) (service.AuthResult, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(service.AuthResult), args.Error(1)
}

func (m *userServiceMock) Authenticate(ctx context.Context, usernameOrEmail, password string) (service.AuthResult, error) {
	args := m.Called(ctx, usernameOrEmail, password)
	return args.Get(0).(service.AuthResult), args.Error(1)
}

func (m *userServiceMock) GetByID(ctx context.Context, id string) (model.PublicUser, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.PublicUser), args.Error(1)
}

func (m *userServiceMock) GetByUsername(ctx context.Context, username string) (model.PublicUser, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.PublicUser), args.Error(1)
}

func (m *userServiceMock) GetByEmail(ctx context.Context, email string) (model.PublicUser, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.PublicUser), args.Error(1)
}

func (m *userServiceMock) List(ctx context.Context) ([]model.PublicUser, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.PublicUser), args.Error(1)
}

func (m *userServiceMock) ListActive(ctx context.Context) ([]model.PublicUser, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.PublicUser), args.Error(1)
}

func (m *userServiceMock) Update(ctx context.Context, id string, params service.UpdateParams) (model.PublicUser, error) {
	args := m.Called(ctx, id, params)
	return args.Get(0).(model.PublicUser), args.Error(1)
}

func (m *userServiceMock) Deactivate(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *userServiceMock) Activate(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *userServiceMock) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type handlerMocks struct {
	service *userServiceMock
	tokens  *mocks.TokenManager
	events  *mocks.EventPublisher
}

func makeEngine(t *testing.T) (*gin.Engine, handlerMocks) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := handlerMocks{
		service: &userServiceMock{},
		tokens:  &mocks.TokenManager{},
		events:  &mocks.EventPublisher{},
	}

	log := testutil.MakeNoopLogger()
	ctxMgr := httpctx.NewManager()
	h := NewUser(m.service, m.tokens, m.events, ctxMgr, log)
	authenticate := middleware.NewAuthenticate(m.tokens, ctxMgr, log)

	engine := gin.New()
	v1 := engine.Group("/api/v1")
	v1.POST("/auth/register", h.Register)
	v1.POST("/auth/login", h.Login)
	v1.POST("/auth/validate", h.ValidateToken)
	v1.GET("/auth/me", authenticate.Handle, h.Me)
	v1.GET("/users", h.ListUsers)
	v1.GET("/users/active", h.ListActiveUsers)
	v1.GET("/users/:userId", h.GetUserByID)
	v1.PUT("/users/:userId", h.UpdateUser)
	v1.PATCH("/users/:userId/deactivate", h.DeactivateUser)
	v1.DELETE("/users/:userId", h.DeleteUser)

	return engine, m
}

func doJSON(engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func publicAlice() model.PublicUser {
	return model.PublicUser{
		UserID:    "u-1",
		Email:     "alice@example.com",
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Smith",
		Role:      model.RoleUser,
		Active:    true,
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestUserHandler_Register_Created(t *testing.T) {
	engine, m := makeEngine(t)

	m.service.On("Register", mock.Anything, service.RegisterParams{
		Email:     "alice@example.com",
		Username:  "alice",
		Password:  "password123",
		FirstName: "Alice",
		LastName:  "Smith",
	}).Return(service.AuthResult{Token: "token-1", User: publicAlice()}, nil)

	w := doJSON(engine, http.MethodPost, "/api/v1/auth/register", gin.H{
		"email":     "alice@example.com",
		"username":  "alice",
		"password":  "password123",
		"firstName": "Alice",
		"lastName":  "Smith",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Token string           `json:"token"`
		User  model.PublicUser `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "token-1", resp.Token)
	assert.Equal(t, "u-1", resp.User.UserID)
}

func TestUserHandler_Register_DuplicateEmail(t *testing.T) {
	engine, m := makeEngine(t)

	m.service.On("Register", mock.Anything, mock.Anything).
		Return(service.AuthResult{}, model.ErrEmailTaken)

	w := doJSON(engine, http.MethodPost, "/api/v1/auth/register", gin.H{
		"email":     "alice@example.com",
		"username":  "alice",
		"password":  "password123",
		"firstName": "Alice",
		"lastName":  "Smith",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email already exists")
}

func TestUserHandler_Register_InvalidBody(t *testing.T) {
	engine, m := makeEngine(t)

	w := doJSON(engine, http.MethodPost, "/api/v1/auth/register", gin.H{
		"email": "not-an-email",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	m.service.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestUserHandler_Login_Success_PublishesEvent(t *testing.T) {
	engine, m := makeEngine(t)

	m.service.On("Authenticate", mock.Anything, "alice", "password123").
		Return(service.AuthResult{Token: "token-1", User: publicAlice()}, nil)
	m.events.On("LoginSucceeded", mock.Anything, "u-1", "alice").Return()

	w := doJSON(engine, http.MethodPost, "/api/v1/auth/login", gin.H{
		"usernameOrEmail": "alice",
		"password":        "password123",
	})

	require.Equal(t, http.StatusOK, w.Code)
	m.events.AssertCalled(t, "LoginSucceeded", mock.Anything, "u-1", "alice")
}

func TestUserHandler_Login_Failures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		reason string
	}{
		{name: "unknown user", err: model.ErrNotFound, reason: "user_not_found"},
		{name: "deactivated", err: model.ErrUserDeactivated, reason: "account_deactivated"},
		{name: "wrong password", err: model.ErrInvalidCredentials, reason: "invalid_credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, m := makeEngine(t)

			m.service.On("Authenticate", mock.Anything, "alice", "bad").
				Return(service.AuthResult{}, tt.err)
			m.events.On("LoginFailed", mock.Anything, "alice", tt.reason).Return()

			w := doJSON(engine, http.MethodPost, "/api/v1/auth/login", gin.H{
				"usernameOrEmail": "alice",
				"password":        "bad",
			})

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			m.events.AssertCalled(t, "LoginFailed", mock.Anything, "alice", tt.reason)
		})
	}
}

func TestUserHandler_ValidateToken(t *testing.T) {
	engine, m := makeEngine(t)

	m.tokens.On("Validate", "good-token").Return(true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/validate", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"valid": true}`, w.Body.String())
}

func TestUserHandler_ValidateToken_MissingHeader(t *testing.T) {
	engine, m := makeEngine(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/validate", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"valid": false}`, w.Body.String())
	m.tokens.AssertNotCalled(t, "Validate", mock.Anything)
}

func TestUserHandler_Me(t *testing.T) {
	engine, m := makeEngine(t)

	m.tokens.On("Subject", "good-token").Return("alice", nil)
	m.service.On("GetByUsername", mock.Anything, "alice").Return(publicAlice(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var user model.PublicUser
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "alice", user.Username)
}

func TestUserHandler_GetUserByID_NotFound(t *testing.T) {
	engine, m := makeEngine(t)

	m.service.On("GetByID", mock.Anything, "ghost").Return(model.PublicUser{}, model.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/ghost", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandler_ListUsers(t *testing.T) {
	engine, m := makeEngine(t)

	m.service.On("List", mock.Anything).Return([]model.PublicUser{publicAlice()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var users []model.PublicUser
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "u-1", users[0].UserID)
}

func TestUserHandler_PublicViewNeverContainsHash(t *testing.T) {
	engine, m := makeEngine(t)

	m.service.On("List", mock.Anything).Return([]model.PublicUser{publicAlice()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "passwordHash")
	assert.NotContains(t, w.Body.String(), "hashed")
}

func TestUserHandler_UpdateUser_DuplicateUsername(t *testing.T) {
	engine, m := makeEngine(t)

	m.service.On("Update", mock.Anything, "u-1", mock.Anything).
		Return(model.PublicUser{}, model.ErrUsernameTaken)

	w := doJSON(engine, http.MethodPut, "/api/v1/users/u-1", gin.H{
		"email":     "alice@example.com",
		"username":  "bob",
		"firstName": "Alice",
		"lastName":  "Smith",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "username already exists")
}

func TestUserHandler_DeactivateUser(t *testing.T) {
	engine, m := makeEngine(t)

	m.service.On("Deactivate", mock.Anything, "u-1").Return(nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/u-1/deactivate", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserHandler_DeleteUser_NotFound(t *testing.T) {
	engine, m := makeEngine(t)

	m.service.On("Delete", mock.Anything, "ghost").Return(model.ErrNotFound)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/ghost", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
