package router

import (
	"github.com/gin-gonic/gin"

	"github.com/vibtellect/user-service/internal/api/http/handler"
	"github.com/vibtellect/user-service/internal/api/http/httpctx"
	"github.com/vibtellect/user-service/internal/api/http/middleware"
	"github.com/vibtellect/user-service/internal/logger"
	"github.com/vibtellect/user-service/internal/model"
	"github.com/vibtellect/user-service/internal/service"
)

// Router wires user endpoints, middleware and handlers into a gin engine.
type Router struct {
	userService    *service.User
	tokens         model.TokenManager
	events         model.EventPublisher
	contextManager *httpctx.Manager
	logger         *logger.Logger
}

// New creates a new Router instance.
func New(
	userService *service.User,
	tokens model.TokenManager,
	events model.EventPublisher,
	contextManager *httpctx.Manager,
	logger *logger.Logger,
) *Router {
	return &Router{
		userService:    userService,
		tokens:         tokens,
		events:         events,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register registers all routes and middleware and returns the engine.
func (r *Router) Register() *gin.Engine {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokens, r.contextManager, r.logger)
	userHandler := handler.NewUser(r.userService, r.tokens, r.events, r.contextManager, r.logger)

	engine := gin.New()
	engine.Use(gin.Recovery(), logging.Handle)

	v1 := engine.Group("/api/v1")
	v1.GET("/hello", userHandler.Hello)

	auth := v1.Group("/auth")
	auth.POST("/register", userHandler.Register)
	auth.POST("/login", userHandler.Login)
	auth.POST("/validate", userHandler.ValidateToken)
	auth.GET("/me", authenticate.Handle, userHandler.Me)

	users := v1.Group("/users")
	users.GET("", userHandler.ListUsers)
	users.GET("/active", userHandler.ListActiveUsers)
	users.GET("/:userId", userHandler.GetUserByID)
	users.GET("/username/:username", userHandler.GetUserByUsername)
	users.GET("/email/:email", userHandler.GetUserByEmail)
	users.PUT("/:userId", userHandler.UpdateUser)
	users.PATCH("/:userId/deactivate", userHandler.DeactivateUser)
	users.PATCH("/:userId/activate", userHandler.ActivateUser)
	users.DELETE("/:userId", userHandler.DeleteUser)

	return engine
}
