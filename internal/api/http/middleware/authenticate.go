package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vibtellect/user-service/internal/logger"
)

// TokenManager resolves the subject of bearer tokens.
type TokenManager interface {
	Subject(token string) (string, error)
}

// ContextManager stores the authenticated principal in the request context.
type ContextManager interface {
	SetUsername(c *gin.Context, username string)
}

// Authenticate validates bearer tokens and injects the subject username
// into the request context.
type Authenticate struct {
	tokens         TokenManager
	contextManager ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens TokenManager, contextManager ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, contextManager: contextManager, logger: logger}
}

// Handle parses the Authorization header, resolves the token subject and
// aborts with 401 when the token is missing or invalid.
func (m *Authenticate) Handle(c *gin.Context) {
	token := BearerToken(c)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
		return
	}

	username, err := m.tokens.Subject(token)
	if err != nil || username == "" {
		m.logger.Debug("authenticate middleware: rejected token",
			"path", c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization token"})
		return
	}

	m.contextManager.SetUsername(c, username)
	c.Next()
}

// BearerToken extracts the bearer token from the Authorization header.
// Returns an empty string if the header is missing or not a bearer scheme.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
