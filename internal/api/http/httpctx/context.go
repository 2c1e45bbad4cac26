package httpctx

import "github.com/gin-gonic/gin"

const usernameKey = "auth.username"

// Manager propagates the authenticated principal through the request
// context.
type Manager struct{}

// NewManager creates a new context Manager.
func NewManager() *Manager {
	return &Manager{}
}

// SetUsername stores the authenticated username in the request context.
func (m *Manager) SetUsername(c *gin.Context, username string) {
	c.Set(usernameKey, username)
}

// GetUsername returns the authenticated username, if any.
func (m *Manager) GetUsername(c *gin.Context) (string, bool) {
	value, ok := c.Get(usernameKey)
	if !ok {
		return "", false
	}
	username, ok := value.(string)
	return username, ok && username != ""
}
