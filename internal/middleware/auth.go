package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-management-api/internal/auth"
	"github.com/yukikurage/team-management-api/internal/authz"
	"github.com/yukikurage/team-management-api/internal/constants"
	apierrors "github.com/yukikurage/team-management-api/internal/errors"
)

// RequireAuth resolves the caller's identity from the session cookie, falling
// back to an "Authorization: Bearer" header for API clients.
func RequireAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := tokens.Verify(tokenFromRequest(c))
		if err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Store identity in context for easy access in handlers
		c.Set(constants.ContextKeyIdentity, identity)
		c.Next()
	}
}

// GetIdentity retrieves the current identity from context
func GetIdentity(c *gin.Context) (authz.Identity, bool) {
	value, exists := c.Get(constants.ContextKeyIdentity)
	if !exists {
		return authz.Identity{}, false
	}

	identity, ok := value.(authz.Identity)
	return identity, ok
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(constants.AccessTokenCookieName); err == nil && cookie != "" {
		return cookie
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
