package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-management-api/internal/authz"
	apierrors "github.com/yukikurage/team-management-api/internal/errors"
	"github.com/yukikurage/team-management-api/internal/utils"
)

// RequireAdmin rejects callers that are not admins
func RequireAdmin() gin.HandlerFunc {
	return requireRole(authz.RequireAdmin)
}

// RequireManagerOrAdmin rejects employees
func RequireManagerOrAdmin() gin.HandlerFunc {
	return requireRole(authz.RequireManagerOrAdmin)
}

// RequireSelfOrPrivileged lets a user through for their own record, named by
// the given path parameter, and managers/admins for any record.
func RequireSelfOrPrivileged(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		targetID, ok := utils.ParseUintParam(c, param)
		if !ok {
			apierrors.BadRequest(c, "Invalid user ID")
			c.Abort()
			return
		}

		if err := authz.RequireSelfOrPrivileged(identity, targetID); err != nil {
			apierrors.Forbidden(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}

func requireRole(check func(authz.Identity) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if err := check(identity); err != nil {
			apierrors.Forbidden(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}
