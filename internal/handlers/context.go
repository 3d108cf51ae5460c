package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-management-api/internal/authz"
	apierrors "github.com/yukikurage/team-management-api/internal/errors"
	"github.com/yukikurage/team-management-api/internal/middleware"
	"github.com/yukikurage/team-management-api/internal/utils"
)

// requireIdentity returns the caller or writes a 401 response.
func requireIdentity(c *gin.Context) (authz.Identity, bool) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return authz.Identity{}, false
	}
	return identity, true
}

// requireID parses the ":id" path parameter or writes a 400 response.
func requireID(c *gin.Context, what string) (uint64, bool) {
	id, ok := utils.ParseUintParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid "+what+" ID")
		return 0, false
	}
	return id, true
}
