// Package authz holds the role predicates applied to a request's identity
// before any mutation proceeds.
package authz

import (
	apierrors "github.com/yukikurage/team-management-api/internal/errors"
	"github.com/yukikurage/team-management-api/internal/models"
)

// ErrForbidden is returned by every failed predicate and never names the
// role that was required.
var ErrForbidden = apierrors.New(apierrors.KindForbidden, "Access denied")

// Identity is the caller resolved from a verified session token.
type Identity struct {
	UserID uint64
	Role   models.Role
}

// RequireAdmin passes only for admins.
func RequireAdmin(id Identity) error {
	if id.Role != models.RoleAdmin {
		return ErrForbidden
	}
	return nil
}

// RequireManagerOrAdmin passes for managers and admins.
func RequireManagerOrAdmin(id Identity) error {
	if !id.Role.IsPrivileged() {
		return ErrForbidden
	}
	return nil
}

// RequireSelfOrPrivileged passes when the caller is the target user or a manager/admin.
func RequireSelfOrPrivileged(id Identity, targetUserID uint64) error {
	if id.UserID == targetUserID || id.Role.IsPrivileged() {
		return nil
	}
	return ErrForbidden
}
