package middleware

import (
	"context"

	"go-leave-portal/internal/shared/apperror"
	"go-leave-portal/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// PermissionChecker is satisfied by the permission engine.
type PermissionChecker interface {
	Check(ctx context.Context, userID, key string) bool
	CheckAdminOrPermission(ctx context.Context, userID, role, key string) bool
}

// RequirePermission gates a route on a single permission key. Admins pass
// through the engine's normal bypass rules, so an exception key such as
// dashboard.view still needs an explicit grant.
func RequirePermission(checker PermissionChecker, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			response.FromError(c, apperror.ErrUnauthorized)
			c.Abort()
			return
		}

		if !checker.Check(c.Request.Context(), userID, key) {
			response.FromError(c, apperror.PermissionDenied(key))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdminOrPermission trusts the role claim from the token.
func RequireAdminOrPermission(checker PermissionChecker, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			response.FromError(c, apperror.ErrUnauthorized)
			c.Abort()
			return
		}

		if !checker.CheckAdminOrPermission(c.Request.Context(), userID, c.GetString("role"), key) {
			response.FromError(c, apperror.PermissionDenied(key))
			c.Abort()
			return
		}
		c.Next()
	}
}
