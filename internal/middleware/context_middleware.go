package middleware

import (
	"go-leave-portal/internal/domain"
	"go-leave-portal/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextLogger moves request metadata from gin into the standard context:
// a logger tagged with request_id (and user_id/role once authenticated) and,
// on authenticated groups, the acting domain.Actor. Mount it once, after
// AuthMiddleware and ExtractUserID.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		fields := []zap.Field{zap.String("request_id", c.GetString("request_id"))}
		ctx := c.Request.Context()

		if uid := c.GetString("user_id"); uid != "" {
			actor := domain.Actor{UserID: uid, Role: c.GetString("role")}
			fields = append(fields, zap.String("user_id", actor.UserID), zap.String("role", actor.Role))
			ctx = contextutil.WithActor(ctx, actor)
		}

		ctx = contextutil.WithLogger(ctx, logger.With(fields...))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
