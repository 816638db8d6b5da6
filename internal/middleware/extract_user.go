package middleware

import (
	"go-leave-portal/internal/shared/apperror"
	"go-leave-portal/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExtractUserID requires the authenticated user id to be a uuid, since it
// doubles as the employee id, and republishes it as user_id_validated for
// middleware that keys on the caller (idempotency).
func ExtractUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			response.FromError(c, apperror.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, err := uuid.Parse(userID); err != nil {
			response.FromError(c, apperror.ErrInvalidToken.WithDetails("user_id is not a valid id"))
			c.Abort()
			return
		}

		c.Set("user_id_validated", userID)
		c.Next()
	}
}
