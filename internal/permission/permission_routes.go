package permission

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes expects r to already carry authentication.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	permissions := r.Group("/permissions")
	{
		permissions.GET("", handler.ListPermissions)
		permissions.GET("/me", handler.Me)
		permissions.POST("/check", handler.Check)
		permissions.POST("/grants", handler.Grant)
		permissions.DELETE("/grants", handler.Revoke)
	}
}
