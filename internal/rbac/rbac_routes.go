package rbac

import (
	"go-leave-portal/internal/middleware"
	"go-leave-portal/internal/permission"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes expects r to already carry authentication. Admins always
// pass; anyone else needs permission.manage.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, checker middleware.PermissionChecker) {
	group := r.Group("/rbac/tier-policies")
	group.Use(middleware.RequireAdminOrPermission(checker, permission.KeyPermissionManage))
	{
		group.GET("", handler.List)
		group.POST("", handler.Add)
		group.DELETE("", handler.Remove)
	}
}
