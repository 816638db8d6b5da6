package balance

import (
	"go-leave-portal/internal/middleware"
	"go-leave-portal/internal/permission"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, checker middleware.PermissionChecker) {
	balances := r.Group("/balances")
	{
		balances.GET("/me", handler.Mine)
		balances.GET("/me/:leave_type", handler.MineByType)
		balances.GET("/:employee_id", middleware.RequirePermission(checker, permission.KeyBalanceView), handler.ForEmployee)
	}
}
