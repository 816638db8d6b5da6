package authorization

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	authorizations := r.Group("/authorizations")
	{
		authorizations.POST("", handler.Create)
		authorizations.GET("", handler.List)
		authorizations.GET("/me", handler.Mine)
		authorizations.GET("/:id", handler.GetByID)
		authorizations.PUT("/:id", handler.Update)
		authorizations.DELETE("/:id", handler.Delete)
		authorizations.POST("/:id/approve", handler.Approve)
		authorizations.POST("/:id/reject", handler.Reject)
	}
}
