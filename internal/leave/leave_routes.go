package leave

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes expects auth on protected. The consume endpoint lives on
// public because the approver acts through the emailed token alone.
func RegisterRoutes(protected, public *gin.RouterGroup, handler *Handler, idempotent, consumeLimit gin.HandlerFunc) {
	leaves := protected.Group("/leaves")
	{
		leaves.POST("", idempotent, handler.Create)
		leaves.GET("/me", handler.Mine)
		leaves.GET("/worklist/hod", handler.HODWorklist)
		leaves.GET("/worklist/admin", handler.AdminWorklist)
		leaves.POST("/bulk-decision", idempotent, handler.BulkDecision)
		leaves.GET("/:id", handler.GetByID)
		leaves.PUT("/:id", handler.Update)
		leaves.DELETE("/:id", handler.Delete)
		leaves.POST("/:id/hod-decision", handler.HODDecision)
		leaves.POST("/:id/admin-decision", handler.AdminDecision)
		leaves.POST("/:id/approval-token", handler.IssueApprovalToken)
	}

	public.POST("/leaves/approval-tokens/consume", consumeLimit, handler.ConsumeApprovalToken)
}
