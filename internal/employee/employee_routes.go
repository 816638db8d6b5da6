package employee

import "github.com/gin-gonic/gin"

// RegisterRoutes exposes the read-only directory. Employee records are
// maintained by the HR system of record.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	employees := r.Group("/employees")
	{
		employees.GET("/me", handler.Me)
		employees.GET("/department", handler.Department)
		employees.GET("/:id", handler.GetByID)
	}
}
