package notification

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the inbox on protected and the websocket endpoint on
// public; the socket authenticates itself from ?token=.
func RegisterRoutes(protected, public *gin.RouterGroup, handler *Handler, hub *Hub) {
	notifications := protected.Group("/notifications")
	{
		notifications.GET("", handler.List)
		notifications.PATCH("/:id/read", handler.MarkRead)
	}
	public.GET("/ws", hub.ServeWs)
}
