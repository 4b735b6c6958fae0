package routes

import (
	"github.com/gin-gonic/gin"
)

func WebSocketRoutes(r *gin.Engine, h handlers) {
	wsRoutes := r.Group("/ws")
	{
		wsRoutes.GET("/leaderboard", h.leaderboard.HandleWebSocket)
	}
}
