package routes

import (
	"github.com/gin-gonic/gin"
)

// PublicRoutes need no token.
func PublicRoutes(api *gin.RouterGroup, h handlers) {
	api.GET("/leaderboard", h.leaderboard.Get)
}
