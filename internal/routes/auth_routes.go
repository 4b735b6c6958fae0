package routes

import (
	"github.com/gin-gonic/gin"
)

func AuthRoutes(api, authed *gin.RouterGroup, h handlers) {
	api.POST("/register", h.auth.Register)
	api.POST("/login", h.auth.Login)
	authed.GET("/me", h.auth.Me)
}
