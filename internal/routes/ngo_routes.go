package routes

import (
	"github.com/gin-gonic/gin"

	"sevasetu/internal/middleware"
	"sevasetu/internal/models"
)

func NGORoutes(authed *gin.RouterGroup, h handlers) {
	ngo := authed.Group("")
	ngo.Use(middleware.RequireRole(models.RoleNGO))
	{
		ngo.POST("/tasks", h.tasks.Create)
		ngo.GET("/my_tasks", h.tasks.Mine)
		ngo.GET("/ngo_submissions", h.submissions.ForNGO)
		ngo.POST("/review_submission", h.submissions.Review)
	}
}
