package routes

import (
	"github.com/gin-gonic/gin"

	"sevasetu/internal/middleware"
	"sevasetu/internal/models"
)

func VolunteerRoutes(authed *gin.RouterGroup, h handlers) {
	authed.GET("/tasks", h.tasks.List)
	authed.GET("/certificate/:id", middleware.RequireRole(models.RoleVolunteer, models.RoleAdmin), h.certificates.Download)

	volunteer := authed.Group("")
	volunteer.Use(middleware.RequireRole(models.RoleVolunteer))
	{
		volunteer.POST("/join_ngo", h.auth.JoinNGO)
		volunteer.POST("/submit_proof", h.submissions.Submit)
		volunteer.GET("/my_submissions", h.submissions.Mine)
		volunteer.GET("/my_certificates", h.certificates.Mine)
	}
}
