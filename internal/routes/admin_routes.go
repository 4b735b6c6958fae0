package routes

import (
	"github.com/gin-gonic/gin"

	"sevasetu/internal/middleware"
	"sevasetu/internal/models"
)

func AdminRoutes(authed *gin.RouterGroup, h handlers) {
	admin := authed.Group("/admin")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("/verify_ngo", h.admin.VerifyNGO)
		admin.GET("/ngos", h.admin.ListNGOs)
		admin.GET("/volunteers", h.admin.ListVolunteers)
		admin.POST("/block_user", h.admin.BlockUser)
		admin.DELETE("/delete_user", h.admin.DeleteUser)
		admin.GET("/export_volunteers", h.admin.ExportVolunteers)
	}
}
