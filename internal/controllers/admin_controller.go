package controllers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"sevasetu/internal/services"
)

type AdminController struct {
	svc *services.Service
}

func NewAdminController(svc *services.Service) *AdminController {
	return &AdminController{svc: svc}
}

func (ac *AdminController) VerifyNGO(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var body struct {
		NGOID uint `json:"ngo_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c, err)
		return
	}

	ngo, err := ac.svc.VerifyNGO(c.Request.Context(), id, body.NGOID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "NGO " + ngo.Name + " verified"})
}

func (ac *AdminController) ListNGOs(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	ngos, err := ac.svc.ListNGOs(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ngos)
}

func (ac *AdminController) ListVolunteers(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	volunteers, err := ac.svc.ListVolunteers(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, volunteers)
}

type userIDInput struct {
	UserID uint `json:"user_id" binding:"required"`
}

func (ac *AdminController) BlockUser(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var body userIDInput
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := ac.svc.BlockUser(c.Request.Context(), id, body.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User " + user.Name + " blocked"})
}

func (ac *AdminController) DeleteUser(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var body userIDInput
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := ac.svc.DeleteUser(c.Request.Context(), id, body.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":             "User " + res.User.Name + " deleted",
		"tasks_deleted":       res.TasksDeleted,
		"submissions_deleted": res.SubmissionsDeleted,
	})
}

func (ac *AdminController) ExportVolunteers(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := ac.svc.ExportVolunteers(c.Request.Context(), id, &buf); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment;filename=volunteers.csv")
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}
