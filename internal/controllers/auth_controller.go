package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sevasetu/internal/models"
	"sevasetu/internal/services"
)

type AuthController struct {
	svc *services.Service
}

func NewAuthController(svc *services.Service) *AuthController {
	return &AuthController{svc: svc}
}

type signupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"role"`
	City     string `json:"city"`
	State    string `json:"state"`
	Contact  string `json:"contact"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var input signupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	session, err := ac.svc.Register(c.Request.Context(), services.RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
		City:     input.City,
		State:    input.State,
		Contact:  input.Contact,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered",
		"token":   session.Token,
		"role":    session.User.Role,
		"user":    session.User,
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c, err)
		return
	}

	session, err := ac.svc.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   session.Token,
		"role":    session.User.Role,
		"user":    session.User,
	})
}

func (ac *AuthController) Me(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	user, err := ac.svc.Me(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id": id.UserID,
		"role":    id.Role,
		"user":    user,
		"badge":   badgeFor(user),
	})
}

func (ac *AuthController) JoinNGO(c *gin.Context) {
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

	ngo, err := ac.svc.JoinNGO(c.Request.Context(), id, body.NGOID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Joined NGO " + ngo.Name + " successfully"})
}

func badgeFor(user *models.User) interface{} {
	if user.Role != models.RoleVolunteer {
		return nil
	}
	return services.BadgeFor(user.Points)
}
