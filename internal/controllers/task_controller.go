package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sevasetu/internal/services"
)

type TaskController struct {
	svc *services.Service
}

func NewTaskController(svc *services.Service) *TaskController {
	return &TaskController{svc: svc}
}

type taskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Remote      bool   `json:"remote"`
	Category    string `json:"category"`
	Guidelines  string `json:"guidelines"`
}

func (tc *TaskController) Create(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var input taskInput
	if err := bindOptionalJSON(c, &input); err != nil {
		respondBindError(c, err)
		return
	}

	task, err := tc.svc.CreateTask(c.Request.Context(), id, services.TaskInput(input))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Task created successfully", "task": task})
}

func (tc *TaskController) List(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	tasks, err := tc.svc.ListTasks(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (tc *TaskController) Mine(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	tasks, err := tc.svc.MyTasks(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}
