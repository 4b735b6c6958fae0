package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sevasetu/internal/services"
)

type SubmissionController struct {
	svc *services.Service
}

func NewSubmissionController(svc *services.Service) *SubmissionController {
	return &SubmissionController{svc: svc}
}

func (sc *SubmissionController) Submit(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var body struct {
		TaskID   uint   `json:"task_id" binding:"required"`
		ProofURL string `json:"proof_url"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c, err)
		return
	}

	sub, err := sc.svc.SubmitProof(c.Request.Context(), id, body.TaskID, body.ProofURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Proof submitted successfully", "submission": sub})
}

func (sc *SubmissionController) Mine(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	res, err := sc.svc.MySubmissions(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (sc *SubmissionController) ForNGO(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	views, err := sc.svc.NGOSubmissions(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (sc *SubmissionController) Review(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var body struct {
		SubmissionID uint   `json:"submission_id" binding:"required"`
		Status       string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := sc.svc.ReviewSubmission(c.Request.Context(), id, body.SubmissionID, body.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"message":        "Submission " + string(res.Submission.Status),
		"submission":     res.Submission,
		"points_awarded": res.PointsAwarded,
	}
	if res.PointsAwarded > 0 {
		resp["points"] = res.Points
	}
	if res.Certificate != nil {
		resp["certificate"] = res.Certificate
	}
	c.JSON(http.StatusOK, resp)
}
