package models

import (
	"errors"
	"strings"
	"time"
)

type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "Pending"
	StatusApproved SubmissionStatus = "Approved"
	StatusRejected SubmissionStatus = "Rejected"
)

var ErrInvalidStatus = errors.New("invalid submission status")

// ParseSubmissionStatus accepts the status names case-insensitively.
func ParseSubmissionStatus(s string) (SubmissionStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, nil
	case "approved":
		return StatusApproved, nil
	case "rejected":
		return StatusRejected, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Submission is a volunteer's proof that a task was done.
type Submission struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	TaskID      uint             `gorm:"not null;index" json:"task_id"`
	VolunteerID uint             `gorm:"not null;index" json:"volunteer_id"`
	ProofURL    string           `gorm:"not null" json:"proof_url"`
	Status      SubmissionStatus `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	ReviewedBy  *uint            `json:"reviewed_by"`
	ReviewedAt  *time.Time       `json:"reviewed_at"`

	// PointsAwarded flips once, the first time the submission is approved.
	PointsAwarded bool `gorm:"not null;default:false" json:"-"`
}
