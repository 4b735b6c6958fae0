package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"sevasetu/internal/auth"
	"sevasetu/internal/certificates"
	"sevasetu/internal/models"
)

const (
	deletedTask      = "Deleted Task"
	unknownVolunteer = "Unknown"
)

// SubmissionView is a submission joined with display names.
type SubmissionView struct {
	SubmissionID  uint                    `json:"submission_id"`
	TaskID        uint                    `json:"task_id"`
	TaskTitle     string                  `json:"task_title"`
	VolunteerName string                  `json:"volunteer_name,omitempty"`
	ProofURL      string                  `json:"proof_url"`
	Status        models.SubmissionStatus `json:"status"`
	ReviewedBy    *uint                   `json:"reviewed_by"`
	ReviewedAt    *time.Time              `json:"reviewed_at"`
	SubmittedAt   time.Time               `json:"submitted_at"`
}

// VolunteerSubmissions is a volunteer's submission history and standing.
type VolunteerSubmissions struct {
	Submissions []SubmissionView `json:"submissions"`
	Points      int              `json:"points"`
	Badge       string           `json:"badge"`
}

// ReviewResult describes the outcome of a review.
type ReviewResult struct {
	Submission    models.Submission
	PointsAwarded int
	Points        int
	Certificate   *models.Certificate
}

// SubmitProof records a pending submission for an existing task.
func (s *Service) SubmitProof(ctx context.Context, caller auth.Identity, taskID uint, proofURL string) (*models.Submission, error) {
	if err := requireRole(caller, "Only volunteers can submit proof", models.RoleVolunteer); err != nil {
		return nil, err
	}
	if proofURL == "" {
		return nil, validationError("proof_url is required")
	}

	sub := models.Submission{
		VolunteerID: caller.UserID,
		ProofURL:    proofURL,
		Status:      models.StatusPending,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadCaller(ctx, tx, caller); err != nil {
			return err
		}

		var task models.Task
		if err := tx.First(&task, taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Task not found")
			}
			return internal("database error", err)
		}
		sub.TaskID = task.ID

		if err := tx.Create(&sub).Error; err != nil {
			return internal("could not save submission", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"submission_id": sub.ID,
		"task_id":       sub.TaskID,
		"volunteer_id":  sub.VolunteerID,
	}).Info("proof submitted")
	return &sub, nil
}

// MySubmissions lists the caller's submissions with their points and badge.
func (s *Service) MySubmissions(ctx context.Context, caller auth.Identity) (*VolunteerSubmissions, error) {
	if err := requireRole(caller, "Only volunteers can view submissions", models.RoleVolunteer); err != nil {
		return nil, err
	}

	volunteer, err := loadUser(ctx, s.db, caller.UserID, "User not found")
	if err != nil {
		return nil, err
	}

	var subs []models.Submission
	if err := s.db.WithContext(ctx).Where("volunteer_id = ?", caller.UserID).Order("id").Find(&subs).Error; err != nil {
		return nil, internal("could not list submissions", err)
	}
	titles, err := s.taskTitles(ctx, subs)
	if err != nil {
		return nil, err
	}

	views := make([]SubmissionView, 0, len(subs))
	for _, sub := range subs {
		views = append(views, newSubmissionView(sub, titles, nil))
	}

	return &VolunteerSubmissions{
		Submissions: views,
		Points:      volunteer.Points,
		Badge:       BadgeFor(volunteer.Points),
	}, nil
}

// NGOSubmissions lists submissions on the calling NGO's tasks.
func (s *Service) NGOSubmissions(ctx context.Context, caller auth.Identity) ([]SubmissionView, error) {
	if err := requireRole(caller, "Only NGOs can view submissions", models.RoleNGO); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	owned := db.Model(&models.Task{}).Select("id").Where("ngo_id = ?", caller.UserID)

	var subs []models.Submission
	err := db.Where("task_id IN (?)", owned).
		Order("id").
		Find(&subs).Error
	if err != nil {
		return nil, internal("could not list submissions", err)
	}

	titles, err := s.taskTitles(ctx, subs)
	if err != nil {
		return nil, err
	}
	names, err := s.volunteerNames(ctx, subs)
	if err != nil {
		return nil, err
	}

	views := make([]SubmissionView, 0, len(subs))
	for _, sub := range subs {
		views = append(views, newSubmissionView(sub, titles, names))
	}
	return views, nil
}

// ReviewSubmission sets a submission's status. The first approval of a
// submission awards PointsPerApproval; landing exactly on a milestone issues a
// certificate in the same transaction, so a failed certificate rolls back the
// review and the award together.
func (s *Service) ReviewSubmission(ctx context.Context, caller auth.Identity, submissionID uint, status string) (*ReviewResult, error) {
	if err := requireRole(caller, "Only NGOs can review submissions", models.RoleNGO); err != nil {
		return nil, err
	}
	newStatus, err := models.ParseSubmissionStatus(status)
	if err != nil {
		return nil, validationError("status must be Pending, Approved or Rejected")
	}

	result := &ReviewResult{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sub models.Submission
		if err := tx.First(&sub, submissionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Submission not found")
			}
			return internal("database error", err)
		}

		var task models.Task
		if err := tx.First(&task, sub.TaskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return forbidden("Submission does not belong to your tasks")
			}
			return internal("database error", err)
		}
		if task.NGOID != caller.UserID {
			return forbidden("Submission does not belong to your tasks")
		}

		reviewedAt := s.now().UTC()
		err := tx.Model(&sub).Updates(map[string]interface{}{
			"status":      newStatus,
			"reviewed_by": caller.UserID,
			"reviewed_at": reviewedAt,
		}).Error
		if err != nil {
			return internal("could not update submission", err)
		}
		sub.Status = newStatus
		sub.ReviewedBy = &caller.UserID
		sub.ReviewedAt = &reviewedAt

		if newStatus == models.StatusApproved {
			if err := s.award(ctx, tx, &sub, result); err != nil {
				return err
			}
		}

		result.Submission = sub
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"submission_id": submissionID,
		"status":        newStatus,
		"reviewer_id":   caller.UserID,
		"points":        result.PointsAwarded,
	}).Info("submission reviewed")

	if result.PointsAwarded > 0 {
		s.publishLeaderboard(ctx)
	}
	return result, nil
}

// award grants the approval points once per submission and issues a
// certificate when the new total is a milestone.
func (s *Service) award(ctx context.Context, tx *gorm.DB, sub *models.Submission, result *ReviewResult) error {
	flip := tx.Model(&models.Submission{}).
		Where("id = ? AND points_awarded = ?", sub.ID, false).
		Update("points_awarded", true)
	if flip.Error != nil {
		return internal("could not update submission", flip.Error)
	}
	if flip.RowsAffected == 0 {
		return nil
	}
	sub.PointsAwarded = true

	inc := tx.Model(&models.User{}).
		Where("id = ? AND role = ?", sub.VolunteerID, models.RoleVolunteer).
		Update("points", gorm.Expr("points + ?", PointsPerApproval))
	if inc.Error != nil {
		return internal("could not award points", inc.Error)
	}
	if inc.RowsAffected == 0 {
		return notFound("Volunteer not found")
	}

	volunteer, err := loadUser(ctx, tx, sub.VolunteerID, "Volunteer not found")
	if err != nil {
		return err
	}
	result.PointsAwarded = PointsPerApproval
	result.Points = volunteer.Points

	if !certificates.IsMilestone(volunteer.Points) {
		return nil
	}
	cert, err := s.issuer.Issue(ctx, tx, volunteer)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"submission_id": sub.ID,
			"volunteer_id":  volunteer.ID,
			"points":        volunteer.Points,
		}).Error("certificate issuance failed, rolling back review")
		return renderFailure(err)
	}
	result.Certificate = cert
	return nil
}

func (s *Service) taskTitles(ctx context.Context, subs []models.Submission) (map[uint]string, error) {
	ids := make([]uint, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.TaskID)
	}
	titles := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}

	var tasks []models.Task
	if err := s.db.WithContext(ctx).Select("id", "title").Where("id IN ?", ids).Find(&tasks).Error; err != nil {
		return nil, internal("could not load tasks", err)
	}
	for _, t := range tasks {
		titles[t.ID] = t.Title
	}
	return titles, nil
}

func (s *Service) volunteerNames(ctx context.Context, subs []models.Submission) (map[uint]string, error) {
	ids := make([]uint, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.VolunteerID)
	}
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Select("id", "name").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, internal("could not load volunteers", err)
	}
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names, nil
}

func newSubmissionView(sub models.Submission, titles, names map[uint]string) SubmissionView {
	view := SubmissionView{
		SubmissionID: sub.ID,
		TaskID:       sub.TaskID,
		TaskTitle:    deletedTask,
		ProofURL:     sub.ProofURL,
		Status:       sub.Status,
		ReviewedBy:   sub.ReviewedBy,
		ReviewedAt:   sub.ReviewedAt,
		SubmittedAt:  sub.CreatedAt,
	}
	if title, ok := titles[sub.TaskID]; ok {
		view.TaskTitle = title
	}
	if names != nil {
		view.VolunteerName = unknownVolunteer
		if name, ok := names[sub.VolunteerID]; ok {
			view.VolunteerName = name
		}
	}
	return view
}
