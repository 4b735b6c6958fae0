package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"sevasetu/internal/auth"
	"sevasetu/internal/models"
)

type TaskInput struct {
	Title       string
	Description string
	Location    string
	Remote      bool
	Category    string
	Guidelines  string
}

// CreateTask posts a task owned by the calling NGO. Missing fields are stored empty.
func (s *Service) CreateTask(ctx context.Context, caller auth.Identity, in TaskInput) (*models.Task, error) {
	if err := requireRole(caller, "Only NGOs can post tasks", models.RoleNGO); err != nil {
		return nil, err
	}

	task := models.Task{
		NGOID:       caller.UserID,
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Remote:      in.Remote,
		Category:    in.Category,
		Guidelines:  in.Guidelines,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadCaller(ctx, tx, caller); err != nil {
			return err
		}
		if err := tx.Create(&task).Error; err != nil {
			return internal("could not create task", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"task_id": task.ID,
		"ngo_id":  task.NGOID,
	}).Info("task created")
	return &task, nil
}

// ListTasks returns the tasks visible to the caller. A volunteer who has
// joined an NGO sees only that NGO's tasks; everyone else sees all of them.
// Membership is read from the stored user, not the token.
func (s *Service) ListTasks(ctx context.Context, caller auth.Identity) ([]models.Task, error) {
	query := s.db.WithContext(ctx).Order("id")

	if caller.Role == models.RoleVolunteer {
		user, err := loadUser(ctx, s.db, caller.UserID, "User not found")
		if err != nil {
			return nil, err
		}
		if user.NGOID != nil {
			query = query.Where("ngo_id = ?", *user.NGOID)
		}
	}

	tasks := []models.Task{}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, internal("could not list tasks", err)
	}
	return tasks, nil
}

// MyTasks returns the calling NGO's own tasks.
func (s *Service) MyTasks(ctx context.Context, caller auth.Identity) ([]models.Task, error) {
	if err := requireRole(caller, "Only NGOs can view their tasks", models.RoleNGO); err != nil {
		return nil, err
	}

	tasks := []models.Task{}
	if err := s.db.WithContext(ctx).Where("ngo_id = ?", caller.UserID).Order("id").Find(&tasks).Error; err != nil {
		return nil, internal("could not list tasks", err)
	}
	return tasks, nil
}
