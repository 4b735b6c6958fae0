package services

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"sevasetu/internal/auth"
	"sevasetu/internal/models"
)

const adminOnly = "Admin only"

type NGOSummary struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	City     string `json:"city"`
	State    string `json:"state"`
	Verified bool   `json:"verified"`
}

type VolunteerSummary struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	City   string `json:"city"`
	State  string `json:"state"`
	Points int    `json:"points"`
}

// DeleteResult counts what a user deletion removed.
type DeleteResult struct {
	User               models.User
	TasksDeleted       int64
	SubmissionsDeleted int64
}

// VerifyNGO marks an NGO account as verified so volunteers can join it.
func (s *Service) VerifyNGO(ctx context.Context, caller auth.Identity, ngoID uint) (*models.User, error) {
	if err := requireRole(caller, adminOnly, models.RoleAdmin); err != nil {
		return nil, err
	}

	ngo, err := loadUser(ctx, s.db, ngoID, "NGO not found")
	if err != nil {
		return nil, err
	}
	if ngo.Role != models.RoleNGO {
		return nil, notFound("NGO not found")
	}

	if err := s.db.WithContext(ctx).Model(ngo).Update("verified", true).Error; err != nil {
		return nil, internal("could not verify NGO", err)
	}
	ngo.Verified = true
	s.logger.WithField("ngo_id", ngo.ID).Info("NGO verified")
	return ngo, nil
}

func (s *Service) ListNGOs(ctx context.Context, caller auth.Identity) ([]NGOSummary, error) {
	if err := requireRole(caller, adminOnly, models.RoleAdmin); err != nil {
		return nil, err
	}

	ngos := []NGOSummary{}
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Select("id", "name", "email", "city", "state", "verified").
		Where("role = ?", models.RoleNGO).
		Order("id").
		Scan(&ngos).Error
	if err != nil {
		return nil, internal("could not list NGOs", err)
	}
	return ngos, nil
}

func (s *Service) ListVolunteers(ctx context.Context, caller auth.Identity) ([]VolunteerSummary, error) {
	if err := requireRole(caller, adminOnly, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.volunteers(ctx)
}

func (s *Service) volunteers(ctx context.Context) ([]VolunteerSummary, error) {
	volunteers := []VolunteerSummary{}
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Select("id", "name", "email", "city", "state", "points").
		Where("role = ?", models.RoleVolunteer).
		Order("id").
		Scan(&volunteers).Error
	if err != nil {
		return nil, internal("could not list volunteers", err)
	}
	return volunteers, nil
}

// BlockUser clears the user's verified flag.
func (s *Service) BlockUser(ctx context.Context, caller auth.Identity, userID uint) (*models.User, error) {
	if err := requireRole(caller, adminOnly, models.RoleAdmin); err != nil {
		return nil, err
	}

	user, err := loadUser(ctx, s.db, userID, "User not found")
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("verified", false).Error; err != nil {
		return nil, internal("could not block user", err)
	}
	user.Verified = false
	s.logger.WithField("user_id", user.ID).Info("user blocked")
	return user, nil
}

// DeleteUser removes a user and everything that depends on it in one
// transaction. The user's tasks go, along with every submission on them and
// every submission the user made. Memberships and reviewer references that
// point at the user are cleared. Certificates are kept.
func (s *Service) DeleteUser(ctx context.Context, caller auth.Identity, userID uint) (*DeleteResult, error) {
	if err := requireRole(caller, adminOnly, models.RoleAdmin); err != nil {
		return nil, err
	}
	if userID == caller.UserID {
		return nil, forbidden("Admins cannot delete themselves")
	}

	result := &DeleteResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("User not found")
			}
			return internal("database error", err)
		}
		result.User = user

		ownTasks := tx.Model(&models.Task{}).Select("id").Where("ngo_id = ?", user.ID)
		subs := tx.Where("task_id IN (?) OR volunteer_id = ?", ownTasks, user.ID).Delete(&models.Submission{})
		if subs.Error != nil {
			return internal("could not delete submissions", subs.Error)
		}
		result.SubmissionsDeleted = subs.RowsAffected

		tasks := tx.Where("ngo_id = ?", user.ID).Delete(&models.Task{})
		if tasks.Error != nil {
			return internal("could not delete tasks", tasks.Error)
		}
		result.TasksDeleted = tasks.RowsAffected

		if err := tx.Model(&models.User{}).Where("ngo_id = ?", user.ID).Update("ngo_id", nil).Error; err != nil {
			return internal("could not clear memberships", err)
		}
		if err := tx.Model(&models.Submission{}).Where("reviewed_by = ?", user.ID).Update("reviewed_by", nil).Error; err != nil {
			return internal("could not clear reviewer references", err)
		}
		if err := tx.Delete(&models.User{}, user.ID).Error; err != nil {
			return internal("could not delete user", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":             result.User.ID,
		"role":                result.User.Role,
		"tasks_deleted":       result.TasksDeleted,
		"submissions_deleted": result.SubmissionsDeleted,
	}).Info("user deleted")
	return result, nil
}

// VolunteersCSVHeader is the first row of the volunteer export.
var VolunteersCSVHeader = []string{"ID", "Name", "Email", "City", "State", "Points"}

// ExportVolunteers writes every volunteer to w as CSV.
func (s *Service) ExportVolunteers(ctx context.Context, caller auth.Identity, w io.Writer) error {
	if err := requireRole(caller, adminOnly, models.RoleAdmin); err != nil {
		return err
	}

	volunteers, err := s.volunteers(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(VolunteersCSVHeader); err != nil {
		return internal("could not write export", err)
	}
	for _, v := range volunteers {
		row := []string{
			strconv.FormatUint(uint64(v.ID), 10),
			v.Name,
			v.Email,
			v.City,
			v.State,
			strconv.Itoa(v.Points),
		}
		if err := cw.Write(row); err != nil {
			return internal("could not write export", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return internal("could not write export", err)
	}
	return nil
}
