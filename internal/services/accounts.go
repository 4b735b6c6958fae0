package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"sevasetu/internal/auth"
	"sevasetu/internal/config"
	"sevasetu/internal/models"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	City     string
	State    string
	Contact  string
}

// Session is a user together with a freshly issued token.
type Session struct {
	Token string
	User  models.User
}

// Register creates an account and signs the new user in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email := models.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, validationError("Email and password required")
	}
	role, err := models.ParseRole(in.Role)
	if err != nil {
		return nil, validationError(fmt.Sprintf("invalid role %q", in.Role))
	}
	if role == models.RoleAdmin && !s.allowAdminSignup {
		return nil, forbidden("admin accounts cannot be self-registered")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, internal("database error", err)
	}
	if count > 0 {
		return nil, conflict("User already exists")
	}

	user, err := s.createUser(ctx, s.db, email, in.Password, role, in)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, internal("could not generate token", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("user registered")

	return &Session{Token: token, User: *user}, nil
}

// CreateAdmin provisions an admin account regardless of the signup policy.
func (s *Service) CreateAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, validationError("Email and password required")
	}
	return s.createUser(ctx, s.db, email, password, models.RoleAdmin, RegisterInput{Name: name})
}

func (s *Service) createUser(ctx context.Context, db *gorm.DB, email, password string, role models.Role, in RegisterInput) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, internal("could not hash password", err)
	}

	user := models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		City:         in.City,
		State:        in.State,
		Contact:      in.Contact,
		Verified:     role.VerifiedOnSignup(),
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		if config.IsDuplicateKey(err) {
			return nil, conflict("User already exists")
		}
		return nil, internal("could not create user", err)
	}
	return &user, nil
}

// Login checks credentials. Unknown email and wrong password fail the same way.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, invalidCredentials()
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidCredentials()
		}
		return nil, internal("database error", err)
	}
	if err := auth.CheckPassword(password, user.PasswordHash); err != nil {
		return nil, invalidCredentials()
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, internal("could not generate token", err)
	}
	return &Session{Token: token, User: user}, nil
}

// Me returns the caller's stored profile.
func (s *Service) Me(ctx context.Context, caller auth.Identity) (*models.User, error) {
	return loadUser(ctx, s.db, caller.UserID, "User not found")
}

// JoinNGO sets the volunteer's membership to a verified NGO.
func (s *Service) JoinNGO(ctx context.Context, caller auth.Identity, ngoID uint) (*models.User, error) {
	if err := requireRole(caller, "Only volunteers can join NGOs", models.RoleVolunteer); err != nil {
		return nil, err
	}

	var ngo models.User
	err := s.db.WithContext(ctx).
		Where("id = ? AND role = ? AND verified = ?", ngoID, models.RoleNGO, true).
		First(&ngo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("NGO not found or not verified")
		}
		return nil, internal("database error", err)
	}

	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND role = ?", caller.UserID, models.RoleVolunteer).
		Update("ngo_id", ngo.ID)
	if res.Error != nil {
		return nil, internal("could not join NGO", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, notFound("User not found")
	}

	s.logger.WithFields(logrus.Fields{
		"volunteer_id": caller.UserID,
		"ngo_id":       ngo.ID,
	}).Info("volunteer joined NGO")

	return &ngo, nil
}
