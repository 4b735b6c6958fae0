// Package services implements the volunteer workflow on top of gorm. Every
// operation checks the caller's role itself.
package services

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"sevasetu/internal/auth"
	"sevasetu/internal/certificates"
	"sevasetu/internal/models"
)

// PointsPerApproval is awarded the first time a submission is approved.
const PointsPerApproval = 10

// LeaderboardSize caps the leaderboard.
const LeaderboardSize = 10

// LeaderboardPublisher is told about the new standings after an approval commits.
type LeaderboardPublisher interface {
	PublishLeaderboard(entries []LeaderboardEntry)
}

// CertificateIssuer issues milestone certificates inside a transaction and
// opens their stored documents.
type CertificateIssuer interface {
	Issue(ctx context.Context, tx *gorm.DB, volunteer *models.User) (*models.Certificate, error)
	Open(ctx context.Context, cert *models.Certificate) (io.ReadCloser, error)
}

type Options struct {
	AllowAdminSignup bool
	Publisher        LeaderboardPublisher
	Logger           *logrus.Logger
}

type Service struct {
	db               *gorm.DB
	tokens           *auth.TokenService
	issuer           CertificateIssuer
	publisher        LeaderboardPublisher
	logger           *logrus.Logger
	allowAdminSignup bool
	now              func() time.Time
}

func New(db *gorm.DB, tokens *auth.TokenService, issuer CertificateIssuer, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		db:               db,
		tokens:           tokens,
		issuer:           issuer,
		publisher:        opts.Publisher,
		logger:           logger,
		allowAdminSignup: opts.AllowAdminSignup,
		now:              time.Now,
	}
}

func requireRole(caller auth.Identity, msg string, roles ...models.Role) error {
	for _, r := range roles {
		if caller.Role == r {
			return nil
		}
	}
	return forbidden(msg)
}

// loadUser reads a user by id, mapping a missing row to NotFound with msg.
func loadUser(ctx context.Context, db *gorm.DB, id uint, msg string) (*models.User, error) {
	var user models.User
	if err := db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(msg)
		}
		return nil, internal("database error", err)
	}
	return &user, nil
}

// loadCaller reads the caller's row, requiring it to still hold the token's
// role. A deleted or re-roled account is NotFound.
func loadCaller(ctx context.Context, db *gorm.DB, caller auth.Identity) (*models.User, error) {
	var user models.User
	err := db.WithContext(ctx).
		Where("id = ? AND role = ?", caller.UserID, caller.Role).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("User not found")
		}
		return nil, internal("database error", err)
	}
	return &user, nil
}

var _ CertificateIssuer = (*certificates.Issuer)(nil)
