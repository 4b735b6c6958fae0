package certificates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"sevasetu/internal/models"
)

// Milestones are the point totals that earn a certificate.
var Milestones = []int{50, 100, 200}

// IsMilestone reports whether points lands exactly on a milestone.
func IsMilestone(points int) bool {
	for _, m := range Milestones {
		if points == m {
			return true
		}
	}
	return false
}

// FileName is the deterministic document name for a (volunteer, points) pair.
func FileName(volunteerID uint, points int) string {
	return fmt.Sprintf("%d_%d.pdf", volunteerID, points)
}

// RenderError wraps any failure to produce or record a certificate.
type RenderError struct {
	VolunteerID uint
	Points      int
	Err         error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("certificate for volunteer %d at %d points: %v", e.VolunteerID, e.Points, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Issuer renders, stores and records certificates.
type Issuer struct {
	renderer Renderer
	storage  Storage
	now      func() time.Time
	logger   *logrus.Logger
}

func NewIssuer(renderer Renderer, storage Storage, logger *logrus.Logger) *Issuer {
	return &Issuer{
		renderer: renderer,
		storage:  storage,
		now:      time.Now,
		logger:   logger,
	}
}

// Issue creates the certificate for the volunteer's current points using tx,
// so the row commits or rolls back with the caller's transaction. An existing
// certificate for the same points is returned unchanged.
func (i *Issuer) Issue(ctx context.Context, tx *gorm.DB, volunteer *models.User) (*models.Certificate, error) {
	var existing models.Certificate
	err := tx.WithContext(ctx).
		Where("volunteer_id = ? AND points = ?", volunteer.ID, volunteer.Points).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &RenderError{VolunteerID: volunteer.ID, Points: volunteer.Points, Err: err}
	}

	issuedAt := i.now().UTC()
	doc, err := i.renderer.Render(ctx, Data{
		VolunteerName: volunteer.Name,
		Points:        volunteer.Points,
		IssuedAt:      issuedAt,
	})
	if err != nil {
		return nil, &RenderError{VolunteerID: volunteer.ID, Points: volunteer.Points, Err: err}
	}

	location, err := i.storage.Save(ctx, FileName(volunteer.ID, volunteer.Points), doc)
	if err != nil {
		return nil, &RenderError{VolunteerID: volunteer.ID, Points: volunteer.Points, Err: err}
	}

	cert := models.Certificate{
		VolunteerID: volunteer.ID,
		Points:      volunteer.Points,
		Location:    location,
		IssuedAt:    issuedAt,
	}
	if err := tx.WithContext(ctx).Create(&cert).Error; err != nil {
		return nil, &RenderError{VolunteerID: volunteer.ID, Points: volunteer.Points, Err: err}
	}

	i.logger.WithFields(logrus.Fields{
		"volunteer_id":   volunteer.ID,
		"points":         volunteer.Points,
		"certificate_id": cert.ID,
		"location":       location,
	}).Info("certificate issued")

	return &cert, nil
}

// Open returns the stored document for a certificate.
func (i *Issuer) Open(ctx context.Context, cert *models.Certificate) (io.ReadCloser, error) {
	return i.storage.Open(ctx, cert.Location)
}
