package services

import (
	"context"
	"errors"
	"io"

	"gorm.io/gorm"

	"sevasetu/internal/auth"
	"sevasetu/internal/certificates"
	"sevasetu/internal/models"
)

// MyCertificates lists the calling volunteer's certificates, newest first.
func (s *Service) MyCertificates(ctx context.Context, caller auth.Identity) ([]models.Certificate, error) {
	if err := requireRole(caller, "Only volunteers can view certificates", models.RoleVolunteer); err != nil {
		return nil, err
	}

	certs := []models.Certificate{}
	err := s.db.WithContext(ctx).
		Where("volunteer_id = ?", caller.UserID).
		Order("issued_at DESC, id DESC").
		Find(&certs).Error
	if err != nil {
		return nil, internal("could not list certificates", err)
	}
	return certs, nil
}

// OpenCertificate returns a certificate and its document. Only the owning
// volunteer or an admin may download it. The caller closes the reader.
func (s *Service) OpenCertificate(ctx context.Context, caller auth.Identity, certID uint) (*models.Certificate, io.ReadCloser, error) {
	if err := requireRole(caller, "Not allowed to download this certificate", models.RoleVolunteer, models.RoleAdmin); err != nil {
		return nil, nil, err
	}

	var cert models.Certificate
	if err := s.db.WithContext(ctx).First(&cert, certID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, notFound("Certificate not found")
		}
		return nil, nil, internal("database error", err)
	}
	if caller.Role == models.RoleVolunteer && cert.VolunteerID != caller.UserID {
		return nil, nil, forbidden("Not allowed to download this certificate")
	}

	doc, err := s.issuer.Open(ctx, &cert)
	if err != nil {
		if errors.Is(err, certificates.ErrNotStored) {
			return nil, nil, notFound("Certificate file not found")
		}
		return nil, nil, internal("could not open certificate", err)
	}
	return &cert, doc, nil
}
