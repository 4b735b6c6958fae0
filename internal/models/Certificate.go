package models

import "time"

// Certificate records a rendered milestone document. Rows are never updated or deleted.
type Certificate struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	VolunteerID uint      `gorm:"not null;uniqueIndex:idx_certificate_milestone" json:"volunteer_id"`
	Points      int       `gorm:"not null;uniqueIndex:idx_certificate_milestone" json:"points"`
	Location    string    `gorm:"not null" json:"path"`
	IssuedAt    time.Time `gorm:"not null" json:"generated_at"`
}
