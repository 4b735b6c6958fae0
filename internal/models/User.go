package models

import (
	"errors"
	"strings"
	"time"
)

// Role is the closed set of account kinds.
type Role string

const (
	RoleVolunteer Role = "volunteer"
	RoleNGO       Role = "ngo"
	RoleAdmin     Role = "admin"
)

var ErrInvalidRole = errors.New("invalid role")

// ParseRole normalizes input into a Role. Empty input means volunteer.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoleVolunteer:
		return RoleVolunteer, nil
	case RoleNGO:
		return RoleNGO, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", ErrInvalidRole
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleVolunteer, RoleNGO, RoleAdmin:
		return true
	default:
		return false
	}
}

// VerifiedOnSignup is the initial verified flag: NGOs wait for an admin.
func (r Role) VerifiedOnSignup() bool {
	switch r {
	case RoleNGO:
		return false
	case RoleVolunteer, RoleAdmin:
		return true
	default:
		return false
	}
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `gorm:"not null;default:''" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Contact      string    `json:"contact"`
	Verified     bool      `gorm:"not null;default:false" json:"verified"`

	// Volunteer-specific
	Points int   `gorm:"not null;default:0;index" json:"points"`
	NGOID  *uint `gorm:"column:ngo_id;index" json:"ngo_id,omitempty"`
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
