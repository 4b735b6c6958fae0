package models

import "time"

// Task is a unit of volunteer work posted by an NGO.
type Task struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	NGOID       uint      `gorm:"column:ngo_id;not null;index" json:"ngo_id"`
	Title       string    `json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Location    string    `json:"location"`
	Remote      bool      `gorm:"not null;default:false" json:"remote"`
	Category    string    `json:"category"`
	Guidelines  string    `gorm:"type:text" json:"guidelines"`
}
