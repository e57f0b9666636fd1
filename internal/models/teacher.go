package models

import "time"

// Teacher is the public profile of a course instructor.
type Teacher struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Job         string    `gorm:"size:255" json:"job"`
	Description string    `gorm:"type:text" json:"description"`
	AvatarURL   string    `gorm:"size:512" json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
