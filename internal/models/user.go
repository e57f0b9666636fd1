package models

import (
	"strings"
	"time"
)

// User role constants.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// User represents a learner or staff account.
type User struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	FullName        string    `gorm:"size:255;not null" json:"full_name"`
	Email           string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash    string    `gorm:"size:255;not null" json:"-"`
	Grade           string    `gorm:"size:32" json:"grade"`
	Education       string    `gorm:"size:32" json:"education"`
	Role            string    `gorm:"size:32;default:'student'" json:"role"`
	MotivationOptIn bool      `gorm:"default:true" json:"motivation_opt_in"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NormalizeRole coerces arbitrary role input to one of the known roles.
func NormalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleAdmin:
		return RoleAdmin
	case RoleTeacher:
		return RoleTeacher
	default:
		return RoleStudent
	}
}
