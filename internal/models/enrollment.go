package models

import (
	"strings"
	"time"
)

// Enrollment status values. There is no stored "not enrolled" state; the
// absence of a row is what not-enrolled means.
const (
	EnrollmentPending  = "pending"
	EnrollmentApproved = "approved"
	EnrollmentRejected = "rejected"
)

// Enrollment is a student's request for paid access to a course, backed by a
// manually reviewed payment proof.
type Enrollment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"index:idx_enrollment_user_course;not null" json:"user_id"`
	CourseID        uint      `gorm:"index:idx_enrollment_user_course;not null" json:"course_id"`
	Phone           string    `gorm:"size:32;not null" json:"phone"`
	Status          string    `gorm:"size:32;default:'pending'" json:"status"`
	RejectReason    string    `gorm:"size:512" json:"reject_reason"`
	PaymentProofURL string    `gorm:"size:512;not null" json:"payment_proof_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NormalizeEnrollmentStatus coerces stored status values to the known set.
func NormalizeEnrollmentStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case EnrollmentApproved, "active":
		return EnrollmentApproved
	case EnrollmentRejected:
		return EnrollmentRejected
	default:
		return EnrollmentPending
	}
}
