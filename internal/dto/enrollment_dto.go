package dto

import "time"

// EnrollmentStatusResponse reports a caller's standing for one course.
type EnrollmentStatusResponse struct {
	Enrolled     bool   `json:"enrolled"`
	Pending      bool   `json:"pending"`
	ShouldEnroll bool   `json:"should_enroll"`
	Status       string `json:"status"`
}

// EnrollmentSubmitResponse acknowledges a proof submission.
type EnrollmentSubmitResponse struct {
	EnrollmentID uint   `json:"enrollment_id"`
	Status       string `json:"status"`
}

// EnrollmentResponse is the admin queue view of one enrollment.
type EnrollmentResponse struct {
	ID              uint      `json:"id"`
	UserID          uint      `json:"user_id"`
	CourseID        uint      `json:"course_id"`
	Phone           string    `json:"phone"`
	Status          string    `json:"status"`
	RejectReason    string    `json:"reject_reason,omitempty"`
	PaymentProofURL string    `json:"payment_proof_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// EnrollmentDecisionRequest is the admin approve/reject payload.
type EnrollmentDecisionRequest struct {
	EnrollmentID uint   `json:"enrollment_id" validate:"required"`
	Status       string `json:"status" validate:"required,oneof=approved rejected"`
	Reason       string `json:"reason"`
}
