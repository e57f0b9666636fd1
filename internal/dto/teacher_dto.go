package dto

import "time"

// TeacherCreateRequest is the admin payload for adding an instructor.
type TeacherCreateRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Job         string `json:"job" validate:"required"`
	Description string `json:"description" validate:"required"`
	AvatarURL   string `json:"avatar_url"`
}

// TeacherUpdateRequest patches an instructor profile; empty fields keep
// their stored values.
type TeacherUpdateRequest struct {
	Name        string `json:"name"`
	Job         string `json:"job"`
	Description string `json:"description"`
	AvatarURL   string `json:"avatar_url"`
}

// TeacherResponse is the public instructor profile.
type TeacherResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Job         string    `json:"job"`
	Description string    `json:"description"`
	AvatarURL   string    `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DashboardStats feeds the admin overview counters.
type DashboardStats struct {
	Courses             int64 `json:"courses"`
	PublishedCourses    int64 `json:"published_courses"`
	Teachers            int64 `json:"teachers"`
	Users               int64 `json:"users"`
	PendingEnrollments  int64 `json:"pending_enrollments"`
	ApprovedEnrollments int64 `json:"approved_enrollments"`
}
