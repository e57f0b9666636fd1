package models

import "time"

// LessonProgress is the durable per-learner progress record for one lesson.
// LessonKey is the kind-prefixed lesson identifier produced by the content
// builder ("video:3", "pdf:7", "quiz:2").
type LessonProgress struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	UserID       uint    `gorm:"uniqueIndex:idx_progress_user_course_lesson;not null" json:"user_id"`
	CourseID     uint    `gorm:"uniqueIndex:idx_progress_user_course_lesson;not null" json:"course_id"`
	LessonKey    string  `gorm:"uniqueIndex:idx_progress_user_course_lesson;size:64;not null" json:"lesson_key"`
	Completed    bool    `json:"completed"`
	VideoSeconds float64 `json:"video_seconds"`
	QuizScore    *int    `json:"quiz_score"`
	UpdatedAt    time.Time `json:"updated_at"`
	CreatedAt    time.Time `json:"created_at"`
}
