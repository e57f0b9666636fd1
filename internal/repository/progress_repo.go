package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/crest-online/crest-api/internal/models"
)

// ProgressRepository persists durable per-lesson progress.
type ProgressRepository interface {
	ListByUserAndCourse(ctx context.Context, userID, courseID uint) ([]models.LessonProgress, error)
	Upsert(ctx context.Context, record *models.LessonProgress) error
}

type progressRepository struct {
	db *gorm.DB
}

// NewProgressRepository constructs a progress repository.
func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) ListByUserAndCourse(ctx context.Context, userID, courseID uint) ([]models.LessonProgress, error) {
	var records []models.LessonProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Find(&records).Error
	return records, err
}

// Upsert writes the record keyed by user+course+lesson, overwriting the
// tracked fields on conflict.
func (r *progressRepository) Upsert(ctx context.Context, record *models.LessonProgress) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "course_id"}, {Name: "lesson_key"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"completed", "video_seconds", "quiz_score", "updated_at"}),
	}).Create(record).Error
}
