package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/crest-online/crest-api/internal/models"
)

// CourseFilter narrows course listings.
type CourseFilter struct {
	Search        string
	Grade         string
	Education     string
	PublishedOnly bool
}

// CourseRepository persists courses and their nested assets.
type CourseRepository interface {
	List(ctx context.Context, filter CourseFilter) ([]models.Course, error)
	GetByID(ctx context.Context, id uint) (models.Course, error)
	GetWithContent(ctx context.Context, id uint) (models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) error
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository constructs a course repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) List(ctx context.Context, filter CourseFilter) ([]models.Course, error) {
	query := r.db.WithContext(ctx).Model(&models.Course{}).
		Preload("Videos").Preload("PDFs").Preload("Quizzes")

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filter.Grade != "" {
		query = query.Where("grade = ?", filter.Grade)
	}
	if filter.Education != "" {
		query = query.Where("education = ?", filter.Education)
	}
	if filter.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var courses []models.Course
	if err := query.Order("updated_at DESC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).
		Preload("Videos").Preload("PDFs").Preload("Quizzes").
		First(&course, id).Error
	return course, err
}

// GetWithContent loads the course with each asset collection in authored
// sequence, ready for the lesson builder.
func (r *courseRepository) GetWithContent(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).
		Preload("Videos", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("PDFs", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Quizzes", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&course, id).Error
	return course, err
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

// Update replaces the course row and its full asset set. The payload carries
// the complete authored collections, so assets missing from it are removed
// rather than left attached.
func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.CourseVideo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.CoursePDF{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.CourseQuiz{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(course).Error
	})
}

func (r *courseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Course{}, id).Error
}
