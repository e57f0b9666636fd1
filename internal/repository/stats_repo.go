package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/crest-online/crest-api/internal/dto"
	"github.com/crest-online/crest-api/internal/models"
)

// StatsRepository aggregates counters for the admin dashboard.
type StatsRepository interface {
	Dashboard(ctx context.Context) (dto.DashboardStats, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository constructs a stats repository.
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Dashboard(ctx context.Context) (dto.DashboardStats, error) {
	var stats dto.DashboardStats
	db := r.db.WithContext(ctx)

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.Courses, db.Model(&models.Course{})},
		{&stats.PublishedCourses, db.Model(&models.Course{}).Where("is_published = ?", true)},
		{&stats.Teachers, db.Model(&models.Teacher{})},
		{&stats.Users, db.Model(&models.User{})},
		{&stats.PendingEnrollments, db.Model(&models.Enrollment{}).Where("status = ?", models.EnrollmentPending)},
		{&stats.ApprovedEnrollments, db.Model(&models.Enrollment{}).Where("status = ?", models.EnrollmentApproved)},
	}

	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return dto.DashboardStats{}, err
		}
	}
	return stats, nil
}
