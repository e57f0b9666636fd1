package performance_test

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/crest-online/crest-api/internal/handler"
	"github.com/crest-online/crest-api/internal/models"
	"github.com/crest-online/crest-api/internal/repository"
	"github.com/crest-online/crest-api/internal/service"
)

func setupContentPerformanceApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Course{}, &models.CourseVideo{}, &models.CoursePDF{}, &models.CourseQuiz{},
		&models.Enrollment{},
	))

	course := models.Course{Title: "Algebra Basics", IsPublished: true}
	for i := 1; i <= 20; i++ {
		course.Videos = append(course.Videos, models.CourseVideo{
			Title:    fmt.Sprintf("Lecture %d", i),
			Order:    i,
			VideoURL: fmt.Sprintf("https://cdn.example.com/lecture-%d.mp4", i),
		})
		course.PDFs = append(course.PDFs, models.CoursePDF{
			Title:  fmt.Sprintf("Notes %d", i),
			Order:  i,
			PDFURL: fmt.Sprintf("https://cdn.example.com/notes-%d.pdf", i),
		})
	}
	require.NoError(t, db.Create(&course).Error)
	require.NoError(t, db.Create(&models.Enrollment{
		UserID:          1,
		CourseID:        course.ID,
		Phone:           "01012345678",
		Status:          models.EnrollmentApproved,
		PaymentProofURL: "https://files.test/proof.png",
	}).Error)

	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	validate := validator.New(validator.WithRequiredStructEnabled())
	courseService := service.NewCourseService(courseRepo, enrollmentRepo, nil, 0, validate, zerolog.Nop())
	courseHandler := handler.NewCourseHandler(courseService, zerolog.Nop())

	app := fiber.New()
	courseHandler.Register(app.Group("/api/v1/courses", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(1))
		return c.Next()
	}))

	return app
}

func TestCourseContentP95LatencyBelow250ms(t *testing.T) {
	app := setupContentPerformanceApp(t)

	runs := 40
	durations := make([]time.Duration, 0, runs)

	for i := 0; i < runs; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/courses/1/content", nil)
		start := time.Now()
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		durations = append(durations, time.Since(start))
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	index := int(math.Ceil(0.95*float64(len(durations)))) - 1
	if index < 0 {
		index = 0
	}
	p95 := durations[index]

	require.LessOrEqual(t, p95, 250*time.Millisecond)
}
