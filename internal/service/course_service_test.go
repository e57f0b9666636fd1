package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/crest-online/crest-api/internal/dto"
	"github.com/crest-online/crest-api/internal/models"
	"github.com/crest-online/crest-api/internal/repository"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Teacher{},
		&models.Course{},
		&models.CourseVideo{},
		&models.CoursePDF{},
		&models.CourseQuiz{},
		&models.Enrollment{},
		&models.LessonProgress{},
	))
	return db
}

func seedCourse(t *testing.T, db *gorm.DB) models.Course {
	t.Helper()
	course := models.Course{
		Title:       "Algebra Basics",
		Description: "Linear equations from scratch",
		IsPublished: true,
		Videos: []models.CourseVideo{
			{Title: "Welcome", Order: 1, VideoURL: "https://cdn.example.com/welcome.mp4"},
		},
		PDFs: []models.CoursePDF{
			{Title: "Workbook", Order: 2, PDFURL: "https://cdn.example.com/workbook.pdf"},
		},
		Quizzes: []models.CourseQuiz{
			{
				Title: "Checkpoint",
				Order: 3,
				Questions: []models.QuizQuestionSource{
					{
						Question:      "2 + 2 = ?",
						Options:       []string{"3", "4", "5"},
						CorrectAnswer: "4",
					},
				},
			},
		},
	}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func approve(t *testing.T, db *gorm.DB, userID, courseID uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.Enrollment{
		UserID:          userID,
		CourseID:        courseID,
		Phone:           "01012345678",
		Status:          models.EnrollmentApproved,
		PaymentProofURL: "https://cdn.example.com/proof.png",
	}).Error)
}

func newCourseService(t *testing.T, db *gorm.DB, cache *redis.Client) CourseService {
	t.Helper()
	return NewCourseService(
		repository.NewCourseRepository(db),
		repository.NewEnrollmentRepository(db),
		cache,
		time.Minute,
		validator.New(validator.WithRequiredStructEnabled()),
		zerolog.Nop(),
	)
}

func TestCourseServiceContentRequiresApprovedEnrollment(t *testing.T) {
	db := openTestDB(t)
	course := seedCourse(t, db)
	svc := newCourseService(t, db, nil)

	_, err := svc.Content(context.Background(), course.ID, 0)
	require.ErrorIs(t, err, ErrEnrollmentRequired)

	_, err = svc.Content(context.Background(), course.ID, 7)
	require.ErrorIs(t, err, ErrEnrollmentRequired)

	require.NoError(t, db.Create(&models.Enrollment{
		UserID: 7, CourseID: course.ID, Phone: "01012345678",
		Status: models.EnrollmentPending, PaymentProofURL: "x",
	}).Error)
	_, err = svc.Content(context.Background(), course.ID, 7)
	require.ErrorIs(t, err, ErrEnrollmentRequired)

	approve(t, db, 8, course.ID)
	payload, err := svc.Content(context.Background(), course.ID, 8)
	require.NoError(t, err)
	require.Equal(t, course.ID, payload.CourseID)
	require.Len(t, payload.Lessons, 3)
}

func TestCourseServiceContentLessonOrderAndShape(t *testing.T) {
	db := openTestDB(t)
	course := seedCourse(t, db)
	approve(t, db, 1, course.ID)
	svc := newCourseService(t, db, nil)

	payload, err := svc.Content(context.Background(), course.ID, 1)
	require.NoError(t, err)

	require.Equal(t, "video", payload.Lessons[0].Type)
	require.Equal(t, "pdf", payload.Lessons[1].Type)
	require.Equal(t, "quiz", payload.Lessons[2].Type)
	require.NotEmpty(t, payload.Lessons[0].URL)
	require.Empty(t, payload.Lessons[2].URL)

	quiz := payload.Lessons[2]
	require.Len(t, quiz.Questions, 1)
	require.Len(t, quiz.Questions[0].Options, 3)
	// Option ids are positional; nothing on the wire says which is correct.
	require.Equal(t, "0", quiz.Questions[0].Options[0].ID)
	require.Equal(t, "4", quiz.Questions[0].Options[1].Text)
}

func TestCourseServiceContentCaches(t *testing.T) {
	db := openTestDB(t)
	course := seedCourse(t, db)
	approve(t, db, 1, course.ID)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	svc := newCourseService(t, db, cache)

	_, err = svc.Content(context.Background(), course.ID, 1)
	require.NoError(t, err)
	require.True(t, mr.Exists(contentCacheKey(course.ID)))

	cached, err := svc.Content(context.Background(), course.ID, 1)
	require.NoError(t, err)
	require.Len(t, cached.Lessons, 3)
}

func TestCourseServiceUpdateInvalidatesContentCache(t *testing.T) {
	db := openTestDB(t)
	course := seedCourse(t, db)
	approve(t, db, 1, course.ID)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	svc := newCourseService(t, db, cache)

	_, err = svc.Content(context.Background(), course.ID, 1)
	require.NoError(t, err)
	require.True(t, mr.Exists(contentCacheKey(course.ID)))

	_, err = svc.Update(context.Background(), course.ID, dto.CourseCreateRequest{
		Title:       "Algebra Basics v2",
		IsPublished: true,
	})
	require.NoError(t, err)
	require.False(t, mr.Exists(contentCacheKey(course.ID)))
}

func TestCourseServiceUpdateReplacesLessonSet(t *testing.T) {
	db := openTestDB(t)
	course := seedCourse(t, db)
	approve(t, db, 1, course.ID)

	svc := newCourseService(t, db, nil)

	before, err := svc.Content(context.Background(), course.ID, 1)
	require.NoError(t, err)
	require.Len(t, before.Lessons, 3)

	// The update payload is the complete authored set: dropped assets must
	// disappear from the content sequence, not linger beside the new ones.
	_, err = svc.Update(context.Background(), course.ID, dto.CourseCreateRequest{
		Title:       "Algebra Basics v2",
		IsPublished: true,
		Videos: []dto.CourseVideoInput{
			{Title: "Fresh Start", Order: 1, VideoURL: "https://cdn.example.com/fresh.mp4"},
		},
	})
	require.NoError(t, err)

	after, err := svc.Content(context.Background(), course.ID, 1)
	require.NoError(t, err)
	require.Len(t, after.Lessons, 1)
	require.Equal(t, "Fresh Start", after.Lessons[0].Title)

	var pdfCount, quizCount int64
	require.NoError(t, db.Model(&models.CoursePDF{}).Where("course_id = ?", course.ID).Count(&pdfCount).Error)
	require.NoError(t, db.Model(&models.CourseQuiz{}).Where("course_id = ?", course.ID).Count(&quizCount).Error)
	require.Zero(t, pdfCount)
	require.Zero(t, quizCount)
}

func TestCourseServiceCreateSanitizesDescription(t *testing.T) {
	db := openTestDB(t)
	svc := newCourseService(t, db, nil)

	created, err := svc.Create(context.Background(), dto.CourseCreateRequest{
		Title:       "Geometry",
		Description: `<p>Angles</p><script>alert("x")</script>`,
		IsPublished: true,
	})
	require.NoError(t, err)
	require.Contains(t, created.Description, "Angles")
	require.NotContains(t, created.Description, "<script>")
}

func TestCourseServiceListPublishedOnly(t *testing.T) {
	db := openTestDB(t)
	seedCourse(t, db)
	require.NoError(t, db.Create(&models.Course{Title: "Draft", IsPublished: false}).Error)

	svc := newCourseService(t, db, nil)

	public, err := svc.List(context.Background(), dto.CourseListRequest{})
	require.NoError(t, err)
	require.Len(t, public, 1)

	admin, err := svc.List(context.Background(), dto.CourseListRequest{IncludeUnpublished: true})
	require.NoError(t, err)
	require.Len(t, admin, 2)
}
