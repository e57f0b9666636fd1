package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/crest-online/crest-api/internal/config"
	"github.com/crest-online/crest-api/internal/dto"
	"github.com/crest-online/crest-api/internal/handler"
	"github.com/crest-online/crest-api/internal/middleware"
	"github.com/crest-online/crest-api/internal/models"
	"github.com/crest-online/crest-api/internal/repository"
	"github.com/crest-online/crest-api/internal/router"
	"github.com/crest-online/crest-api/internal/service"
)

type integrationStorage struct{}

func (integrationStorage) Upload(_ context.Context, folder, name string, _ io.Reader) (string, error) {
	return "https://files.test/" + folder + "/" + name, nil
}

type integrationMailer struct{}

func (integrationMailer) SendEnrollmentReceipt(string, string, string)                 {}
func (integrationMailer) SendEnrollmentNotice(string, string, string, string)          {}
func (integrationMailer) SendEnrollmentDecision(string, string, string, string, string) {}

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Teacher{},
		&models.Course{}, &models.CourseVideo{}, &models.CoursePDF{}, &models.CourseQuiz{},
		&models.Enrollment{}, &models.LessonProgress{},
	))

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	userRepo := repository.NewUserRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	courseService := service.NewCourseService(courseRepo, enrollmentRepo, cache, time.Minute, validate, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, userRepo, integrationStorage{}, integrationMailer{}, nil, validate, logger)
	sessionService := service.NewSessionService(courseRepo, enrollmentRepo, progressRepo, logger)
	teacherService := service.NewTeacherService(teacherRepo, validate, logger)
	statsService := service.NewStatsService(statsRepo, logger)

	app := fiber.New()
	middleware.Register(app, middleware.Config{Logger: &logger})

	router.Register(app, config.Config{AppName: "Test", JWTSecret: "secret"}, router.Dependencies{
		CourseHandler:          handler.NewCourseHandler(courseService, logger),
		TeacherHandler:         handler.NewTeacherHandler(teacherService, logger),
		EnrollmentHandler:      handler.NewEnrollmentHandler(enrollmentService, logger),
		SessionHandler:         handler.NewSessionHandler(sessionService, logger),
		AdminCourseHandler:     handler.NewAdminCourseHandler(courseService, logger),
		AdminTeacherHandler:    handler.NewAdminTeacherHandler(teacherService, logger),
		AdminEnrollmentHandler: handler.NewAdminEnrollmentHandler(enrollmentService, logger),
		AdminStatsHandler:      handler.NewAdminStatsHandler(statsService, logger),
		JWTMiddleware: func(c *fiber.Ctx) error {
			if strings.HasPrefix(c.Path(), "/api/v1/admin") {
				c.Locals("user_id", uint(9001))
				c.Locals("user_role", "admin")
			} else {
				c.Locals("user_id", uint(1))
				c.Locals("user_role", "student")
			}
			return c.Next()
		},
	})

	return app, db
}

func decode[T any](t *testing.T, resp *http.Response, target *T) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, target))
}

func jsonRequest(t *testing.T, method, target string, payload interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestEnrollmentEndToEndFlow(t *testing.T) {
	app, db := setupApp(t)

	student := models.User{ID: 1, FullName: "Sara", Email: "sara@example.com", PasswordHash: "x", Role: models.RoleStudent}
	require.NoError(t, db.Create(&student).Error)

	// Step 1: admin authors a published course with one of each lesson kind.
	createReq := jsonRequest(t, http.MethodPost, "/api/v1/admin/courses/", dto.CourseCreateRequest{
		Title:       "Algebra Basics",
		Description: "Fractions and first equations.",
		Price:       1500,
		IsPublished: true,
		Videos:      []dto.CourseVideoInput{{Title: "Welcome", Order: 1, VideoURL: "https://cdn.example.com/welcome.mp4"}},
		PDFs:        []dto.CoursePDFInput{{Title: "Worksheet", Order: 2, PDFURL: "https://cdn.example.com/worksheet.pdf"}},
		Quizzes: []dto.CourseQuizInput{{
			Title: "Checkpoint",
			Order: 3,
			Questions: []dto.QuizQuestionInput{
				{Question: "2 + 2 = ?", Options: []string{"3", "4", "5"}, CorrectAnswer: "4"},
			},
		}},
	})
	createResp, err := app.Test(createReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, createResp.StatusCode)

	var created struct {
		Success bool                      `json:"success"`
		Data    dto.CourseSummaryResponse `json:"data"`
	}
	decode(t, createResp, &created)
	require.True(t, created.Success)
	courseID := created.Data.ID
	contentPath := fmt.Sprintf("/api/v1/courses/%d/content", courseID)

	// Step 2: content is gated before any enrollment exists.
	deniedResp, err := app.Test(httptest.NewRequest(http.MethodGet, contentPath, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, deniedResp.StatusCode)

	// Step 3: student files a payment proof.
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	require.NoError(t, writer.WriteField("phone", "01012345678"))
	file, err := writer.CreateFormFile("proof", "receipt.png")
	require.NoError(t, err)
	_, err = file.Write([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	enrollReq := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/courses/%d/enroll", courseID), buf)
	enrollReq.Header.Set("Content-Type", writer.FormDataContentType())
	enrollResp, err := app.Test(enrollReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, enrollResp.StatusCode)

	var submitted struct {
		Success bool                         `json:"success"`
		Data    dto.EnrollmentSubmitResponse `json:"data"`
	}
	decode(t, enrollResp, &submitted)
	require.True(t, submitted.Success)
	require.Equal(t, models.EnrollmentPending, submitted.Data.Status)

	// Content stays gated while the proof is under review.
	pendingResp, err := app.Test(httptest.NewRequest(http.MethodGet, contentPath, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, pendingResp.StatusCode)

	// Step 4: admin approves.
	decideResp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/admin/enrollments/decide", dto.EnrollmentDecisionRequest{
		EnrollmentID: submitted.Data.EnrollmentID,
		Status:       models.EnrollmentApproved,
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, decideResp.StatusCode)

	// Step 5: content opens up with the flattened lesson sequence.
	contentResp, err := app.Test(httptest.NewRequest(http.MethodGet, contentPath, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, contentResp.StatusCode)

	var content struct {
		Success bool                      `json:"success"`
		Data    dto.CourseContentResponse `json:"data"`
	}
	decode(t, contentResp, &content)
	require.True(t, content.Success)
	require.Len(t, content.Data.Lessons, 3)
	require.Equal(t, "video", content.Data.Lessons[0].Type)
	videoLessonID := content.Data.Lessons[0].ID

	// Step 6: student opens a session and finishes the first video.
	sessionPath := fmt.Sprintf("/api/v1/courses/%d/session/", courseID)
	openResp, err := app.Test(httptest.NewRequest(http.MethodPost, sessionPath, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, openResp.StatusCode)

	var opened struct {
		Success bool             `json:"success"`
		Data    dto.SessionState `json:"data"`
	}
	decode(t, openResp, &opened)
	require.True(t, opened.Success)
	require.Equal(t, videoLessonID, opened.Data.CurrentLessonID)
	require.Equal(t, 3, opened.Data.TotalLessons)

	endedResp, err := app.Test(jsonRequest(t, http.MethodPost, sessionPath+"video/ended", dto.VideoEventRequest{
		Rev:      opened.Data.Rev,
		LessonID: videoLessonID,
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, endedResp.StatusCode)

	var afterEnded struct {
		Success bool             `json:"success"`
		Data    dto.SessionState `json:"data"`
	}
	decode(t, endedResp, &afterEnded)
	require.True(t, afterEnded.Data.Progress[videoLessonID].Completed)
	require.Equal(t, 33, afterEnded.Data.CompletionPercent)

	// The completion also lands in the durable progress table.
	var row models.LessonProgress
	require.NoError(t, db.Where("user_id = ? AND course_id = ? AND lesson_key = ?", 1, courseID, videoLessonID).First(&row).Error)
	require.True(t, row.Completed)
}
