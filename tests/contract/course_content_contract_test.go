package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/crest-online/crest-api/internal/dto"
	"github.com/crest-online/crest-api/internal/handler"
)

type stubCourseService struct {
	content dto.CourseContentResponse
}

func (s stubCourseService) List(context.Context, dto.CourseListRequest) ([]dto.CourseSummaryResponse, error) {
	return nil, nil
}

func (s stubCourseService) Get(context.Context, uint) (dto.CourseSummaryResponse, error) {
	return dto.CourseSummaryResponse{}, nil
}

func (s stubCourseService) Content(context.Context, uint, uint) (dto.CourseContentResponse, error) {
	return s.content, nil
}

func (s stubCourseService) Create(context.Context, dto.CourseCreateRequest) (dto.CourseSummaryResponse, error) {
	return dto.CourseSummaryResponse{}, nil
}

func (s stubCourseService) Update(context.Context, uint, dto.CourseCreateRequest) (dto.CourseSummaryResponse, error) {
	return dto.CourseSummaryResponse{}, nil
}

func (s stubCourseService) Delete(context.Context, uint) error { return nil }

func TestCourseContentContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "course_content.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	response := dto.CourseContentResponse{
		CourseID:    3,
		Title:       "Algebra Basics",
		Description: "Fractions and first equations.",
		Lessons: []dto.LessonPayload{
			{
				ID:    "video:1",
				Type:  "video",
				Title: "Welcome",
				Order: 1,
				URL:   "https://cdn.example.com/welcome.mp4",
			},
			{
				ID:    "pdf:2",
				Type:  "pdf",
				Title: "Worksheet",
				Order: 2,
				URL:   "https://cdn.example.com/worksheet.pdf",
			},
			{
				ID:    "quiz:3",
				Type:  "quiz",
				Title: "Checkpoint",
				Order: 3,
				Questions: []dto.QuizQuestionPayload{
					{
						Text: "2 + 2 = ?",
						Options: []dto.QuizOptionPayload{
							{ID: "0", Text: "3"},
							{ID: "1", Text: "4"},
							{ID: "2", Text: "5"},
						},
					},
				},
			},
		},
	}

	svc := stubCourseService{content: response}
	courseHandler := handler.NewCourseHandler(svc, zerolog.Nop())

	app := fiber.New()
	group := app.Group("/api/v1/courses", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(1))
		c.Locals("user_role", "student")
		return c.Next()
	})
	courseHandler.Register(group)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courses/3/content", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}
