package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/crest-online/crest-api/internal/content"
	"github.com/crest-online/crest-api/internal/dto"
	"github.com/crest-online/crest-api/internal/models"
	"github.com/crest-online/crest-api/internal/observability"
	"github.com/crest-online/crest-api/internal/repository"
)

var (
	// ErrCourseNotFound indicates course lookup failed.
	ErrCourseNotFound = errors.New("course not found")
	// ErrEnrollmentRequired indicates the caller has no approved enrollment
	// for the course.
	ErrEnrollmentRequired = errors.New("approved enrollment required")
)

// CourseService exposes the public catalogue, the enrollment-gated content
// payload and the admin authoring operations.
type CourseService interface {
	List(ctx context.Context, req dto.CourseListRequest) ([]dto.CourseSummaryResponse, error)
	Get(ctx context.Context, id uint) (dto.CourseSummaryResponse, error)
	Content(ctx context.Context, courseID, userID uint) (dto.CourseContentResponse, error)
	Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseSummaryResponse, error)
	Update(ctx context.Context, id uint, payload dto.CourseCreateRequest) (dto.CourseSummaryResponse, error)
	Delete(ctx context.Context, id uint) error
}

type courseService struct {
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	sanitizer   *bluemonday.Policy
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
	validate *validator.Validate,
	logger zerolog.Logger,
) CourseService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &courseService{
		courses:     courseRepo,
		enrollments: enrollmentRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		sanitizer:   bluemonday.UGCPolicy(),
		validator:   validate,
		logger:      logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) List(ctx context.Context, req dto.CourseListRequest) ([]dto.CourseSummaryResponse, error) {
	filter := repository.CourseFilter{
		Search:        strings.TrimSpace(req.Search),
		Grade:         strings.TrimSpace(req.Grade),
		Education:     strings.TrimSpace(req.Education),
		PublishedOnly: !req.IncludeUnpublished,
	}

	courses, err := s.courses.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CourseSummaryResponse, 0, len(courses))
	for _, course := range courses {
		items = append(items, toCourseSummary(course))
	}
	return items, nil
}

func (s *courseService) Get(ctx context.Context, id uint) (dto.CourseSummaryResponse, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseSummaryResponse{}, ErrCourseNotFound
		}
		return dto.CourseSummaryResponse{}, err
	}
	return toCourseSummary(course), nil
}

// Content returns the flattened lesson sequence for an enrolled learner. The
// approved-enrollment check runs here, server-side, on every call; the payload
// never discloses which quiz options are correct.
func (s *courseService) Content(ctx context.Context, courseID, userID uint) (dto.CourseContentResponse, error) {
	if err := s.requireApproved(ctx, courseID, userID); err != nil {
		observability.ContentRequests().WithLabelValues("denied").Inc()
		return dto.CourseContentResponse{}, err
	}

	if cached, ok := s.fetchContentCache(ctx, courseID); ok {
		observability.ContentRequests().WithLabelValues("hit").Inc()
		return cached, nil
	}

	course, err := s.courses.GetWithContent(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseContentResponse{}, ErrCourseNotFound
		}
		observability.ContentRequests().WithLabelValues("error").Inc()
		return dto.CourseContentResponse{}, err
	}

	response := dto.CourseContentResponse{
		CourseID:    course.ID,
		Title:       course.Title,
		Description: course.Description,
		Lessons:     toLessonPayloads(content.BuildLessons(course)),
	}

	s.writeContentCache(ctx, courseID, response)
	observability.ContentRequests().WithLabelValues("miss").Inc()
	return response, nil
}

func (s *courseService) Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseSummaryResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseSummaryResponse{}, err
	}

	course := s.buildCourse(payload)
	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseSummaryResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Str("title", course.Title).Msg("course created")
	return toCourseSummary(course), nil
}

func (s *courseService) Update(ctx context.Context, id uint, payload dto.CourseCreateRequest) (dto.CourseSummaryResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseSummaryResponse{}, err
	}

	existing, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseSummaryResponse{}, ErrCourseNotFound
		}
		return dto.CourseSummaryResponse{}, err
	}

	course := s.buildCourse(payload)
	course.ID = existing.ID
	course.CreatedAt = existing.CreatedAt

	if err := s.courses.Update(ctx, &course); err != nil {
		return dto.CourseSummaryResponse{}, err
	}

	s.dropContentCache(ctx, id)
	s.logger.Info().Uint("course_id", id).Msg("course updated")
	return toCourseSummary(course), nil
}

func (s *courseService) Delete(ctx context.Context, id uint) error {
	if _, err := s.courses.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}
	if err := s.courses.Delete(ctx, id); err != nil {
		return err
	}

	s.dropContentCache(ctx, id)
	s.logger.Info().Uint("course_id", id).Msg("course deleted")
	return nil
}

func (s *courseService) requireApproved(ctx context.Context, courseID, userID uint) error {
	if userID == 0 {
		return ErrEnrollmentRequired
	}
	enrollment, err := s.enrollments.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEnrollmentRequired
		}
		return err
	}
	if models.NormalizeEnrollmentStatus(enrollment.Status) != models.EnrollmentApproved {
		return ErrEnrollmentRequired
	}
	return nil
}

func (s *courseService) buildCourse(payload dto.CourseCreateRequest) models.Course {
	course := models.Course{
		Title:       strings.TrimSpace(payload.Title),
		Description: s.sanitizer.Sanitize(strings.TrimSpace(payload.Description)),
		TeacherID:   payload.TeacherID,
		Education:   strings.TrimSpace(payload.Education),
		Grade:       strings.TrimSpace(payload.Grade),
		Price:       payload.Price,
		IsPublished: payload.IsPublished,
		ImageURL:    strings.TrimSpace(payload.ImageURL),
	}

	for _, v := range payload.Videos {
		course.Videos = append(course.Videos, models.CourseVideo{
			Title:    strings.TrimSpace(v.Title),
			Order:    v.Order,
			VideoURL: strings.TrimSpace(v.VideoURL),
		})
	}
	for _, p := range payload.PDFs {
		course.PDFs = append(course.PDFs, models.CoursePDF{
			Title:  strings.TrimSpace(p.Title),
			Order:  p.Order,
			PDFURL: strings.TrimSpace(p.PDFURL),
		})
	}
	for _, q := range payload.Quizzes {
		quiz := models.CourseQuiz{
			Title: strings.TrimSpace(q.Title),
			Order: q.Order,
		}
		for _, question := range q.Questions {
			quiz.Questions = append(quiz.Questions, models.QuizQuestionSource{
				Question:      strings.TrimSpace(question.Question),
				Options:       trimAll(question.Options),
				CorrectAnswer: strings.TrimSpace(question.CorrectAnswer),
			})
		}
		course.Quizzes = append(course.Quizzes, quiz)
	}

	return course
}

func (s *courseService) fetchContentCache(ctx context.Context, courseID uint) (dto.CourseContentResponse, bool) {
	if s.cache == nil {
		return dto.CourseContentResponse{}, false
	}
	payload, err := s.cache.Get(ctx, contentCacheKey(courseID)).Result()
	if err != nil {
		return dto.CourseContentResponse{}, false
	}

	var response dto.CourseContentResponse
	if err := json.Unmarshal([]byte(payload), &response); err != nil {
		s.logger.Warn().Err(err).Msg("failed to decode content cache")
		return dto.CourseContentResponse{}, false
	}
	return response, true
}

func (s *courseService) writeContentCache(ctx context.Context, courseID uint, response dto.CourseContentResponse) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(response)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode content cache")
		return
	}
	if err := s.cache.Set(ctx, contentCacheKey(courseID), payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to store content cache")
	}
}

func (s *courseService) dropContentCache(ctx context.Context, courseID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, contentCacheKey(courseID)).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate content cache")
	}
}

func contentCacheKey(courseID uint) string {
	return fmt.Sprintf("course:content:v1:%d", courseID)
}

func toCourseSummary(course models.Course) dto.CourseSummaryResponse {
	return dto.CourseSummaryResponse{
		ID:          course.ID,
		Title:       course.Title,
		Description: course.Description,
		TeacherID:   course.TeacherID,
		Education:   course.Education,
		Grade:       course.Grade,
		Price:       course.Price,
		IsPublished: course.IsPublished,
		ImageURL:    course.ImageURL,
		VideoCount:  len(course.Videos),
		PDFCount:    len(course.PDFs),
		QuizCount:   len(course.Quizzes),
		UpdatedAt:   course.UpdatedAt,
	}
}

func toLessonPayloads(lessons []content.Lesson) []dto.LessonPayload {
	payloads := make([]dto.LessonPayload, 0, len(lessons))
	for _, lesson := range lessons {
		meta := lesson.Meta()
		payload := dto.LessonPayload{
			ID:    meta.ID,
			Type:  string(lesson.Kind()),
			Title: meta.Title,
			Order: meta.Order,
		}

		switch typed := lesson.(type) {
		case content.VideoLesson:
			payload.URL = typed.URL
		case content.PDFLesson:
			payload.URL = typed.URL
		case content.QuizLesson:
			payload.Questions = toQuestionPayloads(typed.Questions)
		}

		payloads = append(payloads, payload)
	}
	return payloads
}

func toQuestionPayloads(questions []content.QuizQuestion) []dto.QuizQuestionPayload {
	out := make([]dto.QuizQuestionPayload, 0, len(questions))
	for _, q := range questions {
		options := make([]dto.QuizOptionPayload, 0, len(q.Options))
		for _, opt := range q.Options {
			options = append(options, dto.QuizOptionPayload{ID: opt.ID, Text: opt.Text})
		}
		out = append(out, dto.QuizQuestionPayload{Text: q.Text, Options: options})
	}
	return out
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.TrimSpace(v))
	}
	return out
}
