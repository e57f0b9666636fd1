package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/crest-online/crest-api/internal/dto"
	"github.com/crest-online/crest-api/internal/models"
	"github.com/crest-online/crest-api/internal/repository"
)

// ErrTeacherNotFound indicates instructor lookup failed.
var ErrTeacherNotFound = errors.New("teacher not found")

// TeacherService manages instructor profiles.
type TeacherService interface {
	List(ctx context.Context) ([]dto.TeacherResponse, error)
	Get(ctx context.Context, id uint) (dto.TeacherResponse, error)
	Create(ctx context.Context, payload dto.TeacherCreateRequest) (dto.TeacherResponse, error)
	Update(ctx context.Context, id uint, payload dto.TeacherUpdateRequest) (dto.TeacherResponse, error)
	Delete(ctx context.Context, id uint) error
}

type teacherService struct {
	repo      repository.TeacherRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewTeacherService constructs the teacher service.
func NewTeacherService(repo repository.TeacherRepository, validate *validator.Validate, logger zerolog.Logger) TeacherService {
	return &teacherService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "teacher_service").Logger(),
	}
}

func (s *teacherService) List(ctx context.Context) ([]dto.TeacherResponse, error) {
	teachers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TeacherResponse, 0, len(teachers))
	for _, teacher := range teachers {
		items = append(items, toTeacherResponse(teacher))
	}
	return items, nil
}

func (s *teacherService) Get(ctx context.Context, id uint) (dto.TeacherResponse, error) {
	teacher, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeacherResponse{}, ErrTeacherNotFound
		}
		return dto.TeacherResponse{}, err
	}
	return toTeacherResponse(teacher), nil
}

func (s *teacherService) Create(ctx context.Context, payload dto.TeacherCreateRequest) (dto.TeacherResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TeacherResponse{}, err
	}

	teacher := models.Teacher{
		Name:        strings.TrimSpace(payload.Name),
		Job:         strings.TrimSpace(payload.Job),
		Description: strings.TrimSpace(payload.Description),
		AvatarURL:   strings.TrimSpace(payload.AvatarURL),
	}
	if err := s.repo.Create(ctx, &teacher); err != nil {
		return dto.TeacherResponse{}, err
	}

	s.logger.Info().Uint("teacher_id", teacher.ID).Msg("teacher created")
	return toTeacherResponse(teacher), nil
}

func (s *teacherService) Update(ctx context.Context, id uint, payload dto.TeacherUpdateRequest) (dto.TeacherResponse, error) {
	teacher, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeacherResponse{}, ErrTeacherNotFound
		}
		return dto.TeacherResponse{}, err
	}

	if v := strings.TrimSpace(payload.Name); v != "" {
		teacher.Name = v
	}
	if v := strings.TrimSpace(payload.Job); v != "" {
		teacher.Job = v
	}
	if v := strings.TrimSpace(payload.Description); v != "" {
		teacher.Description = v
	}
	if v := strings.TrimSpace(payload.AvatarURL); v != "" {
		teacher.AvatarURL = v
	}

	if err := s.repo.Update(ctx, &teacher); err != nil {
		return dto.TeacherResponse{}, err
	}
	return toTeacherResponse(teacher), nil
}

func (s *teacherService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeacherNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

func toTeacherResponse(teacher models.Teacher) dto.TeacherResponse {
	return dto.TeacherResponse{
		ID:          teacher.ID,
		Name:        teacher.Name,
		Job:         teacher.Job,
		Description: teacher.Description,
		AvatarURL:   teacher.AvatarURL,
		CreatedAt:   teacher.CreatedAt,
		UpdatedAt:   teacher.UpdatedAt,
	}
}
