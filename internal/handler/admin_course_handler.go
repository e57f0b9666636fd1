package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/crest-online/crest-api/internal/dto"
	"github.com/crest-online/crest-api/internal/service"
	"github.com/crest-online/crest-api/internal/utils"
)

// AdminCourseHandler exposes course authoring endpoints.
type AdminCourseHandler struct {
	service service.CourseService
	logger  zerolog.Logger
}

// NewAdminCourseHandler constructs an admin course handler.
func NewAdminCourseHandler(service service.CourseService, logger zerolog.Logger) *AdminCourseHandler {
	return &AdminCourseHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_course_handler").Logger(),
	}
}

// Register wires the admin course routes.
func (h *AdminCourseHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
	router.Post("/", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *AdminCourseHandler) list(c *fiber.Ctx) error {
	req := dto.CourseListRequest{
		Search:             c.Query("search"),
		Grade:              c.Query("grade"),
		Education:          c.Query("education"),
		IncludeUnpublished: true,
	}

	courses, err := h.service.List(c.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list courses")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch courses")
	}
	return utils.SendSuccess(c, "courses retrieved", courses)
}

func (h *AdminCourseHandler) create(c *fiber.Ctx) error {
	var payload dto.CourseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	course, err := h.service.Create(c.Context(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "validation failed")
		}
		h.logger.Error().Err(err).Msg("failed to create course")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create course")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course created", course)
}

func (h *AdminCourseHandler) update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	var payload dto.CourseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	course, err := h.service.Update(c.Context(), uint(id), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "validation failed")
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		}
		h.logger.Error().Err(err).Int("course_id", id).Msg("failed to update course")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update course")
	}
	return utils.SendSuccess(c, "course updated", course)
}

func (h *AdminCourseHandler) delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	if err := h.service.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		}
		h.logger.Error().Err(err).Int("course_id", id).Msg("failed to delete course")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete course")
	}
	return utils.SendSuccess(c, "course deleted", nil)
}
