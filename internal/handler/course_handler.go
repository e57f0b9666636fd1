package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/crest-online/crest-api/internal/dto"
	"github.com/crest-online/crest-api/internal/service"
	"github.com/crest-online/crest-api/internal/utils"
)

// CourseHandler exposes the public catalogue and the gated content endpoint.
type CourseHandler struct {
	service service.CourseService
	logger  zerolog.Logger
}

// NewCourseHandler constructs a course handler.
func NewCourseHandler(service service.CourseService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		service: service,
		logger:  logger.With().Str("component", "course_handler").Logger(),
	}
}

// Register wires the public course routes.
func (h *CourseHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
	router.Get("/:id", h.get)
	router.Get("/:id/content", h.content)
}

func (h *CourseHandler) list(c *fiber.Ctx) error {
	req := dto.CourseListRequest{
		Search:    c.Query("search"),
		Grade:     c.Query("grade"),
		Education: c.Query("education"),
	}

	courses, err := h.service.List(c.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list courses")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch courses")
	}

	return utils.SendSuccess(c, "courses retrieved", courses)
}

func (h *CourseHandler) get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	course, err := h.service.Get(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		}
		h.logger.Error().Err(err).Int("course_id", id).Msg("failed to fetch course")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch course")
	}

	return utils.SendSuccess(c, "course retrieved", course)
}

// content serves the flattened lesson sequence. The approved-enrollment check
// happens in the service on every request; hiding the catalogue button
// client-side is not the gate.
func (h *CourseHandler) content(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	userID := userIDFromContext(c)
	payload, err := h.service.Content(c.Context(), uint(id), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEnrollmentRequired):
			return utils.SendError(c, fiber.StatusForbidden, "approved enrollment required")
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		}
		h.logger.Error().Err(err).Int("course_id", id).Msg("failed to fetch course content")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch course content")
	}

	return utils.SendSuccess(c, "course content retrieved", payload)
}
