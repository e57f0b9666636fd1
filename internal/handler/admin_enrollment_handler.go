package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/crest-online/crest-api/internal/dto"
	"github.com/crest-online/crest-api/internal/service"
	"github.com/crest-online/crest-api/internal/utils"
)

// AdminEnrollmentHandler exposes the payment-proof review queue.
type AdminEnrollmentHandler struct {
	service service.EnrollmentService
	logger  zerolog.Logger
}

// NewAdminEnrollmentHandler constructs an admin enrollment handler.
func NewAdminEnrollmentHandler(service service.EnrollmentService, logger zerolog.Logger) *AdminEnrollmentHandler {
	return &AdminEnrollmentHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_enrollment_handler").Logger(),
	}
}

// Register wires the admin enrollment routes.
func (h *AdminEnrollmentHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
	router.Post("/decide", h.decide)
}

func (h *AdminEnrollmentHandler) list(c *fiber.Ctx) error {
	courseID, err := parseQueryUint(c, "course_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	enrollments, err := h.service.List(c.Context(), c.Query("status"), courseID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list enrollments")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch enrollments")
	}

	meta := fiber.Map{"count": len(enrollments)}
	return utils.OK(c, enrollments, "enrollments retrieved", meta)
}

func (h *AdminEnrollmentHandler) decide(c *fiber.Ctx) error {
	var payload dto.EnrollmentDecisionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	enrollment, err := h.service.Decide(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "validation failed")
		case errors.Is(err, service.ErrEnrollmentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "enrollment not found")
		case errors.Is(err, service.ErrEnrollmentDecided):
			return utils.SendError(c, fiber.StatusConflict, "enrollment has already been decided")
		}
		h.logger.Error().Err(err).Msg("failed to decide enrollment")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to decide enrollment")
	}
	return utils.SendSuccess(c, "enrollment "+enrollment.Status, enrollment)
}
