package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/crest-online/crest-api/internal/dto"
	"github.com/crest-online/crest-api/internal/service"
	"github.com/crest-online/crest-api/internal/utils"
)

// AdminTeacherHandler exposes instructor management endpoints.
type AdminTeacherHandler struct {
	service service.TeacherService
	logger  zerolog.Logger
}

// NewAdminTeacherHandler constructs an admin teacher handler.
func NewAdminTeacherHandler(service service.TeacherService, logger zerolog.Logger) *AdminTeacherHandler {
	return &AdminTeacherHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_teacher_handler").Logger(),
	}
}

// Register wires the admin teacher routes.
func (h *AdminTeacherHandler) Register(router fiber.Router) {
	router.Post("/", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *AdminTeacherHandler) create(c *fiber.Ctx) error {
	var payload dto.TeacherCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	teacher, err := h.service.Create(c.Context(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "validation failed")
		}
		h.logger.Error().Err(err).Msg("failed to create teacher")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create teacher")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "teacher created", teacher)
}

func (h *AdminTeacherHandler) update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid teacher id")
	}

	var payload dto.TeacherUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	teacher, err := h.service.Update(c.Context(), uint(id), payload)
	if err != nil {
		if errors.Is(err, service.ErrTeacherNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "teacher not found")
		}
		h.logger.Error().Err(err).Int("teacher_id", id).Msg("failed to update teacher")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update teacher")
	}
	return utils.SendSuccess(c, "teacher updated", teacher)
}

func (h *AdminTeacherHandler) delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid teacher id")
	}

	if err := h.service.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, service.ErrTeacherNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "teacher not found")
		}
		h.logger.Error().Err(err).Int("teacher_id", id).Msg("failed to delete teacher")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete teacher")
	}
	return utils.SendSuccess(c, "teacher deleted", nil)
}
