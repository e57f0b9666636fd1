package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/crest-online/crest-api/internal/service"
	"github.com/crest-online/crest-api/internal/utils"
)

// EnrollmentHandler exposes enrollment status lookup and proof submission.
type EnrollmentHandler struct {
	service service.EnrollmentService
	logger  zerolog.Logger
}

// NewEnrollmentHandler constructs an enrollment handler.
func NewEnrollmentHandler(service service.EnrollmentService, logger zerolog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		service: service,
		logger:  logger.With().Str("component", "enrollment_handler").Logger(),
	}
}

// Register wires the enrollment routes onto a course-scoped group.
func (h *EnrollmentHandler) Register(router fiber.Router) {
	router.Get("/:id/enrollment", h.status)
	router.Post("/:id/enroll", h.submit)
}

func (h *EnrollmentHandler) status(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	status, err := h.service.Status(c.Context(), uint(id), userIDFromContext(c))
	if err != nil {
		h.logger.Error().Err(err).Int("course_id", id).Msg("failed to fetch enrollment status")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch enrollment status")
	}

	return utils.SendSuccess(c, "enrollment status retrieved", status)
}

func (h *EnrollmentHandler) submit(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	fileHeader, err := c.FormFile("proof")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "payment proof file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to open uploaded proof")
		return utils.SendError(c, fiber.StatusBadRequest, "unable to read payment proof")
	}
	defer file.Close()

	submission := service.ProofSubmission{
		UserID:   userID,
		CourseID: uint(id),
		Phone:    c.FormValue("phone"),
		FileName: fileHeader.Filename,
		File:     file,
	}

	result, err := h.service.SubmitProof(c.Context(), submission)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPhone):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid phone number")
		case errors.Is(err, service.ErrProofRequired):
			return utils.SendError(c, fiber.StatusBadRequest, "payment proof file is required")
		case errors.Is(err, service.ErrProofNotImage):
			return utils.SendError(c, fiber.StatusBadRequest, "payment proof must be an image")
		case errors.Is(err, service.ErrProofTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, "payment proof exceeds the size limit")
		case errors.Is(err, service.ErrAlreadyEnrolled):
			return utils.SendError(c, fiber.StatusConflict, "already enrolled in this course")
		case errors.Is(err, service.ErrEnrollmentPending):
			return utils.SendError(c, fiber.StatusConflict, "enrollment request is already pending review")
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		}
		h.logger.Error().Err(err).Int("course_id", id).Msg("failed to submit enrollment")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to submit enrollment")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "enrollment submitted", result)
}
