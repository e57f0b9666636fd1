package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/crest-online/crest-api/internal/dto"
	"github.com/crest-online/crest-api/internal/service"
	"github.com/crest-online/crest-api/internal/utils"
)

// SessionHandler drives the per-learner content session over HTTP. Every
// operation returns the full session snapshot so clients render from one
// shape.
type SessionHandler struct {
	service service.SessionService
	logger  zerolog.Logger
}

// NewSessionHandler constructs a session handler.
func NewSessionHandler(service service.SessionService, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		logger:  logger.With().Str("component", "session_handler").Logger(),
	}
}

// Register wires the session routes onto a course-scoped group.
func (h *SessionHandler) Register(router fiber.Router) {
	session := router.Group("/:id/session")
	session.Post("/", h.open)
	session.Delete("/", h.close)
	session.Post("/navigate", h.navigate)
	session.Post("/sidebar", h.openSidebar)
	session.Post("/complete", h.markCompleted)
	session.Post("/video/time", h.videoTime)
	session.Post("/video/ended", h.videoEnded)
	session.Post("/video/control", h.playerControl)
	session.Post("/document/page", h.documentPage)
	session.Post("/quiz/answer", h.quizAnswer)
	session.Post("/quiz/navigate", h.quizNavigate)
	session.Post("/quiz/submit", h.quizSubmit)
	session.Post("/quiz/retry", h.quizRetry)
}

func (h *SessionHandler) open(c *fiber.Ctx) error {
	userID, courseID, err := h.identify(c)
	if err != nil {
		return err
	}

	state, err := h.service.Open(c.Context(), userID, courseID)
	if err != nil {
		return h.respondError(c, err, "failed to open session")
	}
	return utils.SendSuccess(c, "session opened", state)
}

func (h *SessionHandler) close(c *fiber.Ctx) error {
	userID, courseID, err := h.identify(c)
	if err != nil {
		return err
	}

	if err := h.service.Close(c.Context(), userID, courseID); err != nil {
		return h.respondError(c, err, "failed to close session")
	}
	return utils.SendSuccess(c, "session closed", nil)
}

func (h *SessionHandler) navigate(c *fiber.Ctx) error {
	var req dto.SessionNavigateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	return h.run(c, "failed to navigate", func(userID, courseID uint) (dto.SessionState, error) {
		return h.service.Navigate(c.Context(), userID, courseID, req)
	})
}

func (h *SessionHandler) openSidebar(c *fiber.Ctx) error {
	return h.run(c, "failed to open sidebar", func(userID, courseID uint) (dto.SessionState, error) {
		return h.service.OpenSidebar(c.Context(), userID, courseID)
	})
}

func (h *SessionHandler) markCompleted(c *fiber.Ctx) error {
	return h.run(c, "failed to mark lesson completed", func(userID, courseID uint) (dto.SessionState, error) {
		return h.service.MarkCompleted(c.Context(), userID, courseID)
	})
}

func (h *SessionHandler) videoTime(c *fiber.Ctx) error {
	var req dto.VideoEventRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	return h.run(c, "failed to record playback time", func(userID, courseID uint) (dto.SessionState, error) {
		return h.service.VideoTime(c.Context(), userID, courseID, req)
	})
}

func (h *SessionHandler) videoEnded(c *fiber.Ctx) error {
	var req dto.VideoEventRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	return h.run(c, "failed to record playback end", func(userID, courseID uint) (dto.SessionState, error) {
		return h.service.VideoEnded(c.Context(), userID, courseID, req)
	})
}

func (h *SessionHandler) playerControl(c *fiber.Ctx) error {
	var req dto.PlayerControlRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	return h.run(c, "failed to apply player control", func(userID, courseID uint) (dto.SessionState, error) {
		return h.service.PlayerControl(c.Context(), userID, courseID, req)
	})
}

func (h *SessionHandler) documentPage(c *fiber.Ctx) error {
	var req dto.DocumentPageRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	return h.run(c, "failed to turn document page", func(userID, courseID uint) (dto.SessionState, error) {
		return h.service.DocumentPage(c.Context(), userID, courseID, req)
	})
}

func (h *SessionHandler) quizAnswer(c *fiber.Ctx) error {
	var req dto.QuizAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	return h.run(c, "failed to record answer", func(userID, courseID uint) (dto.SessionState, error) {
		return h.service.QuizAnswer(c.Context(), userID, courseID, req)
	})
}

func (h *SessionHandler) quizNavigate(c *fiber.Ctx) error {
	var req dto.QuizNavigateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	return h.run(c, "failed to navigate quiz", func(userID, courseID uint) (dto.SessionState, error) {
		return h.service.QuizNavigate(c.Context(), userID, courseID, req)
	})
}

func (h *SessionHandler) quizSubmit(c *fiber.Ctx) error {
	return h.run(c, "failed to submit quiz", func(userID, courseID uint) (dto.SessionState, error) {
		return h.service.QuizSubmit(c.Context(), userID, courseID)
	})
}

func (h *SessionHandler) quizRetry(c *fiber.Ctx) error {
	return h.run(c, "failed to retry quiz", func(userID, courseID uint) (dto.SessionState, error) {
		return h.service.QuizRetry(c.Context(), userID, courseID)
	})
}

func (h *SessionHandler) run(c *fiber.Ctx, failure string, op func(userID, courseID uint) (dto.SessionState, error)) error {
	userID, courseID, err := h.identify(c)
	if err != nil {
		return err
	}

	state, err := op(userID, courseID)
	if err != nil {
		return h.respondError(c, err, failure)
	}
	return utils.SendSuccess(c, "session updated", state)
}

func (h *SessionHandler) identify(c *fiber.Ctx) (uint, uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, 0, utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}
	userID := userIDFromContext(c)
	if userID == 0 {
		return 0, 0, utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}
	return userID, uint(id), nil
}

func (h *SessionHandler) respondError(c *fiber.Ctx, err error, failure string) error {
	switch {
	case errors.Is(err, service.ErrEnrollmentRequired):
		return utils.SendError(c, fiber.StatusForbidden, "approved enrollment required")
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "course not found")
	case errors.Is(err, service.ErrSessionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "no open content session")
	case errors.Is(err, service.ErrNotQuizLesson):
		return utils.SendError(c, fiber.StatusConflict, "active lesson is not a quiz")
	case errors.Is(err, service.ErrQuizNotSubmittable):
		return utils.SendError(c, fiber.StatusConflict, "quiz is not ready to submit")
	}
	h.logger.Error().Err(err).Msg(failure)
	return utils.SendError(c, fiber.StatusInternalServerError, failure)
}
