package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/crest-online/crest-api/internal/service"
	"github.com/crest-online/crest-api/internal/utils"
)

// AdminStatsHandler exposes the dashboard counters.
type AdminStatsHandler struct {
	service service.StatsService
	logger  zerolog.Logger
}

// NewAdminStatsHandler constructs an admin stats handler.
func NewAdminStatsHandler(service service.StatsService, logger zerolog.Logger) *AdminStatsHandler {
	return &AdminStatsHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_stats_handler").Logger(),
	}
}

// Register wires the admin stats routes.
func (h *AdminStatsHandler) Register(router fiber.Router) {
	router.Get("/dashboard", h.dashboard)
}

func (h *AdminStatsHandler) dashboard(c *fiber.Ctx) error {
	stats, err := h.service.Dashboard(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to fetch dashboard stats")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch dashboard stats")
	}
	return utils.SendSuccess(c, "dashboard stats retrieved", stats)
}
