package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/crest-online/crest-api/internal/dto"
	"github.com/crest-online/crest-api/internal/repository"
)

// StatsService feeds the admin dashboard counters.
type StatsService interface {
	Dashboard(ctx context.Context) (dto.DashboardStats, error)
}

type statsService struct {
	repo   repository.StatsRepository
	logger zerolog.Logger
}

// NewStatsService constructs the stats service.
func NewStatsService(repo repository.StatsRepository, logger zerolog.Logger) StatsService {
	return &statsService{
		repo:   repo,
		logger: logger.With().Str("component", "stats_service").Logger(),
	}
}

func (s *statsService) Dashboard(ctx context.Context) (dto.DashboardStats, error) {
	return s.repo.Dashboard(ctx)
}
