package services

import (
	"context"

	"advancehub/internal/adapters/persistence/models"
	"advancehub/internal/adapters/persistence/repositories"
	"advancehub/internal/core/domain"
)

// DashboardService builds the admin overview
type DashboardService struct {
	advanceRepo *repositories.AdvanceRepository
	userRepo    repositories.UserRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(advanceRepo *repositories.AdvanceRepository, userRepo repositories.UserRepository) *DashboardService {
	return &DashboardService{
		advanceRepo: advanceRepo,
		userRepo:    userRepo,
	}
}

// AdminDashboard aggregates the admin landing page data
type AdminDashboard struct {
	UsersByRole    map[string]int64           `json:"usersByRole"`
	AdvanceStats   *repositories.StatusCounts `json:"advanceStats"`
	RecentRequests []*models.Advance          `json:"recentRequests"`
}

// AdminOverview returns organisation-wide user and advance figures
func (s *DashboardService) AdminOverview(ctx context.Context) (*AdminDashboard, error) {
	usersByRole := make(map[string]int64, len(domain.AllRoles))
	for _, role := range domain.AllRoles {
		count, err := s.userRepo.CountByRole(ctx, string(role))
		if err != nil {
			return nil, err
		}
		usersByRole[string(role)] = count
	}

	stats, err := s.advanceRepo.StatsGlobal(ctx)
	if err != nil {
		return nil, err
	}

	recent, _, err := s.advanceRepo.ListByStatus(ctx, "", 0, 10)
	if err != nil {
		return nil, err
	}

	return &AdminDashboard{
		UsersByRole:    usersByRole,
		AdvanceStats:   stats,
		RecentRequests: recent,
	}, nil
}
