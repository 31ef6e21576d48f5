package services

import (
	"context"
	"errors"
	"log"
	"time"

	"advancehub/internal/adapters/persistence/models"
	"advancehub/internal/adapters/persistence/repositories"
	"advancehub/internal/core/domain"

	"gorm.io/gorm"
)

// FinanceService handles disbursement and the finance-wide views
type FinanceService struct {
	advanceRepo   *repositories.AdvanceRepository
	notifyService *NotificationService
}

// NewFinanceService creates a new finance service
func NewFinanceService(advanceRepo *repositories.AdvanceRepository, notifyService *NotificationService) *FinanceService {
	return &FinanceService{
		advanceRepo:   advanceRepo,
		notifyService: notifyService,
	}
}

// FinanceDashboard aggregates the finance landing page data
type FinanceDashboard struct {
	Stats            *repositories.StatusCounts `json:"stats"`
	AwaitingPayment  []*models.Advance          `json:"awaitingPayment"`
	RecentDisbursals []*models.Advance          `json:"recentDisbursals"`
}

// Dashboard returns organisation-wide stats plus the disbursement queue
func (s *FinanceService) Dashboard(ctx context.Context) (*FinanceDashboard, error) {
	stats, err := s.advanceRepo.StatsGlobal(ctx)
	if err != nil {
		return nil, err
	}

	awaiting, _, err := s.advanceRepo.ListByStatus(ctx, string(domain.StatusApproved), 0, 5)
	if err != nil {
		return nil, err
	}

	recent, _, err := s.advanceRepo.ListByStatus(ctx, string(domain.StatusDisbursed), 0, 5)
	if err != nil {
		return nil, err
	}

	return &FinanceDashboard{
		Stats:            stats,
		AwaitingPayment:  awaiting,
		RecentDisbursals: recent,
	}, nil
}

// ListByStatus lists advances across the organisation, optionally filtered
func (s *FinanceService) ListByStatus(ctx context.Context, status string, page, limit int) (*ListOutput, error) {
	if status != "" && !domain.Status(status).Valid() {
		return nil, NewValidationError(map[string]string{
			"status": "Unknown status filter",
		})
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	offset := (page - 1) * limit
	advances, total, err := s.advanceRepo.ListByStatus(ctx, status, offset, limit)
	if err != nil {
		return nil, err
	}

	return &ListOutput{Advances: advances, Total: total, Page: page, Limit: limit}, nil
}

// Get returns one advance with its relations for the finance detail view
func (s *FinanceService) Get(ctx context.Context, advanceID uint) (*models.Advance, error) {
	advance, err := s.advanceRepo.GetByID(ctx, advanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAdvanceNotFound
		}
		return nil, err
	}
	return advance, nil
}

// Disburse records a payout. Requests usually arrive here approved, but a
// pending request can also be paid directly when the manager step is handled
// out of band.
func (s *FinanceService) Disburse(ctx context.Context, advanceID, financeUserID uint, actorRole domain.Role) (*models.Advance, error) {
	if !domain.RoleMayCause(actorRole, domain.StatusDisbursed) {
		return nil, domain.ErrRoleNotAllowed
	}

	advance, err := s.Get(ctx, advanceID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(domain.Status(advance.Status), domain.StatusDisbursed) {
		return nil, domain.ErrAlreadyProcessed
	}

	now := time.Now()
	advance.Status = string(domain.StatusDisbursed)
	advance.DisbursedBy = &financeUserID
	advance.DisbursedAt = &now

	if err := s.advanceRepo.Update(ctx, advance); err != nil {
		return nil, err
	}

	s.notifyService.NotifyDisbursed(ctx, advance)
	log.Printf("✅ Advance #%d disbursed by finance user %d", advance.ID, financeUserID)

	return s.advanceRepo.GetByID(ctx, advance.ID)
}
