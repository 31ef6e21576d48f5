package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"advancehub/internal/adapters/persistence/models"
	"advancehub/internal/adapters/persistence/repositories"
	"advancehub/internal/core/domain"

	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// today returns the current date truncated to midnight local time.
func today() time.Time {
	year, month, day := time.Now().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

// AdvanceService handles the owner-facing advance lifecycle
type AdvanceService struct {
	advanceRepo   *repositories.AdvanceRepository
	userRepo      repositories.UserRepository
	notifyService *NotificationService
}

// NewAdvanceService creates a new advance service
func NewAdvanceService(
	advanceRepo *repositories.AdvanceRepository,
	userRepo repositories.UserRepository,
	notifyService *NotificationService,
) *AdvanceService {
	return &AdvanceService{
		advanceRepo:   advanceRepo,
		userRepo:      userRepo,
		notifyService: notifyService,
	}
}

// CreateAdvanceInput represents create advance input
type CreateAdvanceInput struct {
	Purpose     string  `json:"purpose"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	DateNeeded  string  `json:"dateNeeded"`
	Priority    string  `json:"priority"`
}

// validateCreate checks the submission rules before anything is persisted.
func validateCreate(input *CreateAdvanceInput) (time.Time, domain.Priority, error) {
	fields := map[string]string{}

	if strings.TrimSpace(input.Purpose) == "" {
		fields["purpose"] = "Purpose is required"
	}
	if strings.TrimSpace(input.Description) == "" {
		fields["description"] = "Description is required"
	}
	if input.Amount <= 0 {
		fields["amount"] = "Amount must be greater than 0"
	}

	var dateNeeded time.Time
	if input.DateNeeded == "" {
		fields["dateNeeded"] = "Date needed is required"
	} else {
		parsed, err := time.ParseInLocation(dateLayout, input.DateNeeded, time.Local)
		if err != nil {
			fields["dateNeeded"] = "Date needed must be in YYYY-MM-DD format"
		} else if parsed.Before(today()) {
			fields["dateNeeded"] = "Date needed cannot be in the past"
		} else {
			dateNeeded = parsed
		}
	}

	priority := domain.Priority(input.Priority)
	if input.Priority == "" {
		priority = domain.PriorityMedium
	} else if !priority.Valid() {
		fields["priority"] = "Priority must be one of low, medium, high, urgent"
	}

	if len(fields) > 0 {
		return time.Time{}, "", NewValidationError(fields)
	}
	return dateNeeded, priority, nil
}

// Create submits a new advance request in the pending state
func (s *AdvanceService) Create(ctx context.Context, input *CreateAdvanceInput, ownerID uint) (*models.Advance, error) {
	dateNeeded, priority, err := validateCreate(input)
	if err != nil {
		return nil, err
	}

	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	advance := &models.Advance{
		UserID:      owner.ID,
		Amount:      input.Amount,
		Purpose:     strings.TrimSpace(input.Purpose),
		Description: strings.TrimSpace(input.Description),
		Status:      string(domain.StatusPending),
		Priority:    string(priority),
		DateNeeded:  dateNeeded,
	}

	if err := s.advanceRepo.Create(ctx, advance); err != nil {
		return nil, err
	}

	if owner.ManagerID != nil {
		s.notifyService.NotifySubmitted(ctx, advance, owner, *owner.ManagerID)
	}

	log.Printf("✅ Advance #%d created by user %d (%.2f, %s)", advance.ID, owner.ID, advance.Amount, advance.Priority)

	// Re-read with relations so the caller gets the full record back
	return s.advanceRepo.GetByID(ctx, advance.ID)
}

// GetOwned fetches one of the caller's advances by ID
func (s *AdvanceService) GetOwned(ctx context.Context, advanceID, ownerID uint) (*models.Advance, error) {
	advance, err := s.advanceRepo.GetOwned(ctx, advanceID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAdvanceNotFound
		}
		return nil, err
	}
	return advance, nil
}

// ListInput represents list input for a user's own advances
type ListInput struct {
	Status string
	Sort   string
	Page   int
	Limit  int
}

// ListOutput represents a paginated advance listing
type ListOutput struct {
	Advances []*models.Advance
	Total    int64
	Page     int
	Limit    int
}

// ListOwned lists the caller's advances with filtering and pagination
func (s *AdvanceService) ListOwned(ctx context.Context, ownerID uint, input *ListInput) (*ListOutput, error) {
	if input.Status != "" && !domain.Status(input.Status).Valid() {
		return nil, NewValidationError(map[string]string{
			"status": "Unknown status filter",
		})
	}

	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = 10
	}
	if input.Limit > 100 {
		input.Limit = 100
	}

	offset := (input.Page - 1) * input.Limit
	advances, total, err := s.advanceRepo.ListByUser(ctx, ownerID, input.Status, input.Sort, offset, input.Limit)
	if err != nil {
		return nil, err
	}

	return &ListOutput{
		Advances: advances,
		Total:    total,
		Page:     input.Page,
		Limit:    input.Limit,
	}, nil
}

// RetireInput represents retirement input
type RetireInput struct {
	RetirementDate   string  `json:"retirementDate"`
	TotalExpenses    float64 `json:"totalExpenses"`
	ExpenseBreakdown string  `json:"expenseBreakdown"`
}

// validateRetire checks the reconciliation rules.
func validateRetire(input *RetireInput) (time.Time, error) {
	fields := map[string]string{}

	var retirementDate time.Time
	if input.RetirementDate == "" {
		fields["retirementDate"] = "Retirement date is required"
	} else {
		parsed, err := time.ParseInLocation(dateLayout, input.RetirementDate, time.Local)
		if err != nil {
			fields["retirementDate"] = "Retirement date must be in YYYY-MM-DD format"
		} else if parsed.After(today()) {
			fields["retirementDate"] = "Retirement date cannot be in the future"
		} else {
			retirementDate = parsed
		}
	}

	if input.TotalExpenses <= 0 {
		fields["totalExpenses"] = "Total expenses must be greater than 0"
	}
	if strings.TrimSpace(input.ExpenseBreakdown) == "" {
		fields["expenseBreakdown"] = "Expense breakdown is required"
	}

	if len(fields) > 0 {
		return time.Time{}, NewValidationError(fields)
	}
	return retirementDate, nil
}

// Retire attaches a retirement record to one of the caller's approved (or
// disbursed) advances and closes its lifecycle.
func (s *AdvanceService) Retire(ctx context.Context, advanceID, ownerID uint, actorRole domain.Role, input *RetireInput) (*models.Advance, error) {
	if !domain.RoleMayCause(actorRole, domain.StatusRetired) {
		return nil, domain.ErrRoleNotAllowed
	}

	retirementDate, err := validateRetire(input)
	if err != nil {
		return nil, err
	}

	advance, err := s.GetOwned(ctx, advanceID, ownerID)
	if err != nil {
		return nil, err
	}

	if !domain.Status(advance.Status).Retirable() {
		return nil, domain.ErrNotRetirable
	}

	now := time.Now()
	totalExpenses := input.TotalExpenses
	advance.Status = string(domain.StatusRetired)
	advance.RetirementDate = &retirementDate
	advance.TotalExpenses = &totalExpenses
	advance.ExpenseBreakdown = strings.TrimSpace(input.ExpenseBreakdown)
	advance.RetiredAt = &now

	if err := s.advanceRepo.Update(ctx, advance); err != nil {
		return nil, err
	}

	log.Printf("✅ Advance #%d retired by user %d (expenses: %.2f)", advance.ID, ownerID, totalExpenses)

	return s.advanceRepo.GetByID(ctx, advance.ID)
}

// Stats aggregates the caller's advances for the staff dashboard
func (s *AdvanceService) Stats(ctx context.Context, ownerID uint) (*repositories.StatusCounts, error) {
	return s.advanceRepo.StatsByUser(ctx, ownerID)
}

// Recent returns the caller's most recent advances for the staff dashboard
func (s *AdvanceService) Recent(ctx context.Context, ownerID uint, limit int) ([]*models.Advance, error) {
	if limit < 1 || limit > 20 {
		limit = 5
	}
	return s.advanceRepo.RecentByUser(ctx, ownerID, limit)
}

// Pending returns the caller's advances still awaiting a decision
func (s *AdvanceService) Pending(ctx context.Context, ownerID uint) ([]*models.Advance, error) {
	return s.advanceRepo.PendingByUser(ctx, ownerID)
}
