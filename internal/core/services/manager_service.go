package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"advancehub/internal/adapters/persistence/models"
	"advancehub/internal/adapters/persistence/repositories"
	"advancehub/internal/core/domain"

	"gorm.io/gorm"
)

// ManagerService handles the approval side of the advance lifecycle
type ManagerService struct {
	advanceRepo   *repositories.AdvanceRepository
	userRepo      repositories.UserRepository
	notifyService *NotificationService
}

// NewManagerService creates a new manager service
func NewManagerService(
	advanceRepo *repositories.AdvanceRepository,
	userRepo repositories.UserRepository,
	notifyService *NotificationService,
) *ManagerService {
	return &ManagerService{
		advanceRepo:   advanceRepo,
		userRepo:      userRepo,
		notifyService: notifyService,
	}
}

// getTeamAdvance loads an advance and verifies the acting manager supervises
// its owner. Advances outside the team come back as ErrNotTeamManager so the
// handler can distinguish scope failures from missing records.
func (s *ManagerService) getTeamAdvance(ctx context.Context, advanceID, managerID uint) (*models.Advance, error) {
	advance, err := s.advanceRepo.GetByID(ctx, advanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAdvanceNotFound
		}
		return nil, err
	}
	if advance.User == nil || advance.User.ManagerID == nil || *advance.User.ManagerID != managerID {
		return nil, domain.ErrNotTeamManager
	}
	return advance, nil
}

// ManagerDashboard aggregates the manager landing page data
type ManagerDashboard struct {
	Stats          *repositories.StatusCounts `json:"stats"`
	TeamSize       int64                      `json:"teamSize"`
	RecentRequests []*models.Advance          `json:"recentRequests"`
}

// Dashboard returns team stats and recent activity for the manager view
func (s *ManagerService) Dashboard(ctx context.Context, managerID uint) (*ManagerDashboard, error) {
	stats, err := s.advanceRepo.StatsByManager(ctx, managerID)
	if err != nil {
		return nil, err
	}

	teamSize, err := s.userRepo.CountTeam(ctx, managerID)
	if err != nil {
		return nil, err
	}

	recent, _, err := s.advanceRepo.ListTeam(ctx, managerID, "", "", 0, 5)
	if err != nil {
		return nil, err
	}

	return &ManagerDashboard{
		Stats:          stats,
		TeamSize:       teamSize,
		RecentRequests: recent,
	}, nil
}

// PendingApprovals lists the team's pending requests awaiting a decision
func (s *ManagerService) PendingApprovals(ctx context.Context, managerID uint, search string, page, limit int) (*ListOutput, error) {
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
	advances, total, err := s.advanceRepo.ListPendingForManager(ctx, managerID, search, offset, limit)
	if err != nil {
		return nil, err
	}

	return &ListOutput{Advances: advances, Total: total, Page: page, Limit: limit}, nil
}

// Approve moves a pending team request into the approved state
func (s *ManagerService) Approve(ctx context.Context, advanceID, managerID uint, actorRole domain.Role) (*models.Advance, error) {
	if !domain.RoleMayCause(actorRole, domain.StatusApproved) {
		return nil, domain.ErrRoleNotAllowed
	}

	advance, err := s.getTeamAdvance(ctx, advanceID, managerID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(domain.Status(advance.Status), domain.StatusApproved) {
		return nil, domain.ErrAlreadyProcessed
	}

	now := time.Now()
	advance.Status = string(domain.StatusApproved)
	advance.ApprovedBy = &managerID
	advance.ApprovedAt = &now

	if err := s.advanceRepo.Update(ctx, advance); err != nil {
		return nil, err
	}

	s.notifyService.NotifyApproved(ctx, advance)
	log.Printf("✅ Advance #%d approved by manager %d", advance.ID, managerID)

	return s.advanceRepo.GetByID(ctx, advance.ID)
}

// Reject moves a pending team request into the rejected state with a reason
func (s *ManagerService) Reject(ctx context.Context, advanceID, managerID uint, actorRole domain.Role, reason string) (*models.Advance, error) {
	if !domain.RoleMayCause(actorRole, domain.StatusRejected) {
		return nil, domain.ErrRoleNotAllowed
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, NewValidationError(map[string]string{
			"reason": "Rejection reason is required",
		})
	}

	advance, err := s.getTeamAdvance(ctx, advanceID, managerID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(domain.Status(advance.Status), domain.StatusRejected) {
		return nil, domain.ErrAlreadyProcessed
	}

	now := time.Now()
	advance.Status = string(domain.StatusRejected)
	advance.RejectedBy = &managerID
	advance.RejectedReason = reason
	advance.RejectedAt = &now

	if err := s.advanceRepo.Update(ctx, advance); err != nil {
		return nil, err
	}

	s.notifyService.NotifyRejected(ctx, advance, reason)
	log.Printf("⚠️ Advance #%d rejected by manager %d", advance.ID, managerID)

	return s.advanceRepo.GetByID(ctx, advance.ID)
}

// RequestDetail returns one team request with its relations
func (s *ManagerService) RequestDetail(ctx context.Context, advanceID, managerID uint) (*models.Advance, error) {
	return s.getTeamAdvance(ctx, advanceID, managerID)
}

// TeamRequests lists all of the team's requests with filtering
func (s *ManagerService) TeamRequests(ctx context.Context, managerID uint, status, search string, page, limit int) (*ListOutput, error) {
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
	advances, total, err := s.advanceRepo.ListTeam(ctx, managerID, status, search, offset, limit)
	if err != nil {
		return nil, err
	}

	return &ListOutput{Advances: advances, Total: total, Page: page, Limit: limit}, nil
}

// TeamMember pairs a report with their advance totals
type TeamMember struct {
	User  *models.UserSummary        `json:"user"`
	Stats *repositories.StatusCounts `json:"stats"`
}

// TeamMembers lists the manager's reports with per-member totals
func (s *ManagerService) TeamMembers(ctx context.Context, managerID uint) ([]TeamMember, error) {
	users, err := s.userRepo.ListTeam(ctx, managerID)
	if err != nil {
		return nil, err
	}

	members := make([]TeamMember, 0, len(users))
	for _, user := range users {
		stats, err := s.advanceRepo.StatsByUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		members = append(members, TeamMember{User: user.ToSummary(), Stats: stats})
	}
	return members, nil
}

// TeamMemberRequests lists one report's requests, verifying they belong to
// the acting manager's team first.
func (s *ManagerService) TeamMemberRequests(ctx context.Context, managerID, memberID uint, status string, page, limit int) (*ListOutput, error) {
	member, err := s.userRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if member.ManagerID == nil || *member.ManagerID != managerID {
		return nil, domain.ErrNotTeamManager
	}

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
	advances, total, err := s.advanceRepo.ListByUser(ctx, memberID, status, "", offset, limit)
	if err != nil {
		return nil, err
	}

	return &ListOutput{Advances: advances, Total: total, Page: page, Limit: limit}, nil
}

// MonthlyTrend is one month's totals inside a report range
type MonthlyTrend struct {
	Month       string  `json:"month"`
	Requests    int64   `json:"requests"`
	TotalAmount float64 `json:"totalAmount"`
}

// ReportSummary is the manager reports payload
type ReportSummary struct {
	StartDate string                     `json:"startDate"`
	EndDate   string                     `json:"endDate"`
	TeamSize  int64                      `json:"teamSize"`
	Totals    *repositories.StatusCounts `json:"totals"`
	Trends    []MonthlyTrend             `json:"monthlyTrends"`
}

// Reports summarizes the team's requests over a date range. When no range is
// given it defaults to the last six months.
func (s *ManagerService) Reports(ctx context.Context, managerID uint, startDate, endDate string) (*ReportSummary, error) {
	fields := map[string]string{}

	end := today().AddDate(0, 0, 1)
	if endDate != "" {
		parsed, err := time.ParseInLocation(dateLayout, endDate, time.Local)
		if err != nil {
			fields["endDate"] = "End date must be in YYYY-MM-DD format"
		} else {
			end = parsed.AddDate(0, 0, 1)
		}
	}

	start := end.AddDate(0, -6, 0)
	if startDate != "" {
		parsed, err := time.ParseInLocation(dateLayout, startDate, time.Local)
		if err != nil {
			fields["startDate"] = "Start date must be in YYYY-MM-DD format"
		} else {
			start = parsed
		}
	}

	if len(fields) == 0 && !start.Before(end) {
		fields["startDate"] = "Start date must be before end date"
	}
	if len(fields) > 0 {
		return nil, NewValidationError(fields)
	}

	rows, err := s.advanceRepo.RowsForManagerInRange(ctx, managerID, start, end)
	if err != nil {
		return nil, err
	}

	teamSize, err := s.userRepo.CountTeam(ctx, managerID)
	if err != nil {
		return nil, err
	}

	totals := &repositories.StatusCounts{}
	byMonth := map[string]*MonthlyTrend{}
	for _, row := range rows {
		totals.Total++
		totals.TotalAmount += row.Amount
		switch domain.Status(row.Status) {
		case domain.StatusPending:
			totals.Pending++
		case domain.StatusApproved:
			totals.Approved++
		case domain.StatusRejected:
			totals.Rejected++
		case domain.StatusDisbursed:
			totals.Disbursed++
		case domain.StatusRetired:
			totals.Retired++
		}

		month := row.CreatedAt.Format("2006-01")
		trend, ok := byMonth[month]
		if !ok {
			trend = &MonthlyTrend{Month: month}
			byMonth[month] = trend
		}
		trend.Requests++
		trend.TotalAmount += row.Amount
	}

	trends := make([]MonthlyTrend, 0, len(byMonth))
	for _, trend := range byMonth {
		trends = append(trends, *trend)
	}
	sort.Slice(trends, func(i, j int) bool { return trends[i].Month < trends[j].Month })

	return &ReportSummary{
		StartDate: start.Format(dateLayout),
		EndDate:   end.AddDate(0, 0, -1).Format(dateLayout),
		TeamSize:  teamSize,
		Totals:    totals,
		Trends:    trends,
	}, nil
}
