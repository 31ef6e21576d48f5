package repositories

import (
	"context"
	"time"

	"advancehub/internal/adapters/persistence/models"
	"advancehub/internal/core/domain"

	"gorm.io/gorm"
)

// AdvanceRepository handles advance data access
type AdvanceRepository struct {
	db *gorm.DB
}

// NewAdvanceRepository creates a new advance repository
func NewAdvanceRepository(db *gorm.DB) *AdvanceRepository {
	return &AdvanceRepository{db: db}
}

// sortColumns whitelists the sort keys accepted from the API.
var sortColumns = map[string]string{
	"createdAt":  "created_at",
	"dateNeeded": "date_needed",
	"amount":     "amount",
	"priority":   "priority",
	"status":     "status",
}

// orderClause translates an API sort key ("-createdAt" for descending) into
// an ORDER BY clause, always with an id tiebreak so pagination is stable.
func orderClause(sort string) string {
	desc := false
	if len(sort) > 0 && sort[0] == '-' {
		desc = true
		sort = sort[1:]
	}
	col, ok := sortColumns[sort]
	if !ok {
		return "created_at DESC, id DESC"
	}
	if desc {
		return col + " DESC, id DESC"
	}
	return col + " ASC, id ASC"
}

// Create creates a new advance
func (r *AdvanceRepository) Create(ctx context.Context, advance *models.Advance) error {
	return r.db.WithContext(ctx).Create(advance).Error
}

// GetByID gets an advance by ID with relations
func (r *AdvanceRepository) GetByID(ctx context.Context, id uint) (*models.Advance, error) {
	var advance models.Advance
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Approver").
		Preload("Rejecter").
		Preload("Disburser").
		First(&advance, id).Error
	if err != nil {
		return nil, err
	}
	return &advance, nil
}

// GetOwned gets an advance by ID only when it belongs to the given user.
// An advance owned by someone else is indistinguishable from a missing one.
func (r *AdvanceRepository) GetOwned(ctx context.Context, id, userID uint) (*models.Advance, error) {
	var advance models.Advance
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Approver").
		Preload("Rejecter").
		Preload("Disburser").
		Where("id = ? AND user_id = ?", id, userID).
		First(&advance).Error
	if err != nil {
		return nil, err
	}
	return &advance, nil
}

// Update updates an advance
func (r *AdvanceRepository) Update(ctx context.Context, advance *models.Advance) error {
	return r.db.WithContext(ctx).Save(advance).Error
}

// ListByUser lists a user's advances with optional status filter and sort
func (r *AdvanceRepository) ListByUser(ctx context.Context, userID uint, status, sort string, offset, limit int) ([]*models.Advance, int64, error) {
	var advances []*models.Advance
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Advance{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Approver").
		Preload("Rejecter").
		Preload("Disburser").
		Order(orderClause(sort)).
		Offset(offset).
		Limit(limit).
		Find(&advances).Error

	return advances, total, err
}

// RecentByUser returns the most recently created advances for a user
func (r *AdvanceRepository) RecentByUser(ctx context.Context, userID uint, limit int) ([]*models.Advance, error) {
	var advances []*models.Advance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&advances).Error
	return advances, err
}

// PendingByUser returns a user's advances still awaiting a decision
func (r *AdvanceRepository) PendingByUser(ctx context.Context, userID uint) ([]*models.Advance, error) {
	var advances []*models.Advance
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, string(domain.StatusPending)).
		Order("created_at DESC, id DESC").
		Find(&advances).Error
	return advances, err
}

// teamScope restricts an advance query to owners reporting to the manager.
func (r *AdvanceRepository) teamScope(ctx context.Context, managerID uint) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Advance{}).
		Joins("JOIN users ON users.id = advances.user_id").
		Where("users.manager_id = ? AND users.deleted_at IS NULL", managerID)
}

// searchScope applies free-text search over purpose and submitter name.
func searchScope(query *gorm.DB, search string) *gorm.DB {
	if search == "" {
		return query
	}
	like := "%" + search + "%"
	return query.Where(
		"advances.purpose LIKE ? OR users.first_name LIKE ? OR users.last_name LIKE ?",
		like, like, like,
	)
}

// ListPendingForManager lists pending advances submitted by the manager's
// reports, with optional search on purpose or submitter name.
func (r *AdvanceRepository) ListPendingForManager(ctx context.Context, managerID uint, search string, offset, limit int) ([]*models.Advance, int64, error) {
	var advances []*models.Advance
	var total int64

	query := searchScope(r.teamScope(ctx, managerID), search).
		Where("advances.status = ?", string(domain.StatusPending))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("User").
		Order("advances.created_at DESC, advances.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&advances).Error

	return advances, total, err
}

// ListTeam lists the team's advances with status filter and search
func (r *AdvanceRepository) ListTeam(ctx context.Context, managerID uint, status, search string, offset, limit int) ([]*models.Advance, int64, error) {
	var advances []*models.Advance
	var total int64

	query := searchScope(r.teamScope(ctx, managerID), search)
	if status != "" {
		query = query.Where("advances.status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("User").
		Preload("Approver").
		Preload("Rejecter").
		Preload("Disburser").
		Order("advances.created_at DESC, advances.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&advances).Error

	return advances, total, err
}

// ListByStatus lists advances in a given status across all users (finance)
func (r *AdvanceRepository) ListByStatus(ctx context.Context, status string, offset, limit int) ([]*models.Advance, int64, error) {
	var advances []*models.Advance
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Advance{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("User").
		Preload("Approver").
		Preload("Disburser").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&advances).Error

	return advances, total, err
}

// StatusCounts aggregates advance counts and amount by lifecycle state
type StatusCounts struct {
	Total       int64   `json:"totalRequests"`
	Pending     int64   `json:"pending"`
	Approved    int64   `json:"approved"`
	Rejected    int64   `json:"rejected"`
	Disbursed   int64   `json:"disbursed"`
	Retired     int64   `json:"retired"`
	TotalAmount float64 `json:"totalAmount"`
}

type statusRow struct {
	Status string
	Count  int64
	Amount float64
}

func rollup(rows []statusRow) *StatusCounts {
	counts := &StatusCounts{}
	for _, row := range rows {
		counts.Total += row.Count
		counts.TotalAmount += row.Amount
		switch domain.Status(row.Status) {
		case domain.StatusPending:
			counts.Pending = row.Count
		case domain.StatusApproved:
			counts.Approved = row.Count
		case domain.StatusRejected:
			counts.Rejected = row.Count
		case domain.StatusDisbursed:
			counts.Disbursed = row.Count
		case domain.StatusRetired:
			counts.Retired = row.Count
		}
	}
	return counts
}

// StatsByUser aggregates a user's advances by status
func (r *AdvanceRepository) StatsByUser(ctx context.Context, userID uint) (*StatusCounts, error) {
	var rows []statusRow
	err := r.db.WithContext(ctx).Model(&models.Advance{}).
		Select("status, COUNT(*) as count, COALESCE(SUM(amount), 0) as amount").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rollup(rows), nil
}

// StatsByManager aggregates the team's advances by status
func (r *AdvanceRepository) StatsByManager(ctx context.Context, managerID uint) (*StatusCounts, error) {
	var rows []statusRow
	err := r.teamScope(ctx, managerID).
		Select("advances.status as status, COUNT(*) as count, COALESCE(SUM(advances.amount), 0) as amount").
		Group("advances.status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rollup(rows), nil
}

// StatsGlobal aggregates all advances by status (finance/admin views)
func (r *AdvanceRepository) StatsGlobal(ctx context.Context) (*StatusCounts, error) {
	var rows []statusRow
	err := r.db.WithContext(ctx).Model(&models.Advance{}).
		Select("status, COUNT(*) as count, COALESCE(SUM(amount), 0) as amount").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rollup(rows), nil
}

// ReportRow is the light projection used to build report summaries. Monthly
// grouping happens in the service so the query stays portable across MySQL
// and the sqlite test databases.
type ReportRow struct {
	Status    string
	Amount    float64
	CreatedAt time.Time
}

// RowsForManagerInRange returns the team's advances created inside the range
func (r *AdvanceRepository) RowsForManagerInRange(ctx context.Context, managerID uint, start, end time.Time) ([]ReportRow, error) {
	var rows []ReportRow
	err := r.teamScope(ctx, managerID).
		Select("advances.status as status, advances.amount as amount, advances.created_at as created_at").
		Where("advances.created_at >= ? AND advances.created_at < ?", start, end).
		Order("advances.created_at ASC").
		Scan(&rows).Error
	return rows, err
}

// ListRetirementDue returns advances that left the pending state before the
// cutoff and still have no retirement record attached.
func (r *AdvanceRepository) ListRetirementDue(ctx context.Context, cutoff time.Time) ([]*models.Advance, error) {
	var advances []*models.Advance
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{string(domain.StatusApproved), string(domain.StatusDisbursed)}).
		Where("retired_at IS NULL").
		Where("COALESCE(approved_at, disbursed_at) <= ?", cutoff).
		Order("COALESCE(approved_at, disbursed_at) ASC").
		Find(&advances).Error
	return advances, err
}
