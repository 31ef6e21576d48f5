package models

import (
	"time"

	"advancehub/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	FirstName  string         `gorm:"size:50;not null" json:"firstName"`
	LastName   string         `gorm:"size:50;not null" json:"lastName"`
	Email      string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password   string         `gorm:"size:255;not null" json:"-"`
	EmployeeID string         `gorm:"size:30;index" json:"employeeId"`
	Department string         `gorm:"size:100" json:"department"`
	Position   string         `gorm:"size:100" json:"position"`
	Role       string         `gorm:"size:20;default:'staff';index" json:"role"`
	Phone      string         `gorm:"size:30" json:"phone,omitempty"`
	ManagerID  *uint          `gorm:"index" json:"managerId,omitempty"`
	IsActive   bool           `gorm:"default:true" json:"isActive"`
	LastLogin  *time.Time     `json:"lastLogin,omitempty"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Manager *User `gorm:"foreignKey:ManagerID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserResponse DTO
type UserResponse struct {
	ID         uint       `json:"id"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Email      string     `json:"email"`
	EmployeeID string     `json:"employeeId"`
	Department string     `json:"department"`
	Position   string     `json:"position"`
	Role       string     `json:"role"`
	Phone      string     `json:"phone,omitempty"`
	ManagerID  *uint      `json:"managerId,omitempty"`
	IsActive   bool       `json:"isActive"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		EmployeeID: u.EmployeeID,
		Department: u.Department,
		Position:   u.Position,
		Role:       u.Role,
		Phone:      u.Phone,
		ManagerID:  u.ManagerID,
		IsActive:   u.IsActive,
		LastLogin:  u.LastLogin,
		CreatedAt:  u.CreatedAt,
	}
}

// DashboardPath returns the dashboard route for the user's role.
func (u *UserResponse) DashboardPath() string {
	return domain.Role(u.Role).DashboardPath()
}

// UserSummary is the compact user shape embedded in advance responses
type UserSummary struct {
	ID         uint   `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email,omitempty"`
	EmployeeID string `json:"employeeId,omitempty"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
}

func (u *User) ToSummary() *UserSummary {
	return &UserSummary{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		EmployeeID: u.EmployeeID,
		Department: u.Department,
		Position:   u.Position,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"userId"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expiresAt"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	RevokedAt *time.Time `gorm:"index" json:"revokedAt"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Advance Tables
// ============================================================

// Advance represents advances table. The retirement record is embedded: once
// retired_at is set the advance is closed and the record never changes.
type Advance struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"userId"`
	Amount      float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Purpose     string    `gorm:"size:200;not null" json:"purpose"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Status      string    `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Priority    string    `gorm:"size:20;not null;default:'medium'" json:"priority"`
	DateNeeded  time.Time `gorm:"type:date;not null" json:"dateNeeded"`

	ApprovedBy *uint      `json:"approvedBy,omitempty"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`

	RejectedBy     *uint      `json:"rejectedBy,omitempty"`
	RejectedReason string     `gorm:"type:text" json:"rejectedReason,omitempty"`
	RejectedAt     *time.Time `json:"rejectedAt,omitempty"`

	DisbursedBy *uint      `json:"disbursedBy,omitempty"`
	DisbursedAt *time.Time `json:"disbursedAt,omitempty"`

	RetirementDate   *time.Time `gorm:"type:date" json:"retirementDate,omitempty"`
	TotalExpenses    *float64   `gorm:"type:decimal(15,2)" json:"totalExpenses,omitempty"`
	ExpenseBreakdown string     `gorm:"type:text" json:"expenseBreakdown,omitempty"`
	RetiredAt        *time.Time `json:"retiredAt,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User      *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Approver  *User `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
	Rejecter  *User `gorm:"foreignKey:RejectedBy" json:"rejecter,omitempty"`
	Disburser *User `gorm:"foreignKey:DisbursedBy" json:"disburser,omitempty"`
}

func (Advance) TableName() string {
	return "advances"
}

// IsRetired reports whether a retirement record is attached.
func (a *Advance) IsRetired() bool {
	return a.RetiredAt != nil
}

// RetirementResponse DTO for the embedded retirement record
type RetirementResponse struct {
	RetirementDate   time.Time `json:"retirementDate"`
	TotalExpenses    float64   `json:"totalExpenses"`
	ExpenseBreakdown string    `json:"expenseBreakdown"`
	RetiredAt        time.Time `json:"retiredAt"`
}

// AdvanceResponse DTO
type AdvanceResponse struct {
	ID             uint                `json:"id"`
	User           *UserSummary        `json:"user,omitempty"`
	Amount         float64             `json:"amount"`
	Purpose        string              `json:"purpose"`
	Description    string              `json:"description"`
	Status         string              `json:"status"`
	Priority       string              `json:"priority"`
	DateNeeded     time.Time           `json:"dateNeeded"`
	ApprovedBy     *UserSummary        `json:"approvedBy,omitempty"`
	ApprovedAt     *time.Time          `json:"approvedAt,omitempty"`
	RejectedBy     *UserSummary        `json:"rejectedBy,omitempty"`
	RejectedReason string              `json:"rejectedReason,omitempty"`
	RejectedAt     *time.Time          `json:"rejectedAt,omitempty"`
	DisbursedBy    *UserSummary        `json:"disbursedBy,omitempty"`
	DisbursedAt    *time.Time          `json:"disbursedAt,omitempty"`
	Retirement     *RetirementResponse `json:"retirement,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

func (a *Advance) ToResponse() *AdvanceResponse {
	resp := &AdvanceResponse{
		ID:             a.ID,
		Amount:         a.Amount,
		Purpose:        a.Purpose,
		Description:    a.Description,
		Status:         a.Status,
		Priority:       a.Priority,
		DateNeeded:     a.DateNeeded,
		ApprovedAt:     a.ApprovedAt,
		RejectedReason: a.RejectedReason,
		RejectedAt:     a.RejectedAt,
		DisbursedAt:    a.DisbursedAt,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}

	if a.User != nil {
		resp.User = a.User.ToSummary()
	}
	if a.Approver != nil {
		resp.ApprovedBy = a.Approver.ToSummary()
	}
	if a.Rejecter != nil {
		resp.RejectedBy = a.Rejecter.ToSummary()
	}
	if a.Disburser != nil {
		resp.DisbursedBy = a.Disburser.ToSummary()
	}
	if a.IsRetired() && a.RetirementDate != nil && a.TotalExpenses != nil {
		resp.Retirement = &RetirementResponse{
			RetirementDate:   *a.RetirementDate,
			TotalExpenses:    *a.TotalExpenses,
			ExpenseBreakdown: a.ExpenseBreakdown,
			RetiredAt:        *a.RetiredAt,
		}
	}

	return resp
}

// ToResponses converts a slice of advances.
func ToResponses(advances []*Advance) []*AdvanceResponse {
	out := make([]*AdvanceResponse, len(advances))
	for i, a := range advances {
		out[i] = a.ToResponse()
	}
	return out
}

// ============================================================
// Notifications
// ============================================================

// Notification represents notifications table
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	Type      string    `gorm:"size:30;not null" json:"type"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	Read      bool      `gorm:"column:is_read;default:false;index" json:"read"`
	AdvanceID *uint     `gorm:"index" json:"relatedAdvanceId,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`

	User    *User    `gorm:"foreignKey:UserID" json:"-"`
	Advance *Advance `gorm:"foreignKey:AdvanceID" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Advance{},
		&Notification{},
	)
}
