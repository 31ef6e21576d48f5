package domain

// Role represents a user role in the system
type Role string

const (
	RoleStaff   Role = "staff"
	RoleManager Role = "manager"
	RoleFinance Role = "finance"
	RoleAdmin   Role = "admin"
)

// AllRoles lists every known role.
var AllRoles = []Role{RoleStaff, RoleManager, RoleFinance, RoleAdmin}

// Valid reports whether the role is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStaff, RoleManager, RoleFinance, RoleAdmin:
		return true
	}
	return false
}

// DashboardPath returns the dashboard route for the role. This is the single
// place the role→dashboard mapping lives; a role mismatch always redirects to
// the user's own dashboard, never to a bare error page.
func (r Role) DashboardPath() string {
	switch r {
	case RoleManager:
		return "/manager/dashboard"
	case RoleFinance:
		return "/finance/dashboard"
	case RoleAdmin:
		return "/admin/dashboard"
	case RoleStaff:
		return "/dashboard"
	}
	return "/login"
}

// RequiresEmployeeProfile reports whether registration with this role must
// supply department and employee ID. Admin accounts authenticate with the
// registration key instead.
func (r Role) RequiresEmployeeProfile() bool {
	return r != RoleAdmin
}

// Priority represents the urgency of an advance request
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether the priority is a known value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// NotificationType enumerates the lifecycle events users are notified about
type NotificationType string

const (
	NotifyRequestSubmitted  NotificationType = "request_submitted"
	NotifyRequestApproved   NotificationType = "request_approved"
	NotifyRequestRejected   NotificationType = "request_rejected"
	NotifyDisbursementReady NotificationType = "disbursement_ready"
	NotifyRetirementDue     NotificationType = "retirement_due"
)

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
