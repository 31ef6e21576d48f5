package domain

// Status represents the lifecycle state of an advance request
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusDisbursed Status = "disbursed"
	StatusRetired   Status = "retired"
)

// AllStatuses lists every lifecycle state, in workflow order.
var AllStatuses = []Status{
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusDisbursed,
	StatusRetired,
}

// Valid reports whether the status is a member of the closed lifecycle set.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusDisbursed, StatusRetired:
		return true
	}
	return false
}

// Terminal reports whether no further transition leaves the state.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusRetired
}

// transitions is the authoritative transition table. Disbursed is an optional
// waypoint: finance may record a disbursement from pending or approved, and a
// retirement is accepted from approved whether or not disbursement was
// recorded.
var transitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusApproved:  true,
		StatusRejected:  true,
		StatusDisbursed: true,
	},
	StatusApproved: {
		StatusDisbursed: true,
		StatusRetired:   true,
	},
	StatusDisbursed: {
		StatusRetired: true,
	},
}

// CanTransition reports whether the lifecycle permits moving from one state
// to another. It answers the same for the same pair every time; there is no
// hidden context.
func CanTransition(from, to Status) bool {
	return transitions[from][to]
}

// transitionActors maps each target state to the roles allowed to cause it.
var transitionActors = map[Status][]Role{
	StatusPending:   {RoleStaff},
	StatusApproved:  {RoleManager},
	StatusRejected:  {RoleManager},
	StatusDisbursed: {RoleFinance},
	StatusRetired:   {RoleStaff},
}

// RoleMayCause reports whether the role is permitted to drive an advance into
// the given state. Ownership and reporting-line checks are enforced
// separately by the services; this is the pure role gate.
func RoleMayCause(r Role, to Status) bool {
	for _, allowed := range transitionActors[to] {
		if r == allowed {
			return true
		}
	}
	return false
}

// Retirable reports whether an advance in this state may accept a retirement
// record.
func (s Status) Retirable() bool {
	return s == StatusApproved || s == StatusDisbursed
}
