package domain

import "testing"

func TestTransitionTable(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusPending, StatusApproved}:   true,
		{StatusPending, StatusRejected}:   true,
		{StatusPending, StatusDisbursed}:  true,
		{StatusApproved, StatusDisbursed}: true,
		{StatusApproved, StatusRetired}:   true,
		{StatusDisbursed, StatusRetired}:  true,
	}

	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			want := allowed[[2]Status{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, from := range AllStatuses {
		if !from.Terminal() {
			continue
		}
		for _, to := range AllStatuses {
			if CanTransition(from, to) {
				t.Errorf("terminal state %s allows transition to %s", from, to)
			}
		}
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range AllStatuses {
		if !s.Valid() {
			t.Errorf("expected %s to be valid", s)
		}
	}
	for _, s := range []Status{"", "cancelled", "PENDING", "unknown"} {
		if s.Valid() {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestRetirable(t *testing.T) {
	want := map[Status]bool{
		StatusPending:   false,
		StatusApproved:  true,
		StatusRejected:  false,
		StatusDisbursed: true,
		StatusRetired:   false,
	}
	for s, expect := range want {
		if got := s.Retirable(); got != expect {
			t.Errorf("%s.Retirable() = %v, want %v", s, got, expect)
		}
	}
}

func TestRoleMayCause(t *testing.T) {
	cases := []struct {
		role Role
		to   Status
		want bool
	}{
		{RoleStaff, StatusPending, true},
		{RoleStaff, StatusRetired, true},
		{RoleStaff, StatusApproved, false},
		{RoleManager, StatusApproved, true},
		{RoleManager, StatusRejected, true},
		{RoleManager, StatusDisbursed, false},
		{RoleFinance, StatusDisbursed, true},
		{RoleFinance, StatusApproved, false},
		{RoleAdmin, StatusApproved, false},
	}
	for _, tc := range cases {
		if got := RoleMayCause(tc.role, tc.to); got != tc.want {
			t.Errorf("RoleMayCause(%s, %s) = %v, want %v", tc.role, tc.to, got, tc.want)
		}
	}
}

func TestDashboardPath(t *testing.T) {
	want := map[Role]string{
		RoleStaff:   "/dashboard",
		RoleManager: "/manager/dashboard",
		RoleFinance: "/finance/dashboard",
		RoleAdmin:   "/admin/dashboard",
	}
	for role, path := range want {
		if got := role.DashboardPath(); got != path {
			t.Errorf("%s dashboard = %s, want %s", role, got, path)
		}
	}
	if got := Role("ghost").DashboardPath(); got != "/login" {
		t.Errorf("unknown role dashboard = %s, want /login", got)
	}
}
