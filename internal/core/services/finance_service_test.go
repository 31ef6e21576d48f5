package services

import (
	"context"
	"errors"
	"testing"

	"advancehub/internal/adapters/persistence/models"
	"advancehub/internal/core/domain"
)

func TestFinanceDisburse(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newFinanceService(db)
	finance := seedUser(t, db, "finance", nil)
	staff := seedUser(t, db, "staff", nil)
	advance := seedAdvance(t, db, staff.ID, "approved")

	disbursed, err := svc.Disburse(context.Background(), advance.ID, finance.ID, domain.RoleFinance)
	if err != nil {
		t.Fatalf("disburse: %v", err)
	}
	if disbursed.Status != "disbursed" {
		t.Fatalf("expected disbursed, got %s", disbursed.Status)
	}
	if disbursed.DisbursedBy == nil || *disbursed.DisbursedBy != finance.ID || disbursed.DisbursedAt == nil {
		t.Fatalf("expected disbursement stamped, got %+v", disbursed)
	}
	if disbursed.Disburser == nil || disbursed.Disburser.ID != finance.ID {
		t.Fatalf("expected disburser relation loaded, got %+v", disbursed.Disburser)
	}
	if resp := disbursed.ToResponse(); resp.DisbursedBy == nil || resp.DisbursedBy.ID != finance.ID {
		t.Fatalf("expected disburser summary in response, got %+v", resp.DisbursedBy)
	}

	// Owner gets notified
	var notifs []models.Notification
	if err := db.Where("user_id = ? AND type = ?", staff.ID, "disbursement_ready").Find(&notifs).Error; err != nil {
		t.Fatalf("load notifications: %v", err)
	}
	if len(notifs) != 1 {
		t.Fatalf("expected 1 disbursement notification, got %d", len(notifs))
	}

	// Paying twice is a conflict
	_, err = svc.Disburse(context.Background(), advance.ID, finance.ID, domain.RoleFinance)
	if !errors.Is(err, domain.ErrAlreadyProcessed) {
		t.Fatalf("expected already processed, got %v", err)
	}
}

func TestFinanceDisburseRoleGate(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newFinanceService(db)
	finance := seedUser(t, db, "finance", nil)
	staff := seedUser(t, db, "staff", nil)
	advance := seedAdvance(t, db, staff.ID, "approved")

	_, err := svc.Disburse(context.Background(), advance.ID, finance.ID, domain.RoleAdmin)
	if !errors.Is(err, domain.ErrRoleNotAllowed) {
		t.Fatalf("expected role gate, got %v", err)
	}

	var reloaded models.Advance
	if err := db.First(&reloaded, advance.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != "approved" {
		t.Fatalf("expected approved after blocked payout, got %s", reloaded.Status)
	}
}

func TestFinanceDisburseFromPending(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newFinanceService(db)
	finance := seedUser(t, db, "finance", nil)
	staff := seedUser(t, db, "staff", nil)
	advance := seedAdvance(t, db, staff.ID, "pending")

	// The manager step can be handled out of band
	disbursed, err := svc.Disburse(context.Background(), advance.ID, finance.ID, domain.RoleFinance)
	if err != nil {
		t.Fatalf("disburse from pending: %v", err)
	}
	if disbursed.Status != "disbursed" {
		t.Fatalf("expected disbursed, got %s", disbursed.Status)
	}
}

func TestFinanceDisburseRejectsClosedStates(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newFinanceService(db)
	finance := seedUser(t, db, "finance", nil)
	staff := seedUser(t, db, "staff", nil)

	for _, status := range []string{"rejected", "retired"} {
		advance := seedAdvance(t, db, staff.ID, status)
		_, err := svc.Disburse(context.Background(), advance.ID, finance.ID, domain.RoleFinance)
		if !errors.Is(err, domain.ErrAlreadyProcessed) {
			t.Fatalf("status %s: expected already processed, got %v", status, err)
		}
	}
}

func TestFinanceDashboardAndList(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newFinanceService(db)
	staff := seedUser(t, db, "staff", nil)
	seedAdvance(t, db, staff.ID, "approved")
	seedAdvance(t, db, staff.ID, "disbursed")
	seedAdvance(t, db, staff.ID, "pending")

	dashboard, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dashboard.Stats.Total != 3 {
		t.Fatalf("expected 3 advances, got %d", dashboard.Stats.Total)
	}
	if len(dashboard.AwaitingPayment) != 1 || len(dashboard.RecentDisbursals) != 1 {
		t.Fatalf("unexpected queues: awaiting %d, recent %d",
			len(dashboard.AwaitingPayment), len(dashboard.RecentDisbursals))
	}

	listed, err := svc.ListByStatus(context.Background(), "approved", 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if listed.Total != 1 {
		t.Fatalf("expected 1 approved, got %d", listed.Total)
	}

	all, err := svc.ListByStatus(context.Background(), "", 1, 10)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if all.Total != 3 {
		t.Fatalf("expected 3 total, got %d", all.Total)
	}
}
