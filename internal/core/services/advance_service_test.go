package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"advancehub/internal/adapters/persistence/models"
	"advancehub/internal/core/domain"
)

func TestAdvanceCreate(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAdvanceService(db)
	manager := seedUser(t, db, "manager", nil)
	staff := seedUser(t, db, "staff", &manager.ID)

	input := &CreateAdvanceInput{
		Purpose:     "Regional workshop",
		Description: "Venue and transport",
		Amount:      1200,
		DateNeeded:  time.Now().AddDate(0, 0, 14).Format("2006-01-02"),
		Priority:    "high",
	}

	advance, err := svc.Create(context.Background(), input, staff.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if advance.Status != "pending" {
		t.Fatalf("expected pending status, got %s", advance.Status)
	}
	if advance.User == nil || advance.User.ID != staff.ID {
		t.Fatalf("expected owner relation loaded")
	}

	// The manager gets a submission notification
	var notifs []models.Notification
	if err := db.Where("user_id = ?", manager.ID).Find(&notifs).Error; err != nil {
		t.Fatalf("load notifications: %v", err)
	}
	if len(notifs) != 1 || notifs[0].Type != "request_submitted" {
		t.Fatalf("expected 1 submission notification, got %+v", notifs)
	}
}

func TestAdvanceCreateDefaultsPriority(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAdvanceService(db)
	staff := seedUser(t, db, "staff", nil)

	advance, err := svc.Create(context.Background(), &CreateAdvanceInput{
		Purpose:     "Supplies",
		Description: "Stationery restock",
		Amount:      90,
		DateNeeded:  time.Now().Format("2006-01-02"),
	}, staff.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if advance.Priority != "medium" {
		t.Fatalf("expected medium priority default, got %s", advance.Priority)
	}
}

func TestAdvanceCreateValidation(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAdvanceService(db)
	staff := seedUser(t, db, "staff", nil)

	cases := []struct {
		name  string
		input CreateAdvanceInput
		field string
	}{
		{"blank purpose", CreateAdvanceInput{Description: "d", Amount: 10, DateNeeded: "2099-01-01"}, "purpose"},
		{"blank description", CreateAdvanceInput{Purpose: "p", Amount: 10, DateNeeded: "2099-01-01"}, "description"},
		{"zero amount", CreateAdvanceInput{Purpose: "p", Description: "d", DateNeeded: "2099-01-01"}, "amount"},
		{"negative amount", CreateAdvanceInput{Purpose: "p", Description: "d", Amount: -5, DateNeeded: "2099-01-01"}, "amount"},
		{"past date", CreateAdvanceInput{Purpose: "p", Description: "d", Amount: 10, DateNeeded: "2020-01-01"}, "dateNeeded"},
		{"bad date format", CreateAdvanceInput{Purpose: "p", Description: "d", Amount: 10, DateNeeded: "01/01/2099"}, "dateNeeded"},
		{"unknown priority", CreateAdvanceInput{Purpose: "p", Description: "d", Amount: 10, DateNeeded: "2099-01-01", Priority: "extreme"}, "priority"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), &tc.input, staff.ID)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := vErr.Fields[tc.field]; !ok {
				t.Fatalf("expected error on field %s, got %v", tc.field, vErr.Fields)
			}
		})
	}

	// Nothing written on validation failure
	var count int64
	db.Model(&models.Advance{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no advances persisted, got %d", count)
	}
}

func TestAdvanceGetOwnedHidesForeign(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAdvanceService(db)
	owner := seedUser(t, db, "staff", nil)
	other := seedUser(t, db, "staff", nil)
	advance := seedAdvance(t, db, owner.ID, "pending")

	if _, err := svc.GetOwned(context.Background(), advance.ID, owner.ID); err != nil {
		t.Fatalf("owner fetch: %v", err)
	}

	// A foreign advance looks exactly like a missing one
	_, err := svc.GetOwned(context.Background(), advance.ID, other.ID)
	if !errors.Is(err, domain.ErrAdvanceNotFound) {
		t.Fatalf("expected not found for foreign advance, got %v", err)
	}
}

func TestAdvanceRetire(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAdvanceService(db)
	owner := seedUser(t, db, "staff", nil)
	advance := seedAdvance(t, db, owner.ID, "approved")

	input := &RetireInput{
		RetirementDate:   time.Now().Format("2006-01-02"),
		TotalExpenses:    480,
		ExpenseBreakdown: "Fuel 300, lodging 180",
	}

	retired, err := svc.Retire(context.Background(), advance.ID, owner.ID, domain.RoleStaff, input)
	if err != nil {
		t.Fatalf("retire: %v", err)
	}
	if retired.Status != "retired" {
		t.Fatalf("expected retired status, got %s", retired.Status)
	}
	if retired.RetiredAt == nil || retired.TotalExpenses == nil || *retired.TotalExpenses != 480 {
		t.Fatalf("expected retirement record stamped, got %+v", retired)
	}
}

func TestAdvanceRetireFromDisbursed(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAdvanceService(db)
	owner := seedUser(t, db, "staff", nil)
	advance := seedAdvance(t, db, owner.ID, "disbursed")

	_, err := svc.Retire(context.Background(), advance.ID, owner.ID, domain.RoleStaff, &RetireInput{
		RetirementDate:   time.Now().Format("2006-01-02"),
		TotalExpenses:    500,
		ExpenseBreakdown: "Full spend",
	})
	if err != nil {
		t.Fatalf("retire from disbursed: %v", err)
	}
}

func TestAdvanceRetireRoleGate(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAdvanceService(db)
	owner := seedUser(t, db, "staff", nil)
	advance := seedAdvance(t, db, owner.ID, "approved")

	_, err := svc.Retire(context.Background(), advance.ID, owner.ID, domain.RoleFinance, &RetireInput{
		RetirementDate:   time.Now().Format("2006-01-02"),
		TotalExpenses:    480,
		ExpenseBreakdown: "Fuel 300, lodging 180",
	})
	if !errors.Is(err, domain.ErrRoleNotAllowed) {
		t.Fatalf("expected role gate, got %v", err)
	}
}

func TestAdvanceRetireRejectsWrongStatus(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAdvanceService(db)
	owner := seedUser(t, db, "staff", nil)

	for _, status := range []string{"pending", "rejected", "retired"} {
		advance := seedAdvance(t, db, owner.ID, status)
		_, err := svc.Retire(context.Background(), advance.ID, owner.ID, domain.RoleStaff, &RetireInput{
			RetirementDate:   time.Now().Format("2006-01-02"),
			TotalExpenses:    100,
			ExpenseBreakdown: "Spend",
		})
		if !errors.Is(err, domain.ErrNotRetirable) {
			t.Fatalf("status %s: expected not retirable, got %v", status, err)
		}
	}
}

func TestAdvanceRetireValidation(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAdvanceService(db)
	owner := seedUser(t, db, "staff", nil)
	advance := seedAdvance(t, db, owner.ID, "approved")

	cases := []struct {
		name  string
		input RetireInput
		field string
	}{
		{"future date", RetireInput{RetirementDate: time.Now().AddDate(0, 0, 2).Format("2006-01-02"), TotalExpenses: 10, ExpenseBreakdown: "x"}, "retirementDate"},
		{"zero expenses", RetireInput{RetirementDate: time.Now().Format("2006-01-02"), ExpenseBreakdown: "x"}, "totalExpenses"},
		{"blank breakdown", RetireInput{RetirementDate: time.Now().Format("2006-01-02"), TotalExpenses: 10, ExpenseBreakdown: "  "}, "expenseBreakdown"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Retire(context.Background(), advance.ID, owner.ID, domain.RoleStaff, &tc.input)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := vErr.Fields[tc.field]; !ok {
				t.Fatalf("expected error on field %s, got %v", tc.field, vErr.Fields)
			}
		})
	}
}

func TestAdvanceListAndStats(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAdvanceService(db)
	owner := seedUser(t, db, "staff", nil)
	seedAdvance(t, db, owner.ID, "pending")
	seedAdvance(t, db, owner.ID, "approved")
	seedAdvance(t, db, owner.ID, "rejected")

	out, err := svc.ListOwned(context.Background(), owner.ID, &ListInput{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out.Total != 3 || len(out.Advances) != 2 {
		t.Fatalf("expected total 3, page of 2, got total %d len %d", out.Total, len(out.Advances))
	}

	filtered, err := svc.ListOwned(context.Background(), owner.ID, &ListInput{Status: "approved", Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if filtered.Total != 1 {
		t.Fatalf("expected 1 approved, got %d", filtered.Total)
	}

	if _, err := svc.ListOwned(context.Background(), owner.ID, &ListInput{Status: "bogus"}); err == nil {
		t.Fatalf("expected error for unknown status filter")
	}

	stats, err := svc.Stats(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 3 || stats.Pending != 1 || stats.Approved != 1 || stats.Rejected != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.TotalAmount != 1500 {
		t.Fatalf("expected total amount 1500, got %.2f", stats.TotalAmount)
	}

	pending, err := svc.Pending(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending, got %d", len(pending))
	}
}
