package services

import (
	"context"
	"testing"
	"time"

	"advancehub/internal/adapters/persistence/models"
	"advancehub/internal/adapters/persistence/repositories"
	"advancehub/internal/core/domain"

	"gorm.io/gorm"
)

func newReminderService(db *gorm.DB) *ReminderService {
	notificationRepo := repositories.NewNotificationRepository(db)
	return NewReminderService(
		repositories.NewAdvanceRepository(db),
		notificationRepo,
		repositories.NewRefreshTokenRepository(db),
		NewNotificationService(notificationRepo),
		testConfig(),
	)
}

func countReminders(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", userID, "retirement_due").
		Count(&count).Error; err != nil {
		t.Fatalf("count reminders: %v", err)
	}
	return count
}

func TestReminderSweep(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newReminderService(db)
	staff := seedUser(t, db, "staff", nil)

	// Approved well past the due window
	overdue := seedAdvance(t, db, staff.ID, "approved")
	past := time.Now().AddDate(0, 0, -40)
	if err := db.Model(overdue).Update("approved_at", past).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}

	// Approved recently, not yet due
	seedAdvance(t, db, staff.ID, "approved")

	// Already retired, never reminded
	retiredAt := time.Now()
	retired := seedAdvance(t, db, staff.ID, "retired")
	if err := db.Model(retired).Updates(map[string]interface{}{
		"approved_at": past,
		"retired_at":  retiredAt,
	}).Error; err != nil {
		t.Fatalf("retire: %v", err)
	}

	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := countReminders(t, db, staff.ID); got != 1 {
		t.Fatalf("expected 1 reminder, got %d", got)
	}
}

func TestReminderSweepDisbursedWithoutApproval(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newReminderService(db)
	finance := seedUser(t, db, "finance", nil)
	staff := seedUser(t, db, "staff", nil)
	advance := seedAdvance(t, db, staff.ID, "pending")

	// Disbursed straight from pending, so approved_at stays empty
	if _, err := newFinanceService(db).Disburse(context.Background(), advance.ID, finance.ID, domain.RoleFinance); err != nil {
		t.Fatalf("disburse: %v", err)
	}
	past := time.Now().AddDate(0, 0, -45)
	if err := db.Model(advance).Update("disbursed_at", past).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}

	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := countReminders(t, db, staff.ID); got != 1 {
		t.Fatalf("expected 1 reminder for the disbursed advance, got %d", got)
	}
}

func TestReminderSweepDailyDedupe(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newReminderService(db)
	staff := seedUser(t, db, "staff", nil)

	overdue := seedAdvance(t, db, staff.ID, "disbursed")
	past := time.Now().AddDate(0, 0, -45)
	if err := db.Model(overdue).Updates(map[string]interface{}{
		"approved_at":  nil,
		"disbursed_at": past,
	}).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}

	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	// A second sweep the same day stays quiet
	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if got := countReminders(t, db, staff.ID); got != 1 {
		t.Fatalf("expected a single reminder per day, got %d", got)
	}

	// A reminder from a previous day does not suppress today's
	yesterday := time.Now().AddDate(0, 0, -1)
	if err := db.Model(&models.Notification{}).
		Where("user_id = ?", staff.ID).
		Update("created_at", yesterday).Error; err != nil {
		t.Fatalf("backdate notification: %v", err)
	}
	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("third run: %v", err)
	}
	if got := countReminders(t, db, staff.ID); got != 2 {
		t.Fatalf("expected a fresh reminder today, got %d", got)
	}
}
