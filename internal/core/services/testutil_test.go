package services

import (
	"fmt"
	"testing"
	"time"

	"advancehub/internal/adapters/persistence/models"
	"advancehub/internal/adapters/persistence/repositories"
	"advancehub/internal/config"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
		Admin: config.AdminConfig{
			RegistrationKey: "bootstrap-key",
		},
		Retirement: config.RetirementConfig{
			DueDays:  30,
			Schedule: "30 8 * * *",
		},
	}
}

var userSeq int

func seedUser(t *testing.T, db *gorm.DB, role string, managerID *uint) *models.User {
	t.Helper()
	userSeq++
	user := &models.User{
		FirstName:  "Test",
		LastName:   fmt.Sprintf("User%d", userSeq),
		Email:      fmt.Sprintf("user%d-%s@example.com", userSeq, role),
		Password:   "hash",
		EmployeeID: fmt.Sprintf("EMP%04d", userSeq),
		Department: "Operations",
		Position:   "Analyst",
		Role:       role,
		ManagerID:  managerID,
		IsActive:   true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedAdvance(t *testing.T, db *gorm.DB, userID uint, status string) *models.Advance {
	t.Helper()
	advance := &models.Advance{
		UserID:      userID,
		Amount:      500,
		Purpose:     "Field visit",
		Description: "Travel and accommodation",
		Status:      status,
		Priority:    "medium",
		DateNeeded:  time.Now().AddDate(0, 0, 7),
	}
	if status != "pending" && status != "rejected" {
		now := time.Now()
		advance.ApprovedAt = &now
	}
	if err := db.Create(advance).Error; err != nil {
		t.Fatalf("seed advance: %v", err)
	}
	return advance
}

func newAdvanceService(db *gorm.DB) *AdvanceService {
	notifyService := NewNotificationService(repositories.NewNotificationRepository(db))
	return NewAdvanceService(repositories.NewAdvanceRepository(db), repositories.NewUserRepository(db), notifyService)
}

func newManagerService(db *gorm.DB) *ManagerService {
	notifyService := NewNotificationService(repositories.NewNotificationRepository(db))
	return NewManagerService(repositories.NewAdvanceRepository(db), repositories.NewUserRepository(db), notifyService)
}

func newFinanceService(db *gorm.DB) *FinanceService {
	notifyService := NewNotificationService(repositories.NewNotificationRepository(db))
	return NewFinanceService(repositories.NewAdvanceRepository(db), notifyService)
}
