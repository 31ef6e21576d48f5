package services

import (
	"context"
	"errors"
	"testing"

	"advancehub/internal/adapters/persistence/models"
	"advancehub/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(
		repositories.NewUserRepository(db),
		repositories.NewRefreshTokenRepository(db),
		testConfig(),
	)
}

func registerInput(email string) *RegisterInput {
	return &RegisterInput{
		FirstName:  "Ada",
		LastName:   "Okafor",
		Email:      email,
		Password:   "Secret1pass",
		EmployeeID: "EMP-" + email,
		Department: "Logistics",
		Position:   "Coordinator",
		Role:       "staff",
	}
}

func TestRegisterStaff(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAuthService(db)

	result, err := svc.Register(context.Background(), registerInput("ada@example.com"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatalf("expected token pair")
	}
	if result.User.Role != "staff" {
		t.Fatalf("expected staff role, got %s", result.User.Role)
	}

	// Refresh token stored hashed, never in the clear
	var stored models.RefreshToken
	if err := db.First(&stored).Error; err != nil {
		t.Fatalf("load refresh token: %v", err)
	}
	if stored.TokenHash == result.RefreshToken {
		t.Fatalf("refresh token stored unhashed")
	}
}

func TestRegisterStaffAttachesManager(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAuthService(db)

	manager := seedUser(t, db, "manager", nil)
	manager.Department = "Logistics"
	if err := db.Save(manager).Error; err != nil {
		t.Fatalf("update manager: %v", err)
	}

	result, err := svc.Register(context.Background(), registerInput("staff-with-manager@example.com"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.User.ManagerID == nil || *result.User.ManagerID != manager.ID {
		t.Fatalf("expected department manager attached, got %+v", result.User.ManagerID)
	}
}

func TestRegisterValidation(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAuthService(db)

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
		field  string
	}{
		{"staff without employee ID", func(in *RegisterInput) { in.EmployeeID = "" }, "employeeId"},
		{"staff without department", func(in *RegisterInput) { in.Department = "" }, "department"},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }, "email"},
		{"weak password", func(in *RegisterInput) { in.Password = "short" }, "password"},
		{"password without digits", func(in *RegisterInput) { in.Password = "NoDigitsHere" }, "password"},
		{"unknown role", func(in *RegisterInput) { in.Role = "supervisor" }, "role"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := registerInput(tc.name + "@example.com")
			tc.mutate(in)
			_, err := svc.Register(context.Background(), in)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := vErr.Fields[tc.field]; !ok {
				t.Fatalf("expected error on field %s, got %v", tc.field, vErr.Fields)
			}
		})
	}

	// Nothing persisted by failed registrations
	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no users persisted, got %d", count)
	}
}

func TestRegisterAdminRequiresKey(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAuthService(db)

	in := registerInput("admin@example.com")
	in.Role = "admin"
	in.EmployeeID = ""
	in.Department = ""

	// Missing key
	_, err := svc.Register(context.Background(), in)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error without key, got %v", err)
	}

	// Wrong key
	in.AdminKey = "wrong"
	if _, err := svc.Register(context.Background(), in); !errors.As(err, &vErr) {
		t.Fatalf("expected validation error with wrong key, got %v", err)
	}

	// Correct key, no employee profile needed
	in.AdminKey = "bootstrap-key"
	result, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("register admin: %v", err)
	}
	if result.User.Role != "admin" {
		t.Fatalf("expected admin role, got %s", result.User.Role)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAuthService(db)

	if _, err := svc.Register(context.Background(), registerInput("dup@example.com")); err != nil {
		t.Fatalf("first register: %v", err)
	}

	in := registerInput("dup@example.com")
	in.EmployeeID = "EMP-other"
	_, err := svc.Register(context.Background(), in)
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}

	// Email matching is case insensitive
	in2 := registerInput("Dup@Example.com")
	_, err = svc.Register(context.Background(), in2)
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected case-insensitive email match, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAuthService(db)

	if _, err := svc.Register(context.Background(), registerInput("login@example.com")); err != nil {
		t.Fatalf("register: %v", err)
	}

	result, err := svc.Login(context.Background(), &LoginInput{Email: "login@example.com", Password: "Secret1pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.User.LastLogin == nil {
		t.Fatalf("expected last login stamped")
	}

	// Wrong password and unknown user are indistinguishable
	if _, err := svc.Login(context.Background(), &LoginInput{Email: "login@example.com", Password: "WrongPass1"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), &LoginInput{Email: "ghost@example.com", Password: "Secret1pass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}
}

func TestLoginInactive(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAuthService(db)

	if _, err := svc.Register(context.Background(), registerInput("inactive@example.com")); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := db.Model(&models.User{}).Where("email = ?", "inactive@example.com").Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	_, err := svc.Login(context.Background(), &LoginInput{Email: "inactive@example.com", Password: "Secret1pass"})
	if !errors.Is(err, ErrUserInactive) {
		t.Fatalf("expected inactive error, got %v", err)
	}
}

func TestRefreshTokenRotation(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAuthService(db)

	registered, err := svc.Register(context.Background(), registerInput("rotate@example.com"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	refreshed, err := svc.RefreshToken(context.Background(), registered.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == registered.RefreshToken {
		t.Fatalf("expected a rotated refresh token")
	}

	// The old token was revoked by rotation
	_, err = svc.RefreshToken(context.Background(), registered.RefreshToken)
	if !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected revoked error for old token, got %v", err)
	}
}

func TestLogoutIdempotent(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAuthService(db)

	registered, err := svc.Register(context.Background(), registerInput("logout@example.com"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.Logout(context.Background(), registered.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	// Logging out again, or with a token that never existed, still succeeds
	if err := svc.Logout(context.Background(), registered.RefreshToken); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if err := svc.Logout(context.Background(), "never-issued"); err != nil {
		t.Fatalf("unknown token logout: %v", err)
	}

	// The revoked token cannot refresh anymore
	if _, err := svc.RefreshToken(context.Background(), registered.RefreshToken); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected revoked error after logout, got %v", err)
	}
}
