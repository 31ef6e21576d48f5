package config

import (
	"log"

	"advancehub/internal/adapters/persistence/models"
	"advancehub/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser creates the initial admin account when no admin exists yet.
// Credentials come from ADMIN_SEED_EMAIL / ADMIN_SEED_PASSWORD so nothing
// well-known ships in the binary.
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", "admin").Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	if s.cfg.Admin.SeedEmail == "" || s.cfg.Admin.SeedPassword == "" {
		log.Println("⚠️ Skipping admin seed: ADMIN_SEED_EMAIL / ADMIN_SEED_PASSWORD not set")
		return nil
	}

	hashedPassword, err := password.Hash(s.cfg.Admin.SeedPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		FirstName: "System",
		LastName:  "Administrator",
		Email:     s.cfg.Admin.SeedEmail,
		Password:  hashedPassword,
		Role:      "admin",
		IsActive:  true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Email)
	return nil
}
