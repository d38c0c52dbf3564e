package config

import (
	"log"
	"strings"

	"homyhive/internal/adapters/persistence/models"
	"homyhive/internal/pkg/password"

	"github.com/google/uuid"
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

// seedAdminUser creates a local admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD. Development only.
func (s *Seeder) seedAdminUser() error {
	email := strings.ToLower(strings.TrimSpace(s.cfg.Seed.AdminEmail))
	if email == "" || s.cfg.Seed.AdminPassword == "" {
		log.Println("⚠️ Skipping admin seed: ADMIN_EMAIL/ADMIN_PASSWORD not set")
		return nil
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash(s.cfg.Seed.AdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		ExternalID:   "local-" + uuid.NewString(),
		Email:        email,
		DisplayName:  "Administrator",
		PasswordHash: hashedPassword,
		Status:       models.UserStatusActive,
		IsAdmin:      true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Email)
	return nil
}
