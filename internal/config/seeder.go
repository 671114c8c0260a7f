package config

import (
	"log"

	"cardhub/internal/adapters/persistence/models"
	"cardhub/internal/core/domain"
	"cardhub/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedDefaultUsers(); err != nil {
		log.Printf("⚠️ User seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedDefaultUsers seeds one user per workflow role.
// Development/testing only; production accounts come from the identity
// provisioning process.
func (s *Seeder) seedDefaultUsers() error {
	var count int64
	s.db.Model(&models.User{}).Count(&count)
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash("changeme123")
	if err != nil {
		return err
	}

	users := []models.User{
		{Username: "sme", Email: "sme@cardhub.local", Role: int(domain.RoleSME), FirstName: "Sam", LastName: "Expert"},
		{Username: "requester", Email: "requester@cardhub.local", Role: int(domain.RoleRequester), FirstName: "Rae", LastName: "Quest"},
		{Username: "viewer", Email: "viewer@cardhub.local", Role: int(domain.RoleViewOnly), FirstName: "Vic", LastName: "Observer"},
		{Username: "manager", Email: "manager@cardhub.local", Role: int(domain.RoleManager), FirstName: "Morgan", LastName: "Lead"},
	}

	for i := range users {
		users[i].Password = hashedPassword
		users[i].IsActive = true
		if err := s.db.Create(&users[i]).Error; err != nil {
			return err
		}
		log.Printf("✅ User created: %s (role %d)", users[i].Username, users[i].Role)
	}

	return nil
}
