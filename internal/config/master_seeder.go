package config

import (
	"fmt"
	"log"

	"cardhub/internal/adapters/persistence/models"
	"cardhub/internal/core/domain"

	"gorm.io/gorm"
)

// SeedMasterData seeds the master tables the request wizard reads from.
// Each table is only seeded when empty, so reruns are safe.
func SeedMasterData(db *gorm.DB) error {
	log.Println("🌱 Seeding master data...")

	if err := seedPartners(db); err != nil {
		return err
	}
	if err := seedIssuers(db); err != nil {
		return err
	}
	if err := seedCardProducts(db); err != nil {
		return err
	}
	if err := seedTestCases(db); err != nil {
		return err
	}
	if err := seedTesterUsers(db); err != nil {
		return err
	}
	if err := seedVaultCards(db); err != nil {
		return err
	}

	log.Println("✅ Master data seeding completed")
	return nil
}

func seedPartners(db *gorm.DB) error {
	var count int64
	db.Model(&models.Partner{}).Count(&count)
	if count > 0 {
		return nil
	}

	partners := []models.Partner{
		{Code: "ACME", Name: "Acme Payments", Region: "NA", IsActive: true},
		{Code: "GLOBEX", Name: "Globex Merchant Services", Region: "EU", IsActive: true},
		{Code: "INITECH", Name: "Initech Retail", Region: "APAC", IsActive: true},
	}
	return db.Create(&partners).Error
}

func seedIssuers(db *gorm.DB) error {
	var count int64
	db.Model(&models.Issuer{}).Count(&count)
	if count > 0 {
		return nil
	}

	issuers := []models.Issuer{
		{Name: "First Test Bank", Bin: "411111", Country: "US", IsActive: true},
		{Name: "Northern Trust Test", Bin: "522222", Country: "GB", IsActive: true},
		{Name: "Pacific Issuing Test", Bin: "433333", Country: "SG", IsActive: true},
	}
	return db.Create(&issuers).Error
}

func seedCardProducts(db *gorm.DB) error {
	var count int64
	db.Model(&models.CardProduct{}).Count(&count)
	if count > 0 {
		return nil
	}

	products := []models.CardProduct{
		{Code: "CLS", Name: "Classic", SpecialFeature: "none", ProductBundle: "core", IsActive: true},
		{Code: "GLD", Name: "Gold", SpecialFeature: "contactless", ProductBundle: "premium", IsActive: true},
		{Code: "PLT", Name: "Platinum", SpecialFeature: "tokenized", ProductBundle: "premium", IsActive: true},
	}
	return db.Create(&products).Error
}

func seedTestCases(db *gorm.DB) error {
	var count int64
	db.Model(&models.TestCase{}).Count(&count)
	if count > 0 {
		return nil
	}

	cases := []models.TestCase{
		{Code: "POS-001", Name: "Contact chip purchase", TerminalType: domain.TerminalPos, Description: "EMV contact purchase with online PIN", IsActive: true},
		{Code: "POS-002", Name: "Contactless tap purchase", TerminalType: domain.TerminalPos, Description: "Contactless purchase below CVM limit", IsActive: true},
		{Code: "POS-003", Name: "Cashback with PIN", TerminalType: domain.TerminalPos, Description: "Purchase with cashback, PIN entry required", IsActive: true},
		{Code: "ECM-001", Name: "Card-on-file purchase", TerminalType: domain.TerminalEcomm, Description: "Stored credential transaction", IsActive: true},
		{Code: "ECM-002", Name: "3DS challenge flow", TerminalType: domain.TerminalEcomm, Description: "Authenticated purchase with 3DS challenge", IsActive: true},
	}
	return db.Create(&cases).Error
}

func seedTesterUsers(db *gorm.DB) error {
	var count int64
	db.Model(&models.TesterUser{}).Count(&count)
	if count > 0 {
		return nil
	}

	testers := []models.TesterUser{
		{PartnerID: 1, UserID: "acme-t1", Name: "Alice Carter", Email: "alice.carter@acme.test", Status: "active"},
		{PartnerID: 1, UserID: "acme-t2", Name: "Ben Okafor", Email: "ben.okafor@acme.test", Status: "active"},
		{PartnerID: 2, UserID: "glbx-t1", Name: "Carla Diaz", Email: "carla.diaz@globex.test", Status: "active"},
		{PartnerID: 2, UserID: "glbx-t2", Name: "Dmitri Ivanov", Email: "dmitri.ivanov@globex.test", Status: "active"},
		{PartnerID: 3, UserID: "init-t1", Name: "Elena Park", Email: "elena.park@initech.test", Status: "active"},
	}
	return db.Create(&testers).Error
}

func seedVaultCards(db *gorm.DB) error {
	var count int64
	db.Model(&models.VaultCard{}).Count(&count)
	if count > 0 {
		return nil
	}

	// A small inventory per product/issuer/environment bucket
	var cards []models.VaultCard
	pan := 4111111111110000
	for _, product := range []string{"Classic", "Gold"} {
		for _, env := range []domain.Environment{domain.EnvProd, domain.EnvQA, domain.EnvCert} {
			for i := 0; i < 5; i++ {
				pan++
				cards = append(cards, models.VaultCard{
					Product:        product,
					SpecialFeature: "none",
					Issuer:         "First Test Bank",
					Environment:    int(env),
					Pan:            fmt.Sprintf("%d", pan),
				})
			}
		}
	}
	return db.Create(&cards).Error
}
