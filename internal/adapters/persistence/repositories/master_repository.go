package repositories

import (
	"context"

	"cardhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// PartnerRepository handles partner master data access
type PartnerRepository struct {
	db *gorm.DB
}

// NewPartnerRepository creates a new partner repository
func NewPartnerRepository(db *gorm.DB) *PartnerRepository {
	return &PartnerRepository{db: db}
}

// List lists active partners
func (r *PartnerRepository) List(ctx context.Context) ([]*models.Partner, error) {
	var partners []*models.Partner
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&partners).Error
	return partners, err
}

// GetByID gets a partner by ID
func (r *PartnerRepository) GetByID(ctx context.Context, id uint) (*models.Partner, error) {
	var partner models.Partner
	err := r.db.WithContext(ctx).First(&partner, id).Error
	if err != nil {
		return nil, err
	}
	return &partner, nil
}

// IssuerRepository handles issuer master data access
type IssuerRepository struct {
	db *gorm.DB
}

// NewIssuerRepository creates a new issuer repository
func NewIssuerRepository(db *gorm.DB) *IssuerRepository {
	return &IssuerRepository{db: db}
}

// GetByID gets an issuer by ID
func (r *IssuerRepository) GetByID(ctx context.Context, id uint) (*models.Issuer, error) {
	var issuer models.Issuer
	err := r.db.WithContext(ctx).First(&issuer, id).Error
	if err != nil {
		return nil, err
	}
	return &issuer, nil
}

// List lists active issuers
func (r *IssuerRepository) List(ctx context.Context) ([]*models.Issuer, error) {
	var issuers []*models.Issuer
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&issuers).Error
	return issuers, err
}

// CardProductRepository handles card product master data access
type CardProductRepository struct {
	db *gorm.DB
}

// NewCardProductRepository creates a new card product repository
func NewCardProductRepository(db *gorm.DB) *CardProductRepository {
	return &CardProductRepository{db: db}
}

// List lists active card products
func (r *CardProductRepository) List(ctx context.Context) ([]*models.CardProduct, error) {
	var products []*models.CardProduct
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&products).Error
	return products, err
}

// TestCaseRepository handles test case master data access
type TestCaseRepository struct {
	db *gorm.DB
}

// NewTestCaseRepository creates a new test case repository
func NewTestCaseRepository(db *gorm.DB) *TestCaseRepository {
	return &TestCaseRepository{db: db}
}

// ListByTerminalType lists active test cases for a terminal type
func (r *TestCaseRepository) ListByTerminalType(ctx context.Context, terminalType string) ([]*models.TestCase, error) {
	var cases []*models.TestCase
	err := r.db.WithContext(ctx).
		Where("terminal_type = ? AND is_active = ?", terminalType, true).
		Order("code ASC").
		Find(&cases).Error
	return cases, err
}

// TesterUserRepository handles the partner tester directory
type TesterUserRepository struct {
	db *gorm.DB
}

// NewTesterUserRepository creates a new tester user repository
func NewTesterUserRepository(db *gorm.DB) *TesterUserRepository {
	return &TesterUserRepository{db: db}
}

// ListByPartner lists active testers of a partner
func (r *TesterUserRepository) ListByPartner(ctx context.Context, partnerID uint) ([]*models.TesterUser, error) {
	var testers []*models.TesterUser
	err := r.db.WithContext(ctx).
		Where("partner_id = ? AND status = ?", partnerID, "active").
		Order("name ASC").
		Find(&testers).Error
	return testers, err
}

// VaultRepository handles test card inventory
type VaultRepository struct {
	db *gorm.DB
}

// NewVaultRepository creates a new vault repository
func NewVaultRepository(db *gorm.DB) *VaultRepository {
	return &VaultRepository{db: db}
}

// VaultKey identifies one inventory bucket
type VaultKey struct {
	Product        string
	SpecialFeature string
	Issuer         string
	Environment    int
}

// CountAvailable counts unassigned cards for a vault key
func (r *VaultRepository) CountAvailable(ctx context.Context, key VaultKey) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.VaultCard{}).
		Where("product = ? AND special_feature = ? AND issuer = ? AND environment = ? AND assigned = ?",
			key.Product, key.SpecialFeature, key.Issuer, key.Environment, false).
		Count(&count).Error
	return count, err
}
