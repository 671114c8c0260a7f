package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"cardhub/internal/adapters/persistence/models"
	"cardhub/internal/adapters/persistence/repositories"
	"cardhub/internal/core/domain"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// lookupCacheTTL bounds how stale master data served from cache can get
const lookupCacheTTL = 5 * time.Minute

// LookupService serves the master data the request wizard's dropdowns and
// counters read from. Results are cached in Redis when a client is
// configured; with a nil client every call falls through to the database.
type LookupService struct {
	partnerRepo    *repositories.PartnerRepository
	issuerRepo     *repositories.IssuerRepository
	productRepo    *repositories.CardProductRepository
	testCaseRepo   *repositories.TestCaseRepository
	testerUserRepo *repositories.TesterUserRepository
	vaultRepo      *repositories.VaultRepository
	redis          *redis.Client
}

// NewLookupService creates a new lookup service. redisClient may be nil.
func NewLookupService(
	partnerRepo *repositories.PartnerRepository,
	issuerRepo *repositories.IssuerRepository,
	productRepo *repositories.CardProductRepository,
	testCaseRepo *repositories.TestCaseRepository,
	testerUserRepo *repositories.TesterUserRepository,
	vaultRepo *repositories.VaultRepository,
	redisClient *redis.Client,
) *LookupService {
	return &LookupService{
		partnerRepo:    partnerRepo,
		issuerRepo:     issuerRepo,
		productRepo:    productRepo,
		testCaseRepo:   testCaseRepo,
		testerUserRepo: testerUserRepo,
		vaultRepo:      vaultRepo,
		redis:          redisClient,
	}
}

// Partners lists active partners
func (s *LookupService) Partners(ctx context.Context) ([]*models.Partner, error) {
	var partners []*models.Partner
	if s.cached(ctx, "lookup:partners", &partners) {
		return partners, nil
	}

	partners, err := s.partnerRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache(ctx, "lookup:partners", partners)
	return partners, nil
}

// CardProducts lists active card products
func (s *LookupService) CardProducts(ctx context.Context) ([]*models.CardProduct, error) {
	var products []*models.CardProduct
	if s.cached(ctx, "lookup:products", &products) {
		return products, nil
	}

	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache(ctx, "lookup:products", products)
	return products, nil
}

// Issuers lists active issuers
func (s *LookupService) Issuers(ctx context.Context) ([]*models.Issuer, error) {
	var issuers []*models.Issuer
	if s.cached(ctx, "lookup:issuers", &issuers) {
		return issuers, nil
	}

	issuers, err := s.issuerRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache(ctx, "lookup:issuers", issuers)
	return issuers, nil
}

// IssuerByID gets one issuer
func (s *LookupService) IssuerByID(ctx context.Context, id uint) (*models.Issuer, error) {
	issuer, err := s.issuerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return issuer, nil
}

// TestersByPartner lists a partner's active testers
func (s *LookupService) TestersByPartner(ctx context.Context, partnerID uint) ([]*models.TesterUser, error) {
	key := fmt.Sprintf("lookup:testers:%d", partnerID)

	var testers []*models.TesterUser
	if s.cached(ctx, key, &testers) {
		return testers, nil
	}

	testers, err := s.testerUserRepo.ListByPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	s.cache(ctx, key, testers)
	return testers, nil
}

// TestCasesByTerminal lists test cases for a terminal type
func (s *LookupService) TestCasesByTerminal(ctx context.Context, terminalType string) ([]*models.TestCase, error) {
	if terminalType != domain.TerminalPos && terminalType != domain.TerminalEcomm {
		return nil, domain.ErrInvalidInput
	}

	key := "lookup:testcases:" + terminalType

	var cases []*models.TestCase
	if s.cached(ctx, key, &cases) {
		return cases, nil
	}

	cases, err := s.testCaseRepo.ListByTerminalType(ctx, terminalType)
	if err != nil {
		return nil, err
	}
	s.cache(ctx, key, cases)
	return cases, nil
}

// VaultCount returns the unassigned inventory for one card profile.
// Inventory moves too fast to cache.
func (s *LookupService) VaultCount(ctx context.Context, key repositories.VaultKey) (int64, error) {
	if key.Product == "" || key.Issuer == "" {
		return 0, domain.ErrInvalidInput
	}
	return s.vaultRepo.CountAvailable(ctx, key)
}

func (s *LookupService) cached(ctx context.Context, key string, dest interface{}) bool {
	if s.redis == nil {
		return false
	}
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (s *LookupService) cache(ctx context.Context, key string, value interface{}) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, lookupCacheTTL).Err(); err != nil {
		log.Printf("⚠️ Failed to cache %s: %v", key, err)
	}
}
