package repositories

import (
	"context"
	"strings"
	"time"

	"cardhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// CardRequestRepository handles card request data access
type CardRequestRepository struct {
	db *gorm.DB
}

// NewCardRequestRepository creates a new card request repository
func NewCardRequestRepository(db *gorm.DB) *CardRequestRepository {
	return &CardRequestRepository{db: db}
}

// Create creates a new card request
func (r *CardRequestRepository) Create(ctx context.Context, req *models.CardRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// GetByID gets a card request by ID with relations
func (r *CardRequestRepository) GetByID(ctx context.Context, id uint) (*models.CardRequest, error) {
	var req models.CardRequest
	err := r.db.WithContext(ctx).
		Preload("Creator").
		First(&req, id).Error
	return &req, err
}

// GetByRequestNumber gets a card request by its human-readable number
func (r *CardRequestRepository) GetByRequestNumber(ctx context.Context, number string) (*models.CardRequest, error) {
	var req models.CardRequest
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Where("request_number_id = ?", number).
		First(&req).Error
	return &req, err
}

// ListFilter narrows the status list query
type ListFilter struct {
	Status       *string
	Environment  *int
	TerminalType *string
	CreatedBy    *uint
}

// List lists card requests with filters and pagination
func (r *CardRequestRepository) List(ctx context.Context, filter *ListFilter, offset, limit int) ([]*models.CardRequest, int64, error) {
	var requests []*models.CardRequest
	var total int64

	q := r.db.WithContext(ctx).Model(&models.CardRequest{})
	if filter != nil {
		if filter.Status != nil {
			q = q.Where("status = ?", *filter.Status)
		}
		if filter.Environment != nil {
			q = q.Where("environment = ?", *filter.Environment)
		}
		if filter.TerminalType != nil {
			q = q.Where("terminal_type = ?", *filter.TerminalType)
		}
		if filter.CreatedBy != nil {
			q = q.Where("created_by = ?", *filter.CreatedBy)
		}
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.
		Preload("Creator").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&requests).Error

	return requests, total, err
}

// UpdateColumn replaces one stage column. Whole-column replacement is the
// save contract: no partial writes, last write wins.
func (r *CardRequestRepository) UpdateColumn(ctx context.Context, id uint, column string, value string) error {
	return r.db.WithContext(ctx).
		Model(&models.CardRequest{}).
		Where("id = ?", id).
		Update(column, value).Error
}

// UpdateStatus sets the request status
func (r *CardRequestRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.CardRequest{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Update saves a full card request row
func (r *CardRequestRepository) Update(ctx context.Context, req *models.CardRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

// likeEscaper neutralizes LIKE metacharacters in user-supplied values so a
// tracking number containing % or _ matches literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// CountTrackingNumberUsage counts how many other requests reference a
// tracking number inside their shipment_info column
func (r *CardRequestRepository) CountTrackingNumberUsage(ctx context.Context, trackingNumber string, excludeID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CardRequest{}).
		Where("id <> ?", excludeID).
		Where("shipment_info LIKE ?", "%"+likeEscaper.Replace(trackingNumber)+"%").
		Count(&count).Error
	return count, err
}

// ListStaleByStatus lists requests that have sat in a status since before the
// cutoff (reminder cron input)
func (r *CardRequestRepository) ListStaleByStatus(ctx context.Context, status string, cutoff time.Time) ([]*models.CardRequest, error) {
	var requests []*models.CardRequest
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Where("status = ? AND updated_at < ?", status, cutoff).
		Order("updated_at ASC").
		Find(&requests).Error
	return requests, err
}

// CountByStatus returns request counts grouped by status
func (r *CardRequestRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Total  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.CardRequest{}).
		Select("status, COUNT(*) as total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Total
	}
	return counts, nil
}

// TransactionRepository handles card request audit trail data access
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create creates a new transaction
func (r *TransactionRepository) Create(ctx context.Context, tx *models.CardRequestTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// GetByCardRequestID gets transactions by card request ID (History)
func (r *TransactionRepository) GetByCardRequestID(ctx context.Context, cardRequestID uint) ([]*models.CardRequestTransaction, error) {
	var transactions []*models.CardRequestTransaction
	err := r.db.WithContext(ctx).
		Preload("Performer").
		Where("card_request_id = ?", cardRequestID).
		Order("created_at DESC").
		Find(&transactions).Error
	return transactions, err
}
