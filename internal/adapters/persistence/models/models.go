package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      int            `gorm:"not null;default:3" json:"role"`
	FirstName string         `gorm:"size:50" json:"first_name"`
	LastName  string         `gorm:"size:50" json:"last_name"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      int       `json:"role"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Card Request (Main Table)
// ============================================================

// CardRequest represents card_requests table. Stage data is persisted as
// JSON-serialized columns; a column is NULL until its stage's first
// successful save and is always replaced whole.
type CardRequest struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	RequestNumberID string `gorm:"uniqueIndex;size:30;not null" json:"request_number_id"`
	Status          string `gorm:"size:30;index;default:''" json:"status"`
	Environment     int    `gorm:"not null;index" json:"environment"`
	TerminalType    string `gorm:"size:10;not null;index" json:"terminal_type"`
	CreatedBy       uint   `gorm:"not null;index" json:"created_by"`

	ReqInfo                *string `gorm:"type:text" json:"req_info"`
	TestInfo               *string `gorm:"type:text" json:"test_info"`
	TermInfo               *string `gorm:"type:text" json:"term_info"`
	TesterDetails          *string `gorm:"type:text" json:"tester_details"`
	ShipDetails            *string `gorm:"type:text" json:"ship_details"`
	ShipmentInfo           *string `gorm:"type:text" json:"shipment_info"`
	UserCardInfo           *string `gorm:"type:text" json:"user_card_info"`
	StopFulfillmentComment *string `gorm:"type:text" json:"stop_fulfillment_comment"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Creator *User `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

func (CardRequest) TableName() string {
	return "card_requests"
}

// CardRequestResponse DTO. Stage blobs ride as JSON-serialized strings
// (null when the stage has never been saved); the console parses them.
type CardRequestResponse struct {
	ID              uint    `json:"id"`
	RequestNumberID string  `json:"request_number_id"`
	Status          string  `json:"status"`
	Environment     int     `json:"environment"`
	TerminalType    string  `json:"terminal_type"`
	CreatedBy       uint    `json:"created_by"`
	CreatorName     string  `json:"creator_name,omitempty"`
	ReqInfo         *string `json:"req_info"`
	TestInfo        *string `json:"test_info"`
	TermInfo        *string `json:"term_info"`
	TesterDetails   *string `json:"tester_details"`
	ShipDetails     *string `json:"ship_details"`
	ShipmentInfo    *string `json:"shipment_info"`
	UserCardInfo    *string `json:"user_card_info"`

	StopFulfillmentComment *string   `json:"stop_fulfillment_comment"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

func (r *CardRequest) ToResponse() *CardRequestResponse {
	resp := &CardRequestResponse{
		ID:                     r.ID,
		RequestNumberID:        r.RequestNumberID,
		Status:                 r.Status,
		Environment:            r.Environment,
		TerminalType:           r.TerminalType,
		CreatedBy:              r.CreatedBy,
		ReqInfo:                r.ReqInfo,
		TestInfo:               r.TestInfo,
		TermInfo:               r.TermInfo,
		TesterDetails:          r.TesterDetails,
		ShipDetails:            r.ShipDetails,
		ShipmentInfo:           r.ShipmentInfo,
		UserCardInfo:           r.UserCardInfo,
		StopFulfillmentComment: r.StopFulfillmentComment,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}

	if r.Creator != nil {
		resp.CreatorName = r.Creator.FirstName + " " + r.Creator.LastName
	}

	return resp
}

// CardRequestTransaction represents the audit trail of a card request
type CardRequestTransaction struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CardRequestID uint      `gorm:"not null;index" json:"card_request_id"`
	Action        string    `gorm:"size:50;not null" json:"action"`
	Column        string    `gorm:"size:50;column:stage_column" json:"column,omitempty"`
	FromStatus    string    `gorm:"size:30" json:"from_status"`
	ToStatus      string    `gorm:"size:30" json:"to_status"`
	Description   string    `gorm:"type:text" json:"description"`
	PerformedBy   uint      `gorm:"not null" json:"performed_by"`
	IPAddress     string    `gorm:"size:50" json:"ip_address"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	CardRequest *CardRequest `gorm:"foreignKey:CardRequestID" json:"card_request,omitempty"`
	Performer   *User        `gorm:"foreignKey:PerformedBy" json:"performer,omitempty"`
}

func (CardRequestTransaction) TableName() string {
	return "card_request_transactions"
}

// Transaction actions
const (
	TxActionCreate          = "CREATE"
	TxActionStageSave       = "STAGE_SAVE"
	TxActionSubmit          = "SUBMIT"
	TxActionApprove         = "APPROVE"
	TxActionReject          = "REJECT"
	TxActionAssignCard      = "ASSIGN_CARD"
	TxActionShip            = "SHIP"
	TxActionCompleteShip    = "COMPLETE_SHIPMENT"
	TxActionStopFulfillment = "STOP_FULFILLMENT"
)

// ============================================================
// Master Tables
// ============================================================

// Partner represents a partner organization whose testers receive cards
type Partner struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Code      string         `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Region    string         `gorm:"size:50" json:"region"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Partner) TableName() string {
	return "partners"
}

// Issuer represents an issuing bank with its BIN ranges
type Issuer struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Bin       string         `gorm:"size:10;index;not null" json:"bin"`
	Country   string         `gorm:"size:50" json:"country"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Issuer) TableName() string {
	return "issuers"
}

// CardProduct represents a card product profile available for test requests
type CardProduct struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Code           string         `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name           string         `gorm:"size:100;not null" json:"name"`
	SpecialFeature string         `gorm:"size:50" json:"special_feature"`
	ProductBundle  string         `gorm:"size:50" json:"product_bundle"`
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (CardProduct) TableName() string {
	return "card_products"
}

// TestCase represents a predefined terminal test case
type TestCase struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Code         string         `gorm:"size:30;uniqueIndex;not null" json:"code"`
	Name         string         `gorm:"size:150;not null" json:"name"`
	TerminalType string         `gorm:"size:10;index" json:"terminal_type"`
	Description  string         `gorm:"type:text" json:"description"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (TestCase) TableName() string {
	return "test_cases"
}

// TesterUser represents a partner's user directory entry, resolved when
// tester rows are added to a request
type TesterUser struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	PartnerID uint           `gorm:"not null;index" json:"partner_id"`
	UserID    string         `gorm:"size:50;index" json:"user_id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Email     string         `gorm:"size:100;not null;index" json:"email"`
	Status    string         `gorm:"size:20;default:'active'" json:"status"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Partner *Partner `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
}

func (TesterUser) TableName() string {
	return "tester_users"
}

// VaultCard represents one test card sitting in inventory. Vault counts are
// the number of unassigned rows for a product/feature/issuer/environment key.
type VaultCard struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Product        string         `gorm:"size:50;index:idx_vault_key" json:"product"`
	SpecialFeature string         `gorm:"size:50;index:idx_vault_key" json:"special_feature"`
	Issuer         string         `gorm:"size:100;index:idx_vault_key" json:"issuer"`
	Environment    int            `gorm:"index:idx_vault_key" json:"environment"`
	Pan            string         `gorm:"size:20;uniqueIndex" json:"-"`
	Assigned       bool           `gorm:"default:false;index" json:"assigned"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (VaultCard) TableName() string {
	return "vault_cards"
}

// ============================================================
// Notifications
// ============================================================

// Notification represents an in-app notification row written by the workflow
type Notification struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	CardRequestID *uint     `gorm:"index" json:"card_request_id"`
	Title         string    `gorm:"size:150;not null" json:"title"`
	Message       string    `gorm:"type:text" json:"message"`
	IsRead        bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Auth
		&User{},
		&RefreshToken{},
		// Master Tables
		&Partner{},
		&Issuer{},
		&CardProduct{},
		&TestCase{},
		&TesterUser{},
		&VaultCard{},
		// Main Tables
		&CardRequest{},
		&CardRequestTransaction{},
		// Notifications
		&Notification{},
	)
}
