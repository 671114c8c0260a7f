package domain

import "time"

// Role represents a user role in the card program
type Role int

const (
	RoleSME           Role = 1
	RoleRequester     Role = 2
	RoleViewOnly      Role = 3
	RoleManager       Role = 4
	RoleMobileUser    Role = 5
	RoleProfileEditor Role = 6
)

// CanApprove reports whether the role may approve or reject a submitted request
func (r Role) CanApprove() bool {
	return r == RoleSME || r == RoleManager
}

// CanFulfill reports whether the role may run fulfillment actions
// (assign card, ship, stop fulfillment, complete shipment)
func (r Role) CanFulfill() bool {
	return r == RoleSME
}

// Environment is the target system context for a card request
type Environment int

const (
	EnvProd Environment = 1
	EnvQA   Environment = 2
	EnvCert Environment = 3
)

// Terminal types
const (
	TerminalPos   = "Pos"
	TerminalEcomm = "Ecomm"
)

// User represents a console user in the domain layer
type User struct {
	ID        uint
	Username  string
	Email     string
	Password  string // Hashed
	Role      Role
	FirstName string
	LastName  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RefreshToken represents a refresh token in the domain
type RefreshToken struct {
	ID        uint
	UserID    uint
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
