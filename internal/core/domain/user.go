package domain

import "time"

// UserRole decides which desk operations a user may perform.
type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"    // Manages currencies, rates, users and history
	RoleOperator UserRole = "OPERATOR" // Performs exchanges
)

// IsValid reports whether r is a known role.
func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleOperator
}

// User represents a user of the application in the domain.
type User struct {
	UserID       string   `json:"userID"` // Primary Key (e.g., UUID)
	Username     string   `json:"username"`
	Name         string   `json:"name"`
	Email        *string  `json:"email,omitempty"` // Used to match Google sign-ins
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	AuditFields
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
	DeletedAt              *time.Time `json:"deletedAt,omitempty" db:"deleted_at"` // Used for soft delete
}
