package models

import "time"

// Roles assignable to a user account.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered customer or administrator.
type User struct {
	BaseModel
	Name         string   `json:"name"`
	Email        string   `gorm:"uniqueIndex" json:"email"`
	PasswordHash string   `json:"-"`
	Role         string   `gorm:"default:user" json:"role"`
	Reviews      []Review `json:"reviews,omitempty"`
	Orders       []Order  `json:"orders,omitempty"`
}

// OTPVerification tracks a pending login code for an email address.
// At most one unverified record per email is kept; a fresh login start
// replaces any earlier one.
type OTPVerification struct {
	BaseModel
	Email     string    `gorm:"index" json:"email"`
	Code      string    `json:"-"`
	Attempts  int       `gorm:"default:0" json:"attempts"`
	Verified  bool      `json:"verified"`
	ExpiresAt time.Time `json:"expires_at"`
}
