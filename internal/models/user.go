package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InitialCreditGrant is issued exactly once, when the user row is created.
// Subsequent logins never re-grant.
const InitialCreditGrant = 500

// User represents an account holder and carries the live credit balance.
// The balance is a materialized running total: every mutation is paired, in
// the same transaction, with a row in one of the ledger log tables.
type User struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	Email string `gorm:"type:text;unique;not null" json:"email"`
	Name  string `gorm:"type:text" json:"name"`

	// OAuth. GoogleID is a pointer so email-only accounts store NULL and never
	// collide on the unique index.
	GoogleID      *string `gorm:"type:text;unique;column:google_id" json:"google_id,omitempty"`
	OAuthProvider string  `gorm:"type:text;default:'email';column:oauth_provider" json:"oauth_provider"`
	AvatarURL     string  `gorm:"type:text" json:"avatar_url,omitempty"`

	// Authentication
	PasswordHash string `gorm:"type:text" json:"-"`

	// Credits can go negative only through refund adjustments (debt marker),
	// never through spends. No gorm default: GORM would silently swap an
	// explicit zero balance for it. The grant lives in UserRepo.Create and the
	// migration.
	Credits int `gorm:"not null" json:"credits"`

	// JWT Refresh Token
	RefreshToken          string     `gorm:"type:text" json:"-"`
	RefreshTokenExpiresAt *time.Time `json:"-"`

	// Timestamps
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// BeforeCreate sets UUID before creating
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
