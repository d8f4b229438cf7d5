package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreditPurchase records one successfully processed payment event. The unique
// constraint on StripePaymentIntentID is what makes duplicate webhook
// delivery safe; it is enforced at the storage layer, not just checked in
// application code. Rows are immutable once created.
type CreditPurchase struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	StripePaymentIntentID string `gorm:"type:text;uniqueIndex;not null" json:"stripe_payment_intent_id"`

	// CreditsPurchased includes the package bonus.
	CreditsPurchased int    `gorm:"not null" json:"credits_purchased"`
	AmountPaid       int64  `gorm:"not null" json:"amount_paid"` // smallest currency unit
	Currency         string `gorm:"type:text;not null;default:'usd'" json:"currency"`

	Timestamp time.Time `gorm:"autoCreateTime;index" json:"timestamp"`

	User User `gorm:"foreignKey:UserID;references:ID" json:"-"`
}

func (CreditPurchase) TableName() string {
	return "credit_purchases"
}

func (p *CreditPurchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// CreditSpend is the append-only audit trail of feature usage.
type CreditSpend struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	FeatureUsed  string         `gorm:"type:text;not null" json:"feature_used"`
	CreditsSpent int            `gorm:"not null" json:"credits_spent"`
	Metadata     datatypes.JSON `json:"metadata,omitempty"`

	Timestamp time.Time `gorm:"autoCreateTime;index" json:"timestamp"`

	User User `gorm:"foreignKey:UserID;references:ID" json:"-"`
}

func (CreditSpend) TableName() string {
	return "credit_spends"
}

func (s *CreditSpend) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// CreditAdjustment records a manual or refund-driven balance change.
// Amount is signed: positive = grant, negative = claw-back.
type CreditAdjustment struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Amount int    `gorm:"not null" json:"amount"`
	Reason string `gorm:"type:text;not null" json:"reason"`

	Timestamp time.Time `gorm:"autoCreateTime;index" json:"timestamp"`

	User User `gorm:"foreignKey:UserID;references:ID" json:"-"`
}

func (CreditAdjustment) TableName() string {
	return "credit_adjustments"
}

func (a *CreditAdjustment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
