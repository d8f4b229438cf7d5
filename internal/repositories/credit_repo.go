package repositories

import (
	"errors"

	"github.com/goodwinhq/household-staff-be/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Storage-level ledger errors. Handlers and services match on these with
// errors.Is.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrPurchaseExists      = errors.New("purchase already recorded for payment intent")
	ErrPurchaseNotFound    = errors.New("purchase not found")
)

// SpendParams describes one ledger deduction.
type SpendParams struct {
	UserID      string
	Credits     int
	FeatureUsed string
	Metadata    datatypes.JSON
}

// PurchaseParams describes one webhook-driven credit purchase.
type PurchaseParams struct {
	UserID                string
	StripePaymentIntentID string
	CreditsPurchased      int
	AmountPaid            int64
	Currency              string
}

// CreditRepo is the sole storage authority for balance mutations. Every
// mutation pairs the balance change with its log row in one transaction.
type CreditRepo interface {
	GetBalance(userID string) (int, error)
	Deduct(params SpendParams) (int, error)
	Adjust(userID string, amount int, reason string) (int, error)
	ApplyPurchase(params PurchaseParams) error
	FindPurchaseByPaymentIntent(paymentIntentID string) (*models.CreditPurchase, error)
	RecentPurchases(userID string, limit int) ([]models.CreditPurchase, error)
	RecentSpends(userID string, limit int) ([]models.CreditSpend, error)
	RecentAdjustments(userID string, limit int) ([]models.CreditAdjustment, error)
}

type creditRepo struct {
	db *gorm.DB
}

// NewCreditRepo creates a new credit repository
func NewCreditRepo(db *gorm.DB) CreditRepo {
	return &creditRepo{db: db}
}

// GetBalance reads the live balance from storage.
func (r *creditRepo) GetBalance(userID string) (int, error) {
	if _, err := parseUserID(userID); err != nil {
		return 0, err
	}
	var user models.User
	err := r.db.Select("credits").Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, err
	}
	return user.Credits, nil
}

// Deduct decrements the balance and writes the spend row in one transaction.
// The decrement is conditional (credits >= amount) in a single UPDATE, so two
// racing deductions can never both succeed when only one can be afforded.
func (r *creditRepo) Deduct(params SpendParams) (int, error) {
	userID, err := parseUserID(params.UserID)
	if err != nil {
		return 0, err
	}

	newBalance := 0
	err = r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND credits >= ?", params.UserID, params.Credits).
			UpdateColumn("credits", gorm.Expr("credits - ?", params.Credits))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Distinguish a missing user from a short balance.
			var count int64
			if err := tx.Model(&models.User{}).Where("id = ?", params.UserID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrUserNotFound
			}
			return ErrInsufficientCredits
		}

		spend := &models.CreditSpend{
			UserID:       userID,
			FeatureUsed:  params.FeatureUsed,
			CreditsSpent: params.Credits,
			Metadata:     params.Metadata,
		}
		if err := tx.Create(spend).Error; err != nil {
			return err
		}

		var user models.User
		if err := tx.Select("credits").Where("id = ?", params.UserID).First(&user).Error; err != nil {
			return err
		}
		newBalance = user.Credits
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newBalance, nil
}

// Adjust writes an adjustment row and applies the signed delta in one
// transaction. Negative adjustments may drive the balance below zero; that is
// accepted ledger behavior for refund claw-backs.
func (r *creditRepo) Adjust(userID string, amount int, reason string) (int, error) {
	if _, err := parseUserID(userID); err != nil {
		return 0, err
	}

	newBalance := 0
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Select("id").Where("id = ?", userID).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}

		adjustment := &models.CreditAdjustment{
			UserID: user.ID,
			Amount: amount,
			Reason: reason,
		}
		if err := tx.Create(adjustment).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumn("credits", gorm.Expr("credits + ?", amount)).Error; err != nil {
			return err
		}

		if err := tx.Select("credits").Where("id = ?", userID).First(&user).Error; err != nil {
			return err
		}
		newBalance = user.Credits
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newBalance, nil
}

// ApplyPurchase inserts the purchase row and increments the balance in one
// transaction. The unique index on stripe_payment_intent_id makes a replayed
// event fail the insert, so the increment never runs twice.
func (r *creditRepo) ApplyPurchase(params PurchaseParams) error {
	userID, err := parseUserID(params.UserID)
	if err != nil {
		return err
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		purchase := &models.CreditPurchase{
			UserID:                userID,
			StripePaymentIntentID: params.StripePaymentIntentID,
			CreditsPurchased:      params.CreditsPurchased,
			AmountPaid:            params.AmountPaid,
			Currency:              params.Currency,
		}
		if err := tx.Create(purchase).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrPurchaseExists
			}
			return err
		}

		res := tx.Model(&models.User{}).
			Where("id = ?", params.UserID).
			UpdateColumn("credits", gorm.Expr("credits + ?", params.CreditsPurchased))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

// FindPurchaseByPaymentIntent retrieves a purchase by its payment-intent id.
func (r *creditRepo) FindPurchaseByPaymentIntent(paymentIntentID string) (*models.CreditPurchase, error) {
	var purchase models.CreditPurchase
	err := r.db.Where("stripe_payment_intent_id = ?", paymentIntentID).First(&purchase).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPurchaseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *creditRepo) RecentPurchases(userID string, limit int) ([]models.CreditPurchase, error) {
	var purchases []models.CreditPurchase
	err := r.db.Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&purchases).Error
	if err != nil {
		return nil, err
	}
	return purchases, nil
}

func (r *creditRepo) RecentSpends(userID string, limit int) ([]models.CreditSpend, error) {
	var spends []models.CreditSpend
	err := r.db.Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&spends).Error
	if err != nil {
		return nil, err
	}
	return spends, nil
}

func (r *creditRepo) RecentAdjustments(userID string, limit int) ([]models.CreditAdjustment, error) {
	var adjustments []models.CreditAdjustment
	err := r.db.Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&adjustments).Error
	if err != nil {
		return nil, err
	}
	return adjustments, nil
}
