package services

import (
	"errors"
	"fmt"
	"math"

	"github.com/goodwinhq/household-staff-be/internal/models"
	"github.com/goodwinhq/household-staff-be/internal/repositories"
	"gorm.io/datatypes"
)

// ErrInvalidAmount rejects malformed credit amounts before they touch the
// ledger.
var ErrInvalidAmount = errors.New("invalid credit amount")

// LowCreditThreshold is the fixed balance below which the UI warns the user.
const LowCreditThreshold = 100

// creditMarkup is the fixed surcharge applied to base operation costs.
const creditMarkup = 1.3

// CreditOperation describes one deduction against a user's balance.
type CreditOperation struct {
	UserID         string
	CreditsToSpend int
	FeatureUsed    string
	Metadata       datatypes.JSON
}

// BalanceStatus is the payload of a balance check.
type BalanceStatus struct {
	Credits    int  `json:"credits"`
	LowCredits bool `json:"lowCredits"`
}

// CreditHistory bundles the three append-only transaction logs, each ordered
// newest-first.
type CreditHistory struct {
	Purchases   []models.CreditPurchase   `json:"purchases"`
	Spends      []models.CreditSpend      `json:"spends"`
	Adjustments []models.CreditAdjustment `json:"adjustments"`
}

// CreditService is the sole authority for reading and mutating balances.
type CreditService struct {
	repo repositories.CreditRepo
}

// NewCreditService creates a new credit service
func NewCreditService(repo repositories.CreditRepo) *CreditService {
	return &CreditService{repo: repo}
}

// HasEnoughCredits reports whether the user can afford the given cost. A
// missing user simply cannot afford anything.
func (s *CreditService) HasEnoughCredits(userID string, creditsRequired int) (bool, error) {
	balance, err := s.repo.GetBalance(userID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return balance >= creditsRequired, nil
}

// CheckBalance reads the live balance and flags it when low.
func (s *CreditService) CheckBalance(userID string) (*BalanceStatus, error) {
	balance, err := s.repo.GetBalance(userID)
	if err != nil {
		return nil, err
	}
	return &BalanceStatus{
		Credits:    balance,
		LowCredits: balance < LowCreditThreshold,
	}, nil
}

// DeductCredits spends credits for a feature use. The spend row and the
// balance decrement commit together or not at all; a balance too low to cover
// the spend rejects the whole operation with ErrInsufficientCredits.
func (s *CreditService) DeductCredits(op CreditOperation) (int, error) {
	if op.CreditsToSpend <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidAmount, op.CreditsToSpend)
	}
	return s.repo.Deduct(repositories.SpendParams{
		UserID:      op.UserID,
		Credits:     op.CreditsToSpend,
		FeatureUsed: op.FeatureUsed,
		Metadata:    op.Metadata,
	})
}

// AddCredits applies a signed manual or refund-driven adjustment. Negative
// amounts may drive the balance below zero (a debt marker), unlike spends.
func (s *CreditService) AddCredits(userID string, amount int, reason string) (int, error) {
	if amount == 0 {
		return 0, fmt.Errorf("%w: adjustment amount must be non-zero", ErrInvalidAmount)
	}
	return s.repo.Adjust(userID, amount, reason)
}

// CalculateCreditsWithMarkup applies the fixed 30% surcharge, rounded up.
func (s *CreditService) CalculateCreditsWithMarkup(baseCredits int) (int, error) {
	if baseCredits < 0 {
		return 0, fmt.Errorf("%w: base cost %d", ErrInvalidAmount, baseCredits)
	}
	return int(math.Ceil(float64(baseCredits) * creditMarkup)), nil
}

// GetHistory returns up to limit most-recent rows per log table.
func (s *CreditService) GetHistory(userID string, limit int) (*CreditHistory, error) {
	if limit <= 0 {
		limit = 10
	}

	// Ensure the user exists before assembling empty logs for a stranger.
	if _, err := s.repo.GetBalance(userID); err != nil {
		return nil, err
	}

	purchases, err := s.repo.RecentPurchases(userID, limit)
	if err != nil {
		return nil, err
	}
	spends, err := s.repo.RecentSpends(userID, limit)
	if err != nil {
		return nil, err
	}
	adjustments, err := s.repo.RecentAdjustments(userID, limit)
	if err != nil {
		return nil, err
	}

	return &CreditHistory{
		Purchases:   purchases,
		Spends:      spends,
		Adjustments: adjustments,
	}, nil
}
