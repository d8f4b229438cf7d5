package repositories

import (
	"errors"
	"sync"
	"testing"

	"github.com/goodwinhq/household-staff-be/internal/models"
	"gorm.io/datatypes"
)

func TestDeduct(t *testing.T) {
	db := newTestDB(t)
	repo := NewCreditRepo(db)
	user := createTestUser(t, db, "deduct@example.com", 100)

	balance, err := repo.Deduct(SpendParams{
		UserID:      user.ID.String(),
		Credits:     30,
		FeatureUsed: "staff:gearhart:chat",
		Metadata:    datatypes.JSON(`{"servant":"gearhart"}`),
	})
	if err != nil {
		t.Fatalf("Deduct failed: %v", err)
	}
	if balance != 70 {
		t.Errorf("expected balance 70, got %d", balance)
	}

	var spends []models.CreditSpend
	if err := db.Where("user_id = ?", user.ID).Find(&spends).Error; err != nil {
		t.Fatalf("failed to read spends: %v", err)
	}
	if len(spends) != 1 {
		t.Fatalf("expected 1 spend row, got %d", len(spends))
	}
	if spends[0].CreditsSpent != 30 || spends[0].FeatureUsed != "staff:gearhart:chat" {
		t.Errorf("unexpected spend row: %+v", spends[0])
	}
}

func TestDeductInsufficientCredits(t *testing.T) {
	db := newTestDB(t)
	repo := NewCreditRepo(db)
	user := createTestUser(t, db, "poor@example.com", 10)

	_, err := repo.Deduct(SpendParams{
		UserID:      user.ID.String(),
		Credits:     11,
		FeatureUsed: "staff:brightwell:generate",
	})
	if !errors.Is(err, ErrInsufficientCredits) {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}

	// Rejected spend leaves no trace: neither balance change nor log row.
	balance, err := repo.GetBalance(user.ID.String())
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if balance != 10 {
		t.Errorf("expected balance unchanged at 10, got %d", balance)
	}

	var count int64
	db.Model(&models.CreditSpend{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected no spend rows, got %d", count)
	}
}

func TestDeductExactBalance(t *testing.T) {
	db := newTestDB(t)
	repo := NewCreditRepo(db)
	user := createTestUser(t, db, "exact@example.com", 50)

	balance, err := repo.Deduct(SpendParams{
		UserID:      user.ID.String(),
		Credits:     50,
		FeatureUsed: "staff:goodwin:base",
	})
	if err != nil {
		t.Fatalf("Deduct failed: %v", err)
	}
	if balance != 0 {
		t.Errorf("expected balance 0, got %d", balance)
	}
}

func TestDeductUnknownUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewCreditRepo(db)

	_, err := repo.Deduct(SpendParams{
		UserID:      "2e9b1a54-0000-4000-8000-000000000001",
		Credits:     5,
		FeatureUsed: "staff:goodwin:base",
	})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDeductMalformedUserID(t *testing.T) {
	db := newTestDB(t)
	repo := NewCreditRepo(db)

	_, err := repo.Deduct(SpendParams{
		UserID:      "not-a-uuid",
		Credits:     5,
		FeatureUsed: "staff:goodwin:base",
	})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDeductConcurrentRace(t *testing.T) {
	db := newTestDB(t)
	repo := NewCreditRepo(db)
	user := createTestUser(t, db, "race@example.com", 10)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = repo.Deduct(SpendParams{
				UserID:      user.ID.String(),
				Credits:     8,
				FeatureUsed: "staff:gearhart:chat",
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		} else if !errors.Is(err, ErrInsufficientCredits) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly 1 successful deduction, got %d", successes)
	}

	balance, err := repo.GetBalance(user.ID.String())
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if balance != 2 {
		t.Errorf("expected balance 2 after race, got %d", balance)
	}

	var count int64
	db.Model(&models.CreditSpend{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 spend row, got %d", count)
	}
}

func TestAdjustBelowZero(t *testing.T) {
	db := newTestDB(t)
	repo := NewCreditRepo(db)
	user := createTestUser(t, db, "refund@example.com", 100)

	balance, err := repo.Adjust(user.ID.String(), -1100, "Refund for Stripe paymentIntent pi_test")
	if err != nil {
		t.Fatalf("Adjust failed: %v", err)
	}
	if balance != -1000 {
		t.Errorf("expected balance -1000, got %d", balance)
	}

	var adjustments []models.CreditAdjustment
	if err := db.Where("user_id = ?", user.ID).Find(&adjustments).Error; err != nil {
		t.Fatalf("failed to read adjustments: %v", err)
	}
	if len(adjustments) != 1 || adjustments[0].Amount != -1100 {
		t.Errorf("unexpected adjustment rows: %+v", adjustments)
	}
}

func TestAdjustUnknownUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewCreditRepo(db)

	_, err := repo.Adjust("2e9b1a54-0000-4000-8000-000000000002", 100, "manual grant")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestApplyPurchase(t *testing.T) {
	db := newTestDB(t)
	repo := NewCreditRepo(db)
	user := createTestUser(t, db, "buyer@example.com", 500)

	params := PurchaseParams{
		UserID:                user.ID.String(),
		StripePaymentIntentID: "pi_apply_1",
		CreditsPurchased:      1000,
		AmountPaid:            10000,
		Currency:              "usd",
	}
	if err := repo.ApplyPurchase(params); err != nil {
		t.Fatalf("ApplyPurchase failed: %v", err)
	}

	balance, err := repo.GetBalance(user.ID.String())
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if balance != 1500 {
		t.Errorf("expected balance 1500, got %d", balance)
	}
}

func TestApplyPurchaseDuplicatePaymentIntent(t *testing.T) {
	db := newTestDB(t)
	repo := NewCreditRepo(db)
	user := createTestUser(t, db, "replay@example.com", 500)

	params := PurchaseParams{
		UserID:                user.ID.String(),
		StripePaymentIntentID: "pi_replay_1",
		CreditsPurchased:      1000,
		AmountPaid:            10000,
		Currency:              "usd",
	}
	if err := repo.ApplyPurchase(params); err != nil {
		t.Fatalf("first ApplyPurchase failed: %v", err)
	}

	err := repo.ApplyPurchase(params)
	if !errors.Is(err, ErrPurchaseExists) {
		t.Fatalf("expected ErrPurchaseExists, got %v", err)
	}

	// The rejected replay must not have touched the balance.
	balance, _ := repo.GetBalance(user.ID.String())
	if balance != 1500 {
		t.Errorf("expected balance 1500 after replay, got %d", balance)
	}

	var count int64
	db.Model(&models.CreditPurchase{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 purchase row, got %d", count)
	}
}

func TestFindPurchaseByPaymentIntent(t *testing.T) {
	db := newTestDB(t)
	repo := NewCreditRepo(db)
	user := createTestUser(t, db, "finder@example.com", 500)

	if err := repo.ApplyPurchase(PurchaseParams{
		UserID:                user.ID.String(),
		StripePaymentIntentID: "pi_find_1",
		CreditsPurchased:      5050,
		AmountPaid:            50000,
		Currency:              "usd",
	}); err != nil {
		t.Fatalf("ApplyPurchase failed: %v", err)
	}

	purchase, err := repo.FindPurchaseByPaymentIntent("pi_find_1")
	if err != nil {
		t.Fatalf("FindPurchaseByPaymentIntent failed: %v", err)
	}
	if purchase.CreditsPurchased != 5050 || purchase.UserID != user.ID {
		t.Errorf("unexpected purchase: %+v", purchase)
	}

	_, err = repo.FindPurchaseByPaymentIntent("pi_missing")
	if !errors.Is(err, ErrPurchaseNotFound) {
		t.Fatalf("expected ErrPurchaseNotFound, got %v", err)
	}
}

func TestRecentHistoryOrderingAndLimit(t *testing.T) {
	db := newTestDB(t)
	repo := NewCreditRepo(db)
	user := createTestUser(t, db, "history@example.com", 1000)

	for i := 0; i < 5; i++ {
		if _, err := repo.Deduct(SpendParams{
			UserID:      user.ID.String(),
			Credits:     10,
			FeatureUsed: "staff:scrivner:chat",
		}); err != nil {
			t.Fatalf("Deduct %d failed: %v", i, err)
		}
	}

	spends, err := repo.RecentSpends(user.ID.String(), 3)
	if err != nil {
		t.Fatalf("RecentSpends failed: %v", err)
	}
	if len(spends) != 3 {
		t.Fatalf("expected 3 spends, got %d", len(spends))
	}
	for i := 1; i < len(spends); i++ {
		if spends[i].Timestamp.After(spends[i-1].Timestamp) {
			t.Errorf("spends not ordered newest-first")
		}
	}
}
