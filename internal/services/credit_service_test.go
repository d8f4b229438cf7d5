package services

import (
	"errors"
	"testing"

	"github.com/goodwinhq/household-staff-be/internal/repositories"
)

func TestCalculateCreditsWithMarkup(t *testing.T) {
	svc := NewCreditService(nil)

	cases := []struct {
		base int
		want int
	}{
		{0, 0},
		{1, 2},   // 1.3 rounds up
		{10, 13}, // exact
		{25, 33}, // 32.5 rounds up
		{30, 39},
		{50, 65},
	}
	for _, tc := range cases {
		got, err := svc.CalculateCreditsWithMarkup(tc.base)
		if err != nil {
			t.Fatalf("markup(%d) failed: %v", tc.base, err)
		}
		if got != tc.want {
			t.Errorf("markup(%d) = %d, want %d", tc.base, got, tc.want)
		}
	}

	if _, err := svc.CalculateCreditsWithMarkup(-1); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for negative base, got %v", err)
	}
}

func TestCheckBalanceLowCreditThreshold(t *testing.T) {
	_, repo, user := newTestLedger(t, "low@example.com", 99)
	svc := NewCreditService(repo)

	status, err := svc.CheckBalance(user.ID.String())
	if err != nil {
		t.Fatalf("CheckBalance failed: %v", err)
	}
	if status.Credits != 99 || !status.LowCredits {
		t.Errorf("expected low-credit flag at 99, got %+v", status)
	}

	if _, err := svc.AddCredits(user.ID.String(), 1, "test top-up"); err != nil {
		t.Fatalf("AddCredits failed: %v", err)
	}

	status, err = svc.CheckBalance(user.ID.String())
	if err != nil {
		t.Fatalf("CheckBalance failed: %v", err)
	}
	if status.Credits != 100 || status.LowCredits {
		t.Errorf("expected no low-credit flag at 100, got %+v", status)
	}
}

func TestDeductCreditsRejectsNonPositive(t *testing.T) {
	_, repo, user := newTestLedger(t, "nonpos@example.com", 100)
	svc := NewCreditService(repo)

	for _, amount := range []int{0, -5} {
		_, err := svc.DeductCredits(CreditOperation{
			UserID:         user.ID.String(),
			CreditsToSpend: amount,
			FeatureUsed:    "test",
		})
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount for %d, got %v", amount, err)
		}
	}
}

func TestDeductCreditsInsufficientPropagates(t *testing.T) {
	_, repo, user := newTestLedger(t, "short@example.com", 5)
	svc := NewCreditService(repo)

	_, err := svc.DeductCredits(CreditOperation{
		UserID:         user.ID.String(),
		CreditsToSpend: 6,
		FeatureUsed:    "test",
	})
	if !errors.Is(err, repositories.ErrInsufficientCredits) {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}
}

func TestHasEnoughCredits(t *testing.T) {
	_, repo, user := newTestLedger(t, "afford@example.com", 50)
	svc := NewCreditService(repo)

	ok, err := svc.HasEnoughCredits(user.ID.String(), 50)
	if err != nil || !ok {
		t.Errorf("expected affordable at exact balance, got ok=%v err=%v", ok, err)
	}

	ok, err = svc.HasEnoughCredits(user.ID.String(), 51)
	if err != nil || ok {
		t.Errorf("expected unaffordable above balance, got ok=%v err=%v", ok, err)
	}

	// A missing user simply cannot afford anything; not an error.
	ok, err = svc.HasEnoughCredits("2e9b1a54-0000-4000-8000-00000000000a", 1)
	if err != nil || ok {
		t.Errorf("expected false for unknown user, got ok=%v err=%v", ok, err)
	}
}

func TestAddCreditsRejectsZero(t *testing.T) {
	_, repo, user := newTestLedger(t, "zero@example.com", 10)
	svc := NewCreditService(repo)

	if _, err := svc.AddCredits(user.ID.String(), 0, "noop"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for zero adjustment, got %v", err)
	}
}

func TestGetHistory(t *testing.T) {
	_, repo, user := newTestLedger(t, "hist@example.com", 1000)
	svc := NewCreditService(repo)

	if _, err := svc.DeductCredits(CreditOperation{
		UserID:         user.ID.String(),
		CreditsToSpend: 10,
		FeatureUsed:    "staff:goodwin:base",
	}); err != nil {
		t.Fatalf("DeductCredits failed: %v", err)
	}
	if _, err := svc.AddCredits(user.ID.String(), -20, "refund test"); err != nil {
		t.Fatalf("AddCredits failed: %v", err)
	}

	history, err := svc.GetHistory(user.ID.String(), 0) // defaults to 10
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(history.Spends) != 1 || len(history.Adjustments) != 1 || len(history.Purchases) != 0 {
		t.Errorf("unexpected history: %d spends, %d adjustments, %d purchases",
			len(history.Spends), len(history.Adjustments), len(history.Purchases))
	}
}

func TestGetHistoryUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewCreditService(repositories.NewCreditRepo(db))

	_, err := svc.GetHistory("2e9b1a54-0000-4000-8000-00000000000b", 10)
	if !errors.Is(err, repositories.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
