package billing

import (
	"testing"

	"github.com/goodwinhq/household-staff-be/internal/shared/config"
)

func TestCatalogByPriceID(t *testing.T) {
	catalog := NewCatalog(&config.Config{
		StripePriceID1000:   "price_a",
		StripePriceID5050:   "price_b",
		StripePriceID140000: "price_f",
	})

	pkg, ok := catalog.ByPriceID("price_b")
	if !ok {
		t.Fatal("expected price_b in catalog")
	}
	if pkg.Credits != 5000 || pkg.Bonus != 50 || pkg.Total != 5050 || pkg.AmountCents != 50000 {
		t.Errorf("unexpected package: %+v", pkg)
	}

	pkg, ok = catalog.ByPriceID("price_f")
	if !ok || pkg.Total != 140000 {
		t.Errorf("expected 140000 total for price_f, got %+v (ok=%v)", pkg, ok)
	}

	if _, ok := catalog.ByPriceID("price_z"); ok {
		t.Error("expected miss for unconfigured price id")
	}
}

func TestCatalogByAmount(t *testing.T) {
	catalog := NewCatalog(&config.Config{
		StripePriceID1000: "price_a",
		StripePriceID5050: "price_b",
	})

	pkg, ok := catalog.ByAmount(50000)
	if !ok || pkg.Total != 5050 {
		t.Errorf("expected 5050 package for 50000 cents, got %+v (ok=%v)", pkg, ok)
	}

	if _, ok := catalog.ByAmount(12345); ok {
		t.Error("expected miss for unknown amount")
	}
}

func TestCatalogSkipsUnconfiguredPackages(t *testing.T) {
	catalog := NewCatalog(&config.Config{StripePriceID1000: "price_a"})

	if got := len(catalog.Packages()); got != 1 {
		t.Errorf("expected 1 configured package, got %d", got)
	}
}
