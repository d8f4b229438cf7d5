package billing

import (
	"github.com/goodwinhq/household-staff-be/internal/shared/config"
)

// Package is one purchasable credit bundle. Total is what the ledger grants
// (base credits plus bonus); AmountCents is the Stripe charge amount.
type Package struct {
	PriceID     string `json:"price_id"`
	Credits     int    `json:"credits"`
	Bonus       int    `json:"bonus"`
	Total       int    `json:"total"`
	AmountCents int64  `json:"amount_cents"`
}

// Catalog maps Stripe price IDs to credit packages. Price IDs come from the
// environment so sandbox and live dashboards can differ.
type Catalog struct {
	byPriceID map[string]Package
	ordered   []Package
}

// NewCatalog builds the package table from config. Packages without a
// configured price ID are left out.
func NewCatalog(cfg *config.Config) *Catalog {
	c := &Catalog{byPriceID: make(map[string]Package)}

	add := func(priceID string, credits, bonus int, amountCents int64) {
		if priceID == "" {
			return
		}
		pkg := Package{
			PriceID:     priceID,
			Credits:     credits,
			Bonus:       bonus,
			Total:       credits + bonus,
			AmountCents: amountCents,
		}
		c.byPriceID[priceID] = pkg
		c.ordered = append(c.ordered, pkg)
	}

	add(cfg.StripePriceID1000, 1000, 0, 10000)
	add(cfg.StripePriceID5050, 5000, 50, 50000)
	add(cfg.StripePriceID11000, 10000, 1000, 100000)
	add(cfg.StripePriceID23000, 20000, 3000, 200000)
	add(cfg.StripePriceID62500, 50000, 12500, 500000)
	add(cfg.StripePriceID140000, 100000, 40000, 1000000)

	return c
}

// ByPriceID resolves a package from an explicit price ID.
func (c *Catalog) ByPriceID(priceID string) (Package, bool) {
	pkg, ok := c.byPriceID[priceID]
	return pkg, ok
}

// ByAmount resolves a package by matching the paid amount. Fallback for
// checkout sessions that carry no price_id metadata.
func (c *Catalog) ByAmount(amountCents int64) (Package, bool) {
	for _, pkg := range c.ordered {
		if pkg.AmountCents == amountCents {
			return pkg, true
		}
	}
	return Package{}, false
}

// Packages lists the catalog in price order, for the buy-credits page.
func (c *Catalog) Packages() []Package {
	return c.ordered
}
