package services

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// Base credit costs per (servant, operation), before markup. Unknown pairs
// fall back to a minimum base cost of 1 so an unanticipated operation is
// charged rather than hard-blocked.
var staffCosts = map[string]map[string]int{
	"goodwin": {
		"base":          5,
		"orchestration": 2,
	},
	"gearhart": { // mechanic
		"chat":                25,
		"image_analysis":      15,
		"vector_store_create": 50,
		"vector_store_search": 10,
	},
	"brightwell": { // artist
		"generate":        30,
		"high_resolution": 50,
	},
	"scrivner": { // scribe
		"chat": 8,
	},
}

const minimumBaseCost = 1

// StaffOperation identifies one priced servant operation.
type StaffOperation struct {
	Servant   string
	Operation string
	// BaseCost overrides the static table when > 0.
	BaseCost int
	Metadata map[string]interface{}
}

// UsageService translates a named servant operation into a priced, recorded
// ledger transaction. It is invoked only after the external operation
// succeeded; callers confirm affordability beforehand.
type UsageService struct {
	credits *CreditService
}

// NewUsageService creates a new usage service
func NewUsageService(credits *CreditService) *UsageService {
	return &UsageService{credits: credits}
}

// OperationCost resolves the base cost (override wins over the table) and
// applies the markup.
func (s *UsageService) OperationCost(op StaffOperation) (int, error) {
	baseCost := op.BaseCost
	if baseCost <= 0 {
		if ops, ok := staffCosts[op.Servant]; ok {
			baseCost = ops[op.Operation]
		}
	}
	if baseCost <= 0 {
		baseCost = minimumBaseCost
	}
	return s.credits.CalculateCreditsWithMarkup(baseCost)
}

// RecordOperation deducts the marked-up cost and writes a spend row tagged
// staff:<servant>:<operation>. ErrInsufficientCredits propagates unchanged so
// feature endpoints can surface it as a payment-required condition.
func (s *UsageService) RecordOperation(userID string, op StaffOperation) (int, error) {
	totalCost, err := s.OperationCost(op)
	if err != nil {
		return 0, err
	}

	meta := map[string]interface{}{
		"servant":   op.Servant,
		"operation": op.Operation,
	}
	if op.BaseCost > 0 {
		meta["base_cost"] = op.BaseCost
	}
	for k, v := range op.Metadata {
		meta[k] = v
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal usage metadata: %w", err)
	}

	return s.credits.DeductCredits(CreditOperation{
		UserID:         userID,
		CreditsToSpend: totalCost,
		FeatureUsed:    fmt.Sprintf("staff:%s:%s", op.Servant, op.Operation),
		Metadata:       datatypes.JSON(metaJSON),
	})
}
