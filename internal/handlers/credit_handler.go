package handlers

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/goodwinhq/household-staff-be/internal/repositories"
	"github.com/goodwinhq/household-staff-be/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

type CreditHandler struct {
	creditService *services.CreditService
	usageService  *services.UsageService
}

func NewCreditHandler(creditService *services.CreditService, usageService *services.UsageService) *CreditHandler {
	return &CreditHandler{
		creditService: creditService,
		usageService:  usageService,
	}
}

// GetBalance returns the caller's credit balance and low-credit flag
func (h *CreditHandler) GetBalance(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	status, err := h.creditService.CheckBalance(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "user not found"})
		}
		log.Printf("❌ Failed to check balance for %s: %v", userID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to check balance"})
	}

	return c.JSON(fiber.Map{
		"credits":     status.Credits,
		"low_credits": status.LowCredits,
	})
}

// GetHistory returns recent purchases, spends and adjustments
func (h *CreditHandler) GetHistory(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	limit := c.QueryInt("limit", 10)

	history, err := h.creditService.GetHistory(userID, limit)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "user not found"})
		}
		log.Printf("❌ Failed to get credit history for %s: %v", userID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to get history"})
	}

	return c.JSON(fiber.Map{
		"purchases":   history.Purchases,
		"spends":      history.Spends,
		"adjustments": history.Adjustments,
	})
}

// Consume deducts credits for a feature the frontend already ran
func (h *CreditHandler) Consume(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req struct {
		Credits     int                    `json:"credits"`
		FeatureUsed string                 `json:"feature_used"`
		Metadata    map[string]interface{} `json:"metadata"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	if req.FeatureUsed == "" {
		return c.Status(400).JSON(fiber.Map{"error": "feature_used is required"})
	}

	var metadata datatypes.JSON
	if req.Metadata != nil {
		raw, err := json.Marshal(req.Metadata)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid metadata"})
		}
		metadata = datatypes.JSON(raw)
	}

	balance, err := h.creditService.DeductCredits(services.CreditOperation{
		UserID:         userID,
		CreditsToSpend: req.Credits,
		FeatureUsed:    req.FeatureUsed,
		Metadata:       metadata,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount):
			return c.Status(400).JSON(fiber.Map{"error": "credits must be positive"})
		case errors.Is(err, repositories.ErrInsufficientCredits):
			return c.Status(402).JSON(fiber.Map{"error": "insufficient credits"})
		case errors.Is(err, repositories.ErrUserNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "user not found"})
		default:
			log.Printf("❌ Failed to deduct credits for %s: %v", userID, err)
			return c.Status(500).JSON(fiber.Map{"error": "failed to deduct credits"})
		}
	}

	return c.JSON(fiber.Map{
		"success":           true,
		"remaining_credits": balance,
	})
}
