package handlers

import (
	"errors"
	"log"

	"github.com/goodwinhq/household-staff-be/internal/core/billing"
	"github.com/goodwinhq/household-staff-be/internal/services"
	"github.com/gofiber/fiber/v2"
)

type BillingHandler struct {
	checkoutService *billing.CheckoutService
	webhookService  *services.StripeWebhookService
}

func NewBillingHandler(checkoutService *billing.CheckoutService, webhookService *services.StripeWebhookService) *BillingHandler {
	return &BillingHandler{
		checkoutService: checkoutService,
		webhookService:  webhookService,
	}
}

// GetPackages lists purchasable credit packages
func (h *BillingHandler) GetPackages(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"packages": h.checkoutService.Packages(),
	})
}

// CreateCheckoutSession starts a Stripe Checkout session for a credit package
func (h *BillingHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	email, _ := c.Locals("email").(string)
	if userID == "" {
		return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req struct {
		PriceID string `json:"price_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	if req.PriceID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "price_id is required"})
	}

	session, err := h.checkoutService.CreateSession(userID, email, req.PriceID)
	if err != nil {
		if errors.Is(err, billing.ErrUnknownPriceID) {
			return c.Status(400).JSON(fiber.Map{"error": "unknown price_id"})
		}
		log.Printf("❌ Failed to create checkout session for %s: %v", userID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create checkout session"})
	}

	return c.JSON(fiber.Map{
		"session_id": session.SessionID,
		"url":        session.URL,
	})
}

// StripeWebhook receives payment events from Stripe. Only signature failures
// get a 400; processing problems are acked so Stripe does not retry forever.
func (h *BillingHandler) StripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	signature := c.Get("Stripe-Signature")

	if err := h.webhookService.HandleEvent(payload, signature); err != nil {
		if errors.Is(err, services.ErrSignatureInvalid) {
			log.Printf("❌ Stripe webhook signature verification failed: %v", err)
			return c.Status(400).JSON(fiber.Map{"error": "invalid signature"})
		}
		log.Printf("❌ Stripe webhook processing failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "webhook processing failed"})
	}

	return c.JSON(fiber.Map{"received": true})
}
