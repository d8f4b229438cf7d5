package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goodwinhq/household-staff-be/internal/core/billing"
	"github.com/goodwinhq/household-staff-be/internal/repositories"
	"github.com/goodwinhq/household-staff-be/internal/shared/utils"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// ErrSignatureInvalid aborts webhook processing before any classification.
var ErrSignatureInvalid = errors.New("invalid webhook signature")

// StripeWebhookService applies asynchronously delivered payment events to the
// ledger exactly once. It never depends on request-time session state: the
// event itself carries customer identity.
//
// Skips (unknown package, missing payment intent or email, orphaned payment,
// replayed event) are logged and acknowledged so Stripe stops redelivering;
// only signature failures and storage faults surface as errors.
type StripeWebhookService struct {
	webhookSecret string
	catalog       *billing.Catalog
	users         repositories.UserRepo
	credits       repositories.CreditRepo
}

// NewStripeWebhookService creates a new webhook service
func NewStripeWebhookService(webhookSecret string, catalog *billing.Catalog, users repositories.UserRepo, credits repositories.CreditRepo) *StripeWebhookService {
	return &StripeWebhookService{
		webhookSecret: webhookSecret,
		catalog:       catalog,
		users:         users,
		credits:       credits,
	}
}

// HandleEvent verifies and dispatches one raw webhook delivery.
func (s *StripeWebhookService) HandleEvent(payload []byte, sigHeader string) error {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.webhookSecret)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}

	switch event.Type {
	case "checkout.session.completed":
		return s.handleCheckoutCompleted(event)
	case "charge.refunded":
		return s.handleChargeRefunded(event)
	default:
		utils.LogInfo("unhandled stripe event type", map[string]interface{}{
			"event_id": event.ID,
			"type":     event.Type,
		})
		return nil
	}
}

func (s *StripeWebhookService) handleCheckoutCompleted(event stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return fmt.Errorf("failed to parse checkout session: %w", err)
	}

	// Resolve the purchased package: explicit price_id metadata first, then
	// match by the paid amount.
	var pkg billing.Package
	ok := false
	if priceID := session.Metadata["price_id"]; priceID != "" {
		pkg, ok = s.catalog.ByPriceID(priceID)
	}
	if !ok && session.Mode == stripe.CheckoutSessionModePayment {
		pkg, ok = s.catalog.ByAmount(session.AmountTotal)
	}
	if !ok {
		utils.LogWarn("unknown or missing price id for credit purchase", map[string]interface{}{
			"session_id":   session.ID,
			"amount_total": session.AmountTotal,
		})
		return nil
	}

	if session.PaymentIntent == nil || session.PaymentIntent.ID == "" {
		utils.LogWarn("missing payment intent in checkout session", map[string]interface{}{
			"session_id": session.ID,
		})
		return nil
	}
	paymentIntentID := session.PaymentIntent.ID

	// Idempotency pre-check; the unique constraint on the purchase table
	// closes the race between two concurrent deliveries.
	if _, err := s.credits.FindPurchaseByPaymentIntent(paymentIntentID); err == nil {
		utils.LogInfo("credit purchase already processed", map[string]interface{}{
			"payment_intent": paymentIntentID,
		})
		return nil
	} else if !errors.Is(err, repositories.ErrPurchaseNotFound) {
		return err
	}

	if session.CustomerDetails == nil || session.CustomerDetails.Email == "" {
		utils.LogWarn("missing customer email in checkout session", map[string]interface{}{
			"session_id": session.ID,
		})
		return nil
	}

	user, err := s.users.GetByEmail(session.CustomerDetails.Email)
	if errors.Is(err, repositories.ErrUserNotFound) {
		// Orphaned payment; reconciling it is out of scope here.
		utils.LogWarn("no user for stripe customer email", map[string]interface{}{
			"email": session.CustomerDetails.Email,
		})
		return nil
	}
	if err != nil {
		return err
	}

	currency := string(session.Currency)
	if currency == "" {
		currency = "usd"
	}

	err = s.credits.ApplyPurchase(repositories.PurchaseParams{
		UserID:                user.ID.String(),
		StripePaymentIntentID: paymentIntentID,
		CreditsPurchased:      pkg.Total,
		AmountPaid:            session.AmountTotal,
		Currency:              currency,
	})
	if errors.Is(err, repositories.ErrPurchaseExists) {
		utils.LogInfo("concurrent delivery lost the purchase race, skipping", map[string]interface{}{
			"payment_intent": paymentIntentID,
		})
		return nil
	}
	if err != nil {
		return err
	}

	utils.LogInfo("awarded credits for purchase", map[string]interface{}{
		"user_id":        user.ID.String(),
		"credits":        pkg.Total,
		"payment_intent": paymentIntentID,
	})
	return nil
}

func (s *StripeWebhookService) handleChargeRefunded(event stripe.Event) error {
	var charge stripe.Charge
	if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
		return fmt.Errorf("failed to parse charge: %w", err)
	}

	if charge.PaymentIntent == nil || charge.PaymentIntent.ID == "" {
		utils.LogWarn("refunded charge has no payment intent", map[string]interface{}{
			"charge_id": charge.ID,
		})
		return nil
	}
	paymentIntentID := charge.PaymentIntent.ID

	purchase, err := s.credits.FindPurchaseByPaymentIntent(paymentIntentID)
	if errors.Is(err, repositories.ErrPurchaseNotFound) {
		utils.LogWarn("no matching purchase for refund", map[string]interface{}{
			"payment_intent": paymentIntentID,
		})
		return nil
	}
	if err != nil {
		return err
	}

	reason := fmt.Sprintf("Refund for Stripe paymentIntent %s", paymentIntentID)
	// The claw-back may drive the balance below zero if the credits were
	// already spent. That is accepted: a negative balance is a debt marker.
	_, err = s.credits.Adjust(purchase.UserID.String(), -purchase.CreditsPurchased, reason)
	if errors.Is(err, repositories.ErrUserNotFound) {
		utils.LogWarn("user not found for refund", map[string]interface{}{
			"user_id": purchase.UserID.String(),
		})
		return nil
	}
	if err != nil {
		return err
	}

	utils.LogInfo("clawed back refunded credits", map[string]interface{}{
		"user_id":        purchase.UserID.String(),
		"credits":        purchase.CreditsPurchased,
		"payment_intent": paymentIntentID,
	})
	return nil
}
