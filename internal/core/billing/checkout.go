package billing

import (
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
)

// ErrUnknownPriceID rejects checkout attempts for packages not in the
// catalog.
var ErrUnknownPriceID = errors.New("unknown price id")

// CheckoutService creates Stripe Checkout sessions for credit purchases.
type CheckoutService struct {
	secretKey  string
	successURL string
	cancelURL  string
	catalog    *Catalog
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(secretKey, successURL, cancelURL string, catalog *Catalog) *CheckoutService {
	if successURL == "" {
		successURL = "https://example.com/checkout/success?session_id={CHECKOUT_SESSION_ID}"
	}
	if cancelURL == "" {
		cancelURL = "https://example.com/checkout/cancel"
	}
	return &CheckoutService{
		secretKey:  secretKey,
		successURL: successURL,
		cancelURL:  cancelURL,
		catalog:    catalog,
	}
}

// Packages exposes the catalog for the buy-credits page.
func (s *CheckoutService) Packages() []Package {
	return s.catalog.Packages()
}

// CheckoutSession is the client-side redirect payload.
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url,omitempty"`
}

// CreateSession builds a payment-mode checkout session for one credit
// package. The price_id metadata lets the webhook resolve the package without
// relying on the amount fallback.
func (s *CheckoutService) CreateSession(userID, email, priceID string) (*CheckoutSession, error) {
	if _, ok := s.catalog.ByPriceID(priceID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPriceID, priceID)
	}

	stripe.Key = s.secretKey

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(s.successURL),
		CancelURL:          stripe.String(s.cancelURL),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"price_id": priceID,
			"user_id":  userID,
		},
	}
	if email != "" {
		params.CustomerEmail = stripe.String(email)
	}
	if userID != "" {
		params.ClientReferenceID = stripe.String(userID)
	}

	sess, err := checkoutsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &CheckoutSession{SessionID: sess.ID, URL: sess.URL}, nil
}
