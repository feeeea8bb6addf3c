package checkout

import (
	"gatepass/internal/config"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/checkout/session"
)

type stripeClient struct{}

// NewStripeClient returns a SessionCreator backed by the real Stripe API.
// The secret key comes from STRIPE_SECRET_KEY.
func NewStripeClient() SessionCreator {
	stripe.Key = config.GetEnv("STRIPE_SECRET_KEY", "")
	return &stripeClient{}
}

func (c *stripeClient) CreateSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return session.New(params)
}
