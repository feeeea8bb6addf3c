package pricing

import "errors"

// Service errors
var (
	// ErrInvalidConfiguration means the fee configuration is missing or has
	// negative parameters. Checkout must be blocked before any call to the
	// payment processor is made.
	ErrInvalidConfiguration = errors.New("invalid fee configuration")

	// ErrInvalidPricingInput means the quantity is below one, the price is
	// negative, or the tax percentage is out of range. The caller should
	// re-prompt rather than retry.
	ErrInvalidPricingInput = errors.New("invalid pricing input")

	// ErrNegativePayout means the fees the business absorbs exceed the order
	// amount, which would produce a negative payout. This is meant to surface
	// at configuration time, not be discovered at checkout.
	ErrNegativePayout = errors.New("fees exceed business payout")
)
