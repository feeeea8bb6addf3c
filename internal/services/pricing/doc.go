/*
Package pricing computes the money split for a ticket order: the customer
total, the platform's application fee, the estimated Stripe processing fee,
and the net payout to the business's connected account.

The package is pure computation. It performs no I/O, holds no state, and is
safe for arbitrary concurrent use. The effective fee configuration for a
business is supplied through the ConfigProvider interface at call time; the
service never caches it.

Usage:

	svc := pricing.NewService(configProvider)

	result, err := svc.QuoteOrder(ctx, businessID, pricing.Input{
	    UnitPrice:        25.00,
	    Quantity:         2,
	    TaxPercentage:    8,
	    StripeFeePayer:   pricing.PayerCustomer,
	    PlatformFeePayer: pricing.PayerCustomer,
	})

All arithmetic is done in integer cents. Each fee component is rounded
half-up exactly once, at the cent boundary, before any summation. Sums of
already-rounded components are never re-rounded; reordering those two steps
shifts results by a cent in edge cases, which shows up as a reconciliation
mismatch against the processor.

Error Handling:

The service returns specific errors for different scenarios:
- ErrInvalidConfiguration: Missing or negative fee parameters
- ErrInvalidPricingInput: Non-positive quantity or negative price
- ErrNegativePayout: Fees exceed what the business would receive

A quote either succeeds with a complete, internally consistent Result or
fails outright. There are no retries and no partial results.
*/
package pricing
