package pricing

import "math"

// FeeType selects how the platform's cut is computed.
type FeeType string

const (
	FeeTypeFlat         FeeType = "flat"
	FeeTypePercentage   FeeType = "percentage"
	FeeTypeHigherOfBoth FeeType = "higher_of_both"
)

// Payer identifies which party absorbs a fee component.
type Payer string

const (
	PayerCustomer Payer = "customer"
	PayerBusiness Payer = "business"
)

// FeeConfiguration is the effective platform fee schedule for one business.
// A business-level override replaces the platform default in full; callers
// never merge the two field by field.
type FeeConfiguration struct {
	FeeType       FeeType
	FlatFeeAmount float64 // dollars, charged once per order
	PercentageFee float64 // percentage points, e.g. 5 = 5%
}

// Input is everything a quote needs from the checkout request and the
// business's fee-responsibility settings. The two payer flags are orthogonal:
// a business may pass the platform fee to the customer while absorbing the
// processing fee itself, or any other combination.
type Input struct {
	UnitPrice        float64 // dollars
	Quantity         int
	TaxPercentage    float64 // 0..100
	StripeFeePayer   Payer
	PlatformFeePayer Payer
}

// Result is the complete money split for one checkout attempt, in integer
// cents. It is computed once, immediately before the payment session is
// created, and never mutated; if the customer edits the order, a new quote
// is computed from scratch.
type Result struct {
	SubtotalCents         int64
	TaxCents              int64
	PlatformFeeCents      int64
	StripeFeeCents        int64
	TotalCents            int64 // charged to the customer
	BusinessReceivesCents int64 // net payout to the connected account

	// ApplicationFeeCents is the platform's cut, collected through the
	// processor's transfer mechanism. Charges run on the connected account,
	// so the processing fee is debited there; when the customer pays it, the
	// charge total already carries it and the business is made whole.
	ApplicationFeeCents int64
}

// TotalDollars returns the customer charge at the dollar boundary.
func (r *Result) TotalDollars() float64 { return CentsToDollars(r.TotalCents) }

// BusinessReceivesDollars returns the net payout at the dollar boundary.
func (r *Result) BusinessReceivesDollars() float64 {
	return CentsToDollars(r.BusinessReceivesCents)
}

// ToCents converts dollars to integer cents, rounding half-up.
func ToCents(dollars float64) int64 {
	return int64(math.Round(dollars * 100))
}

// roundCents rounds a fractional cent amount half-up to whole cents.
func roundCents(cents float64) int64 {
	return int64(math.Round(cents))
}

// CentsToDollars converts integer cents to dollars.
func CentsToDollars(cents int64) float64 {
	return float64(cents) / 100
}
