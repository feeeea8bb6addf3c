package pricing

import "math"

// Stripe's published standard US card rate: 2.9% + $0.30 per transaction.
// Used for estimation and payer-responsibility accounting only; the
// authoritative fee is whatever the processor actually deducts, and any
// discrepancy is a reporting concern, not a blocking error.
const (
	stripePercentRate = 0.029
	stripeFixedCents  = 30
	stripeFixedFee    = 0.30
)

type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// StripeFeeCents estimates the processing fee, in cents, for a charge of
// amountCents. The percentage portion is rounded half-up once before the
// fixed portion is added.
func (c *Calculator) StripeFeeCents(amountCents int64) int64 {
	return int64(math.Round(float64(amountCents)*stripePercentRate)) + stripeFixedCents
}

// CalculateStripeFee estimates the processing fee in dollars. Used by the
// reconciliation path, which works at the dollar boundary.
func (c *Calculator) CalculateStripeFee(amount float64) float64 {
	return amount*stripePercentRate + stripeFixedFee
}

// PlatformFeeCents computes the platform's cut in cents.
//
// A flat fee is charged once per order, so price and quantity are ignored.
// A percentage fee is computed on taxableBaseCents when it is positive
// (subtotal plus tax, so the platform's cut covers the full amount the
// customer pays), otherwise on round(unitPrice * quantity * 100).
// higher_of_both takes the larger of the two using the same base rule.
//
// An unrecognized fee type returns 0. That combination is rejected upstream
// as a configuration error; returning 0 here keeps the calculator total.
func (c *Calculator) PlatformFeeCents(unitPrice float64, quantity int, cfg FeeConfiguration, taxableBaseCents int64) int64 {
	switch cfg.FeeType {
	case FeeTypeFlat:
		return ToCents(cfg.FlatFeeAmount)
	case FeeTypePercentage:
		return c.percentageFeeCents(unitPrice, quantity, cfg, taxableBaseCents)
	case FeeTypeHigherOfBoth:
		flat := ToCents(cfg.FlatFeeAmount)
		pct := c.percentageFeeCents(unitPrice, quantity, cfg, taxableBaseCents)
		if pct > flat {
			return pct
		}
		return flat
	default:
		return 0
	}
}

func (c *Calculator) percentageFeeCents(unitPrice float64, quantity int, cfg FeeConfiguration, taxableBaseCents int64) int64 {
	base := taxableBaseCents
	if base <= 0 {
		base = ToCents(unitPrice * float64(quantity))
	}
	return int64(math.Round(float64(base) * cfg.PercentageFee / 100))
}

// Amounts is the cent-level split produced by the payer-responsibility
// formulas below.
type Amounts struct {
	SubtotalCents         int64 // base amount (ticket price plus tax)
	StripeFeeCents        int64
	PlatformFeeCents      int64
	TotalCents            int64
	BusinessReceivesCents int64
}

// CustomerPaysAmounts is the split when the customer is charged the base plus
// both fees. The processing fee is computed on base + platform fee, since the
// processor takes its cut of the full amount actually charged, platform
// markup included; computing it on the base alone would undercharge and make
// the business silently absorb the platform fee's processing cost.
func (c *Calculator) CustomerPaysAmounts(baseCents, platformFeeCents int64) Amounts {
	stripeFee := c.StripeFeeCents(baseCents + platformFeeCents)
	total := baseCents + platformFeeCents + stripeFee
	return Amounts{
		SubtotalCents:         baseCents,
		StripeFeeCents:        stripeFee,
		PlatformFeeCents:      platformFeeCents,
		TotalCents:            total,
		BusinessReceivesCents: total - stripeFee - platformFeeCents,
	}
}

// BusinessPaysAmounts is the split when both fees come out of the business's
// payout: the customer pays exactly the base, and the payout is the base
// minus both fees. The payout can go negative when fees exceed the margin;
// callers must reject that before checkout rather than create a session with
// a negative transfer.
func (c *Calculator) BusinessPaysAmounts(baseCents, platformFeeCents int64) Amounts {
	stripeFee := c.StripeFeeCents(baseCents)
	return Amounts{
		SubtotalCents:         baseCents,
		StripeFeeCents:        stripeFee,
		PlatformFeeCents:      platformFeeCents,
		TotalCents:            baseCents,
		BusinessReceivesCents: baseCents - stripeFee - platformFeeCents,
	}
}

// SplitAmounts handles all four payer combinations with one ordering rule:
// the customer charge grows by each fee component the customer is responsible
// for, and the processing fee is computed on the charge before the processing
// fee itself (base plus any customer-paid platform fee). The payout identity
// businessReceives == total - stripeFee - platformFee holds in every branch.
func (c *Calculator) SplitAmounts(baseCents, platformFeeCents int64, stripeFeePayer, platformFeePayer Payer) Amounts {
	switch {
	case stripeFeePayer == PayerCustomer && platformFeePayer == PayerCustomer:
		return c.CustomerPaysAmounts(baseCents, platformFeeCents)
	case stripeFeePayer == PayerBusiness && platformFeePayer == PayerBusiness:
		return c.BusinessPaysAmounts(baseCents, platformFeeCents)
	}

	preStripeCharge := baseCents
	if platformFeePayer == PayerCustomer {
		preStripeCharge += platformFeeCents
	}
	stripeFee := c.StripeFeeCents(preStripeCharge)
	total := preStripeCharge
	if stripeFeePayer == PayerCustomer {
		total += stripeFee
	}
	return Amounts{
		SubtotalCents:         baseCents,
		StripeFeeCents:        stripeFee,
		PlatformFeeCents:      platformFeeCents,
		TotalCents:            total,
		BusinessReceivesCents: total - stripeFee - platformFeeCents,
	}
}

// EstimatedProcessingFees estimates the processor's take across a period:
// the percentage rate on the gross plus the fixed fee once per transaction.
func (c *Calculator) EstimatedProcessingFees(gross float64, transactions int64) float64 {
	return gross*stripePercentRate + stripeFixedFee*float64(transactions)
}

// CalculateBusinessPayout reports what the connected account actually net
// received for a settled charge: the charged amount minus the estimated
// processing fee minus the application fee. Used by settlement views, not by
// checkout.
func (c *Calculator) CalculateBusinessPayout(chargedAmount, applicationFee float64) float64 {
	return chargedAmount - c.CalculateStripeFee(chargedAmount) - applicationFee
}
