package pricing

import (
	"context"
	"fmt"
)

// ConfigProvider resolves the effective fee configuration for a business at
// call time: the business-level override when one exists, otherwise the
// platform-wide default. Implementations own caching and storage concerns;
// the pricing service never caches what it is handed.
type ConfigProvider interface {
	EffectiveFeeConfig(ctx context.Context, businessID uint) (FeeConfiguration, error)
}

// Service quotes orders and validates fee configurations.
type Service interface {
	// QuoteOrder computes the complete money split for one checkout attempt.
	QuoteOrder(ctx context.Context, businessID uint, input Input) (*Result, error)

	// Quote is QuoteOrder with an explicit configuration, for callers that
	// already hold one (configuration previews, settlement recomputation).
	Quote(input Input, cfg FeeConfiguration) (*Result, error)

	// ValidateConfiguration rejects fee configurations that are malformed or
	// that would produce a negative payout on the business's cheapest ticket
	// under its current payer settings. Meant to run when an operator saves a
	// configuration, so the problem surfaces then and not at checkout.
	ValidateConfiguration(cfg FeeConfiguration, stripeFeePayer, platformFeePayer Payer, minTicketPrice float64) error
}

type service struct {
	provider ConfigProvider
	calc     *Calculator
}

func NewService(provider ConfigProvider) Service {
	return &service{
		provider: provider,
		calc:     NewCalculator(),
	}
}

func (s *service) QuoteOrder(ctx context.Context, businessID uint, input Input) (*Result, error) {
	cfg, err := s.provider.EffectiveFeeConfig(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("resolve fee config for business %d: %w", businessID, err)
	}
	return s.Quote(input, cfg)
}

func (s *service) Quote(input Input, cfg FeeConfiguration) (*Result, error) {
	// Inputs are rejected before any fee math runs.
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	subtotalCents := ToCents(input.UnitPrice * float64(input.Quantity))
	taxCents := roundCents(float64(subtotalCents) * input.TaxPercentage / 100)

	// The percentage cut is taken on subtotal plus tax: the platform's share
	// covers the full amount the customer pays, not the pre-tax price.
	taxableBaseCents := subtotalCents + taxCents
	platformFeeCents := s.calc.PlatformFeeCents(input.UnitPrice, input.Quantity, cfg, taxableBaseCents)

	amounts := s.calc.SplitAmounts(taxableBaseCents, platformFeeCents, input.StripeFeePayer, input.PlatformFeePayer)
	if amounts.BusinessReceivesCents < 0 {
		return nil, fmt.Errorf("%w: payout would be %d cents", ErrNegativePayout, amounts.BusinessReceivesCents)
	}

	return &Result{
		SubtotalCents:         subtotalCents,
		TaxCents:              taxCents,
		PlatformFeeCents:      platformFeeCents,
		StripeFeeCents:        amounts.StripeFeeCents,
		TotalCents:            amounts.TotalCents,
		BusinessReceivesCents: amounts.BusinessReceivesCents,
		ApplicationFeeCents:   platformFeeCents,
	}, nil
}

func (s *service) ValidateConfiguration(cfg FeeConfiguration, stripeFeePayer, platformFeePayer Payer, minTicketPrice float64) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if minTicketPrice <= 0 {
		return nil // no tickets on sale yet, nothing to check against
	}

	// Worst case for the payout is a single cheapest ticket with no tax.
	_, err := s.Quote(Input{
		UnitPrice:        minTicketPrice,
		Quantity:         1,
		TaxPercentage:    0,
		StripeFeePayer:   stripeFeePayer,
		PlatformFeePayer: platformFeePayer,
	}, cfg)
	return err
}

func validateInput(input Input) error {
	if input.UnitPrice < 0 {
		return fmt.Errorf("%w: unit price must not be negative", ErrInvalidPricingInput)
	}
	if input.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidPricingInput)
	}
	if input.TaxPercentage < 0 || input.TaxPercentage > 100 {
		return fmt.Errorf("%w: tax percentage must be between 0 and 100", ErrInvalidPricingInput)
	}
	if !validPayer(input.StripeFeePayer) || !validPayer(input.PlatformFeePayer) {
		return fmt.Errorf("%w: unknown fee payer", ErrInvalidConfiguration)
	}
	return nil
}

func validateConfig(cfg FeeConfiguration) error {
	switch cfg.FeeType {
	case FeeTypeFlat, FeeTypePercentage, FeeTypeHigherOfBoth:
	case "":
		return fmt.Errorf("%w: fee type is not set", ErrInvalidConfiguration)
	default:
		return fmt.Errorf("%w: unknown fee type %q", ErrInvalidConfiguration, cfg.FeeType)
	}
	if cfg.FlatFeeAmount < 0 {
		return fmt.Errorf("%w: flat fee must not be negative", ErrInvalidConfiguration)
	}
	if cfg.PercentageFee < 0 {
		return fmt.Errorf("%w: percentage fee must not be negative", ErrInvalidConfiguration)
	}
	return nil
}

func validPayer(p Payer) bool {
	return p == PayerCustomer || p == PayerBusiness
}
