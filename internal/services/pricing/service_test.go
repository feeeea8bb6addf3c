package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockConfigProvider struct {
	mock.Mock
}

func (m *MockConfigProvider) EffectiveFeeConfig(ctx context.Context, businessID uint) (FeeConfiguration, error) {
	args := m.Called(ctx, businessID)
	return args.Get(0).(FeeConfiguration), args.Error(1)
}

func customerPaysInput(unitPrice float64, quantity int, tax float64) Input {
	return Input{
		UnitPrice:        unitPrice,
		Quantity:         quantity,
		TaxPercentage:    tax,
		StripeFeePayer:   PayerCustomer,
		PlatformFeePayer: PayerCustomer,
	}
}

func TestService_Quote_CustomerPaysFlatFee(t *testing.T) {
	svc := NewService(nil)

	// $25.00 x 2 at 8% tax, $2.00 flat platform fee, customer pays both fees.
	result, err := svc.Quote(
		customerPaysInput(25.00, 2, 8),
		FeeConfiguration{FeeType: FeeTypeFlat, FlatFeeAmount: 2.00},
	)

	assert.NoError(t, err)
	assert.Equal(t, int64(5000), result.SubtotalCents)
	assert.Equal(t, int64(400), result.TaxCents)
	assert.Equal(t, int64(200), result.PlatformFeeCents)
	assert.Equal(t, int64(192), result.StripeFeeCents)
	assert.Equal(t, int64(5792), result.TotalCents)
	assert.Equal(t, int64(5400), result.BusinessReceivesCents)
	assert.Equal(t, int64(200), result.ApplicationFeeCents)
	assert.InDelta(t, 57.92, result.TotalDollars(), 0.0001)
}

func TestService_Quote_BusinessPaysPercentageFee(t *testing.T) {
	svc := NewService(nil)

	// $10.00 x 1, no tax, 10% platform fee, business absorbs both fees.
	result, err := svc.Quote(Input{
		UnitPrice:        10.00,
		Quantity:         1,
		TaxPercentage:    0,
		StripeFeePayer:   PayerBusiness,
		PlatformFeePayer: PayerBusiness,
	}, FeeConfiguration{FeeType: FeeTypePercentage, PercentageFee: 10})

	assert.NoError(t, err)
	assert.Equal(t, int64(1000), result.SubtotalCents)
	assert.Equal(t, int64(100), result.PlatformFeeCents)
	assert.Equal(t, int64(59), result.StripeFeeCents)
	assert.Equal(t, int64(1000), result.TotalCents)
	assert.Equal(t, int64(841), result.BusinessReceivesCents)
	assert.Equal(t, int64(100), result.ApplicationFeeCents)
	assert.InDelta(t, 8.41, result.BusinessReceivesDollars(), 0.0001)
}

func TestService_Quote_PercentageBaseIncludesTax(t *testing.T) {
	svc := NewService(nil)

	// 10% of (subtotal + tax), not of the pre-tax subtotal.
	result, err := svc.Quote(
		customerPaysInput(10.00, 3, 8),
		FeeConfiguration{FeeType: FeeTypePercentage, PercentageFee: 10},
	)

	assert.NoError(t, err)
	assert.Equal(t, int64(3000), result.SubtotalCents)
	assert.Equal(t, int64(240), result.TaxCents)
	assert.Equal(t, int64(324), result.PlatformFeeCents)
}

func TestService_Quote_Invariants(t *testing.T) {
	svc := NewService(nil)

	cfg := FeeConfiguration{FeeType: FeeTypeHigherOfBoth, FlatFeeAmount: 1.50, PercentageFee: 5}
	payers := []Payer{PayerCustomer, PayerBusiness}

	for _, stripePayer := range payers {
		for _, platformPayer := range payers {
			input := Input{
				UnitPrice:        19.99,
				Quantity:         3,
				TaxPercentage:    7.25,
				StripeFeePayer:   stripePayer,
				PlatformFeePayer: platformPayer,
			}

			result, err := svc.Quote(input, cfg)
			assert.NoError(t, err)

			// Payout identity holds for every payer combination.
			assert.Equal(t,
				result.TotalCents-result.StripeFeeCents-result.PlatformFeeCents,
				result.BusinessReceivesCents,
				"stripe payer %s, platform payer %s", stripePayer, platformPayer)

			if stripePayer == PayerCustomer && platformPayer == PayerCustomer {
				assert.Equal(t,
					result.SubtotalCents+result.TaxCents+result.PlatformFeeCents+result.StripeFeeCents,
					result.TotalCents)
			}

			// Identical inputs produce identical results.
			again, err := svc.Quote(input, cfg)
			assert.NoError(t, err)
			assert.Equal(t, result, again)
		}
	}
}

func TestService_Quote_MonotonicInQuantity(t *testing.T) {
	svc := NewService(nil)

	cfg := FeeConfiguration{FeeType: FeeTypePercentage, PercentageFee: 10}
	var prev *Result

	for quantity := 1; quantity <= 10; quantity++ {
		result, err := svc.Quote(customerPaysInput(12.34, quantity, 8), cfg)
		assert.NoError(t, err)

		if prev != nil {
			assert.GreaterOrEqual(t, result.SubtotalCents, prev.SubtotalCents)
			assert.GreaterOrEqual(t, result.TaxCents, prev.TaxCents)
			assert.GreaterOrEqual(t, result.PlatformFeeCents, prev.PlatformFeeCents)
		}
		prev = result
	}
}

func TestService_Quote_RejectsBadInput(t *testing.T) {
	svc := NewService(nil)
	validCfg := FeeConfiguration{FeeType: FeeTypeFlat, FlatFeeAmount: 1.00}

	tests := []struct {
		name    string
		input   Input
		cfg     FeeConfiguration
		wantErr error
	}{
		{
			name:    "zero quantity",
			input:   customerPaysInput(10.00, 0, 0),
			cfg:     validCfg,
			wantErr: ErrInvalidPricingInput,
		},
		{
			name:    "negative price",
			input:   customerPaysInput(-1.00, 1, 0),
			cfg:     validCfg,
			wantErr: ErrInvalidPricingInput,
		},
		{
			name:    "tax over 100",
			input:   customerPaysInput(10.00, 1, 101),
			cfg:     validCfg,
			wantErr: ErrInvalidPricingInput,
		},
		{
			name:    "unset fee type",
			input:   customerPaysInput(10.00, 1, 0),
			cfg:     FeeConfiguration{},
			wantErr: ErrInvalidConfiguration,
		},
		{
			name:    "unknown fee type",
			input:   customerPaysInput(10.00, 1, 0),
			cfg:     FeeConfiguration{FeeType: "tiered"},
			wantErr: ErrInvalidConfiguration,
		},
		{
			name:    "negative flat fee",
			input:   customerPaysInput(10.00, 1, 0),
			cfg:     FeeConfiguration{FeeType: FeeTypeFlat, FlatFeeAmount: -1},
			wantErr: ErrInvalidConfiguration,
		},
		{
			name:    "negative percentage fee",
			input:   customerPaysInput(10.00, 1, 0),
			cfg:     FeeConfiguration{FeeType: FeeTypePercentage, PercentageFee: -5},
			wantErr: ErrInvalidConfiguration,
		},
		{
			name: "unknown payer",
			input: Input{
				UnitPrice: 10.00, Quantity: 1,
				StripeFeePayer: "platform", PlatformFeePayer: PayerCustomer,
			},
			cfg:     validCfg,
			wantErr: ErrInvalidConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Quote(tt.input, tt.cfg)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_Quote_RejectsNegativePayout(t *testing.T) {
	svc := NewService(nil)

	// $1.00 ticket with a $2.00 flat fee out of the business's side.
	result, err := svc.Quote(Input{
		UnitPrice:        1.00,
		Quantity:         1,
		StripeFeePayer:   PayerBusiness,
		PlatformFeePayer: PayerBusiness,
	}, FeeConfiguration{FeeType: FeeTypeFlat, FlatFeeAmount: 2.00})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNegativePayout)
}

func TestService_ValidateConfiguration(t *testing.T) {
	svc := NewService(nil)

	t.Run("accepts viable configuration", func(t *testing.T) {
		err := svc.ValidateConfiguration(
			FeeConfiguration{FeeType: FeeTypeFlat, FlatFeeAmount: 2.00},
			PayerBusiness, PayerBusiness, 25.00,
		)
		assert.NoError(t, err)
	})

	t.Run("rejects configuration that puts the cheapest ticket underwater", func(t *testing.T) {
		err := svc.ValidateConfiguration(
			FeeConfiguration{FeeType: FeeTypeFlat, FlatFeeAmount: 2.00},
			PayerBusiness, PayerBusiness, 1.00,
		)
		assert.ErrorIs(t, err, ErrNegativePayout)
	})

	t.Run("customer-paid fees cannot go underwater", func(t *testing.T) {
		err := svc.ValidateConfiguration(
			FeeConfiguration{FeeType: FeeTypeFlat, FlatFeeAmount: 2.00},
			PayerCustomer, PayerCustomer, 1.00,
		)
		assert.NoError(t, err)
	})

	t.Run("skips payout check with no tickets on sale", func(t *testing.T) {
		err := svc.ValidateConfiguration(
			FeeConfiguration{FeeType: FeeTypeFlat, FlatFeeAmount: 2.00},
			PayerBusiness, PayerBusiness, 0,
		)
		assert.NoError(t, err)
	})

	t.Run("rejects malformed configuration regardless of prices", func(t *testing.T) {
		err := svc.ValidateConfiguration(
			FeeConfiguration{FeeType: "tiered"},
			PayerCustomer, PayerCustomer, 25.00,
		)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})
}

func TestService_QuoteOrder(t *testing.T) {
	t.Run("resolves config through the provider", func(t *testing.T) {
		provider := new(MockConfigProvider)
		provider.On("EffectiveFeeConfig", mock.Anything, uint(42)).
			Return(FeeConfiguration{FeeType: FeeTypeFlat, FlatFeeAmount: 2.00}, nil)

		svc := NewService(provider)
		result, err := svc.QuoteOrder(context.Background(), 42, customerPaysInput(25.00, 2, 8))

		assert.NoError(t, err)
		assert.Equal(t, int64(5792), result.TotalCents)
		provider.AssertExpectations(t)
	})

	t.Run("provider failure blocks the quote", func(t *testing.T) {
		provider := new(MockConfigProvider)
		provider.On("EffectiveFeeConfig", mock.Anything, uint(7)).
			Return(FeeConfiguration{}, errors.New("store unavailable"))

		svc := NewService(provider)
		result, err := svc.QuoteOrder(context.Background(), 7, customerPaysInput(10.00, 1, 0))

		assert.Nil(t, result)
		assert.Error(t, err)
		provider.AssertExpectations(t)
	})
}
