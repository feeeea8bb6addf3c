package business

import (
	"context"
	"errors"
	"fmt"

	"gatepass/internal/models"
	"gatepass/internal/repositories"
	"gatepass/internal/services/pricing"
)

// FeeConfigProvider resolves the effective fee configuration for a business:
// the business's own override when one exists, otherwise the platform-wide
// default. An override replaces the default in full; the two are never merged
// field by field. Implements pricing.ConfigProvider.
type FeeConfigProvider struct {
	feeRepo repositories.FeeConfigRepository
}

func NewFeeConfigProvider(feeRepo repositories.FeeConfigRepository) *FeeConfigProvider {
	return &FeeConfigProvider{feeRepo: feeRepo}
}

func (p *FeeConfigProvider) EffectiveFeeConfig(ctx context.Context, businessID uint) (pricing.FeeConfiguration, error) {
	cfg, err := p.feeRepo.GetOverride(ctx, businessID)
	if err != nil {
		if !errors.Is(err, repositories.ErrFeeConfigNotFound) {
			return pricing.FeeConfiguration{}, fmt.Errorf("load fee override: %w", err)
		}
		cfg, err = p.feeRepo.GetDefault(ctx)
		if err != nil {
			return pricing.FeeConfiguration{}, fmt.Errorf("load default fee config: %w", err)
		}
	}
	return toPricingConfig(cfg), nil
}

func toPricingConfig(cfg *models.FeeConfiguration) pricing.FeeConfiguration {
	return pricing.FeeConfiguration{
		FeeType:       pricing.FeeType(cfg.FeeType),
		FlatFeeAmount: cfg.FlatFeeAmount,
		PercentageFee: cfg.PercentageFee,
	}
}
