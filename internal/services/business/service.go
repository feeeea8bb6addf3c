package business

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gatepass/internal/models"
	"gatepass/internal/repositories"
	"gatepass/internal/services/pricing"

	"github.com/google/uuid"
)

// RegisterInput is the payload for onboarding a new business.
type RegisterInput struct {
	Name         string
	ContactEmail string
	Address      string
}

type Service interface {
	Register(ctx context.Context, ownerUserID uint, input RegisterInput) (*models.Business, error)
	Get(ctx context.Context, id uint) (*models.Business, error)
	GetByOwner(ownerUserID uint) (*models.Business, error)

	// SetStripeAccount records the connected account that receives payouts.
	SetStripeAccount(ctx context.Context, businessID uint, stripeAccountID string) error

	// UpdateFeePayers sets who absorbs each fee component. The two flags are
	// independent of each other.
	UpdateFeePayers(ctx context.Context, businessID uint, stripeFeePayer, platformFeePayer string) error

	// SetFeeOverride installs a business-level fee configuration, replacing
	// the platform default in full. The configuration is validated against
	// the business's cheapest on-sale ticket so a schedule that would drive
	// the payout negative is rejected here, not at checkout.
	SetFeeOverride(ctx context.Context, businessID uint, cfg pricing.FeeConfiguration) error

	// RemoveFeeOverride drops the override so the platform default applies.
	RemoveFeeOverride(ctx context.Context, businessID uint) error
}

type service struct {
	repo       repositories.BusinessRepository
	feeRepo    repositories.FeeConfigRepository
	eventRepo  repositories.EventRepository
	pricingSvc pricing.Service
}

func NewService(
	repo repositories.BusinessRepository,
	feeRepo repositories.FeeConfigRepository,
	eventRepo repositories.EventRepository,
	pricingSvc pricing.Service,
) Service {
	return &service{
		repo:       repo,
		feeRepo:    feeRepo,
		eventRepo:  eventRepo,
		pricingSvc: pricingSvc,
	}
}

func (s *service) Register(ctx context.Context, ownerUserID uint, input RegisterInput) (*models.Business, error) {
	if existing, _ := s.repo.GetByOwnerUserID(ownerUserID); existing != nil {
		return nil, ErrAlreadyExists
	}

	business := &models.Business{
		OwnerUserID:      ownerUserID,
		Name:             input.Name,
		Slug:             slugify(input.Name),
		ContactEmail:     input.ContactEmail,
		Address:          input.Address,
		Status:           "pending",
		StripeFeePayer:   models.FeePayerCustomer,
		PlatformFeePayer: models.FeePayerCustomer,
	}

	err := s.repo.Create(business)
	if errors.Is(err, repositories.ErrSlugTaken) {
		business.Slug = fmt.Sprintf("%s-%s", business.Slug, uuid.NewString()[:8])
		err = s.repo.Create(business)
	}
	if err != nil {
		return nil, fmt.Errorf("create business: %w", err)
	}
	return business, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.Business, error) {
	business, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrBusinessNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return business, nil
}

func (s *service) GetByOwner(ownerUserID uint) (*models.Business, error) {
	business, err := s.repo.GetByOwnerUserID(ownerUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrBusinessNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return business, nil
}

func (s *service) SetStripeAccount(ctx context.Context, businessID uint, stripeAccountID string) error {
	business, err := s.Get(ctx, businessID)
	if err != nil {
		return err
	}

	business.StripeAccountID = stripeAccountID
	business.OnboardingDone = stripeAccountID != ""
	if business.OnboardingDone && business.Status == "pending" {
		business.Status = "active"
	}
	return s.repo.Update(ctx, business)
}

func (s *service) UpdateFeePayers(ctx context.Context, businessID uint, stripeFeePayer, platformFeePayer string) error {
	if !validPayer(stripeFeePayer) || !validPayer(platformFeePayer) {
		return ErrInvalidFeePayer
	}

	business, err := s.Get(ctx, businessID)
	if err != nil {
		return err
	}

	// Switching a fee onto the business's side can strand an existing
	// schedule underwater, so revalidate the effective config.
	cfg, err := NewFeeConfigProvider(s.feeRepo).EffectiveFeeConfig(ctx, businessID)
	if err != nil {
		return err
	}
	minPrice, err := s.eventRepo.MinTicketPrice(businessID)
	if err != nil {
		return err
	}
	if err := s.pricingSvc.ValidateConfiguration(cfg, pricing.Payer(stripeFeePayer), pricing.Payer(platformFeePayer), minPrice); err != nil {
		return err
	}

	business.StripeFeePayer = stripeFeePayer
	business.PlatformFeePayer = platformFeePayer
	return s.repo.Update(ctx, business)
}

func (s *service) SetFeeOverride(ctx context.Context, businessID uint, cfg pricing.FeeConfiguration) error {
	business, err := s.Get(ctx, businessID)
	if err != nil {
		return err
	}

	minPrice, err := s.eventRepo.MinTicketPrice(businessID)
	if err != nil {
		return err
	}
	err = s.pricingSvc.ValidateConfiguration(
		cfg,
		pricing.Payer(business.StripeFeePayer),
		pricing.Payer(business.PlatformFeePayer),
		minPrice,
	)
	if err != nil {
		return err
	}

	return s.feeRepo.Upsert(ctx, &models.FeeConfiguration{
		BusinessID:    &businessID,
		FeeType:       string(cfg.FeeType),
		FlatFeeAmount: cfg.FlatFeeAmount,
		PercentageFee: cfg.PercentageFee,
		Active:        true,
	})
}

func (s *service) RemoveFeeOverride(ctx context.Context, businessID uint) error {
	err := s.feeRepo.DeleteOverride(ctx, businessID)
	if errors.Is(err, repositories.ErrFeeConfigNotFound) {
		return nil // nothing to remove
	}
	return err
}

func validPayer(p string) bool {
	return p == models.FeePayerCustomer || p == models.FeePayerBusiness
}

func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
