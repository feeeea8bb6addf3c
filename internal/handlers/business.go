package handlers

import (
	"errors"
	"log"

	"gatepass/internal/services/business"
	"gatepass/internal/services/pricing"
	"gatepass/internal/services/user"
	"gatepass/internal/utils"
	"gatepass/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type BusinessHandler struct {
	businessService business.Service
	userService     user.Service
	feeConfigs      *business.FeeConfigProvider
}

func NewBusinessHandler(businessService business.Service, userService user.Service, feeConfigs *business.FeeConfigProvider) *BusinessHandler {
	return &BusinessHandler{
		businessService: businessService,
		userService:     userService,
		feeConfigs:      feeConfigs,
	}
}

// RegisterBusiness creates a business owned by the caller and promotes the
// caller's account to operator. The caller must log in again to pick up the
// new claims.
func (h *BusinessHandler) RegisterBusiness(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Name         string `json:"name"`
		ContactEmail string `json:"contact_email"`
		Address      string `json:"address"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	v := validation.New()
	v.BusinessRegistration(input.Name, input.ContactEmail)
	if !v.Valid() {
		for _, msg := range v.Errors {
			return utils.BadRequest(c, msg)
		}
	}

	created, err := h.businessService.Register(c.Context(), claims.UserID, business.RegisterInput{
		Name:         input.Name,
		ContactEmail: input.ContactEmail,
		Address:      input.Address,
	})
	if err != nil {
		if errors.Is(err, business.ErrAlreadyExists) {
			return utils.BadRequest(c, "Account already owns a business")
		}
		log.Printf("Business registration failed for user %d: %v", claims.UserID, err)
		return utils.InternalError(c, "Business registration failed")
	}

	// Attach the business to the owner's account.
	owner, err := h.userService.GetByID(claims.UserID)
	if err == nil {
		owner.BusinessID = &created.ID
		if owner.Role == "customer" {
			owner.Role = "operator"
		}
		if err := h.userService.Update(owner); err != nil {
			log.Printf("Failed to attach business %d to user %d: %v", created.ID, owner.ID, err)
		}
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{"business": created})
}

// GetMyBusiness returns the caller's business profile.
func (h *BusinessHandler) GetMyBusiness(c *fiber.Ctx) error {
	businessID, err := utils.RequireBusiness(c)
	if err != nil {
		return utils.Forbidden(c, "Business account required")
	}

	found, err := h.businessService.Get(c.Context(), businessID)
	if err != nil {
		if errors.Is(err, business.ErrNotFound) {
			return utils.NotFound(c, "Business not found")
		}
		return utils.InternalError(c, "Failed to load business")
	}

	return utils.Success(c, fiber.Map{"business": found})
}

// ConnectStripeAccount records the connected payment account for payouts.
func (h *BusinessHandler) ConnectStripeAccount(c *fiber.Ctx) error {
	businessID, err := utils.RequireBusiness(c)
	if err != nil {
		return utils.Forbidden(c, "Business account required")
	}

	var input struct {
		StripeAccountID string `json:"stripe_account_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if input.StripeAccountID == "" {
		return utils.BadRequest(c, "stripe_account_id is required")
	}

	if err := h.businessService.SetStripeAccount(c.Context(), businessID, input.StripeAccountID); err != nil {
		log.Printf("Failed to connect account for business %d: %v", businessID, err)
		return utils.InternalError(c, "Failed to connect account")
	}

	return utils.Success(c, fiber.Map{"message": "Account connected"})
}

// UpdateFeePayers sets who absorbs each fee component. The two flags are
// independent.
func (h *BusinessHandler) UpdateFeePayers(c *fiber.Ctx) error {
	businessID, err := utils.RequireBusiness(c)
	if err != nil {
		return utils.Forbidden(c, "Business account required")
	}

	var input struct {
		StripeFeePayer   string `json:"stripe_fee_payer"`
		PlatformFeePayer string `json:"platform_fee_payer"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	v := validation.New()
	v.FeePayer("stripe_fee_payer", input.StripeFeePayer)
	v.FeePayer("platform_fee_payer", input.PlatformFeePayer)
	if !v.Valid() {
		for _, msg := range v.Errors {
			return utils.BadRequest(c, msg)
		}
	}

	err = h.businessService.UpdateFeePayers(c.Context(), businessID, input.StripeFeePayer, input.PlatformFeePayer)
	if err != nil {
		switch {
		case errors.Is(err, business.ErrInvalidFeePayer):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, pricing.ErrNegativePayout):
			return utils.BadRequest(c, "Configuration would drive the payout negative for the cheapest ticket")
		default:
			log.Printf("Failed to update fee payers for business %d: %v", businessID, err)
			return utils.InternalError(c, "Failed to update fee payers")
		}
	}

	return utils.Success(c, fiber.Map{"message": "Fee payers updated"})
}

// GetFeeConfig returns the fee configuration in effect for the business,
// which is its override if one exists, otherwise the platform default.
func (h *BusinessHandler) GetFeeConfig(c *fiber.Ctx) error {
	businessID, err := utils.RequireBusiness(c)
	if err != nil {
		return utils.Forbidden(c, "Business account required")
	}

	cfg, err := h.feeConfigs.EffectiveFeeConfig(c.Context(), businessID)
	if err != nil {
		log.Printf("Failed to load fee config for business %d: %v", businessID, err)
		return utils.InternalError(c, "Failed to load fee configuration")
	}

	return utils.Success(c, fiber.Map{
		"fee_type":       cfg.FeeType,
		"flat_fee":       cfg.FlatFeeAmount,
		"percentage_fee": cfg.PercentageFee,
	})
}

// SetFeeOverride installs a business-level fee configuration.
func (h *BusinessHandler) SetFeeOverride(c *fiber.Ctx) error {
	businessID, err := utils.RequireBusiness(c)
	if err != nil {
		return utils.Forbidden(c, "Business account required")
	}

	var input struct {
		FeeType       string  `json:"fee_type"`
		FlatFee       float64 `json:"flat_fee"`
		PercentageFee float64 `json:"percentage_fee"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	v := validation.New()
	v.FeeConfig(input.FeeType, input.FlatFee, input.PercentageFee)
	if !v.Valid() {
		for _, msg := range v.Errors {
			return utils.BadRequest(c, msg)
		}
	}

	cfg := pricing.FeeConfiguration{
		FeeType:       pricing.FeeType(input.FeeType),
		FlatFeeAmount: input.FlatFee,
		PercentageFee: input.PercentageFee,
	}
	if err := h.businessService.SetFeeOverride(c.Context(), businessID, cfg); err != nil {
		switch {
		case errors.Is(err, pricing.ErrInvalidConfiguration):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, pricing.ErrNegativePayout):
			return utils.BadRequest(c, "Configuration would drive the payout negative for the cheapest ticket")
		default:
			log.Printf("Failed to set fee override for business %d: %v", businessID, err)
			return utils.InternalError(c, "Failed to set fee configuration")
		}
	}

	return utils.Success(c, fiber.Map{"message": "Fee configuration updated"})
}

// RemoveFeeOverride drops the override so the platform default applies.
func (h *BusinessHandler) RemoveFeeOverride(c *fiber.Ctx) error {
	businessID, err := utils.RequireBusiness(c)
	if err != nil {
		return utils.Forbidden(c, "Business account required")
	}

	if err := h.businessService.RemoveFeeOverride(c.Context(), businessID); err != nil {
		log.Printf("Failed to remove fee override for business %d: %v", businessID, err)
		return utils.InternalError(c, "Failed to remove fee configuration")
	}

	return utils.Success(c, fiber.Map{"message": "Fee configuration reset to platform default"})
}
