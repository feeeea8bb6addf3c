package handlers

import (
	"encoding/json"
	"errors"
	"log"

	"gatepass/internal/config"
	"gatepass/internal/repositories"
	"gatepass/internal/services/checkout"
	"gatepass/internal/services/pricing"
	"gatepass/internal/utils"
	"gatepass/internal/validation"

	"github.com/gofiber/fiber/v2"
	stripe "github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/webhook"
)

type CheckoutHandler struct {
	checkoutService checkout.Service
	pricingService  pricing.Service
	eventRepo       repositories.EventRepository
	businessRepo    repositories.BusinessRepository
}

func NewCheckoutHandler(
	checkoutService checkout.Service,
	pricingService pricing.Service,
	eventRepo repositories.EventRepository,
	businessRepo repositories.BusinessRepository,
) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		pricingService:  pricingService,
		eventRepo:       eventRepo,
		businessRepo:    businessRepo,
	}
}

// QuoteFees prices a prospective purchase without reserving inventory, so
// the storefront can show the full fee breakdown before checkout.
func (h *CheckoutHandler) QuoteFees(c *fiber.Ctx) error {
	var input struct {
		TicketTypeID uint `json:"ticket_type_id"`
		Quantity     int  `json:"quantity"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	v := validation.New()
	v.Checkout(input.TicketTypeID, input.Quantity)
	if !v.Valid() {
		for _, msg := range v.Errors {
			return utils.BadRequest(c, msg)
		}
	}

	ticketType, err := h.eventRepo.GetTicketType(input.TicketTypeID)
	if err != nil {
		return utils.NotFound(c, "Ticket type not found")
	}
	evt, err := h.eventRepo.GetEvent(ticketType.EventID)
	if err != nil {
		return utils.NotFound(c, "Event not found")
	}
	biz, err := h.businessRepo.GetByID(c.Context(), evt.BusinessID)
	if err != nil {
		return utils.NotFound(c, "Business not found")
	}

	quote, err := h.pricingService.QuoteOrder(c.Context(), biz.ID, pricing.Input{
		UnitPrice:        ticketType.UnitPrice,
		Quantity:         input.Quantity,
		TaxPercentage:    ticketType.TaxPercentage,
		StripeFeePayer:   pricing.Payer(biz.StripeFeePayer),
		PlatformFeePayer: pricing.Payer(biz.PlatformFeePayer),
	})
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidPricingInput) || errors.Is(err, pricing.ErrNegativePayout) {
			return utils.BadRequest(c, err.Error())
		}
		log.Printf("Quote failed for ticket type %d: %v", input.TicketTypeID, err)
		return utils.InternalError(c, "Failed to price the order")
	}

	return utils.Success(c, fiber.Map{"quote": quote})
}

// StartCheckout reserves inventory, prices the order, and returns the
// processor-hosted payment page to redirect the customer to.
func (h *CheckoutHandler) StartCheckout(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		TicketTypeID uint   `json:"ticket_type_id"`
		Quantity     int    `json:"quantity"`
		SuccessURL   string `json:"success_url"`
		CancelURL    string `json:"cancel_url"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	v := validation.New()
	v.Checkout(input.TicketTypeID, input.Quantity)
	if !v.Valid() {
		for _, msg := range v.Errors {
			return utils.BadRequest(c, msg)
		}
	}

	session, err := h.checkoutService.StartCheckout(c.Context(), claims.UserID, checkout.Request{
		TicketTypeID: input.TicketTypeID,
		Quantity:     input.Quantity,
		SuccessURL:   input.SuccessURL,
		CancelURL:    input.CancelURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrInvalidQuantity),
			errors.Is(err, checkout.ErrEventNotOnSale),
			errors.Is(err, checkout.ErrTicketNotOnSale),
			errors.Is(err, checkout.ErrBusinessNotReady):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, checkout.ErrInsufficientInventory):
			return utils.Respond(c, fiber.StatusConflict, fiber.Map{"error": err.Error()})
		case errors.Is(err, pricing.ErrNegativePayout):
			return utils.BadRequest(c, err.Error())
		default:
			log.Printf("Checkout failed for user %d: %v", claims.UserID, err)
			return utils.InternalError(c, "Checkout failed")
		}
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{
		"order":       session.Order,
		"payment_url": session.PaymentURL,
	})
}

// HandleStripeWebhook processes payment notifications from the processor.
// Signature verification uses the endpoint secret from STRIPE_WEBHOOK_SECRET.
func (h *CheckoutHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	endpointSecret := config.GetEnv("STRIPE_WEBHOOK_SECRET", "")
	if endpointSecret == "" {
		log.Println("STRIPE_WEBHOOK_SECRET not configured, rejecting webhook")
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	event, err := webhook.ConstructEvent(c.Body(), c.Get("Stripe-Signature"), endpointSecret)
	if err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		return c.SendStatus(fiber.StatusBadRequest)
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			log.Printf("Failed to parse webhook session: %v", err)
			return c.SendStatus(fiber.StatusBadRequest)
		}
		if _, err := h.checkoutService.ConfirmPayment(c.Context(), session.ID); err != nil {
			// Replays of an already-confirmed session are acknowledged, not
			// retried.
			if errors.Is(err, checkout.ErrAlreadyPaid) {
				return c.SendStatus(fiber.StatusOK)
			}
			log.Printf("Failed to confirm payment for session %s: %v", session.ID, err)
			return c.SendStatus(fiber.StatusInternalServerError)
		}

	case "checkout.session.expired":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			log.Printf("Failed to parse webhook session: %v", err)
			return c.SendStatus(fiber.StatusBadRequest)
		}
		if err := h.checkoutService.ExpireCheckout(c.Context(), session.ID); err != nil {
			log.Printf("Failed to expire session %s: %v", session.ID, err)
			return c.SendStatus(fiber.StatusInternalServerError)
		}

	default:
		// Unhandled event types are acknowledged so the processor stops
		// retrying them.
	}

	return c.SendStatus(fiber.StatusOK)
}
