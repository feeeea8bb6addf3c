package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gatepass/internal/models"
	"gatepass/internal/repositories"
	"gatepass/internal/services/pricing"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v72"
)

type service struct {
	eventRepo    EventStore
	orderRepo    OrderStore
	businessRepo BusinessStore
	pricingSvc   PricingService
	sessions     SessionCreator
}

// NewService creates a new checkout service
func NewService(
	eventRepo EventStore,
	orderRepo OrderStore,
	businessRepo BusinessStore,
	pricingSvc PricingService,
	sessions SessionCreator,
) Service {
	return &service{
		eventRepo:    eventRepo,
		orderRepo:    orderRepo,
		businessRepo: businessRepo,
		pricingSvc:   pricingSvc,
		sessions:     sessions,
	}
}

func (s *service) StartCheckout(ctx context.Context, customerID uint, req Request) (*Session, error) {
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	ticketType, err := s.eventRepo.GetTicketType(req.TicketTypeID)
	if err != nil {
		return nil, fmt.Errorf("load ticket type: %w", err)
	}
	event, err := s.eventRepo.GetEvent(ticketType.EventID)
	if err != nil {
		return nil, fmt.Errorf("load event: %w", err)
	}
	business, err := s.businessRepo.GetByID(ctx, event.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("load business: %w", err)
	}

	if err := s.validateSaleable(event, ticketType, business); err != nil {
		return nil, err
	}
	if ticketType.Available() < req.Quantity {
		return nil, ErrInsufficientInventory
	}

	// Price before reserving: a rejected quote must not touch inventory.
	result, err := s.pricingSvc.QuoteOrder(ctx, business.ID, pricing.Input{
		UnitPrice:        ticketType.UnitPrice,
		Quantity:         req.Quantity,
		TaxPercentage:    ticketType.TaxPercentage,
		StripeFeePayer:   pricing.Payer(business.StripeFeePayer),
		PlatformFeePayer: pricing.Payer(business.PlatformFeePayer),
	})
	if err != nil {
		return nil, err
	}

	// The conditional decrement is the oversell guard; the availability check
	// above only short-circuits the common case.
	if err := s.eventRepo.ReserveTickets(ticketType.ID, req.Quantity); err != nil {
		if errors.Is(err, repositories.ErrSoldOut) {
			return nil, ErrInsufficientInventory
		}
		return nil, fmt.Errorf("reserve tickets: %w", err)
	}

	order := &models.Order{
		OrderNumber:      newOrderNumber(),
		BusinessID:       business.ID,
		EventID:          event.ID,
		TicketTypeID:     ticketType.ID,
		CustomerID:       customerID,
		Quantity:         req.Quantity,
		SubtotalCents:    result.SubtotalCents,
		TaxCents:         result.TaxCents,
		PlatformFeeCents: result.PlatformFeeCents,
		StripeFeeCents:   result.StripeFeeCents,
		TotalCents:       result.TotalCents,
		BusinessNetCents: result.BusinessReceivesCents,
		Currency:         "usd",
		Status:           "pending",
	}
	if err := s.orderRepo.Create(order); err != nil {
		s.releaseQuietly(ticketType.ID, req.Quantity)
		return nil, fmt.Errorf("create order: %w", err)
	}

	sess, err := s.sessions.CreateSession(s.sessionParams(event, ticketType, business, order, result, req))
	if err != nil {
		s.releaseQuietly(ticketType.ID, req.Quantity)
		order.Status = "failed"
		if updateErr := s.orderRepo.Update(order); updateErr != nil {
			log.Printf("Failed to mark order %s failed: %v", order.OrderNumber, updateErr)
		}
		return nil, fmt.Errorf("create payment session: %w", err)
	}

	order.StripeSessionID = sess.ID
	if err := s.orderRepo.Update(order); err != nil {
		return nil, fmt.Errorf("store session id: %w", err)
	}

	return &Session{Order: order, PaymentURL: sess.URL}, nil
}

// sessionParams translates a priced order into the processor call: one line
// item carrying the full customer total, the platform's cut as the
// application fee, and the business's connected account as the destination.
func (s *service) sessionParams(
	event *models.Event,
	ticketType *models.TicketType,
	business *models.Business,
	order *models.Order,
	result *pricing.Result,
	req Request,
) *stripe.CheckoutSessionParams {
	name := fmt.Sprintf("%s - %s x%d", event.Name, ticketType.Name, order.Quantity)

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(order.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(name),
					},
					// Fees and tax are already folded into the total; a
					// per-ticket unit amount cannot carry a per-order flat
					// fee, so the order is a single line.
					UnitAmount: stripe.Int64(result.TotalCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			ApplicationFeeAmount: stripe.Int64(result.ApplicationFeeCents),
		},
	}
	// Direct charge on the connected account: the processing fee is debited
	// there, and the platform collects only the application fee.
	params.SetStripeAccount(business.StripeAccountID)
	params.AddMetadata("order_number", order.OrderNumber)
	return params
}

func (s *service) ConfirmPayment(ctx context.Context, stripeSessionID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByStripeSessionID(stripeSessionID)
	if err != nil {
		return nil, fmt.Errorf("load order for session: %w", err)
	}
	if order.Status == "paid" {
		return nil, ErrAlreadyPaid
	}

	if err := s.orderRepo.MarkPaid(order.ID, time.Now()); err != nil {
		return nil, fmt.Errorf("mark order paid: %w", err)
	}

	tickets := make([]models.Ticket, order.Quantity)
	for i := range tickets {
		tickets[i] = models.Ticket{
			OrderID:      order.ID,
			EventID:      order.EventID,
			TicketTypeID: order.TicketTypeID,
			QRPayload:    uuid.NewString(),
			Status:       "valid",
		}
	}
	if err := s.orderRepo.CreateTickets(tickets); err != nil {
		return nil, fmt.Errorf("issue tickets: %w", err)
	}

	order.Status = "paid"
	order.Tickets = tickets
	return order, nil
}

func (s *service) ExpireCheckout(ctx context.Context, stripeSessionID string) error {
	order, err := s.orderRepo.GetByStripeSessionID(stripeSessionID)
	if err != nil {
		return fmt.Errorf("load order for session: %w", err)
	}
	if order.Status != "pending" {
		return nil // paid or already expired, nothing to release
	}

	order.Status = "expired"
	if err := s.orderRepo.Update(order); err != nil {
		return fmt.Errorf("expire order: %w", err)
	}
	return s.eventRepo.ReleaseTickets(order.TicketTypeID, order.Quantity)
}

func (s *service) validateSaleable(event *models.Event, ticketType *models.TicketType, business *models.Business) error {
	if event.Status != "published" {
		return ErrEventNotOnSale
	}
	if ticketType.Status != "on_sale" {
		return ErrTicketNotOnSale
	}
	now := time.Now()
	if ticketType.SalesStartAt != nil && now.Before(*ticketType.SalesStartAt) {
		return ErrTicketNotOnSale
	}
	if ticketType.SalesEndAt != nil && now.After(*ticketType.SalesEndAt) {
		return ErrTicketNotOnSale
	}
	if !business.OnboardingDone || business.StripeAccountID == "" {
		return ErrBusinessNotReady
	}
	return nil
}

func (s *service) releaseQuietly(ticketTypeID uint, quantity int) {
	if err := s.eventRepo.ReleaseTickets(ticketTypeID, quantity); err != nil {
		log.Printf("Failed to release %d tickets for ticket type %d: %v", quantity, ticketTypeID, err)
	}
}

func newOrderNumber() string {
	return "GP-" + strings.ToUpper(uuid.NewString()[:8])
}
