package checkout

import (
	"context"
	"time"

	"gatepass/internal/models"
	"gatepass/internal/services/pricing"

	"github.com/stripe/stripe-go/v72"
)

// Request is a checkout attempt from an authenticated customer.
type Request struct {
	TicketTypeID uint
	Quantity     int
	SuccessURL   string
	CancelURL    string
}

// Session is what the handler returns to the client: the pending order plus
// the processor-hosted payment page to redirect to.
type Session struct {
	Order      *models.Order
	PaymentURL string
}

// Service drives the checkout pipeline: inventory reservation, pricing, and
// payment-session construction, then payment confirmation and expiry.
type Service interface {
	// StartCheckout reserves inventory, prices the order, and opens a payment
	// session. The reservation is rolled back if session creation fails.
	StartCheckout(ctx context.Context, customerID uint, req Request) (*Session, error)

	// ConfirmPayment marks the order paid and issues its tickets. Invoked
	// from the payment webhook once the processor reports completion.
	ConfirmPayment(ctx context.Context, stripeSessionID string) (*models.Order, error)

	// ExpireCheckout releases the reservation for an abandoned session.
	ExpireCheckout(ctx context.Context, stripeSessionID string) error
}

// SessionCreator abstracts the processor's session endpoint so the pipeline
// can be tested without network calls.
type SessionCreator interface {
	CreateSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// Dependencies required by the checkout service

type EventStore interface {
	GetEvent(id uint) (*models.Event, error)
	GetTicketType(id uint) (*models.TicketType, error)
	ReserveTickets(ticketTypeID uint, quantity int) error
	ReleaseTickets(ticketTypeID uint, quantity int) error
}

type OrderStore interface {
	Create(order *models.Order) error
	Update(order *models.Order) error
	GetByStripeSessionID(sessionID string) (*models.Order, error)
	MarkPaid(orderID uint, paidAt time.Time) error
	CreateTickets(tickets []models.Ticket) error
}

type BusinessStore interface {
	GetByID(ctx context.Context, id uint) (*models.Business, error)
}

type PricingService interface {
	QuoteOrder(ctx context.Context, businessID uint, input pricing.Input) (*pricing.Result, error)
}
