package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"gatepass/internal/models"
	"gatepass/internal/repositories"
	"gatepass/internal/services/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v72"
	"gorm.io/gorm"
)

type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) GetEvent(id uint) (*models.Event, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventStore) GetTicketType(id uint) (*models.TicketType, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TicketType), args.Error(1)
}

func (m *MockEventStore) ReserveTickets(ticketTypeID uint, quantity int) error {
	return m.Called(ticketTypeID, quantity).Error(0)
}

func (m *MockEventStore) ReleaseTickets(ticketTypeID uint, quantity int) error {
	return m.Called(ticketTypeID, quantity).Error(0)
}

type MockOrderStore struct {
	mock.Mock
}

func (m *MockOrderStore) Create(order *models.Order) error {
	return m.Called(order).Error(0)
}

func (m *MockOrderStore) Update(order *models.Order) error {
	return m.Called(order).Error(0)
}

func (m *MockOrderStore) GetByStripeSessionID(sessionID string) (*models.Order, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderStore) MarkPaid(orderID uint, paidAt time.Time) error {
	return m.Called(orderID, paidAt).Error(0)
}

func (m *MockOrderStore) CreateTickets(tickets []models.Ticket) error {
	return m.Called(tickets).Error(0)
}

type MockBusinessStore struct {
	mock.Mock
}

func (m *MockBusinessStore) GetByID(ctx context.Context, id uint) (*models.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Business), args.Error(1)
}

type MockPricingService struct {
	mock.Mock
}

func (m *MockPricingService) QuoteOrder(ctx context.Context, businessID uint, input pricing.Input) (*pricing.Result, error) {
	args := m.Called(ctx, businessID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Result), args.Error(1)
}

type MockSessionCreator struct {
	mock.Mock
}

func (m *MockSessionCreator) CreateSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.CheckoutSession), args.Error(1)
}

type fixtures struct {
	events   *MockEventStore
	orders   *MockOrderStore
	business *MockBusinessStore
	pricing  *MockPricingService
	sessions *MockSessionCreator
	svc      Service
	ticket   *models.TicketType
	event    *models.Event
	merchant *models.Business
	quote    *pricing.Result
}

func newFixtures() *fixtures {
	f := &fixtures{
		events:   new(MockEventStore),
		orders:   new(MockOrderStore),
		business: new(MockBusinessStore),
		pricing:  new(MockPricingService),
		sessions: new(MockSessionCreator),
	}
	f.svc = NewService(f.events, f.orders, f.business, f.pricing, f.sessions)

	f.ticket = &models.TicketType{
		Model:         gorm.Model{ID: 5},
		EventID:       2,
		Name:          "General Admission",
		UnitPrice:     25.00,
		TaxPercentage: 8,
		Capacity:      100,
		QuantitySold:  0,
		Status:        "on_sale",
	}
	f.event = &models.Event{
		Model:      gorm.Model{ID: 2},
		BusinessID: 1,
		Name:       "Summer Fest",
		Status:     "published",
	}
	f.merchant = &models.Business{
		ID:               1,
		StripeAccountID:  "acct_123",
		OnboardingDone:   true,
		Status:           "active",
		StripeFeePayer:   models.FeePayerCustomer,
		PlatformFeePayer: models.FeePayerCustomer,
	}
	// $25.00 x 2 at 8% tax with a $2.00 flat platform fee, customer pays.
	f.quote = &pricing.Result{
		SubtotalCents:         5000,
		TaxCents:              400,
		PlatformFeeCents:      200,
		StripeFeeCents:        192,
		TotalCents:            5792,
		BusinessReceivesCents: 5400,
		ApplicationFeeCents:   200,
	}
	return f
}

func (f *fixtures) expectLookups() {
	f.events.On("GetTicketType", uint(5)).Return(f.ticket, nil)
	f.events.On("GetEvent", uint(2)).Return(f.event, nil)
	f.business.On("GetByID", mock.Anything, uint(1)).Return(f.merchant, nil)
}

func TestService_StartCheckout(t *testing.T) {
	req := Request{
		TicketTypeID: 5,
		Quantity:     2,
		SuccessURL:   "https://example.com/success",
		CancelURL:    "https://example.com/cancel",
	}

	t.Run("successful checkout", func(t *testing.T) {
		f := newFixtures()
		f.expectLookups()
		f.pricing.On("QuoteOrder", mock.Anything, uint(1), mock.Anything).Return(f.quote, nil)
		f.events.On("ReserveTickets", uint(5), 2).Return(nil)
		f.orders.On("Create", mock.Anything).Return(nil)
		f.orders.On("Update", mock.Anything).Return(nil)
		f.sessions.On("CreateSession", mock.Anything).
			Return(&stripe.CheckoutSession{ID: "cs_test_1", URL: "https://pay.example"}, nil)

		sess, err := f.svc.StartCheckout(context.Background(), 9, req)

		assert.NoError(t, err)
		assert.Equal(t, "https://pay.example", sess.PaymentURL)
		assert.Equal(t, "cs_test_1", sess.Order.StripeSessionID)
		assert.Equal(t, int64(5792), sess.Order.TotalCents)
		assert.Equal(t, int64(5400), sess.Order.BusinessNetCents)
		assert.Equal(t, "pending", sess.Order.Status)

		params := f.sessions.Calls[0].Arguments.Get(0).(*stripe.CheckoutSessionParams)
		assert.Equal(t, int64(5792), *params.LineItems[0].PriceData.UnitAmount)
		assert.Equal(t, int64(200), *params.PaymentIntentData.ApplicationFeeAmount)
		assert.Equal(t, "acct_123", *params.StripeAccount)

		f.events.AssertExpectations(t)
		f.orders.AssertExpectations(t)
		f.sessions.AssertExpectations(t)
	})

	t.Run("rejects quantity beyond availability before any fee math", func(t *testing.T) {
		f := newFixtures()
		f.ticket.QuantitySold = 99
		f.expectLookups()

		sess, err := f.svc.StartCheckout(context.Background(), 9, req)

		assert.Nil(t, sess)
		assert.ErrorIs(t, err, ErrInsufficientInventory)
		f.pricing.AssertNotCalled(t, "QuoteOrder", mock.Anything, mock.Anything, mock.Anything)
		f.events.AssertNotCalled(t, "ReserveTickets", mock.Anything, mock.Anything)
	})

	t.Run("lost reservation race maps to insufficient inventory", func(t *testing.T) {
		f := newFixtures()
		f.expectLookups()
		f.pricing.On("QuoteOrder", mock.Anything, uint(1), mock.Anything).Return(f.quote, nil)
		f.events.On("ReserveTickets", uint(5), 2).Return(repositories.ErrSoldOut)

		sess, err := f.svc.StartCheckout(context.Background(), 9, req)

		assert.Nil(t, sess)
		assert.ErrorIs(t, err, ErrInsufficientInventory)
	})

	t.Run("rejects business without payment onboarding", func(t *testing.T) {
		f := newFixtures()
		f.merchant.OnboardingDone = false
		f.expectLookups()

		sess, err := f.svc.StartCheckout(context.Background(), 9, req)

		assert.Nil(t, sess)
		assert.ErrorIs(t, err, ErrBusinessNotReady)
	})

	t.Run("rejects unpublished event", func(t *testing.T) {
		f := newFixtures()
		f.event.Status = "draft"
		f.expectLookups()

		sess, err := f.svc.StartCheckout(context.Background(), 9, req)

		assert.Nil(t, sess)
		assert.ErrorIs(t, err, ErrEventNotOnSale)
	})

	t.Run("zero quantity", func(t *testing.T) {
		f := newFixtures()

		sess, err := f.svc.StartCheckout(context.Background(), 9, Request{TicketTypeID: 5})

		assert.Nil(t, sess)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("session failure releases the reservation", func(t *testing.T) {
		f := newFixtures()
		f.expectLookups()
		f.pricing.On("QuoteOrder", mock.Anything, uint(1), mock.Anything).Return(f.quote, nil)
		f.events.On("ReserveTickets", uint(5), 2).Return(nil)
		f.orders.On("Create", mock.Anything).Return(nil)
		f.sessions.On("CreateSession", mock.Anything).Return(nil, errors.New("stripe unavailable"))
		f.events.On("ReleaseTickets", uint(5), 2).Return(nil)
		f.orders.On("Update", mock.MatchedBy(func(o *models.Order) bool {
			return o.Status == "failed"
		})).Return(nil)

		sess, err := f.svc.StartCheckout(context.Background(), 9, req)

		assert.Nil(t, sess)
		assert.Error(t, err)
		f.events.AssertExpectations(t)
		f.orders.AssertExpectations(t)
	})
}

func TestService_ConfirmPayment(t *testing.T) {
	t.Run("marks paid and issues one ticket per seat", func(t *testing.T) {
		f := newFixtures()
		order := &models.Order{
			Model:        gorm.Model{ID: 11},
			OrderNumber:  "GP-ABCDEF12",
			EventID:      2,
			TicketTypeID: 5,
			Quantity:     3,
			Status:       "pending",
		}
		f.orders.On("GetByStripeSessionID", "cs_test_1").Return(order, nil)
		f.orders.On("MarkPaid", uint(11), mock.Anything).Return(nil)
		f.orders.On("CreateTickets", mock.MatchedBy(func(tickets []models.Ticket) bool {
			if len(tickets) != 3 {
				return false
			}
			seen := map[string]bool{}
			for _, ticket := range tickets {
				if ticket.QRPayload == "" || seen[ticket.QRPayload] {
					return false
				}
				seen[ticket.QRPayload] = true
			}
			return true
		})).Return(nil)

		confirmed, err := f.svc.ConfirmPayment(context.Background(), "cs_test_1")

		assert.NoError(t, err)
		assert.Equal(t, "paid", confirmed.Status)
		assert.Len(t, confirmed.Tickets, 3)
		f.orders.AssertExpectations(t)
	})

	t.Run("replayed confirmation", func(t *testing.T) {
		f := newFixtures()
		f.orders.On("GetByStripeSessionID", "cs_test_1").
			Return(&models.Order{Status: "paid"}, nil)

		confirmed, err := f.svc.ConfirmPayment(context.Background(), "cs_test_1")

		assert.Nil(t, confirmed)
		assert.ErrorIs(t, err, ErrAlreadyPaid)
	})
}

func TestService_ExpireCheckout(t *testing.T) {
	t.Run("releases pending reservation", func(t *testing.T) {
		f := newFixtures()
		order := &models.Order{
			Model:        gorm.Model{ID: 11},
			TicketTypeID: 5,
			Quantity:     2,
			Status:       "pending",
		}
		f.orders.On("GetByStripeSessionID", "cs_test_1").Return(order, nil)
		f.orders.On("Update", mock.MatchedBy(func(o *models.Order) bool {
			return o.Status == "expired"
		})).Return(nil)
		f.events.On("ReleaseTickets", uint(5), 2).Return(nil)

		err := f.svc.ExpireCheckout(context.Background(), "cs_test_1")

		assert.NoError(t, err)
		f.events.AssertExpectations(t)
	})

	t.Run("paid order is left alone", func(t *testing.T) {
		f := newFixtures()
		f.orders.On("GetByStripeSessionID", "cs_test_1").
			Return(&models.Order{Status: "paid"}, nil)

		err := f.svc.ExpireCheckout(context.Background(), "cs_test_1")

		assert.NoError(t, err)
		f.events.AssertNotCalled(t, "ReleaseTickets", mock.Anything, mock.Anything)
	})
}
