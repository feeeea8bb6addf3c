package order

import (
	"errors"
	"time"

	"gatepass/internal/models"
	"gatepass/internal/repositories"
	"gatepass/internal/services/pricing"
)

// Service errors
var (
	ErrNotFound = errors.New("order not found")
	ErrNotOwned = errors.New("order does not belong to caller")
)

// SettlementReport is the operator-facing view of a period's settled orders:
// gross sales, each fee bucket, and the net actually paid out.
type SettlementReport struct {
	From            time.Time `json:"from"`
	To              time.Time `json:"to"`
	Orders          int64     `json:"orders"`
	GrossDollars    float64   `json:"gross"`
	PlatformFees    float64   `json:"platform_fees"`
	ProcessingFees  float64   `json:"processing_fees"`
	NetDollars      float64   `json:"net"`
	EstimatedPayout float64   `json:"estimated_payout"`
}

// Reconciliation compares an order's recorded payout with the payout
// recomputed from the charged amount and application fee.
type Reconciliation struct {
	OrderNumber     string  `json:"order_number"`
	RecordedNet     float64 `json:"recorded_net"`
	ExpectedNet     float64 `json:"expected_net"`
	DifferenceCents int64   `json:"difference_cents"`
}

type Service interface {
	GetForCustomer(customerID, orderID uint) (*models.Order, error)
	ListForCustomer(customerID uint, offset, limit int) ([]*models.Order, int64, error)
	ListForBusiness(businessID uint, offset, limit int) ([]*models.Order, int64, error)

	// Settle builds the settlement report for a period: the summed split
	// locked in at checkout, plus a payout estimate recomputed from gross.
	// The two reconcile within rounding tolerance; a gap is a reporting
	// concern to investigate, never a blocking error.
	Settle(businessID uint, from, to time.Time) (*SettlementReport, error)

	// Reconcile recomputes one settled order's expected payout from its
	// charged total and application fee, for the settlement detail view.
	Reconcile(businessID, orderID uint) (*Reconciliation, error)
}

type service struct {
	repo repositories.OrderRepository
	calc *pricing.Calculator
}

func NewService(repo repositories.OrderRepository) Service {
	return &service{
		repo: repo,
		calc: pricing.NewCalculator(),
	}
}

func (s *service) GetForCustomer(customerID, orderID uint) (*models.Order, error) {
	order, err := s.repo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, ErrNotOwned
	}
	return order, nil
}

func (s *service) ListForCustomer(customerID uint, offset, limit int) ([]*models.Order, int64, error) {
	return s.repo.ListByCustomer(customerID, offset, limit)
}

func (s *service) ListForBusiness(businessID uint, offset, limit int) ([]*models.Order, int64, error) {
	return s.repo.ListByBusiness(businessID, offset, limit)
}

func (s *service) Settle(businessID uint, from, to time.Time) (*SettlementReport, error) {
	summary, err := s.repo.Settlement(businessID, from, to)
	if err != nil {
		return nil, err
	}

	gross := pricing.CentsToDollars(summary.GrossCents)
	platformFees := pricing.CentsToDollars(summary.PlatformFeeCents)

	return &SettlementReport{
		From:            from,
		To:              to,
		Orders:          summary.Orders,
		GrossDollars:    gross,
		PlatformFees:    platformFees,
		ProcessingFees:  pricing.CentsToDollars(summary.StripeFeeCents),
		NetDollars:      pricing.CentsToDollars(summary.NetCents),
		EstimatedPayout: gross - s.calc.EstimatedProcessingFees(gross, summary.Orders) - platformFees,
	}, nil
}

func (s *service) Reconcile(businessID, orderID uint) (*Reconciliation, error) {
	order, err := s.repo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if order.BusinessID != businessID {
		return nil, ErrNotOwned
	}

	// The application fee is the platform's cut; the processing fee is
	// debited on the connected account, so the recomputation estimates it
	// from the charged total.
	expected := s.calc.CalculateBusinessPayout(
		pricing.CentsToDollars(order.TotalCents),
		pricing.CentsToDollars(order.PlatformFeeCents),
	)
	recorded := pricing.CentsToDollars(order.BusinessNetCents)

	return &Reconciliation{
		OrderNumber:     order.OrderNumber,
		RecordedNet:     recorded,
		ExpectedNet:     expected,
		DifferenceCents: pricing.ToCents(expected) - order.BusinessNetCents,
	}, nil
}
