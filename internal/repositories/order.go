package repositories

import (
	"errors"
	"time"

	"gatepass/internal/models"

	"gorm.io/gorm"
)

var ErrOrderNotFound = errors.New("order not found")

// SettlementSummary aggregates a business's settled orders for reporting.
type SettlementSummary struct {
	Orders           int64
	GrossCents       int64 // sum of customer charges
	PlatformFeeCents int64
	StripeFeeCents   int64
	NetCents         int64 // sum of business payouts
}

// OrderRepository defines the interface for order and ticket operations
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByOrderNumber(orderNumber string) (*models.Order, error)
	GetByStripeSessionID(sessionID string) (*models.Order, error)
	Update(order *models.Order) error
	ListByCustomer(customerID uint, offset, limit int) ([]*models.Order, int64, error)
	ListByBusiness(businessID uint, offset, limit int) ([]*models.Order, int64, error)

	// MarkPaid transitions a pending order to paid and stamps the time.
	MarkPaid(orderID uint, paidAt time.Time) error

	CreateTickets(tickets []models.Ticket) error

	// Settlement aggregates paid orders for a business within [from, to).
	Settlement(businessID uint, from, to time.Time) (*SettlementSummary, error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *models.Order) error {
	if err := r.db.Create(order).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Tickets").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &order, nil
}

func (r *orderRepository) GetByOrderNumber(orderNumber string) (*models.Order, error) {
	return r.getBy("order_number = ?", orderNumber)
}

func (r *orderRepository) GetByStripeSessionID(sessionID string) (*models.Order, error) {
	return r.getBy("stripe_session_id = ?", sessionID)
}

func (r *orderRepository) getBy(condition string, value string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Tickets").Where(condition, value).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &order, nil
}

func (r *orderRepository) Update(order *models.Order) error {
	if err := r.db.Save(order).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *orderRepository) ListByCustomer(customerID uint, offset, limit int) ([]*models.Order, int64, error) {
	return r.list(r.db.Where("customer_id = ?", customerID), offset, limit)
}

func (r *orderRepository) ListByBusiness(businessID uint, offset, limit int) ([]*models.Order, int64, error) {
	return r.list(r.db.Where("business_id = ?", businessID), offset, limit)
}

func (r *orderRepository) list(query *gorm.DB, offset, limit int) ([]*models.Order, int64, error) {
	var orders []*models.Order
	var total int64

	if err := query.Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}
	if err := query.Offset(offset).Limit(limit).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}
	return orders, total, nil
}

func (r *orderRepository) MarkPaid(orderID uint, paidAt time.Time) error {
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, "pending").
		Updates(map[string]interface{}{"status": "paid", "paid_at": paidAt})
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) CreateTickets(tickets []models.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	if err := r.db.Create(&tickets).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *orderRepository) Settlement(businessID uint, from, to time.Time) (*SettlementSummary, error) {
	var summary SettlementSummary
	err := r.db.Model(&models.Order{}).
		Select(
			"COUNT(*) AS orders",
			"COALESCE(SUM(total_cents), 0) AS gross_cents",
			"COALESCE(SUM(platform_fee_cents), 0) AS platform_fee_cents",
			"COALESCE(SUM(stripe_fee_cents), 0) AS stripe_fee_cents",
			"COALESCE(SUM(business_net_cents), 0) AS net_cents",
		).
		Where("business_id = ? AND status = ? AND paid_at >= ? AND paid_at < ?",
			businessID, "paid", from, to).
		Scan(&summary).Error
	if err != nil {
		return nil, ErrDatabaseOperation
	}
	return &summary, nil
}
