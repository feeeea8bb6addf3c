package repositories

import (
	"context"
	"errors"
	"log"

	"gatepass/internal/models"
	"gatepass/internal/repositories/cache"

	"gorm.io/gorm"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrSoldOut            = errors.New("not enough tickets available")
)

// EventRepository defines the interface for event and ticket-type operations
type EventRepository interface {
	CreateEvent(event *models.Event) error
	GetEvent(id uint) (*models.Event, error)
	UpdateEvent(ctx context.Context, event *models.Event) error
	ListByBusiness(businessID uint, offset, limit int) ([]*models.Event, int64, error)
	ListPublished(offset, limit int) ([]*models.Event, int64, error)

	CreateTicketType(tt *models.TicketType) error
	GetTicketType(id uint) (*models.TicketType, error)
	UpdateTicketType(tt *models.TicketType) error

	// MinTicketPrice returns the lowest unit price across a business's ticket
	// types that are on sale, or 0 when it has none.
	MinTicketPrice(businessID uint) (float64, error)

	// ReserveTickets atomically increments quantity_sold by quantity, failing
	// with ErrSoldOut when capacity would be exceeded. The guard runs inside
	// the UPDATE so concurrent checkouts cannot oversell.
	ReserveTickets(ticketTypeID uint, quantity int) error

	// ReleaseTickets returns previously reserved tickets to the pool, used
	// when a checkout session expires or payment fails.
	ReleaseTickets(ticketTypeID uint, quantity int) error
}

type eventRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewEventRepository creates a new instance of EventRepository
func NewEventRepository(db *gorm.DB, cache *cache.CacheService) EventRepository {
	return &eventRepository{
		db:    db,
		cache: cache,
	}
}

func (r *eventRepository) CreateEvent(event *models.Event) error {
	if err := r.db.Create(event).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *eventRepository) GetEvent(id uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.Preload("TicketTypes").First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &event, nil
}

func (r *eventRepository) UpdateEvent(ctx context.Context, event *models.Event) error {
	if err := r.db.Save(event).Error; err != nil {
		return ErrDatabaseOperation
	}
	if err := r.cache.InvalidateEvent(ctx, event.ID); err != nil {
		log.Printf("Failed to invalidate event %d cache: %v", event.ID, err)
	}
	return nil
}

func (r *eventRepository) ListByBusiness(businessID uint, offset, limit int) ([]*models.Event, int64, error) {
	return r.listEvents(r.db.Where("business_id = ?", businessID), offset, limit)
}

func (r *eventRepository) ListPublished(offset, limit int) ([]*models.Event, int64, error) {
	return r.listEvents(r.db.Where("status = ?", "published"), offset, limit)
}

func (r *eventRepository) listEvents(query *gorm.DB, offset, limit int) ([]*models.Event, int64, error) {
	var events []*models.Event
	var total int64

	if err := query.Model(&models.Event{}).Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}
	if err := query.Preload("TicketTypes").Offset(offset).Limit(limit).Order("starts_at").Find(&events).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}
	return events, total, nil
}

func (r *eventRepository) CreateTicketType(tt *models.TicketType) error {
	if err := r.db.Create(tt).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *eventRepository) GetTicketType(id uint) (*models.TicketType, error) {
	var tt models.TicketType
	if err := r.db.First(&tt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketTypeNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &tt, nil
}

func (r *eventRepository) UpdateTicketType(tt *models.TicketType) error {
	if err := r.db.Save(tt).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *eventRepository) MinTicketPrice(businessID uint) (float64, error) {
	var minPrice *float64
	err := r.db.Model(&models.TicketType{}).
		Select("MIN(ticket_types.unit_price)").
		Joins("JOIN events ON events.id = ticket_types.event_id").
		Where("events.business_id = ? AND ticket_types.status = ?", businessID, "on_sale").
		Scan(&minPrice).Error
	if err != nil {
		return 0, ErrDatabaseOperation
	}
	if minPrice == nil {
		return 0, nil
	}
	return *minPrice, nil
}

func (r *eventRepository) ReserveTickets(ticketTypeID uint, quantity int) error {
	result := r.db.Model(&models.TicketType{}).
		Where("id = ? AND quantity_sold + ? <= capacity", ticketTypeID, quantity).
		UpdateColumn("quantity_sold", gorm.Expr("quantity_sold + ?", quantity))
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		// Either the row is missing or the conditional guard failed.
		var count int64
		if err := r.db.Model(&models.TicketType{}).Where("id = ?", ticketTypeID).Count(&count).Error; err != nil {
			return ErrDatabaseOperation
		}
		if count == 0 {
			return ErrTicketTypeNotFound
		}
		return ErrSoldOut
	}
	return nil
}

func (r *eventRepository) ReleaseTickets(ticketTypeID uint, quantity int) error {
	result := r.db.Model(&models.TicketType{}).
		Where("id = ? AND quantity_sold >= ?", ticketTypeID, quantity).
		UpdateColumn("quantity_sold", gorm.Expr("quantity_sold - ?", quantity))
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrTicketTypeNotFound
	}
	return nil
}
