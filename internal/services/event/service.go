package event

import (
	"context"
	"errors"
	"time"

	"gatepass/internal/models"
	"gatepass/internal/repositories"
)

// Service errors
var (
	ErrNotFound         = errors.New("event not found")
	ErrNotOwned         = errors.New("event does not belong to business")
	ErrInvalidSchedule  = errors.New("event must end after it starts")
	ErrInvalidTicketing = errors.New("invalid ticket type parameters")
)

// CreateEventInput is the payload for creating an event.
type CreateEventInput struct {
	Name        string
	Description string
	Venue       string
	StartsAt    time.Time
	EndsAt      time.Time
}

// CreateTicketTypeInput is the payload for adding a ticket tier to an event.
type CreateTicketTypeInput struct {
	Name          string
	UnitPrice     float64
	TaxPercentage float64
	Capacity      int
}

type Service interface {
	Create(businessID uint, input CreateEventInput) (*models.Event, error)
	Get(id uint) (*models.Event, error)
	Publish(ctx context.Context, businessID, eventID uint) error
	Cancel(ctx context.Context, businessID, eventID uint) error
	ListByBusiness(businessID uint, offset, limit int) ([]*models.Event, int64, error)
	ListPublished(offset, limit int) ([]*models.Event, int64, error)

	AddTicketType(businessID, eventID uint, input CreateTicketTypeInput) (*models.TicketType, error)
}

type service struct {
	repo repositories.EventRepository
}

func NewService(repo repositories.EventRepository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) Create(businessID uint, input CreateEventInput) (*models.Event, error) {
	if !input.EndsAt.IsZero() && !input.EndsAt.After(input.StartsAt) {
		return nil, ErrInvalidSchedule
	}

	event := &models.Event{
		BusinessID:  businessID,
		Name:        input.Name,
		Description: input.Description,
		Venue:       input.Venue,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		Status:      "draft",
	}
	if err := s.repo.CreateEvent(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *service) Get(id uint) (*models.Event, error) {
	event, err := s.repo.GetEvent(id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *service) Publish(ctx context.Context, businessID, eventID uint) error {
	return s.setStatus(ctx, businessID, eventID, "published")
}

func (s *service) Cancel(ctx context.Context, businessID, eventID uint) error {
	return s.setStatus(ctx, businessID, eventID, "cancelled")
}

func (s *service) setStatus(ctx context.Context, businessID, eventID uint, status string) error {
	event, err := s.ownedEvent(businessID, eventID)
	if err != nil {
		return err
	}
	event.Status = status
	return s.repo.UpdateEvent(ctx, event)
}

func (s *service) ListByBusiness(businessID uint, offset, limit int) ([]*models.Event, int64, error) {
	return s.repo.ListByBusiness(businessID, offset, limit)
}

func (s *service) ListPublished(offset, limit int) ([]*models.Event, int64, error) {
	return s.repo.ListPublished(offset, limit)
}

func (s *service) AddTicketType(businessID, eventID uint, input CreateTicketTypeInput) (*models.TicketType, error) {
	if input.UnitPrice < 0 || input.Capacity < 1 || input.TaxPercentage < 0 || input.TaxPercentage > 100 {
		return nil, ErrInvalidTicketing
	}

	if _, err := s.ownedEvent(businessID, eventID); err != nil {
		return nil, err
	}

	tt := &models.TicketType{
		EventID:       eventID,
		Name:          input.Name,
		UnitPrice:     input.UnitPrice,
		TaxPercentage: input.TaxPercentage,
		Capacity:      input.Capacity,
		Status:        "on_sale",
	}
	if err := s.repo.CreateTicketType(tt); err != nil {
		return nil, err
	}
	return tt, nil
}

func (s *service) ownedEvent(businessID, eventID uint) (*models.Event, error) {
	event, err := s.Get(eventID)
	if err != nil {
		return nil, err
	}
	if event.BusinessID != businessID {
		return nil, ErrNotOwned
	}
	return event, nil
}
