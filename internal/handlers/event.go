package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"gatepass/internal/services/event"
	"gatepass/internal/utils"
	"gatepass/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type EventHandler struct {
	eventService event.Service
}

func NewEventHandler(eventService event.Service) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// CreateEvent creates a draft event for the caller's business.
func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	businessID, err := utils.RequireBusiness(c)
	if err != nil {
		return utils.Forbidden(c, "Business account required")
	}

	var input struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Venue       string `json:"venue"`
		StartsAt    string `json:"starts_at"`
		EndsAt      string `json:"ends_at"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	startsAt, endsAt, err := parseEventSchedule(input.StartsAt, input.EndsAt)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	v := validation.New()
	v.Event(input.Name, startsAt, endsAt)
	if !v.Valid() {
		for _, msg := range v.Errors {
			return utils.BadRequest(c, msg)
		}
	}

	created, err := h.eventService.Create(businessID, event.CreateEventInput{
		Name:        input.Name,
		Description: input.Description,
		Venue:       input.Venue,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
	})
	if err != nil {
		if errors.Is(err, event.ErrInvalidSchedule) {
			return utils.BadRequest(c, err.Error())
		}
		log.Printf("Event creation failed for business %d: %v", businessID, err)
		return utils.InternalError(c, "Event creation failed")
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{"event": created})
}

// GetEvent returns a single event with its ticket types.
func (h *EventHandler) GetEvent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.BadRequest(c, "Invalid event id")
	}

	found, err := h.eventService.Get(uint(id))
	if err != nil {
		if errors.Is(err, event.ErrNotFound) {
			return utils.NotFound(c, "Event not found")
		}
		return utils.InternalError(c, "Failed to load event")
	}

	return utils.Success(c, fiber.Map{"event": found})
}

// PublishEvent moves an event from draft to published, opening ticket sales.
func (h *EventHandler) PublishEvent(c *fiber.Ctx) error {
	return h.setStatus(c, h.eventService.Publish)
}

// CancelEvent cancels an event, closing ticket sales.
func (h *EventHandler) CancelEvent(c *fiber.Ctx) error {
	return h.setStatus(c, h.eventService.Cancel)
}

// ListMyEvents returns the caller's events, paginated.
func (h *EventHandler) ListMyEvents(c *fiber.Ctx) error {
	businessID, err := utils.RequireBusiness(c)
	if err != nil {
		return utils.Forbidden(c, "Business account required")
	}

	p := utils.GetPagination(c, 1, 20)
	events, total, err := h.eventService.ListByBusiness(businessID, p.Offset, p.Limit)
	if err != nil {
		return utils.InternalError(c, "Failed to list events")
	}
	p.Total = total

	return utils.Success(c, fiber.Map{
		"events": events,
		"meta":   p,
	})
}

// ListPublishedEvents returns events open for ticket sales, paginated.
func (h *EventHandler) ListPublishedEvents(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 20)
	events, total, err := h.eventService.ListPublished(p.Offset, p.Limit)
	if err != nil {
		return utils.InternalError(c, "Failed to list events")
	}
	p.Total = total

	return utils.Success(c, fiber.Map{
		"events": events,
		"meta":   p,
	})
}

// AddTicketType adds a ticket tier to one of the caller's events.
func (h *EventHandler) AddTicketType(c *fiber.Ctx) error {
	businessID, err := utils.RequireBusiness(c)
	if err != nil {
		return utils.Forbidden(c, "Business account required")
	}

	eventID, err := c.ParamsInt("id")
	if err != nil || eventID < 1 {
		return utils.BadRequest(c, "Invalid event id")
	}

	var input struct {
		Name          string  `json:"name"`
		UnitPrice     float64 `json:"unit_price"`
		TaxPercentage float64 `json:"tax_percentage"`
		Capacity      int     `json:"capacity"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	v := validation.New()
	v.TicketType(input.Name, input.UnitPrice, input.TaxPercentage, input.Capacity)
	if !v.Valid() {
		for _, msg := range v.Errors {
			return utils.BadRequest(c, msg)
		}
	}

	created, err := h.eventService.AddTicketType(businessID, uint(eventID), event.CreateTicketTypeInput{
		Name:          input.Name,
		UnitPrice:     input.UnitPrice,
		TaxPercentage: input.TaxPercentage,
		Capacity:      input.Capacity,
	})
	if err != nil {
		switch {
		case errors.Is(err, event.ErrNotFound):
			return utils.NotFound(c, "Event not found")
		case errors.Is(err, event.ErrNotOwned):
			return utils.Forbidden(c, "Event belongs to another business")
		case errors.Is(err, event.ErrInvalidTicketing):
			return utils.BadRequest(c, err.Error())
		default:
			log.Printf("Ticket type creation failed for event %d: %v", eventID, err)
			return utils.InternalError(c, "Ticket type creation failed")
		}
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{"ticket_type": created})
}

func (h *EventHandler) setStatus(c *fiber.Ctx, op func(ctx context.Context, businessID, eventID uint) error) error {
	businessID, err := utils.RequireBusiness(c)
	if err != nil {
		return utils.Forbidden(c, "Business account required")
	}

	eventID, err := c.ParamsInt("id")
	if err != nil || eventID < 1 {
		return utils.BadRequest(c, "Invalid event id")
	}

	if err := op(c.Context(), businessID, uint(eventID)); err != nil {
		switch {
		case errors.Is(err, event.ErrNotFound):
			return utils.NotFound(c, "Event not found")
		case errors.Is(err, event.ErrNotOwned):
			return utils.Forbidden(c, "Event belongs to another business")
		default:
			return utils.InternalError(c, "Failed to update event")
		}
	}

	return utils.Success(c, fiber.Map{"message": "Event updated"})
}

// parseEventSchedule parses RFC 3339 start and end timestamps.
func parseEventSchedule(startsAt, endsAt string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, startsAt)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("starts_at must be an RFC 3339 timestamp")
	}
	end, err := time.Parse(time.RFC3339, endsAt)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("ends_at must be an RFC 3339 timestamp")
	}
	return start, end, nil
}
