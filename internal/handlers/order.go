package handlers

import (
	"errors"
	"time"

	"gatepass/internal/services/order"
	"gatepass/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	orderService order.Service
}

func NewOrderHandler(orderService order.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// GetOrder returns one of the caller's orders with its tickets.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.BadRequest(c, "Invalid order id")
	}

	found, err := h.orderService.GetForCustomer(claims.UserID, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, order.ErrNotFound):
			return utils.NotFound(c, "Order not found")
		case errors.Is(err, order.ErrNotOwned):
			return utils.Forbidden(c, "Order belongs to another customer")
		default:
			return utils.InternalError(c, "Failed to load order")
		}
	}

	return utils.Success(c, fiber.Map{"order": found})
}

// ListMyOrders returns the caller's orders, paginated.
func (h *OrderHandler) ListMyOrders(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	p := utils.GetPagination(c, 1, 20)
	orders, total, err := h.orderService.ListForCustomer(claims.UserID, p.Offset, p.Limit)
	if err != nil {
		return utils.InternalError(c, "Failed to list orders")
	}
	p.Total = total

	return utils.Success(c, fiber.Map{
		"orders": orders,
		"meta":   p,
	})
}

// ListBusinessOrders returns orders placed against the caller's business.
func (h *OrderHandler) ListBusinessOrders(c *fiber.Ctx) error {
	businessID, err := utils.RequireBusiness(c)
	if err != nil {
		return utils.Forbidden(c, "Business account required")
	}

	p := utils.GetPagination(c, 1, 20)
	orders, total, err := h.orderService.ListForBusiness(businessID, p.Offset, p.Limit)
	if err != nil {
		return utils.InternalError(c, "Failed to list orders")
	}
	p.Total = total

	return utils.Success(c, fiber.Map{
		"orders": orders,
		"meta":   p,
	})
}

// GetSettlementReport builds the settlement report for a period. The period
// defaults to the last 30 days when from/to are not supplied.
func (h *OrderHandler) GetSettlementReport(c *fiber.Ctx) error {
	businessID, err := utils.RequireBusiness(c)
	if err != nil {
		return utils.Forbidden(c, "Business account required")
	}

	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if q := c.Query("from"); q != "" {
		parsed, err := time.Parse(time.RFC3339, q)
		if err != nil {
			return utils.BadRequest(c, "from must be an RFC 3339 timestamp")
		}
		from = parsed
	}
	if q := c.Query("to"); q != "" {
		parsed, err := time.Parse(time.RFC3339, q)
		if err != nil {
			return utils.BadRequest(c, "to must be an RFC 3339 timestamp")
		}
		to = parsed
	}
	if !to.After(from) {
		return utils.BadRequest(c, "to must be after from")
	}

	report, err := h.orderService.Settle(businessID, from, to)
	if err != nil {
		return utils.InternalError(c, "Failed to build settlement report")
	}

	return utils.Success(c, fiber.Map{"report": report})
}

// ReconcileOrder recomputes one settled order's expected payout for the
// settlement detail view.
func (h *OrderHandler) ReconcileOrder(c *fiber.Ctx) error {
	businessID, err := utils.RequireBusiness(c)
	if err != nil {
		return utils.Forbidden(c, "Business account required")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.BadRequest(c, "Invalid order id")
	}

	result, err := h.orderService.Reconcile(businessID, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, order.ErrNotFound):
			return utils.NotFound(c, "Order not found")
		case errors.Is(err, order.ErrNotOwned):
			return utils.Forbidden(c, "Order belongs to another business")
		default:
			return utils.InternalError(c, "Failed to reconcile order")
		}
	}

	return utils.Success(c, fiber.Map{"reconciliation": result})
}
