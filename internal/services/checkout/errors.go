package checkout

import "errors"

// ErrInsufficientInventory means the requested quantity exceeds the tickets
// still available. Checked and enforced before any fee math runs.
var ErrInsufficientInventory = errors.New("not enough tickets available")

// Service errors
var (
	ErrEventNotOnSale   = errors.New("event is not open for sales")
	ErrTicketNotOnSale  = errors.New("ticket type is not on sale")
	ErrBusinessNotReady = errors.New("business cannot accept payments yet")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrAlreadyPaid      = errors.New("order is already paid")
)
