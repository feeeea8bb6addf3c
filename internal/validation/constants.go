package validation

const (
	// Ticket pricing limits
	MinTicketPrice = 0.00
	MaxTicketPrice = 100000.00

	// Per-order quantity limits
	MinOrderQuantity = 1
	MaxOrderQuantity = 50

	// Password requirements
	MinPasswordLength = 8
	MaxPasswordLength = 72

	// String lengths
	MaxNameLength        = 200
	MaxDescriptionLength = 2000
)
