package validation

import (
	"time"

	"gatepass/internal/models"
)

// Checkout validates a checkout request
func (v *Validator) Checkout(ticketTypeID uint, quantity int) {
	v.Required("ticket_type_id", ticketTypeID)
	v.Range("quantity", float64(quantity), MinOrderQuantity, MaxOrderQuantity)
}

// BusinessRegistration validates a business onboarding request
func (v *Validator) BusinessRegistration(name, contactEmail string) {
	v.Required("name", name)
	v.MaxLength("name", name, MaxNameLength)
	v.Required("contact_email", contactEmail)
	v.Email("contact_email", contactEmail)
}

// Event validates an event creation request
func (v *Validator) Event(name string, startsAt, endsAt time.Time) {
	v.Required("name", name)
	v.MaxLength("name", name, MaxNameLength)
	v.Future("starts_at", startsAt)
	if !endsAt.IsZero() {
		v.Check(endsAt.After(startsAt), "ends_at", "must be after starts_at")
	}
}

// TicketType validates a ticket tier creation request
func (v *Validator) TicketType(name string, unitPrice, taxPercentage float64, capacity int) {
	v.Required("name", name)
	v.Range("unit_price", unitPrice, MinTicketPrice, MaxTicketPrice)
	v.Range("tax_percentage", taxPercentage, 0, 100)
	v.Check(capacity >= 1, "capacity", "must be at least 1")
}

// FeeConfig validates a fee configuration override request
func (v *Validator) FeeConfig(feeType string, flatFee, percentageFee float64) {
	v.Check(
		feeType == models.FeeTypeFlat ||
			feeType == models.FeeTypePercentage ||
			feeType == models.FeeTypeHigherOfBoth,
		"platform_fee_type",
		"must be flat, percentage, or higher_of_both",
	)
	v.Check(flatFee >= 0, "flat_fee_amount", "must not be negative")
	v.Check(percentageFee >= 0, "percentage_fee", "must not be negative")
}

// FeePayer validates a fee payer flag
func (v *Validator) FeePayer(field, payer string) {
	v.Check(payer == models.FeePayerCustomer || payer == models.FeePayerBusiness,
		field, "must be customer or business")
}
