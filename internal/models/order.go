package models

import (
	"time"

	"gorm.io/gorm"
)

// Order captures a checkout attempt and, once paid, the money split that was
// locked in when the checkout session was created. All amounts are integer
// cents; they come from a single pricing computation and are never recomputed
// in place.
type Order struct {
	gorm.Model
	OrderNumber      string `gorm:"uniqueIndex;not null"`
	BusinessID       uint   `gorm:"index;not null"`
	EventID          uint   `gorm:"index;not null"`
	TicketTypeID     uint   `gorm:"index;not null"`
	CustomerID       uint   `gorm:"index;not null"`
	Quantity         int    `gorm:"not null"`
	SubtotalCents    int64  `gorm:"not null"`
	TaxCents         int64  `gorm:"not null"`
	PlatformFeeCents int64  `gorm:"not null"`
	StripeFeeCents   int64  `gorm:"not null"`
	TotalCents       int64  `gorm:"not null"` // charged to the customer
	BusinessNetCents int64  `gorm:"not null"` // payout to the connected account
	Currency         string `gorm:"default:'usd'"`
	Status           string `gorm:"default:'pending'"` // pending, paid, expired, refunded
	StripeSessionID  string `gorm:"index"`
	PaidAt           *time.Time
	Metadata         JSON `gorm:"type:jsonb"`
	Tickets          []Ticket
}

// Ticket is an issued admission credential. The QR payload is an opaque UUID
// looked up at the door; it carries no embedded data.
type Ticket struct {
	gorm.Model
	OrderID      uint   `gorm:"index;not null"`
	EventID      uint   `gorm:"index;not null"`
	TicketTypeID uint   `gorm:"index;not null"`
	QRPayload    string `gorm:"uniqueIndex;not null"`
	AttendeeName string
	Status       string `gorm:"default:'valid'"` // valid, used, voided
}
