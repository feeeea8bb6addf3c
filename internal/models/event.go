package models

import (
	"time"

	"gorm.io/gorm"
)

type Event struct {
	gorm.Model
	BusinessID  uint   `gorm:"index;not null"`
	Name        string `gorm:"not null"`
	Description string
	Venue       string
	StartsAt    time.Time `gorm:"not null"`
	EndsAt      time.Time
	Status      string `gorm:"default:'draft'"` // draft, published, cancelled, completed
	TicketTypes []TicketType
}

type TicketType struct {
	gorm.Model
	EventID       uint    `gorm:"index;not null"`
	Name          string  `gorm:"not null"` // e.g. General Admission, VIP
	UnitPrice     float64 `gorm:"not null"` // dollars
	TaxPercentage float64 `gorm:"default:0"`
	Capacity      int     `gorm:"not null"`
	QuantitySold  int     `gorm:"default:0"`
	SalesStartAt  *time.Time
	SalesEndAt    *time.Time
	Status        string `gorm:"default:'on_sale'"` // on_sale, paused, sold_out
}

// Available returns the number of tickets still purchasable.
func (t *TicketType) Available() int {
	remaining := t.Capacity - t.QuantitySold
	if remaining < 0 {
		return 0
	}
	return remaining
}
