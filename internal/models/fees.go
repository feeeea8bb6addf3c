package models

import "time"

// Platform fee types
const (
	FeeTypeFlat         = "flat"
	FeeTypePercentage   = "percentage"
	FeeTypeHigherOfBoth = "higher_of_both"
)

// Fee payers
const (
	FeePayerCustomer = "customer"
	FeePayerBusiness = "business"
)

// FeeConfiguration is the persisted platform fee schedule. A row with
// BusinessID == nil is the platform-wide default; a row with a BusinessID is a
// full per-business override. An override always replaces the default in its
// entirety, never field by field.
type FeeConfiguration struct {
	ID            uint    `gorm:"primarykey"`
	BusinessID    *uint   `gorm:"uniqueIndex;default:null"`
	FeeType       string  `gorm:"column:platform_fee_type;not null"`
	FlatFeeAmount float64 `gorm:"default:0"` // dollars, charged once per order
	PercentageFee float64 `gorm:"default:0"` // percentage points, e.g. 5 = 5%
	Active        bool    `gorm:"default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
