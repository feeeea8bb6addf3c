package models

import (
	"time"
)

type Business struct {
	ID              uint   `gorm:"primarykey"`
	OwnerUserID     uint   `gorm:"uniqueIndex;not null"`
	Name            string `gorm:"not null"`
	Slug            string `gorm:"uniqueIndex;not null"`
	ContactEmail    string `gorm:"not null"`
	Address         string
	Status          string `gorm:"default:'pending'"` // pending, active, suspended
	StripeAccountID string `gorm:"column:stripe_account_id"`
	OnboardingDone  bool   `gorm:"default:false"`
	// Fee responsibility flags. Orthogonal: each fee component has its own payer.
	StripeFeePayer   string `gorm:"default:'customer'"` // customer or business
	PlatformFeePayer string `gorm:"default:'customer'"` // customer or business
	Metadata         JSON   `gorm:"type:jsonb"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
