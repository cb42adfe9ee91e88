package models

import (
	"time"

	"github.com/andar-inc/andar/internal/shared/constants"
)

// BookingModel represents the database persistence model for bookings
type BookingModel struct {
	ID                uint    `gorm:"primarykey"`
	SID               string  `gorm:"column:sid;uniqueIndex;not null;size:50;comment:Stripe-style ID: bkg_xxx"`
	UserID            uint    `gorm:"not null;index:idx_booking_user"`
	PublisherID       uint    `gorm:"not null;index:idx_booking_publisher"`
	AmountCents       int64   `gorm:"not null"`
	Currency          string  `gorm:"not null;size:3"`
	Status            string  `gorm:"not null;size:20;index:idx_booking_status"`
	ProviderPaymentID *string `gorm:"size:64"`
	ExternalReference string  `gorm:"size:128;index:idx_booking_external_reference"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName specifies the table name for GORM
func (BookingModel) TableName() string {
	return constants.TableBookings
}
