package models

import (
	"time"

	"github.com/andar-inc/andar/internal/shared/constants"
)

// PaymentModel represents the database persistence model for recurring
// payments. The unique index on ProviderPaymentID is what makes duplicate
// webhook deliveries race-safe.
type PaymentModel struct {
	ID                uint   `gorm:"primarykey"`
	SID               string `gorm:"column:sid;uniqueIndex;not null;size:50;comment:Stripe-style ID: pay_xxx"`
	SubscriptionID    *uint  `gorm:"index:idx_payment_subscription"`
	ProviderPaymentID string `gorm:"uniqueIndex:idx_provider_payment_id;not null;size:64"`
	AmountCents       int64  `gorm:"not null"`
	Currency          string `gorm:"not null;size:3"`
	Status            string `gorm:"not null;size:20;index:idx_payment_status"`
	StatusDetail      string `gorm:"size:100"`
	OperationType     string `gorm:"not null;size:40"`
	ExternalReference string `gorm:"size:128;index:idx_payment_external_reference"`
	ProcessedAt       *time.Time
	CreatedAt         time.Time
}

// TableName specifies the table name for GORM
func (PaymentModel) TableName() string {
	return constants.TablePayments
}
