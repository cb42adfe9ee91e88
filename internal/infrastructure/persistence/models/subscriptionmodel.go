package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/andar-inc/andar/internal/shared/constants"
)

// SubscriptionModel represents the database persistence model for subscriptions
// This is the anti-corruption layer between domain and database
type SubscriptionModel struct {
	ID                     uint    `gorm:"primarykey"`
	SID                    string  `gorm:"column:sid;uniqueIndex;not null;size:50;comment:Stripe-style ID: sub_xxx"`
	UserID                 uint    `gorm:"not null;index:idx_user_subscription;index:idx_user_plan_status,priority:1"`
	PlanID                 uint    `gorm:"not null;index:idx_plan_subscription;index:idx_user_plan_status,priority:2"`
	PlanName               string  `gorm:"size:100"`
	Status                 string  `gorm:"not null;size:20;index:idx_status;index:idx_user_plan_status,priority:3"`
	ProviderSubscriptionID *string `gorm:"uniqueIndex:idx_provider_subscription_id;size:64"`
	SubscriptionEmail      string  `gorm:"not null;size:255"`
	AmountCents            int64   `gorm:"not null"`
	Currency               string  `gorm:"not null;size:3"`
	BillingCycle           string  `gorm:"not null;size:10"`
	StartDate              time.Time
	Metadata               datatypes.JSON
	CreatedBy              uint
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// TableName specifies the table name for GORM
func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}
