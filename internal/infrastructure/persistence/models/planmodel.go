package models

import (
	"time"

	"github.com/andar-inc/andar/internal/shared/constants"
)

// PlanModel represents the database persistence model for subscription plans
type PlanModel struct {
	ID             uint    `gorm:"primarykey"`
	SID            string  `gorm:"column:sid;uniqueIndex;not null;size:50;comment:Stripe-style ID: plan_xxx"`
	Name           string  `gorm:"not null;size:100"`
	Description    string  `gorm:"size:500"`
	PriceCents     int64   `gorm:"not null"`
	Currency       string  `gorm:"not null;size:3"`
	BillingCycle   string  `gorm:"not null;size:10"`
	ProviderPlanID *string `gorm:"uniqueIndex:idx_provider_plan_id;size:64"`
	MaxPosts       int     `gorm:"not null;default:0"`
	MaxBookings    int     `gorm:"not null;default:0"`
	Active         bool    `gorm:"not null;default:true;index:idx_plan_active"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for GORM
func (PlanModel) TableName() string {
	return constants.TablePlans
}
