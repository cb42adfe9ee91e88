package models

import (
	"time"

	"github.com/andar-inc/andar/internal/shared/constants"
)

// UpgradeAttemptModel represents the database persistence model for the
// two-phase upgrade saga records
type UpgradeAttemptModel struct {
	ID                 uint   `gorm:"primarykey"`
	SID                string `gorm:"column:sid;uniqueIndex;not null;size:50;comment:Stripe-style ID: upg_xxx"`
	UserID             uint   `gorm:"not null;index:idx_upgrade_user"`
	FromSubscriptionID uint   `gorm:"not null"`
	ToSubscriptionID   *uint
	FromPlanID         uint   `gorm:"not null"`
	ToPlanID           uint   `gorm:"not null"`
	Phase              string `gorm:"not null;size:20;index:idx_upgrade_phase"`
	Outcome            string `gorm:"size:500"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName specifies the table name for GORM
func (UpgradeAttemptModel) TableName() string {
	return constants.TableUpgradeAttempts
}
