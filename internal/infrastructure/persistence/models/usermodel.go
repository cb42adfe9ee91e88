package models

import (
	"time"

	"github.com/andar-inc/andar/internal/shared/constants"
)

// UserModel represents the database persistence model for users
type UserModel struct {
	ID        uint   `gorm:"primarykey"`
	SID       string `gorm:"column:sid;uniqueIndex;not null;size:50;comment:Stripe-style ID: user_xxx"`
	Email     string `gorm:"uniqueIndex;not null;size:255"`
	Name      string `gorm:"size:100"`
	Role      string `gorm:"not null;size:20;default:traveler"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return constants.TableUsers
}
