package models

import (
	"time"

	"github.com/andar-inc/andar/internal/shared/constants"
)

// PublisherCredentialModel stores OAuth-connected provider tokens for
// publisher accounts that collect booking payments directly.
type PublisherCredentialModel struct {
	ID             uint   `gorm:"primarykey"`
	PublisherID    uint   `gorm:"not null;index:idx_credential_publisher"`
	ProviderUserID string `gorm:"uniqueIndex:idx_credential_provider_user;not null;size:64"`
	AccessToken    string `gorm:"not null;size:255"`
	RefreshToken   string `gorm:"size:255"`
	ExpiresAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for GORM
func (PublisherCredentialModel) TableName() string {
	return constants.TablePublisherCredentials
}
