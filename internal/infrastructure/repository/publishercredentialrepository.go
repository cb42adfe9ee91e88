package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andar-inc/andar/internal/application/billing/credentials"
	"github.com/andar-inc/andar/internal/infrastructure/persistence/models"
	"github.com/andar-inc/andar/internal/shared/logger"
)

// PublisherCredentialRepositoryImpl resolves OAuth-connected provider tokens
// for publisher accounts. It backs credential resolution for booking payment
// notifications that originate on a publisher's connected account.
type PublisherCredentialRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewPublisherCredentialRepository(db *gorm.DB, logger logger.Interface) *PublisherCredentialRepositoryImpl {
	return &PublisherCredentialRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

var _ credentials.PublisherTokenLookup = (*PublisherCredentialRepositoryImpl)(nil)

// TokenForProviderUser returns the connected access token for the publisher
// account the provider identifies by providerUserID, or "" when no publisher
// is connected under that id.
func (r *PublisherCredentialRepositoryImpl) TokenForProviderUser(ctx context.Context, providerUserID string) (string, error) {
	if providerUserID == "" {
		return "", nil
	}

	var model models.PublisherCredentialModel
	if err := r.db.WithContext(ctx).
		Where("provider_user_id = ?", providerUserID).
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		r.logger.Errorw("failed to get publisher credential",
			"provider_user_id", providerUserID, "error", err)
		return "", fmt.Errorf("failed to get publisher credential: %w", err)
	}

	return model.AccessToken, nil
}

// Upsert stores or refreshes the connected token for a publisher account.
func (r *PublisherCredentialRepositoryImpl) Upsert(ctx context.Context, model *models.PublisherCredentialModel) error {
	var existing models.PublisherCredentialModel
	err := r.db.WithContext(ctx).
		Where("provider_user_id = ?", model.ProviderUserID).
		First(&existing).Error
	switch {
	case err == nil:
		model.ID = existing.ID
		model.CreatedAt = existing.CreatedAt
		if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
			return fmt.Errorf("failed to update publisher credential: %w", err)
		}
	case err == gorm.ErrRecordNotFound:
		if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
			return fmt.Errorf("failed to create publisher credential: %w", err)
		}
	default:
		return fmt.Errorf("failed to look up publisher credential: %w", err)
	}
	return nil
}
