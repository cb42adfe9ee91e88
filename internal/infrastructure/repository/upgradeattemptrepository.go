package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andar-inc/andar/internal/domain/subscription"
	"github.com/andar-inc/andar/internal/infrastructure/persistence/mappers"
	"github.com/andar-inc/andar/internal/infrastructure/persistence/models"
	"github.com/andar-inc/andar/internal/shared/logger"
)

type UpgradeAttemptRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.UpgradeAttemptMapper
	logger logger.Interface
}

func NewUpgradeAttemptRepository(db *gorm.DB, logger logger.Interface) subscription.UpgradeAttemptRepository {
	return &UpgradeAttemptRepositoryImpl{
		db:     db,
		mapper: mappers.NewUpgradeAttemptMapper(),
		logger: logger,
	}
}

func (r *UpgradeAttemptRepositoryImpl) Create(ctx context.Context, attempt *subscription.UpgradeAttempt) error {
	model, err := r.mapper.ToModel(attempt)
	if err != nil {
		r.logger.Errorw("failed to map upgrade attempt entity to model", "error", err)
		return fmt.Errorf("failed to map upgrade attempt entity: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create upgrade attempt in database", "error", err)
		return fmt.Errorf("failed to create upgrade attempt: %w", err)
	}

	if err := attempt.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set upgrade attempt ID", "error", err)
		return fmt.Errorf("failed to set upgrade attempt ID: %w", err)
	}

	return nil
}

func (r *UpgradeAttemptRepositoryImpl) Update(ctx context.Context, attempt *subscription.UpgradeAttempt) error {
	model, err := r.mapper.ToModel(attempt)
	if err != nil {
		r.logger.Errorw("failed to map upgrade attempt entity to model", "error", err)
		return fmt.Errorf("failed to map upgrade attempt entity: %w", err)
	}

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		r.logger.Errorw("failed to update upgrade attempt in database", "id", model.ID, "error", err)
		return fmt.Errorf("failed to update upgrade attempt: %w", err)
	}

	return nil
}

func (r *UpgradeAttemptRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.UpgradeAttempt, error) {
	var model models.UpgradeAttemptModel

	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get upgrade attempt by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get upgrade attempt: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *UpgradeAttemptRepositoryImpl) ListFailedWithExposure(ctx context.Context) ([]*subscription.UpgradeAttempt, error) {
	var attemptModels []*models.UpgradeAttemptModel

	if err := r.db.WithContext(ctx).
		Where("phase = ? AND to_subscription_id IS NOT NULL", string(subscription.UpgradeFailed)).
		Order("created_at DESC").
		Find(&attemptModels).Error; err != nil {
		r.logger.Errorw("failed to list upgrade attempts with billing exposure", "error", err)
		return nil, fmt.Errorf("failed to list upgrade attempts: %w", err)
	}

	return r.mapper.ToEntities(attemptModels)
}
