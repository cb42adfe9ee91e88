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

type PlanRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PlanMapper
	logger logger.Interface
}

func NewPlanRepository(db *gorm.DB, logger logger.Interface) subscription.PlanRepository {
	return &PlanRepositoryImpl{
		db:     db,
		mapper: mappers.NewPlanMapper(),
		logger: logger,
	}
}

func (r *PlanRepositoryImpl) Create(ctx context.Context, planEntity *subscription.Plan) error {
	model, err := r.mapper.ToModel(planEntity)
	if err != nil {
		r.logger.Errorw("failed to map plan entity to model", "error", err)
		return fmt.Errorf("failed to map plan entity: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create plan in database", "error", err)
		return fmt.Errorf("failed to create plan: %w", err)
	}

	if err := planEntity.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set plan ID", "error", err)
		return fmt.Errorf("failed to set plan ID: %w", err)
	}

	r.logger.Infow("plan created successfully", "id", model.ID, "name", model.Name)
	return nil
}

func (r *PlanRepositoryImpl) Update(ctx context.Context, planEntity *subscription.Plan) error {
	model, err := r.mapper.ToModel(planEntity)
	if err != nil {
		r.logger.Errorw("failed to map plan entity to model", "error", err)
		return fmt.Errorf("failed to map plan entity: %w", err)
	}

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		r.logger.Errorw("failed to update plan in database", "id", model.ID, "error", err)
		return fmt.Errorf("failed to update plan: %w", err)
	}

	return nil
}

func (r *PlanRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	var model models.PlanModel

	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get plan by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *PlanRepositoryImpl) GetBySID(ctx context.Context, sid string) (*subscription.Plan, error) {
	var model models.PlanModel

	if err := r.db.WithContext(ctx).Where("sid = ?", sid).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get plan by SID", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *PlanRepositoryImpl) ListActive(ctx context.Context) ([]*subscription.Plan, error) {
	var planModels []*models.PlanModel

	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("price_cents ASC").
		Find(&planModels).Error; err != nil {
		r.logger.Errorw("failed to list active plans", "error", err)
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	return r.mapper.ToEntities(planModels)
}
