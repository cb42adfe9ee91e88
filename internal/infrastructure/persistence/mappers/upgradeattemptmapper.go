package mappers

import (
	"fmt"

	"github.com/andar-inc/andar/internal/domain/subscription"
	"github.com/andar-inc/andar/internal/infrastructure/persistence/models"
)

type UpgradeAttemptMapper interface {
	ToEntity(model *models.UpgradeAttemptModel) (*subscription.UpgradeAttempt, error)
	ToModel(entity *subscription.UpgradeAttempt) (*models.UpgradeAttemptModel, error)
	ToEntities(models []*models.UpgradeAttemptModel) ([]*subscription.UpgradeAttempt, error)
}

type UpgradeAttemptMapperImpl struct{}

func NewUpgradeAttemptMapper() UpgradeAttemptMapper {
	return &UpgradeAttemptMapperImpl{}
}

func (m *UpgradeAttemptMapperImpl) ToEntity(model *models.UpgradeAttemptModel) (*subscription.UpgradeAttempt, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := subscription.ReconstructUpgradeAttempt(
		model.ID,
		model.SID,
		model.UserID,
		model.FromSubscriptionID,
		model.ToSubscriptionID,
		model.FromPlanID,
		model.ToPlanID,
		subscription.UpgradePhase(model.Phase),
		model.Outcome,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct upgrade attempt entity: %w", err)
	}

	return entity, nil
}

func (m *UpgradeAttemptMapperImpl) ToModel(entity *subscription.UpgradeAttempt) (*models.UpgradeAttemptModel, error) {
	if entity == nil {
		return nil, nil
	}

	var toSubscriptionID *uint
	if v := entity.ToSubscriptionID(); v != 0 {
		toSubscriptionID = &v
	}

	return &models.UpgradeAttemptModel{
		ID:                 entity.ID(),
		SID:                entity.SID(),
		UserID:             entity.UserID(),
		FromSubscriptionID: entity.FromSubscriptionID(),
		ToSubscriptionID:   toSubscriptionID,
		FromPlanID:         entity.FromPlanID(),
		ToPlanID:           entity.ToPlanID(),
		Phase:              string(entity.Phase()),
		Outcome:            entity.Outcome(),
		CreatedAt:          entity.CreatedAt(),
		UpdatedAt:          entity.UpdatedAt(),
	}, nil
}

func (m *UpgradeAttemptMapperImpl) ToEntities(attemptModels []*models.UpgradeAttemptModel) ([]*subscription.UpgradeAttempt, error) {
	entities := make([]*subscription.UpgradeAttempt, 0, len(attemptModels))
	for _, model := range attemptModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
