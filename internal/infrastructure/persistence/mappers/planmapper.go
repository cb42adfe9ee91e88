package mappers

import (
	"fmt"

	"github.com/andar-inc/andar/internal/domain/subscription"
	vo "github.com/andar-inc/andar/internal/domain/subscription/valueobjects"
	"github.com/andar-inc/andar/internal/infrastructure/persistence/models"
)

type PlanMapper interface {
	ToEntity(model *models.PlanModel) (*subscription.Plan, error)
	ToModel(entity *subscription.Plan) (*models.PlanModel, error)
	ToEntities(models []*models.PlanModel) ([]*subscription.Plan, error)
}

type PlanMapperImpl struct{}

func NewPlanMapper() PlanMapper {
	return &PlanMapperImpl{}
}

func (m *PlanMapperImpl) ToEntity(model *models.PlanModel) (*subscription.Plan, error) {
	if model == nil {
		return nil, nil
	}

	cycle, err := vo.ParseBillingCycle(model.BillingCycle)
	if err != nil {
		return nil, fmt.Errorf("failed to parse billing cycle: %w", err)
	}

	entity, err := subscription.ReconstructPlan(
		model.ID,
		model.SID,
		model.Name,
		model.Description,
		model.PriceCents,
		model.Currency,
		cycle,
		model.ProviderPlanID,
		model.MaxPosts,
		model.MaxBookings,
		model.Active,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct plan entity: %w", err)
	}

	return entity, nil
}

func (m *PlanMapperImpl) ToModel(entity *subscription.Plan) (*models.PlanModel, error) {
	if entity == nil {
		return nil, nil
	}

	var providerID *string
	if v := entity.ProviderPlanID(); v != "" {
		providerID = &v
	}

	return &models.PlanModel{
		ID:             entity.ID(),
		SID:            entity.SID(),
		Name:           entity.Name(),
		Description:    entity.Description(),
		PriceCents:     entity.PriceCents(),
		Currency:       entity.Currency(),
		BillingCycle:   entity.BillingCycle().String(),
		ProviderPlanID: providerID,
		MaxPosts:       entity.MaxPosts(),
		MaxBookings:    entity.MaxBookings(),
		Active:         entity.IsActive(),
		CreatedAt:      entity.CreatedAt(),
		UpdatedAt:      entity.UpdatedAt(),
	}, nil
}

func (m *PlanMapperImpl) ToEntities(planModels []*models.PlanModel) ([]*subscription.Plan, error) {
	entities := make([]*subscription.Plan, 0, len(planModels))
	for _, model := range planModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
