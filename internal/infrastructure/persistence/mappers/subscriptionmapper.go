package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/andar-inc/andar/internal/domain/subscription"
	vo "github.com/andar-inc/andar/internal/domain/subscription/valueobjects"
	"github.com/andar-inc/andar/internal/infrastructure/persistence/models"
)

type SubscriptionMapper interface {
	ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error)
	ToModel(entity *subscription.Subscription) (*models.SubscriptionModel, error)
	ToEntities(models []*models.SubscriptionModel) ([]*subscription.Subscription, error)
}

type SubscriptionMapperImpl struct{}

func NewSubscriptionMapper() SubscriptionMapper {
	return &SubscriptionMapperImpl{}
}

func (m *SubscriptionMapperImpl) ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	if model == nil {
		return nil, nil
	}

	status := vo.SubscriptionStatus(model.Status)
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status: %s", model.Status)
	}

	cycle, err := vo.ParseBillingCycle(model.BillingCycle)
	if err != nil {
		return nil, fmt.Errorf("failed to parse billing cycle: %w", err)
	}

	var metadata map[string]interface{}
	if model.Metadata != nil {
		if err := json.Unmarshal(model.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	entity, err := subscription.ReconstructSubscription(
		model.ID,
		model.SID,
		model.UserID,
		model.PlanID,
		model.PlanName,
		status,
		model.ProviderSubscriptionID,
		model.SubscriptionEmail,
		model.AmountCents,
		model.Currency,
		cycle,
		model.StartDate,
		metadata,
		model.CreatedBy,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct subscription entity: %w", err)
	}

	return entity, nil
}

func (m *SubscriptionMapperImpl) ToModel(entity *subscription.Subscription) (*models.SubscriptionModel, error) {
	if entity == nil {
		return nil, nil
	}

	var metadataJSON datatypes.JSON
	if metadata := entity.Metadata(); len(metadata) > 0 {
		data, err := json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metadataJSON = data
	}

	var providerID *string
	if v := entity.ProviderSubscriptionID(); v != "" {
		providerID = &v
	}

	return &models.SubscriptionModel{
		ID:                     entity.ID(),
		SID:                    entity.SID(),
		UserID:                 entity.UserID(),
		PlanID:                 entity.PlanID(),
		PlanName:               entity.PlanName(),
		Status:                 entity.Status().String(),
		ProviderSubscriptionID: providerID,
		SubscriptionEmail:      entity.SubscriptionEmail(),
		AmountCents:            entity.AmountCents(),
		Currency:               entity.Currency(),
		BillingCycle:           entity.BillingCycle().String(),
		StartDate:              entity.StartDate(),
		Metadata:               metadataJSON,
		CreatedBy:              entity.CreatedBy(),
		CreatedAt:              entity.CreatedAt(),
		UpdatedAt:              entity.UpdatedAt(),
	}, nil
}

func (m *SubscriptionMapperImpl) ToEntities(subscriptionModels []*models.SubscriptionModel) ([]*subscription.Subscription, error) {
	entities := make([]*subscription.Subscription, 0, len(subscriptionModels))
	for _, model := range subscriptionModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
