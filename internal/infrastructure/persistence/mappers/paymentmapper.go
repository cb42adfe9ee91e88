package mappers

import (
	"fmt"

	"github.com/andar-inc/andar/internal/domain/payment"
	vo "github.com/andar-inc/andar/internal/domain/payment/valueobjects"
	"github.com/andar-inc/andar/internal/infrastructure/persistence/models"
)

type PaymentMapper interface {
	ToEntity(model *models.PaymentModel) (*payment.Payment, error)
	ToModel(entity *payment.Payment) (*models.PaymentModel, error)
	ToEntities(models []*models.PaymentModel) ([]*payment.Payment, error)
}

type PaymentMapperImpl struct{}

func NewPaymentMapper() PaymentMapper {
	return &PaymentMapperImpl{}
}

func (m *PaymentMapperImpl) ToEntity(model *models.PaymentModel) (*payment.Payment, error) {
	if model == nil {
		return nil, nil
	}

	status, ok := vo.ParsePaymentStatus(model.Status)
	if !ok {
		return nil, fmt.Errorf("invalid payment status: %s", model.Status)
	}

	entity, err := payment.ReconstructPayment(
		model.ID,
		model.SID,
		model.SubscriptionID,
		model.ProviderPaymentID,
		model.AmountCents,
		model.Currency,
		status,
		model.StatusDetail,
		model.OperationType,
		model.ExternalReference,
		model.ProcessedAt,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct payment entity: %w", err)
	}

	return entity, nil
}

func (m *PaymentMapperImpl) ToModel(entity *payment.Payment) (*models.PaymentModel, error) {
	if entity == nil {
		return nil, nil
	}

	var subscriptionID *uint
	if v := entity.SubscriptionID(); v != 0 {
		subscriptionID = &v
	}

	return &models.PaymentModel{
		ID:                entity.ID(),
		SID:               entity.SID(),
		SubscriptionID:    subscriptionID,
		ProviderPaymentID: entity.ProviderPaymentID(),
		AmountCents:       entity.AmountCents(),
		Currency:          entity.Currency(),
		Status:            entity.Status().String(),
		StatusDetail:      entity.StatusDetail(),
		OperationType:     entity.OperationType(),
		ExternalReference: entity.ExternalReference(),
		ProcessedAt:       entity.ProcessedAt(),
		CreatedAt:         entity.CreatedAt(),
	}, nil
}

func (m *PaymentMapperImpl) ToEntities(paymentModels []*models.PaymentModel) ([]*payment.Payment, error) {
	entities := make([]*payment.Payment, 0, len(paymentModels))
	for _, model := range paymentModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
