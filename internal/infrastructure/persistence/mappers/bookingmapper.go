package mappers

import (
	"fmt"

	"github.com/andar-inc/andar/internal/domain/booking"
	"github.com/andar-inc/andar/internal/infrastructure/persistence/models"
)

type BookingMapper interface {
	ToEntity(model *models.BookingModel) (*booking.Booking, error)
	ToModel(entity *booking.Booking) (*models.BookingModel, error)
}

type BookingMapperImpl struct{}

func NewBookingMapper() BookingMapper {
	return &BookingMapperImpl{}
}

func (m *BookingMapperImpl) ToEntity(model *models.BookingModel) (*booking.Booking, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := booking.ReconstructBooking(
		model.ID,
		model.SID,
		model.UserID,
		model.PublisherID,
		model.AmountCents,
		model.Currency,
		booking.BookingStatus(model.Status),
		model.ProviderPaymentID,
		model.ExternalReference,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct booking entity: %w", err)
	}

	return entity, nil
}

func (m *BookingMapperImpl) ToModel(entity *booking.Booking) (*models.BookingModel, error) {
	if entity == nil {
		return nil, nil
	}

	var providerPaymentID *string
	if v := entity.ProviderPaymentID(); v != "" {
		providerPaymentID = &v
	}

	return &models.BookingModel{
		ID:                entity.ID(),
		SID:               entity.SID(),
		UserID:            entity.UserID(),
		PublisherID:       entity.PublisherID(),
		AmountCents:       entity.AmountCents(),
		Currency:          entity.Currency(),
		Status:            string(entity.Status()),
		ProviderPaymentID: providerPaymentID,
		ExternalReference: entity.ExternalReference(),
		CreatedAt:         entity.CreatedAt(),
		UpdatedAt:         entity.UpdatedAt(),
	}, nil
}
