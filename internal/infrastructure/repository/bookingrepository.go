package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andar-inc/andar/internal/domain/booking"
	"github.com/andar-inc/andar/internal/infrastructure/persistence/mappers"
	"github.com/andar-inc/andar/internal/infrastructure/persistence/models"
	"github.com/andar-inc/andar/internal/shared/logger"
)

type BookingRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.BookingMapper
	logger logger.Interface
}

func NewBookingRepository(db *gorm.DB, logger logger.Interface) booking.BookingRepository {
	return &BookingRepositoryImpl{
		db:     db,
		mapper: mappers.NewBookingMapper(),
		logger: logger,
	}
}

func (r *BookingRepositoryImpl) Update(ctx context.Context, bookingEntity *booking.Booking) error {
	model, err := r.mapper.ToModel(bookingEntity)
	if err != nil {
		r.logger.Errorw("failed to map booking entity to model", "error", err)
		return fmt.Errorf("failed to map booking entity: %w", err)
	}

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		r.logger.Errorw("failed to update booking in database", "id", model.ID, "error", err)
		return fmt.Errorf("failed to update booking: %w", err)
	}

	return nil
}

func (r *BookingRepositoryImpl) GetByID(ctx context.Context, id uint) (*booking.Booking, error) {
	var model models.BookingModel

	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get booking by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *BookingRepositoryImpl) GetBySID(ctx context.Context, sid string) (*booking.Booking, error) {
	var model models.BookingModel

	if err := r.db.WithContext(ctx).Where("sid = ?", sid).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get booking by SID", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *BookingRepositoryImpl) GetByExternalReference(ctx context.Context, externalReference string) (*booking.Booking, error) {
	var model models.BookingModel

	if err := r.db.WithContext(ctx).
		Where("external_reference = ?", externalReference).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get booking by external reference",
			"external_reference", externalReference, "error", err)
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return r.mapper.ToEntity(&model)
}
