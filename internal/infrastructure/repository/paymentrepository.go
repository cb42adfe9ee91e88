package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andar-inc/andar/internal/domain/payment"
	"github.com/andar-inc/andar/internal/infrastructure/persistence/mappers"
	"github.com/andar-inc/andar/internal/infrastructure/persistence/models"
	"github.com/andar-inc/andar/internal/shared/logger"
)

type PaymentRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PaymentMapper
	logger logger.Interface
}

func NewPaymentRepository(db *gorm.DB, logger logger.Interface) payment.PaymentRepository {
	return &PaymentRepositoryImpl{
		db:     db,
		mapper: mappers.NewPaymentMapper(),
		logger: logger,
	}
}

// CreateIfAbsent inserts the payment row unless one with the same provider
// payment id exists. The unique index decides, not a read-then-write, so
// concurrent duplicate deliveries cannot both insert.
func (r *PaymentRepositoryImpl) CreateIfAbsent(ctx context.Context, p *payment.Payment) (bool, error) {
	model, err := r.mapper.ToModel(p)
	if err != nil {
		r.logger.Errorw("failed to map payment entity to model", "error", err)
		return false, fmt.Errorf("failed to map payment entity: %w", err)
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider_payment_id"}},
			DoNothing: true,
		}).
		Create(model)
	if result.Error != nil {
		r.logger.Errorw("failed to create payment in database",
			"provider_payment_id", model.ProviderPaymentID, "error", result.Error)
		return false, fmt.Errorf("failed to create payment: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return false, nil
	}

	if err := p.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set payment ID", "error", err)
		return true, fmt.Errorf("failed to set payment ID: %w", err)
	}

	r.logger.Infow("payment recorded",
		"id", model.ID,
		"provider_payment_id", model.ProviderPaymentID,
		"status", model.Status,
	)
	return true, nil
}

func (r *PaymentRepositoryImpl) MarkProcessed(ctx context.Context, providerPaymentID string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("provider_payment_id = ?", providerPaymentID).
		Update("processed_at", at.UTC())
	if result.Error != nil {
		r.logger.Errorw("failed to mark payment processed",
			"provider_payment_id", providerPaymentID, "error", result.Error)
		return fmt.Errorf("failed to mark payment processed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("payment %s not found", providerPaymentID)
	}
	return nil
}

func (r *PaymentRepositoryImpl) GetByProviderPaymentID(ctx context.Context, providerPaymentID string) (*payment.Payment, error) {
	var model models.PaymentModel

	if err := r.db.WithContext(ctx).Where("provider_payment_id = ?", providerPaymentID).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get payment by provider ID",
			"provider_payment_id", providerPaymentID, "error", err)
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *PaymentRepositoryImpl) GetBySubscriptionID(ctx context.Context, subscriptionID uint) ([]*payment.Payment, error) {
	var paymentModels []*models.PaymentModel

	if err := r.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("created_at DESC").
		Find(&paymentModels).Error; err != nil {
		r.logger.Errorw("failed to get payments by subscription ID",
			"subscription_id", subscriptionID, "error", err)
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}

	return r.mapper.ToEntities(paymentModels)
}
