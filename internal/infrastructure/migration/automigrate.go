package migration

import (
	"github.com/andar-inc/andar/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.PlanModel{},
		&models.SubscriptionModel{},
		&models.PaymentModel{},
		&models.BookingModel{},
		&models.UpgradeAttemptModel{},
		&models.PublisherCredentialModel{},
	}
}
