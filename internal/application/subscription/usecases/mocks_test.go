package usecases

import (
	"context"
	"time"

	"github.com/andar-inc/andar/internal/domain/booking"
	"github.com/andar-inc/andar/internal/domain/payment"
	"github.com/andar-inc/andar/internal/domain/subscription"
	"github.com/andar-inc/andar/internal/domain/user"
	"github.com/andar-inc/andar/internal/shared/logger"
)

type noopLogger struct{}

func (noopLogger) Debugw(msg string, keysAndValues ...any) {}
func (noopLogger) Infow(msg string, keysAndValues ...any)  {}
func (noopLogger) Warnw(msg string, keysAndValues ...any)  {}
func (noopLogger) Errorw(msg string, keysAndValues ...any) {}
func (noopLogger) With(args ...any) logger.Interface       { return noopLogger{} }

type mockSubscriptionRepository struct {
	CreateFunc                      func(ctx context.Context, sub *subscription.Subscription) error
	UpdateFunc                      func(ctx context.Context, sub *subscription.Subscription) error
	GetByIDFunc                     func(ctx context.Context, id uint) (*subscription.Subscription, error)
	GetBySIDFunc                    func(ctx context.Context, sid string) (*subscription.Subscription, error)
	GetByProviderSubscriptionIDFunc func(ctx context.Context, providerID string) (*subscription.Subscription, error)
	GetByUserIDFunc                 func(ctx context.Context, userID uint) ([]*subscription.Subscription, error)
	GetOpenByUserAndPlanFunc        func(ctx context.Context, userID, planID uint) ([]*subscription.Subscription, error)
	GetOpenByUserFunc               func(ctx context.Context, userID uint) ([]*subscription.Subscription, error)
}

func (m *mockSubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, sub)
	}
	return nil
}

func (m *mockSubscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, sub)
	}
	return nil
}

func (m *mockSubscriptionRepository) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) GetBySID(ctx context.Context, sid string) (*subscription.Subscription, error) {
	if m.GetBySIDFunc != nil {
		return m.GetBySIDFunc(ctx, sid)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) GetByProviderSubscriptionID(ctx context.Context, providerID string) (*subscription.Subscription, error) {
	if m.GetByProviderSubscriptionIDFunc != nil {
		return m.GetByProviderSubscriptionIDFunc(ctx, providerID)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) GetByUserID(ctx context.Context, userID uint) ([]*subscription.Subscription, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) GetOpenByUserAndPlan(ctx context.Context, userID, planID uint) ([]*subscription.Subscription, error) {
	if m.GetOpenByUserAndPlanFunc != nil {
		return m.GetOpenByUserAndPlanFunc(ctx, userID, planID)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) GetOpenByUser(ctx context.Context, userID uint) ([]*subscription.Subscription, error) {
	if m.GetOpenByUserFunc != nil {
		return m.GetOpenByUserFunc(ctx, userID)
	}
	return nil, nil
}

type mockPlanRepository struct {
	CreateFunc     func(ctx context.Context, plan *subscription.Plan) error
	UpdateFunc     func(ctx context.Context, plan *subscription.Plan) error
	GetByIDFunc    func(ctx context.Context, id uint) (*subscription.Plan, error)
	GetBySIDFunc   func(ctx context.Context, sid string) (*subscription.Plan, error)
	ListActiveFunc func(ctx context.Context) ([]*subscription.Plan, error)
}

func (m *mockPlanRepository) Create(ctx context.Context, plan *subscription.Plan) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, plan)
	}
	return nil
}

func (m *mockPlanRepository) Update(ctx context.Context, plan *subscription.Plan) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, plan)
	}
	return nil
}

func (m *mockPlanRepository) GetByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockPlanRepository) GetBySID(ctx context.Context, sid string) (*subscription.Plan, error) {
	if m.GetBySIDFunc != nil {
		return m.GetBySIDFunc(ctx, sid)
	}
	return nil, nil
}

func (m *mockPlanRepository) ListActive(ctx context.Context) ([]*subscription.Plan, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return nil, nil
}

type mockUpgradeAttemptRepository struct {
	CreateFunc                 func(ctx context.Context, attempt *subscription.UpgradeAttempt) error
	UpdateFunc                 func(ctx context.Context, attempt *subscription.UpgradeAttempt) error
	GetByIDFunc                func(ctx context.Context, id uint) (*subscription.UpgradeAttempt, error)
	ListFailedWithExposureFunc func(ctx context.Context) ([]*subscription.UpgradeAttempt, error)
}

func (m *mockUpgradeAttemptRepository) Create(ctx context.Context, attempt *subscription.UpgradeAttempt) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, attempt)
	}
	return nil
}

func (m *mockUpgradeAttemptRepository) Update(ctx context.Context, attempt *subscription.UpgradeAttempt) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, attempt)
	}
	return nil
}

func (m *mockUpgradeAttemptRepository) GetByID(ctx context.Context, id uint) (*subscription.UpgradeAttempt, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUpgradeAttemptRepository) ListFailedWithExposure(ctx context.Context) ([]*subscription.UpgradeAttempt, error) {
	if m.ListFailedWithExposureFunc != nil {
		return m.ListFailedWithExposureFunc(ctx)
	}
	return nil, nil
}

type mockUserRepository struct {
	GetByIDFunc    func(ctx context.Context, id uint) (*user.User, error)
	GetBySIDFunc   func(ctx context.Context, sid string) (*user.User, error)
	UpdateRoleFunc func(ctx context.Context, userID uint, role user.Role) error
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepository) GetBySID(ctx context.Context, sid string) (*user.User, error) {
	if m.GetBySIDFunc != nil {
		return m.GetBySIDFunc(ctx, sid)
	}
	return nil, nil
}

func (m *mockUserRepository) UpdateRole(ctx context.Context, userID uint, role user.Role) error {
	if m.UpdateRoleFunc != nil {
		return m.UpdateRoleFunc(ctx, userID, role)
	}
	return nil
}

type mockPaymentRepository struct {
	CreateIfAbsentFunc         func(ctx context.Context, p *payment.Payment) (bool, error)
	MarkProcessedFunc          func(ctx context.Context, providerPaymentID string, at time.Time) error
	GetByProviderPaymentIDFunc func(ctx context.Context, providerPaymentID string) (*payment.Payment, error)
	GetBySubscriptionIDFunc    func(ctx context.Context, subscriptionID uint) ([]*payment.Payment, error)
}

func (m *mockPaymentRepository) CreateIfAbsent(ctx context.Context, p *payment.Payment) (bool, error) {
	if m.CreateIfAbsentFunc != nil {
		return m.CreateIfAbsentFunc(ctx, p)
	}
	return true, nil
}

func (m *mockPaymentRepository) MarkProcessed(ctx context.Context, providerPaymentID string, at time.Time) error {
	if m.MarkProcessedFunc != nil {
		return m.MarkProcessedFunc(ctx, providerPaymentID, at)
	}
	return nil
}

func (m *mockPaymentRepository) GetByProviderPaymentID(ctx context.Context, providerPaymentID string) (*payment.Payment, error) {
	if m.GetByProviderPaymentIDFunc != nil {
		return m.GetByProviderPaymentIDFunc(ctx, providerPaymentID)
	}
	return nil, nil
}

func (m *mockPaymentRepository) GetBySubscriptionID(ctx context.Context, subscriptionID uint) ([]*payment.Payment, error) {
	if m.GetBySubscriptionIDFunc != nil {
		return m.GetBySubscriptionIDFunc(ctx, subscriptionID)
	}
	return nil, nil
}

type mockBookingRepository struct {
	UpdateFunc                 func(ctx context.Context, b *booking.Booking) error
	GetByIDFunc                func(ctx context.Context, id uint) (*booking.Booking, error)
	GetBySIDFunc               func(ctx context.Context, sid string) (*booking.Booking, error)
	GetByExternalReferenceFunc func(ctx context.Context, externalReference string) (*booking.Booking, error)
}

func (m *mockBookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, b)
	}
	return nil
}

func (m *mockBookingRepository) GetByID(ctx context.Context, id uint) (*booking.Booking, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockBookingRepository) GetBySID(ctx context.Context, sid string) (*booking.Booking, error) {
	if m.GetBySIDFunc != nil {
		return m.GetBySIDFunc(ctx, sid)
	}
	return nil, nil
}

func (m *mockBookingRepository) GetByExternalReference(ctx context.Context, externalReference string) (*booking.Booking, error) {
	if m.GetByExternalReferenceFunc != nil {
		return m.GetByExternalReferenceFunc(ctx, externalReference)
	}
	return nil, nil
}
