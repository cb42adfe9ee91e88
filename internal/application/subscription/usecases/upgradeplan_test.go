package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andar-inc/andar/internal/application/billing/provider"
	billingusecases "github.com/andar-inc/andar/internal/application/billing/usecases"
	"github.com/andar-inc/andar/internal/domain/subscription"
	subscriptionVO "github.com/andar-inc/andar/internal/domain/subscription/valueobjects"
	"github.com/andar-inc/andar/internal/domain/user"
	apperrors "github.com/andar-inc/andar/internal/shared/errors"
)

type upgradeFixture struct {
	uc          *UpgradePlanUseCase
	provider    *provider.MockProvider
	subRepo     *mockSubscriptionRepository
	attemptRepo *mockUpgradeAttemptRepository

	subs     map[uint]*subscription.Subscription
	attempts map[uint]*subscription.UpgradeAttempt
}

func newUpgradeFixture(t *testing.T) *upgradeFixture {
	t.Helper()
	f := &upgradeFixture{
		provider:    provider.NewMockProvider(),
		subRepo:     &mockSubscriptionRepository{},
		attemptRepo: &mockUpgradeAttemptRepository{},
		subs:        make(map[uint]*subscription.Subscription),
		attempts:    make(map[uint]*subscription.UpgradeAttempt),
	}

	var nextSubID uint = 100
	f.subRepo.CreateFunc = func(ctx context.Context, sub *subscription.Subscription) error {
		nextSubID++
		if err := sub.SetID(nextSubID); err != nil {
			return err
		}
		f.subs[sub.ID()] = sub
		return nil
	}
	f.subRepo.GetByIDFunc = func(ctx context.Context, id uint) (*subscription.Subscription, error) {
		return f.subs[id], nil
	}
	f.subRepo.GetByProviderSubscriptionIDFunc = func(ctx context.Context, providerID string) (*subscription.Subscription, error) {
		for _, s := range f.subs {
			if s.ProviderSubscriptionID() == providerID {
				return s, nil
			}
		}
		return nil, nil
	}
	f.subRepo.GetBySIDFunc = func(ctx context.Context, sid string) (*subscription.Subscription, error) {
		for _, s := range f.subs {
			if s.SID() == sid {
				return s, nil
			}
		}
		return nil, nil
	}

	var nextAttemptID uint
	f.attemptRepo.CreateFunc = func(ctx context.Context, a *subscription.UpgradeAttempt) error {
		nextAttemptID++
		if err := a.SetID(nextAttemptID); err != nil {
			return err
		}
		f.attempts[a.ID()] = a
		return nil
	}
	f.attemptRepo.GetByIDFunc = func(ctx context.Context, id uint) (*subscription.UpgradeAttempt, error) {
		return f.attempts[id], nil
	}

	planRepo := &mockPlanRepository{}
	newPlan := reconstructPlan(t, 42, "mp-plan-42", true)
	planRepo.GetByIDFunc = func(ctx context.Context, id uint) (*subscription.Plan, error) {
		if id == 42 {
			return newPlan, nil
		}
		return nil, nil
	}

	userRepo := &mockUserRepository{}
	u := reconstructUser(t, 7, user.RoleSubscriber)
	userRepo.GetByIDFunc = func(ctx context.Context, id uint) (*user.User, error) {
		if id == 7 {
			return u, nil
		}
		return nil, nil
	}

	resolver := testResolver()
	createUC := NewCreateSubscriptionUseCase(
		f.subRepo, planRepo, userRepo, f.provider, resolver, testBackURL, noopLogger{},
	)
	engine := billingusecases.NewProcessNotificationUseCase(
		f.provider, resolver, f.subRepo, &mockPaymentRepository{}, &mockBookingRepository{}, nil, nil, noopLogger{},
	)
	verifyUC := NewVerifySubscriptionUseCase(f.subRepo, f.provider, resolver, engine, noopLogger{})

	f.uc = NewUpgradePlanUseCase(
		f.subRepo, planRepo, f.attemptRepo, createUC, verifyUC, f.provider, resolver, noopLogger{},
	)
	return f
}

func (f *upgradeFixture) seedActiveSubscription(t *testing.T) *subscription.Subscription {
	t.Helper()
	current := reconstructOwnedSub(t, 1, 7, 10, subscriptionVO.StatusActive, "mp-pre-old")
	f.subs[1] = current
	f.provider.AddPreapproval(&provider.Preapproval{ID: "mp-pre-old", Status: "authorized"})
	return current
}

func startCmd() StartUpgradeCommand {
	return StartUpgradeCommand{
		UserID:                7,
		CurrentSubscriptionID: 1,
		NewPlanID:             42,
		CardTokenID:           "card-token-2",
		PayerEmail:            "payer@example.com",
	}
}

func TestUpgradePlan_Execute_FullUpgrade(t *testing.T) {
	f := newUpgradeFixture(t)
	current := f.seedActiveSubscription(t)

	result, err := f.uc.Execute(context.Background(), startCmd())
	require.NoError(t, err)

	assert.Equal(t, subscription.UpgradePhase2Done, result.Attempt.Phase())
	assert.Equal(t, subscriptionVO.StatusCancelled, current.Status())
	assert.Equal(t, []string{"mp-pre-old"}, f.provider.CancelCalls)

	newSub := f.subs[result.Attempt.ToSubscriptionID()]
	require.NotNil(t, newSub)
	assert.Equal(t, uint(42), newSub.PlanID())
	// The replacement awaits its own authorization; the webhook or a later
	// verification activates it.
	assert.Equal(t, subscriptionVO.StatusPending, newSub.Status())
}

func TestUpgradePlan_Execute_KeyedBySID(t *testing.T) {
	// API clients only ever hold the SID, so the saga must be drivable
	// without knowing the internal numeric id.
	f := newUpgradeFixture(t)
	current := f.seedActiveSubscription(t)

	cmd := startCmd()
	cmd.CurrentSubscriptionID = 0
	cmd.CurrentSubscriptionSID = current.SID()

	result, err := f.uc.Execute(context.Background(), cmd)
	require.NoError(t, err)

	assert.Equal(t, subscription.UpgradePhase2Done, result.Attempt.Phase())
	assert.Equal(t, subscriptionVO.StatusCancelled, current.Status())
}

func TestUpgradePlan_StartUpgrade_MissingIdentifier(t *testing.T) {
	f := newUpgradeFixture(t)
	f.seedActiveSubscription(t)

	cmd := startCmd()
	cmd.CurrentSubscriptionID = 0

	_, err := f.uc.StartUpgrade(context.Background(), cmd)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestUpgradePlan_StartUpgrade_Validation(t *testing.T) {
	tests := []struct {
		name string
		mut  func(f *upgradeFixture, cmd *StartUpgradeCommand)
	}{
		{"subscription not found", func(f *upgradeFixture, cmd *StartUpgradeCommand) {
			cmd.CurrentSubscriptionID = 99
		}},
		{"not the owner", func(f *upgradeFixture, cmd *StartUpgradeCommand) {
			cmd.UserID = 8
		}},
		{"same plan", func(f *upgradeFixture, cmd *StartUpgradeCommand) {
			cmd.NewPlanID = 10
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUpgradeFixture(t)
			f.seedActiveSubscription(t)
			cmd := startCmd()
			tt.mut(f, &cmd)

			_, err := f.uc.StartUpgrade(context.Background(), cmd)
			assert.Error(t, err)
			assert.Empty(t, f.provider.CreateCalls)
		})
	}
}

func TestUpgradePlan_StartUpgrade_ClosedSubscription(t *testing.T) {
	f := newUpgradeFixture(t)
	f.subs[1] = reconstructOwnedSub(t, 1, 7, 10, subscriptionVO.StatusCancelled, "mp-pre-old")

	_, err := f.uc.StartUpgrade(context.Background(), startCmd())
	assert.True(t, apperrors.IsValidationError(err))
}

func TestUpgradePlan_Phase1FailureHasNoExposure(t *testing.T) {
	f := newUpgradeFixture(t)
	f.seedActiveSubscription(t)
	f.provider.CreateErr = errors.New("provider unavailable")

	_, err := f.uc.StartUpgrade(context.Background(), startCmd())
	require.Error(t, err)

	require.Len(t, f.attempts, 1)
	for _, a := range f.attempts {
		assert.Equal(t, subscription.UpgradeFailed, a.Phase())
		assert.False(t, a.HasBillingExposure())
	}
	// Old subscription untouched.
	assert.Equal(t, subscriptionVO.StatusActive, f.subs[1].Status())
	assert.Empty(t, f.provider.CancelCalls)
}

func TestUpgradePlan_Phase2CancelFailureIsBillingExposure(t *testing.T) {
	f := newUpgradeFixture(t)
	f.seedActiveSubscription(t)

	phase1, err := f.uc.StartUpgrade(context.Background(), startCmd())
	require.NoError(t, err)
	require.Equal(t, subscription.UpgradePhase1Done, phase1.Attempt.Phase())

	f.provider.CancelErr = errors.New("provider timeout")

	_, err = f.uc.ChangePlan(context.Background(), ChangePlanCommand{
		UserID: 7, AttemptID: phase1.Attempt.ID(),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsBillingExposureError(err))

	assert.Equal(t, subscription.UpgradeFailed, phase1.Attempt.Phase())
	assert.True(t, phase1.Attempt.HasBillingExposure())
	// Local state keeps both subscriptions as the provider sees them.
	assert.Equal(t, subscriptionVO.StatusActive, f.subs[1].Status())
}

func TestUpgradePlan_ChangePlan_PhaseGuard(t *testing.T) {
	f := newUpgradeFixture(t)
	f.seedActiveSubscription(t)

	attempt, err := subscription.NewUpgradeAttempt("upg_test00000001", 7, 1, 10, 42)
	require.NoError(t, err)
	require.NoError(t, f.attemptRepo.Create(context.Background(), attempt))

	// Still phase1_pending: phase 2 must refuse.
	_, err = f.uc.ChangePlan(context.Background(), ChangePlanCommand{UserID: 7, AttemptID: attempt.ID()})
	assert.True(t, apperrors.IsValidationError(err))

	// Someone else's attempt.
	require.NoError(t, attempt.CompletePhase1(101))
	_, err = f.uc.ChangePlan(context.Background(), ChangePlanCommand{UserID: 8, AttemptID: attempt.ID()})
	assert.True(t, apperrors.IsValidationError(err))
}
