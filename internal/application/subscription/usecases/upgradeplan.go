package usecases

import (
	"context"
	"fmt"

	"github.com/andar-inc/andar/internal/application/billing/credentials"
	"github.com/andar-inc/andar/internal/application/billing/provider"
	"github.com/andar-inc/andar/internal/domain/subscription"
	apperrors "github.com/andar-inc/andar/internal/shared/errors"
	"github.com/andar-inc/andar/internal/shared/id"
	"github.com/andar-inc/andar/internal/shared/logger"
)

type StartUpgradeCommand struct {
	UserID uint
	// One of the two identifiers selects the subscription being replaced.
	// API clients send the SID; the numeric id is for in-process callers.
	CurrentSubscriptionID  uint
	CurrentSubscriptionSID string
	NewPlanID              uint
	CardTokenID            string
	PayerEmail             string
}

type StartUpgradeResult struct {
	Attempt         *subscription.UpgradeAttempt
	NewSubscription *subscription.Subscription
	InitPoint       string
}

type ChangePlanCommand struct {
	UserID    uint
	AttemptID uint
}

type ChangePlanResult struct {
	Attempt *subscription.UpgradeAttempt
	// NewStatus is the new subscription's status after phase 2, which may
	// still be pending if the authorizing webhook has not arrived.
	NewStatus string
}

// UpgradePlanUseCase orchestrates the two-phase plan change. The provider
// has no atomic "replace subscription" operation, so the protocol is
// create-new-then-cancel-old with an UpgradeAttempt saga record making
// partial failures queryable.
//
// Phase 1 failure touches no old state and is safe to retry. Phase 2
// failure after phase 1 leaves two provider-side subscriptions billing;
// that is recorded as billing exposure and surfaced to the operator path,
// never retried automatically (retrying cancellation is safe, retrying
// creation would mint a third subscription).
type UpgradePlanUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	planRepo         subscription.PlanRepository
	attemptRepo      subscription.UpgradeAttemptRepository
	createUC         *CreateSubscriptionUseCase
	verifyUC         *VerifySubscriptionUseCase
	providerClient   provider.PaymentProvider
	resolver         *credentials.Resolver
	logger           logger.Interface
}

func NewUpgradePlanUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	planRepo subscription.PlanRepository,
	attemptRepo subscription.UpgradeAttemptRepository,
	createUC *CreateSubscriptionUseCase,
	verifyUC *VerifySubscriptionUseCase,
	providerClient provider.PaymentProvider,
	resolver *credentials.Resolver,
	log logger.Interface,
) *UpgradePlanUseCase {
	return &UpgradePlanUseCase{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		attemptRepo:      attemptRepo,
		createUC:         createUC,
		verifyUC:         verifyUC,
		providerClient:   providerClient,
		resolver:         resolver,
		logger:           log,
	}
}

// Execute runs both phases back to back: phase 1 creates the replacement
// subscription, phase 2 retires the old one. The attempt record survives a
// crash between the two, so a half-done upgrade is visible, not silent.
func (uc *UpgradePlanUseCase) Execute(ctx context.Context, cmd StartUpgradeCommand) (*ChangePlanResult, error) {
	phase1, err := uc.StartUpgrade(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return uc.ChangePlan(ctx, ChangePlanCommand{
		UserID:    cmd.UserID,
		AttemptID: phase1.Attempt.ID(),
	})
}

// StartUpgrade runs phase 1: create the new subscription in upgrade mode.
// On success two subscriptions coexist locally and at the provider until
// ChangePlan retires the old one.
func (uc *UpgradePlanUseCase) StartUpgrade(ctx context.Context, cmd StartUpgradeCommand) (*StartUpgradeResult, error) {
	current, err := uc.currentSubscription(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperrors.NewNotFoundError("current subscription not found")
	}
	if current.UserID() != cmd.UserID {
		return nil, apperrors.NewValidationError("subscription does not belong to user")
	}
	if !current.IsOpen() {
		return nil, apperrors.NewValidationError("current subscription is not pending or active")
	}
	if current.PlanID() == cmd.NewPlanID {
		return nil, apperrors.NewValidationError("target plan must differ from current plan")
	}

	attempt, err := subscription.NewUpgradeAttempt(
		id.MustGenerateWithPrefix(id.PrefixUpgradeAttempt),
		cmd.UserID,
		current.ID(),
		current.PlanID(),
		cmd.NewPlanID,
	)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid upgrade request", err.Error())
	}
	if err := uc.attemptRepo.Create(ctx, attempt); err != nil {
		uc.logger.Errorw("failed to record upgrade attempt", "user_id", cmd.UserID, "error", err)
		return nil, fmt.Errorf("record upgrade attempt: %w", err)
	}

	result, err := uc.createUC.Execute(ctx, CreateSubscriptionCommand{
		UserID:                 cmd.UserID,
		PlanID:                 cmd.NewPlanID,
		CardTokenID:            cmd.CardTokenID,
		PayerEmail:             cmd.PayerEmail,
		IsUpgrade:              true,
		ExistingSubscriptionID: current.ID(),
	})
	if err != nil {
		// No old state was touched; the attempt closes and a retry starts fresh.
		uc.failAttempt(ctx, attempt, fmt.Sprintf("phase 1: %v", err))
		return nil, err
	}

	if err := attempt.CompletePhase1(result.Subscription.ID()); err != nil {
		uc.logger.Errorw("failed to advance upgrade attempt", "attempt_id", attempt.ID(), "error", err)
		return nil, fmt.Errorf("advance upgrade attempt: %w", err)
	}
	if err := uc.attemptRepo.Update(ctx, attempt); err != nil {
		uc.logger.Errorw("failed to persist upgrade attempt phase 1",
			"attempt_id", attempt.ID(), "error", err)
		return nil, fmt.Errorf("persist upgrade attempt: %w", err)
	}

	uc.logger.Infow("upgrade phase 1 complete",
		"attempt_id", attempt.ID(),
		"user_id", cmd.UserID,
		"old_subscription_id", current.ID(),
		"new_subscription_id", result.Subscription.ID(),
	)

	return &StartUpgradeResult{
		Attempt:         attempt,
		NewSubscription: result.Subscription,
		InitPoint:       result.InitPoint,
	}, nil
}

func (uc *UpgradePlanUseCase) currentSubscription(ctx context.Context, cmd StartUpgradeCommand) (*subscription.Subscription, error) {
	if cmd.CurrentSubscriptionSID != "" {
		sub, err := uc.subscriptionRepo.GetBySID(ctx, cmd.CurrentSubscriptionSID)
		if err != nil {
			uc.logger.Errorw("failed to get current subscription",
				"subscription_sid", cmd.CurrentSubscriptionSID, "error", err)
			return nil, fmt.Errorf("get current subscription: %w", err)
		}
		return sub, nil
	}
	if cmd.CurrentSubscriptionID == 0 {
		return nil, apperrors.NewValidationError("current subscription identifier is required")
	}
	sub, err := uc.subscriptionRepo.GetByID(ctx, cmd.CurrentSubscriptionID)
	if err != nil {
		uc.logger.Errorw("failed to get current subscription",
			"subscription_id", cmd.CurrentSubscriptionID, "error", err)
		return nil, fmt.Errorf("get current subscription: %w", err)
	}
	return sub, nil
}

// ChangePlan runs phase 2: cancel the old subscription at the provider and
// locally, then nudge the new subscription through verification in case its
// authorizing webhook has not arrived yet.
func (uc *UpgradePlanUseCase) ChangePlan(ctx context.Context, cmd ChangePlanCommand) (*ChangePlanResult, error) {
	attempt, err := uc.attemptRepo.GetByID(ctx, cmd.AttemptID)
	if err != nil {
		uc.logger.Errorw("failed to get upgrade attempt", "attempt_id", cmd.AttemptID, "error", err)
		return nil, fmt.Errorf("get upgrade attempt: %w", err)
	}
	if attempt == nil {
		return nil, apperrors.NewNotFoundError("upgrade attempt not found")
	}
	if attempt.UserID() != cmd.UserID {
		return nil, apperrors.NewValidationError("upgrade attempt does not belong to user")
	}
	if attempt.Phase() != subscription.UpgradePhase1Done {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("upgrade attempt is in phase %s, expected %s", attempt.Phase(), subscription.UpgradePhase1Done))
	}

	oldSub, err := uc.subscriptionRepo.GetByID(ctx, attempt.FromSubscriptionID())
	if err != nil {
		uc.logger.Errorw("failed to get old subscription",
			"subscription_id", attempt.FromSubscriptionID(), "error", err)
		return nil, fmt.Errorf("get old subscription: %w", err)
	}
	if oldSub == nil {
		return nil, apperrors.NewNotFoundError("old subscription not found")
	}

	if oldSub.ProviderSubscriptionID() != "" {
		if _, err := uc.providerClient.CancelPreapproval(ctx, oldSub.ProviderSubscriptionID(), uc.resolver.SubscriptionsCredential()); err != nil {
			uc.logger.Errorw("upgrade phase 2: provider cancel failed, old subscription still billing",
				"attempt_id", attempt.ID(),
				"old_subscription_id", oldSub.ID(),
				"provider_subscription_id", oldSub.ProviderSubscriptionID(),
				"error", err,
			)
			uc.failAttempt(ctx, attempt, fmt.Sprintf("phase 2: provider cancel failed: %v", err))
			return nil, apperrors.NewBillingExposureError(
				"failed to cancel old subscription at provider; both subscriptions are billing",
				err.Error(),
			)
		}
	}

	if changed, err := oldSub.Cancel(); err != nil {
		uc.logger.Warnw("old subscription not cancellable locally",
			"subscription_id", oldSub.ID(), "status", oldSub.Status().String(), "error", err)
	} else if changed {
		if err := uc.subscriptionRepo.Update(ctx, oldSub); err != nil {
			uc.logger.Errorw("failed to persist old subscription cancellation",
				"subscription_id", oldSub.ID(), "error", err)
			uc.failAttempt(ctx, attempt, fmt.Sprintf("phase 2: local cancel persist failed: %v", err))
			return nil, fmt.Errorf("persist cancellation of subscription %d: %w", oldSub.ID(), err)
		}
	}

	// Best effort: activate the new subscription now instead of waiting for
	// its webhook. A still-pending preapproval is fine; reconciliation will
	// finish the job.
	newStatus := ""
	newSub, err := uc.subscriptionRepo.GetByID(ctx, attempt.ToSubscriptionID())
	if err == nil && newSub != nil {
		newStatus = newSub.Status().String()
		if newSub.ProviderSubscriptionID() != "" {
			if vres, verr := uc.verifyUC.Execute(ctx, VerifySubscriptionCommand{
				ProviderSubscriptionID: newSub.ProviderSubscriptionID(),
			}); verr != nil {
				uc.logger.Warnw("verification of new subscription failed after phase 2",
					"subscription_id", newSub.ID(), "error", verr)
			} else {
				newStatus = vres.Status
			}
		}
	}

	if err := attempt.CompletePhase2(); err != nil {
		uc.logger.Errorw("failed to advance upgrade attempt", "attempt_id", attempt.ID(), "error", err)
		return nil, fmt.Errorf("advance upgrade attempt: %w", err)
	}
	if err := uc.attemptRepo.Update(ctx, attempt); err != nil {
		uc.logger.Errorw("failed to persist upgrade attempt phase 2",
			"attempt_id", attempt.ID(), "error", err)
		return nil, fmt.Errorf("persist upgrade attempt: %w", err)
	}

	uc.logger.Infow("upgrade phase 2 complete",
		"attempt_id", attempt.ID(),
		"old_subscription_id", attempt.FromSubscriptionID(),
		"new_subscription_id", attempt.ToSubscriptionID(),
		"new_status", newStatus,
	)

	return &ChangePlanResult{Attempt: attempt, NewStatus: newStatus}, nil
}

func (uc *UpgradePlanUseCase) failAttempt(ctx context.Context, attempt *subscription.UpgradeAttempt, outcome string) {
	if err := attempt.Fail(outcome); err != nil {
		uc.logger.Errorw("failed to mark upgrade attempt failed", "attempt_id", attempt.ID(), "error", err)
		return
	}
	if err := uc.attemptRepo.Update(ctx, attempt); err != nil {
		uc.logger.Errorw("failed to persist failed upgrade attempt", "attempt_id", attempt.ID(), "error", err)
	}
	if attempt.HasBillingExposure() {
		uc.logger.Errorw("upgrade attempt left billing exposure, operator attention required",
			"attempt_id", attempt.ID(),
			"user_id", attempt.UserID(),
			"old_subscription_id", attempt.FromSubscriptionID(),
			"new_subscription_id", attempt.ToSubscriptionID(),
			"outcome", outcome,
		)
	}
}
