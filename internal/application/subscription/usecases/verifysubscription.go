package usecases

import (
	"context"
	"fmt"

	"github.com/andar-inc/andar/internal/application/billing/credentials"
	"github.com/andar-inc/andar/internal/application/billing/provider"
	billingusecases "github.com/andar-inc/andar/internal/application/billing/usecases"
	"github.com/andar-inc/andar/internal/domain/subscription"
	apperrors "github.com/andar-inc/andar/internal/shared/errors"
	"github.com/andar-inc/andar/internal/shared/logger"
)

type VerifySubscriptionCommand struct {
	// Exactly one identifier is required. API clients hold the SID (handed
	// out at creation) or the provider id (handed back by the checkout
	// redirect); the numeric id is for in-process callers.
	SubscriptionID         uint
	SubscriptionSID        string
	ProviderSubscriptionID string
}

type VerifySubscriptionResult struct {
	// Status is the local subscription status after verification.
	Status string
	// ProviderStatus is the authoritative provider-side status observed.
	ProviderStatus string
	// RetryLater is set when the provider still reports the authorization
	// as pending; the caller should poll again.
	RetryLater bool
}

// VerifySubscriptionUseCase is the active counterpart of webhook-driven
// reconciliation: it polls the provider for a subscription's authoritative
// state and feeds the result through the same reconciliation path a webhook
// would take, so both entry points converge on identical writes.
type VerifySubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	providerClient   provider.PaymentProvider
	resolver         *credentials.Resolver
	engine           *billingusecases.ProcessNotificationUseCase
	logger           logger.Interface
}

func NewVerifySubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	providerClient provider.PaymentProvider,
	resolver *credentials.Resolver,
	engine *billingusecases.ProcessNotificationUseCase,
	log logger.Interface,
) *VerifySubscriptionUseCase {
	return &VerifySubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		providerClient:   providerClient,
		resolver:         resolver,
		engine:           engine,
		logger:           log,
	}
}

func (uc *VerifySubscriptionUseCase) Execute(ctx context.Context, cmd VerifySubscriptionCommand) (*VerifySubscriptionResult, error) {
	providerID := cmd.ProviderSubscriptionID
	var sub *subscription.Subscription

	if providerID == "" {
		var err error
		switch {
		case cmd.SubscriptionSID != "":
			sub, err = uc.subscriptionRepo.GetBySID(ctx, cmd.SubscriptionSID)
		case cmd.SubscriptionID != 0:
			sub, err = uc.subscriptionRepo.GetByID(ctx, cmd.SubscriptionID)
		default:
			return nil, apperrors.NewValidationError("subscription identifier is required")
		}
		if err != nil {
			uc.logger.Errorw("failed to get subscription",
				"subscription_id", cmd.SubscriptionID,
				"subscription_sid", cmd.SubscriptionSID,
				"error", err)
			return nil, fmt.Errorf("get subscription: %w", err)
		}
		if sub == nil {
			return nil, apperrors.NewNotFoundError("subscription not found")
		}
		providerID = sub.ProviderSubscriptionID()
		if providerID == "" {
			return nil, apperrors.NewValidationError("subscription has no provider-side record to verify")
		}
	}

	pre, err := uc.providerClient.GetPreapproval(ctx, providerID, uc.resolver.SubscriptionsCredential())
	if err != nil {
		uc.logger.Errorw("failed to fetch preapproval for verification",
			"provider_subscription_id", providerID, "error", err)
		return nil, fmt.Errorf("fetch preapproval %s: %w", providerID, err)
	}

	if pre.Status == "pending" {
		// Not authorized yet. No local write; the caller polls again or the
		// webhook finishes the job.
		uc.logger.Infow("preapproval still pending authorization",
			"provider_subscription_id", providerID)
		status := ""
		if sub != nil {
			status = sub.Status().String()
		}
		return &VerifySubscriptionResult{
			Status:         status,
			ProviderStatus: pre.Status,
			RetryLater:     true,
		}, nil
	}

	// Any decided status goes through the same path a webhook delivery would,
	// including the external-reference fallback and side-effect dispatch.
	n := billingusecases.Notification{
		Type:   billingusecases.NotificationTypePreapproval,
		Action: "verify",
		DataID: providerID,
	}
	if err := uc.engine.Execute(ctx, n); err != nil {
		uc.logger.Errorw("verification reconciliation failed",
			"provider_subscription_id", providerID, "error", err)
		return nil, fmt.Errorf("reconcile preapproval %s: %w", providerID, err)
	}

	refreshed, err := uc.subscriptionRepo.GetByProviderSubscriptionID(ctx, providerID)
	if err != nil {
		uc.logger.Errorw("failed to reload subscription after verification",
			"provider_subscription_id", providerID, "error", err)
		return nil, fmt.Errorf("reload subscription: %w", err)
	}

	status := ""
	if refreshed != nil {
		status = refreshed.Status().String()
	}
	return &VerifySubscriptionResult{
		Status:         status,
		ProviderStatus: pre.Status,
	}, nil
}
