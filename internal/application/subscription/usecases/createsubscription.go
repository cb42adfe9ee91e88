package usecases

import (
	"context"
	"fmt"

	"github.com/andar-inc/andar/internal/application/billing/credentials"
	"github.com/andar-inc/andar/internal/application/billing/provider"
	"github.com/andar-inc/andar/internal/domain/subscription"
	"github.com/andar-inc/andar/internal/domain/user"
	apperrors "github.com/andar-inc/andar/internal/shared/errors"
	"github.com/andar-inc/andar/internal/shared/biztime"
	"github.com/andar-inc/andar/internal/shared/id"
	"github.com/andar-inc/andar/internal/shared/logger"
)

type CreateSubscriptionCommand struct {
	UserID      uint
	PlanID      uint
	CardTokenID string
	PayerEmail  string
	// IsUpgrade skips duplicate prevention: during a plan change two
	// subscriptions legitimately coexist until phase 2 retires the old one.
	IsUpgrade bool
	// ExistingSubscriptionID sources the payer email and stored card
	// reference when upgrading.
	ExistingSubscriptionID uint
}

type CreateSubscriptionResult struct {
	Subscription *subscription.Subscription
	InitPoint    string
}

// CreateSubscriptionUseCase runs the creation flow: validate, create the
// provider preapproval from the single-use card token, persist the local
// projection in pending status. Activation only ever happens through
// reconciliation.
type CreateSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	planRepo         subscription.PlanRepository
	userRepo         user.Repository
	providerClient   provider.PaymentProvider
	resolver         *credentials.Resolver
	backURL          string
	logger           logger.Interface
}

func NewCreateSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	planRepo subscription.PlanRepository,
	userRepo user.Repository,
	providerClient provider.PaymentProvider,
	resolver *credentials.Resolver,
	backURL string,
	log logger.Interface,
) *CreateSubscriptionUseCase {
	return &CreateSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		userRepo:         userRepo,
		providerClient:   providerClient,
		resolver:         resolver,
		backURL:          backURL,
		logger:           log,
	}
}

func (uc *CreateSubscriptionUseCase) Execute(ctx context.Context, cmd CreateSubscriptionCommand) (*CreateSubscriptionResult, error) {
	if cmd.CardTokenID == "" {
		return nil, apperrors.NewValidationError("card token is required")
	}

	plan, err := uc.planRepo.GetByID(ctx, cmd.PlanID)
	if err != nil {
		uc.logger.Errorw("failed to get plan", "plan_id", cmd.PlanID, "error", err)
		return nil, fmt.Errorf("get plan: %w", err)
	}
	if plan == nil {
		return nil, apperrors.NewNotFoundError("plan not found")
	}
	if !plan.IsActive() {
		return nil, apperrors.NewValidationError("plan is not active")
	}
	if !plan.IsSynced() {
		return nil, apperrors.NewValidationError("plan is not synced to the payment provider")
	}

	targetUser, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to get user", "user_id", cmd.UserID, "error", err)
		return nil, fmt.Errorf("get user: %w", err)
	}
	if targetUser == nil {
		return nil, apperrors.NewNotFoundError("user not found")
	}

	if !cmd.IsUpgrade {
		open, err := uc.subscriptionRepo.GetOpenByUser(ctx, cmd.UserID)
		if err != nil {
			uc.logger.Errorw("failed to check open subscriptions", "user_id", cmd.UserID, "error", err)
			return nil, fmt.Errorf("check open subscriptions: %w", err)
		}
		if len(open) > 0 {
			return nil, apperrors.NewConflictError("user already has a pending or active subscription")
		}
	}

	payerEmail, storedCardID, err := uc.resolvePaymentContext(ctx, cmd)
	if err != nil {
		return nil, err
	}

	ref, err := subscription.NewExternalReference(plan.ID(), cmd.UserID)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid plan/user pair", err.Error())
	}

	// Only the new single-use token goes to the provider. A stored card id
	// from a prior subscription is kept for audit, never replayed as a token.
	pre, err := uc.providerClient.CreatePreapproval(ctx, provider.CreatePreapprovalRequest{
		PlanID:            plan.ProviderPlanID(),
		CardTokenID:       cmd.CardTokenID,
		PayerEmail:        payerEmail,
		ExternalReference: ref.Encode(),
		Reason:            plan.Name(),
		BackURL:           uc.backURL,
		AmountCents:       plan.PriceCents(),
		Currency:          plan.Currency(),
		FrequencyMonths:   plan.BillingCycle().FrequencyMonths(),
	}, uc.resolver.SubscriptionsCredential())
	if err != nil {
		uc.logger.Errorw("failed to create provider preapproval",
			"user_id", cmd.UserID, "plan_id", plan.ID(), "error", err)
		return nil, fmt.Errorf("create provider subscription: %w", err)
	}

	sub, err := subscription.NewSubscription(
		id.MustGenerateWithPrefix(id.PrefixSubscription),
		cmd.UserID,
		plan.ID(),
		plan.Name(),
		payerEmail,
		plan.PriceCents(),
		plan.Currency(),
		plan.BillingCycle(),
		biztime.NowUTC(),
		cmd.UserID,
	)
	if err != nil {
		uc.logger.Errorw("failed to build subscription", "user_id", cmd.UserID, "error", err)
		return nil, fmt.Errorf("build subscription: %w", err)
	}

	if err := sub.SetProviderSubscriptionID(pre.ID); err != nil {
		return nil, fmt.Errorf("set provider subscription id: %w", err)
	}
	sub.SetMetadata(subscription.MetaExternalReference, ref.Encode())
	sub.SetMetadata(subscription.MetaInitPoint, pre.InitPoint)
	sub.SetMetadata(subscription.MetaCardTokenID, cmd.CardTokenID)
	if storedCardID != "" {
		sub.SetMetadata(subscription.MetaCardID, storedCardID)
	} else if pre.CardID != "" {
		sub.SetMetadata(subscription.MetaCardID, pre.CardID)
	}
	sub.RecordProviderStatus(pre.Status)

	if err := uc.subscriptionRepo.Create(ctx, sub); err != nil {
		uc.logger.Errorw("failed to persist subscription",
			"user_id", cmd.UserID,
			"provider_subscription_id", pre.ID,
			"error", err,
		)
		// The provider-side preapproval exists; the first webhook's
		// external-reference fallback cannot help without a local row, so
		// this must be visible in logs with the provider id for replay.
		return nil, fmt.Errorf("persist subscription for preapproval %s: %w", pre.ID, err)
	}

	uc.logger.Infow("subscription created",
		"subscription_id", sub.ID(),
		"user_id", cmd.UserID,
		"plan_id", plan.ID(),
		"provider_subscription_id", pre.ID,
		"is_upgrade", cmd.IsUpgrade,
	)

	return &CreateSubscriptionResult{Subscription: sub, InitPoint: pre.InitPoint}, nil
}

// resolvePaymentContext determines the payer email and any stored card id.
// On upgrade the prior subscription is the source of record; the provider's
// current preapproval object is the fallback for a missing card id or email.
// Guessing an email (for example from the user account) is never allowed.
func (uc *CreateSubscriptionUseCase) resolvePaymentContext(ctx context.Context, cmd CreateSubscriptionCommand) (string, string, error) {
	payerEmail := cmd.PayerEmail
	storedCardID := ""

	if cmd.IsUpgrade && cmd.ExistingSubscriptionID != 0 {
		prior, err := uc.subscriptionRepo.GetByID(ctx, cmd.ExistingSubscriptionID)
		if err != nil {
			uc.logger.Errorw("failed to get prior subscription",
				"subscription_id", cmd.ExistingSubscriptionID, "error", err)
			return "", "", fmt.Errorf("get prior subscription: %w", err)
		}
		if prior != nil {
			if payerEmail == "" {
				payerEmail = prior.SubscriptionEmail()
			}
			storedCardID = prior.MetadataString(subscription.MetaCardID)

			if (storedCardID == "" || payerEmail == "") && prior.ProviderSubscriptionID() != "" {
				pre, err := uc.providerClient.GetPreapproval(ctx, prior.ProviderSubscriptionID(), uc.resolver.SubscriptionsCredential())
				if err != nil {
					uc.logger.Warnw("failed to fetch prior preapproval for payment context",
						"provider_subscription_id", prior.ProviderSubscriptionID(), "error", err)
				} else {
					if storedCardID == "" {
						storedCardID = pre.CardID
					}
					if payerEmail == "" {
						payerEmail = pre.PayerEmail
					}
				}
			}
		}
	}

	if payerEmail == "" {
		return "", "", apperrors.NewValidationError("missing payer email")
	}
	return payerEmail, storedCardID, nil
}
