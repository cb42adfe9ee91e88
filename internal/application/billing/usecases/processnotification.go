package usecases

import (
	"context"
	"fmt"

	"github.com/andar-inc/andar/internal/application/billing/credentials"
	"github.com/andar-inc/andar/internal/application/billing/provider"
	"github.com/andar-inc/andar/internal/domain/booking"
	"github.com/andar-inc/andar/internal/domain/payment"
	paymentVO "github.com/andar-inc/andar/internal/domain/payment/valueobjects"
	"github.com/andar-inc/andar/internal/domain/subscription"
	subscriptionVO "github.com/andar-inc/andar/internal/domain/subscription/valueobjects"
	"github.com/andar-inc/andar/internal/shared/biztime"
	"github.com/andar-inc/andar/internal/shared/id"
	"github.com/andar-inc/andar/internal/shared/logger"
)

// ProcessNotificationUseCase is the reconciliation engine. Given a raw
// webhook notification it fetches authoritative provider state, correlates
// it to a local entity, applies a state-machine transition, and triggers
// side effects. Deliveries are at-least-once and unordered; correctness
// comes from re-fetching provider state at processing time (last-fetch-wins)
// and from idempotent writes, never from delivery order.
//
// Errors returned here are logging signals only: the webhook handler always
// acknowledges with 200 and the provider's own redelivery is the retry
// mechanism.
type ProcessNotificationUseCase struct {
	providerClient   provider.PaymentProvider
	resolver         *credentials.Resolver
	subscriptionRepo subscription.SubscriptionRepository
	paymentRepo      payment.PaymentRepository
	bookingRepo      booking.BookingRepository
	entitlements     EntitlementSyncer
	userCache        UserCacheInvalidator
	logger           logger.Interface
}

func NewProcessNotificationUseCase(
	providerClient provider.PaymentProvider,
	resolver *credentials.Resolver,
	subscriptionRepo subscription.SubscriptionRepository,
	paymentRepo payment.PaymentRepository,
	bookingRepo booking.BookingRepository,
	entitlements EntitlementSyncer,
	userCache UserCacheInvalidator,
	log logger.Interface,
) *ProcessNotificationUseCase {
	return &ProcessNotificationUseCase{
		providerClient:   providerClient,
		resolver:         resolver,
		subscriptionRepo: subscriptionRepo,
		paymentRepo:      paymentRepo,
		bookingRepo:      bookingRepo,
		entitlements:     entitlements,
		userCache:        userCache,
		logger:           log,
	}
}

func (uc *ProcessNotificationUseCase) Execute(ctx context.Context, n Notification) error {
	switch {
	case n.Type == NotificationTypePayment:
		return uc.handlePayment(ctx, n)
	case n.IsPreapproval():
		return uc.handlePreapproval(ctx, n)
	default:
		uc.logger.Infow("unrecognized notification type, ignoring",
			"type", n.Type, "action", n.Action, "data_id", n.DataID)
		return nil
	}
}

func (uc *ProcessNotificationUseCase) handlePayment(ctx context.Context, n Notification) error {
	if n.DataID == "" {
		uc.logger.Warnw("payment notification without data id", "action", n.Action)
		return nil
	}

	candidates := uc.resolver.Candidates(ctx, n.ProviderUserID)
	pmt, cred, err := credentials.FetchPayment(ctx, uc.providerClient, n.DataID, candidates)
	if err != nil {
		uc.logger.Errorw("failed to fetch payment with any candidate credential",
			"payment_id", n.DataID,
			"provider_user_id", n.ProviderUserID,
			"candidates", len(candidates),
			"error", err,
		)
		return fmt.Errorf("fetch payment %s: %w", n.DataID, err)
	}

	uc.logger.Infow("fetched provider payment",
		"payment_id", pmt.ID,
		"credential", cred.Label,
		"status", pmt.Status,
		"operation_type", pmt.OperationType,
	)

	if pmt.OperationType == paymentVO.OperationTypeRecurringPayment {
		return uc.recordRecurringPayment(ctx, pmt)
	}
	return uc.reconcileBookingPayment(ctx, pmt)
}

// recordRecurringPayment appends the payment row (idempotently) and then
// reconciles the owning subscription's status from authoritative provider
// state.
func (uc *ProcessNotificationUseCase) recordRecurringPayment(ctx context.Context, pmt *provider.Payment) error {
	status, known := paymentVO.ParsePaymentStatus(pmt.Status)
	if !known {
		uc.logger.Warnw("recurring payment has unknown status, not recording",
			"payment_id", pmt.ID, "status", pmt.Status)
		return nil
	}

	sub := uc.locateSubscriptionByReference(ctx, pmt.ExternalReference)

	var subID *uint
	if sub != nil {
		v := sub.ID()
		subID = &v
	}

	row, err := payment.NewPayment(
		id.MustGenerateWithPrefix(id.PrefixPayment),
		subID,
		pmt.ID,
		pmt.TransactionAmountCents,
		pmt.Currency,
		status,
		pmt.StatusDetail,
		pmt.OperationType,
		pmt.ExternalReference,
	)
	if err != nil {
		uc.logger.Errorw("failed to build payment row", "payment_id", pmt.ID, "error", err)
		return fmt.Errorf("build payment row: %w", err)
	}

	inserted, err := uc.paymentRepo.CreateIfAbsent(ctx, row)
	if err != nil {
		uc.logger.Errorw("failed to record recurring payment", "payment_id", pmt.ID, "error", err)
		return fmt.Errorf("record payment %s: %w", pmt.ID, err)
	}
	if !inserted {
		uc.logger.Infow("recurring payment already recorded, duplicate delivery",
			"payment_id", pmt.ID)
	}

	if sub == nil {
		uc.logger.Warnw("no local subscription for recurring payment",
			"payment_id", pmt.ID, "external_reference", pmt.ExternalReference)
		return nil
	}

	if sub.ProviderSubscriptionID() == "" {
		uc.logger.Infow("local subscription has no provider id yet, skipping status reconciliation",
			"subscription_id", sub.ID(), "payment_id", pmt.ID)
		return nil
	}

	pre, err := uc.providerClient.GetPreapproval(ctx, sub.ProviderSubscriptionID(), uc.resolver.SubscriptionsCredential())
	if err != nil {
		// Payment is recorded; subscription status self-heals on the next
		// preapproval webhook or an explicit verification.
		uc.logger.Warnw("failed to fetch preapproval after recurring payment",
			"subscription_id", sub.ID(),
			"provider_subscription_id", sub.ProviderSubscriptionID(),
			"error", err,
		)
		return nil
	}

	if err := uc.applyPreapproval(ctx, pre, sub); err != nil {
		return err
	}

	if err := uc.paymentRepo.MarkProcessed(ctx, pmt.ID, biztime.NowUTC()); err != nil {
		uc.logger.Warnw("failed to mark payment processed", "payment_id", pmt.ID, "error", err)
	}
	return nil
}

// reconcileBookingPayment handles one-off (non-recurring) payments: locate
// the booking and mark it paid when the payment is approved.
func (uc *ProcessNotificationUseCase) reconcileBookingPayment(ctx context.Context, pmt *provider.Payment) error {
	b, err := uc.locateBooking(ctx, pmt)
	if err != nil {
		uc.logger.Errorw("failed to look up booking for payment", "payment_id", pmt.ID, "error", err)
		return err
	}
	if b == nil {
		uc.logger.Warnw("no booking found for one-off payment",
			"payment_id", pmt.ID,
			"external_reference", pmt.ExternalReference,
		)
		return nil
	}

	switch pmt.Status {
	case string(paymentVO.PaymentStatusApproved):
		if b.IsPaid() {
			uc.logger.Infow("booking already paid, duplicate delivery",
				"booking_id", b.ID(), "payment_id", pmt.ID)
			return nil
		}
		if err := b.MarkPaid(pmt.ID); err != nil {
			uc.logger.Warnw("cannot mark booking paid", "booking_id", b.ID(), "error", err)
			return nil
		}
		if err := uc.bookingRepo.Update(ctx, b); err != nil {
			uc.logger.Errorw("failed to persist paid booking", "booking_id", b.ID(), "error", err)
			return fmt.Errorf("update booking %d: %w", b.ID(), err)
		}
		uc.logger.Infow("booking marked paid", "booking_id", b.ID(), "payment_id", pmt.ID)
	case string(paymentVO.PaymentStatusRejected):
		// Never auto-retried; the traveler initiates a new payment attempt.
		uc.logger.Infow("booking payment rejected",
			"booking_id", b.ID(), "payment_id", pmt.ID, "status_detail", pmt.StatusDetail)
	default:
		uc.logger.Infow("booking payment in non-final status, no action",
			"booking_id", b.ID(), "payment_id", pmt.ID, "status", pmt.Status)
	}
	return nil
}

func (uc *ProcessNotificationUseCase) locateBooking(ctx context.Context, pmt *provider.Payment) (*booking.Booking, error) {
	if bookingSID := pmt.Metadata["booking_id"]; bookingSID != "" {
		b, err := uc.bookingRepo.GetBySID(ctx, bookingSID)
		if err != nil {
			return nil, err
		}
		if b != nil {
			return b, nil
		}
	}
	if pmt.ExternalReference == "" {
		return nil, nil
	}
	return uc.bookingRepo.GetByExternalReference(ctx, pmt.ExternalReference)
}

func (uc *ProcessNotificationUseCase) handlePreapproval(ctx context.Context, n Notification) error {
	if n.DataID == "" {
		uc.logger.Warnw("preapproval notification without data id", "action", n.Action)
		return nil
	}

	pre, err := uc.providerClient.GetPreapproval(ctx, n.DataID, uc.resolver.SubscriptionsCredential())
	if err != nil {
		uc.logger.Errorw("failed to fetch preapproval",
			"preapproval_id", n.DataID, "action", n.Action, "error", err)
		return fmt.Errorf("fetch preapproval %s: %w", n.DataID, err)
	}

	sub, err := uc.locateSubscriptionForPreapproval(ctx, pre)
	if err != nil {
		return err
	}
	if sub == nil {
		uc.logger.Warnw("no local subscription for preapproval",
			"preapproval_id", pre.ID,
			"external_reference", pre.ExternalReference,
			"provider_status", pre.Status,
		)
		return nil
	}

	return uc.applyPreapproval(ctx, pre, sub)
}

// locateSubscriptionForPreapproval correlates a provider preapproval to the
// local record: provider id first, then the external-reference fallback scan
// that closes the race where a webhook beats the creation flow's persist of
// the provider id. A successful fallback match backfills the provider id.
func (uc *ProcessNotificationUseCase) locateSubscriptionForPreapproval(ctx context.Context, pre *provider.Preapproval) (*subscription.Subscription, error) {
	sub, err := uc.subscriptionRepo.GetByProviderSubscriptionID(ctx, pre.ID)
	if err != nil {
		uc.logger.Errorw("failed to look up subscription by provider id",
			"preapproval_id", pre.ID, "error", err)
		return nil, fmt.Errorf("lookup by provider id %s: %w", pre.ID, err)
	}
	if sub != nil {
		return sub, nil
	}

	sub = uc.locateSubscriptionByReference(ctx, pre.ExternalReference)
	if sub == nil {
		return nil, nil
	}

	if err := sub.SetProviderSubscriptionID(pre.ID); err != nil {
		uc.logger.Warnw("failed to backfill provider subscription id",
			"subscription_id", sub.ID(), "preapproval_id", pre.ID, "error", err)
	} else {
		uc.logger.Infow("backfilled provider subscription id via external reference",
			"subscription_id", sub.ID(), "preapproval_id", pre.ID)
	}
	return sub, nil
}

// locateSubscriptionByReference finds the newest pending/active subscription
// for the (plan, user) encoded in the reference. When a user has two open
// subscriptions for the same plan (a retried creation), the match is
// inherently ambiguous; the newest wins.
func (uc *ProcessNotificationUseCase) locateSubscriptionByReference(ctx context.Context, externalReference string) *subscription.Subscription {
	if !subscription.IsSubscriptionReference(externalReference) {
		return nil
	}

	ref, err := subscription.DecodeExternalReference(externalReference)
	if err != nil {
		uc.logger.Warnw("malformed external reference", "external_reference", externalReference, "error", err)
		return nil
	}

	subs, err := uc.subscriptionRepo.GetOpenByUserAndPlan(ctx, ref.UserID, ref.PlanID)
	if err != nil {
		uc.logger.Errorw("failed to scan subscriptions by reference",
			"user_id", ref.UserID, "plan_id", ref.PlanID, "error", err)
		return nil
	}
	if len(subs) == 0 {
		return nil
	}
	if len(subs) > 1 {
		uc.logger.Warnw("ambiguous external-reference match, using newest",
			"user_id", ref.UserID, "plan_id", ref.PlanID, "matches", len(subs))
	}
	return subs[0]
}

// applyPreapproval applies the state-machine transition implied by the
// authoritative provider status and dispatches side effects. Unknown
// provider statuses are an explicit no-op; transitions the machine forbids
// are logged, not errors, because terminal local states must survive stale
// deliveries.
func (uc *ProcessNotificationUseCase) applyPreapproval(ctx context.Context, pre *provider.Preapproval, sub *subscription.Subscription) error {
	sub.RecordProviderStatus(pre.Status)

	target, known := subscriptionVO.FromProviderStatus(pre.Status)
	if !known {
		uc.logger.Infow("unknown provider status, no transition",
			"subscription_id", sub.ID(),
			"preapproval_id", pre.ID,
			"provider_status", pre.Status,
		)
		// Persist the audit metadata and any backfilled provider id.
		if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
			uc.logger.Errorw("failed to persist subscription metadata", "subscription_id", sub.ID(), "error", err)
			return fmt.Errorf("update subscription %d: %w", sub.ID(), err)
		}
		return nil
	}

	changed, err := sub.ApplyStatus(target)
	if err != nil {
		uc.logger.Warnw("provider status implies forbidden transition, keeping local state",
			"subscription_id", sub.ID(),
			"local_status", sub.Status().String(),
			"target_status", target.String(),
		)
		changed = false
	}

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		uc.logger.Errorw("failed to persist subscription transition",
			"subscription_id", sub.ID(), "target_status", target.String(), "error", err)
		return fmt.Errorf("update subscription %d: %w", sub.ID(), err)
	}

	if !changed {
		uc.logger.Infow("subscription already in target status, no-op",
			"subscription_id", sub.ID(), "status", sub.Status().String())
		return nil
	}

	uc.logger.Infow("subscription status reconciled",
		"subscription_id", sub.ID(),
		"user_id", sub.UserID(),
		"status", sub.Status().String(),
		"provider_status", pre.Status,
	)

	if target == subscriptionVO.StatusActive || target == subscriptionVO.StatusCancelled {
		uc.dispatchSideEffects(ctx, sub.UserID())
	}
	return nil
}

// dispatchSideEffects re-derives the user's role/entitlements and drops
// cached user state. Failures must not fail the webhook acknowledgment.
func (uc *ProcessNotificationUseCase) dispatchSideEffects(ctx context.Context, userID uint) {
	if uc.entitlements != nil {
		if err := uc.entitlements.SyncUserEntitlements(ctx, userID); err != nil {
			uc.logger.Errorw("failed to sync user entitlements", "user_id", userID, "error", err)
		}
	}
	if uc.userCache != nil {
		if err := uc.userCache.InvalidateUser(ctx, userID); err != nil {
			uc.logger.Warnw("failed to invalidate user cache", "user_id", userID, "error", err)
		}
	}
}
