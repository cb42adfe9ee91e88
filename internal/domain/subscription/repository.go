package subscription

import "context"

// SubscriptionRepository persists subscription projections. Lookup methods
// return (nil, nil) when no row matches.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *Subscription) error
	Update(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, id uint) (*Subscription, error)
	GetBySID(ctx context.Context, sid string) (*Subscription, error)
	// GetByProviderSubscriptionID is the primary correlation lookup.
	GetByProviderSubscriptionID(ctx context.Context, providerID string) (*Subscription, error)
	GetByUserID(ctx context.Context, userID uint) ([]*Subscription, error)
	// GetOpenByUserAndPlan is the fallback correlation lookup: the user's
	// pending/active subscriptions for a plan, newest first.
	GetOpenByUserAndPlan(ctx context.Context, userID, planID uint) ([]*Subscription, error)
	// GetOpenByUser returns the user's pending/active subscriptions for
	// duplicate prevention.
	GetOpenByUser(ctx context.Context, userID uint) ([]*Subscription, error)
}

// PlanRepository persists plans.
type PlanRepository interface {
	Create(ctx context.Context, plan *Plan) error
	Update(ctx context.Context, plan *Plan) error
	GetByID(ctx context.Context, id uint) (*Plan, error)
	GetBySID(ctx context.Context, sid string) (*Plan, error)
	ListActive(ctx context.Context) ([]*Plan, error)
}

// UpgradeAttemptRepository persists upgrade saga records.
type UpgradeAttemptRepository interface {
	Create(ctx context.Context, attempt *UpgradeAttempt) error
	Update(ctx context.Context, attempt *UpgradeAttempt) error
	GetByID(ctx context.Context, id uint) (*UpgradeAttempt, error)
	// ListFailedWithExposure returns failed attempts whose phase 1 created a
	// second provider-side subscription, for the operator alert path.
	ListFailedWithExposure(ctx context.Context) ([]*UpgradeAttempt, error)
}
