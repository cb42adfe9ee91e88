package subscription

import "errors"

var (
	ErrSubscriptionNotFound       = errors.New("subscription not found")
	ErrPlanNotFound               = errors.New("subscription plan not found")
	ErrPlanNotSynced              = errors.New("subscription plan not synced to provider")
	ErrPlanInactive               = errors.New("subscription plan inactive")
	ErrDuplicateOpenSubscription  = errors.New("user already has a pending or active subscription")
	ErrMissingPayerEmail          = errors.New("missing payer email")
	ErrInvalidStatusTransition    = errors.New("invalid status transition")
	ErrUpgradeAttemptNotFound     = errors.New("upgrade attempt not found")
)
