package usecases

import "context"

// EntitlementSyncer re-derives a user's role and posting entitlements from
// their current subscription state. Called after active/cancelled
// transitions; failures are logged by the caller and never fail the webhook.
type EntitlementSyncer interface {
	SyncUserEntitlements(ctx context.Context, userID uint) error
}

// UserCacheInvalidator drops cached user/session state so the next request
// observes the new subscription status.
type UserCacheInvalidator interface {
	InvalidateUser(ctx context.Context, userID uint) error
}
