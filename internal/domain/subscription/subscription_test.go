package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/andar-inc/andar/internal/domain/subscription/valueobjects"
)

func newTestSubscription(t *testing.T) *Subscription {
	t.Helper()
	sub, err := NewSubscription(
		"sub_test00000001",
		7, 42,
		"Pro Plan",
		"payer@example.com",
		990,
		"ARS",
		vo.BillingCycleMonthly,
		time.Now().UTC(),
		7,
	)
	require.NoError(t, err)
	return sub
}

func TestNewSubscription_StartsPending(t *testing.T) {
	sub := newTestSubscription(t)

	assert.Equal(t, vo.StatusPending, sub.Status())
	assert.True(t, sub.IsOpen())
	assert.Empty(t, sub.ProviderSubscriptionID())
}

func TestNewSubscription_Validation(t *testing.T) {
	start := time.Now().UTC()
	tests := []struct {
		name string
		fn   func() (*Subscription, error)
	}{
		{"missing sid", func() (*Subscription, error) {
			return NewSubscription("", 7, 42, "Pro", "p@e.com", 990, "ARS", vo.BillingCycleMonthly, start, 7)
		}},
		{"missing user", func() (*Subscription, error) {
			return NewSubscription("sub_x", 0, 42, "Pro", "p@e.com", 990, "ARS", vo.BillingCycleMonthly, start, 7)
		}},
		{"missing plan", func() (*Subscription, error) {
			return NewSubscription("sub_x", 7, 0, "Pro", "p@e.com", 990, "ARS", vo.BillingCycleMonthly, start, 7)
		}},
		{"missing email", func() (*Subscription, error) {
			return NewSubscription("sub_x", 7, 42, "Pro", "", 990, "ARS", vo.BillingCycleMonthly, start, 7)
		}},
		{"zero amount", func() (*Subscription, error) {
			return NewSubscription("sub_x", 7, 42, "Pro", "p@e.com", 0, "ARS", vo.BillingCycleMonthly, start, 7)
		}},
		{"missing currency", func() (*Subscription, error) {
			return NewSubscription("sub_x", 7, 42, "Pro", "p@e.com", 990, "", vo.BillingCycleMonthly, start, 7)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn()
			assert.Error(t, err)
		})
	}
}

func TestSubscription_StatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    vo.SubscriptionStatus
		to      vo.SubscriptionStatus
		changed bool
		wantErr bool
	}{
		{"pending to active", vo.StatusPending, vo.StatusActive, true, false},
		{"pending to cancelled", vo.StatusPending, vo.StatusCancelled, true, false},
		{"pending to paused forbidden", vo.StatusPending, vo.StatusPaused, false, true},
		{"pending to expired forbidden", vo.StatusPending, vo.StatusExpired, false, true},
		{"active to cancelled", vo.StatusActive, vo.StatusCancelled, true, false},
		{"active to paused", vo.StatusActive, vo.StatusPaused, true, false},
		{"active to expired", vo.StatusActive, vo.StatusExpired, true, false},
		{"paused to active", vo.StatusPaused, vo.StatusActive, true, false},
		{"paused to cancelled", vo.StatusPaused, vo.StatusCancelled, true, false},
		{"cancelled is terminal", vo.StatusCancelled, vo.StatusActive, false, true},
		{"expired is terminal", vo.StatusExpired, vo.StatusActive, false, true},
		{"same status is idempotent", vo.StatusActive, vo.StatusActive, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := reconstructWithStatus(t, tt.from)

			changed, err := sub.ApplyStatus(tt.to)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.from, sub.Status())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.changed, changed)
			if tt.changed {
				assert.Equal(t, tt.to, sub.Status())
			}
		})
	}
}

func TestSubscription_TerminalStatusSurvivesStaleDelivery(t *testing.T) {
	sub := reconstructWithStatus(t, vo.StatusCancelled)

	// A late "authorized" delivery must not resurrect a cancelled subscription.
	_, err := sub.ApplyStatus(vo.StatusActive)
	assert.Error(t, err)
	assert.Equal(t, vo.StatusCancelled, sub.Status())
	assert.False(t, sub.IsOpen())
}

func TestSubscription_ProviderIDBackfill(t *testing.T) {
	sub := newTestSubscription(t)

	require.NoError(t, sub.SetProviderSubscriptionID("mp-123"))
	assert.Equal(t, "mp-123", sub.ProviderSubscriptionID())

	// The provider may reassign the id; rewrite is allowed.
	require.NoError(t, sub.SetProviderSubscriptionID("mp-456"))
	assert.Equal(t, "mp-456", sub.ProviderSubscriptionID())

	assert.Error(t, sub.SetProviderSubscriptionID(""))
}

func TestSubscription_Metadata(t *testing.T) {
	sub := newTestSubscription(t)

	sub.SetMetadata(MetaInitPoint, "https://provider.example/checkout/1")
	assert.Equal(t, "https://provider.example/checkout/1", sub.MetadataString(MetaInitPoint))

	sub.SetMetadata(MetaInitPoint, nil)
	assert.Empty(t, sub.MetadataString(MetaInitPoint))

	sub.RecordProviderStatus("authorized")
	assert.Equal(t, "authorized", sub.MetadataString(MetaLastProviderStatus))
}

func TestSubscription_ExternalReferenceFromMetadata(t *testing.T) {
	sub := newTestSubscription(t)

	_, err := sub.ExternalReference()
	assert.Error(t, err)

	ref, err := NewExternalReference(sub.PlanID(), sub.UserID())
	require.NoError(t, err)
	sub.SetMetadata(MetaExternalReference, ref.Encode())

	decoded, err := sub.ExternalReference()
	require.NoError(t, err)
	assert.Equal(t, ref, decoded)
}

func TestFromProviderStatus(t *testing.T) {
	tests := []struct {
		provider string
		want     vo.SubscriptionStatus
		known    bool
	}{
		{"authorized", vo.StatusActive, true},
		{"cancelled", vo.StatusCancelled, true},
		{"paused", vo.StatusPaused, true},
		{"pending", "", false},
		{"finished", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			got, known := vo.FromProviderStatus(tt.provider)
			assert.Equal(t, tt.known, known)
			if tt.known {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func reconstructWithStatus(t *testing.T, status vo.SubscriptionStatus) *Subscription {
	t.Helper()
	now := time.Now().UTC()
	sub, err := ReconstructSubscription(
		1,
		"sub_test00000001",
		7, 42,
		"Pro Plan",
		status,
		nil,
		"payer@example.com",
		990,
		"ARS",
		vo.BillingCycleMonthly,
		now,
		nil,
		7,
		now, now,
	)
	require.NoError(t, err)
	return sub
}
