package payment

import (
	"context"
	"time"
)

// PaymentRepository persists the append-only payment projection.
type PaymentRepository interface {
	// CreateIfAbsent inserts the payment unless a row with the same
	// providerPaymentID already exists. It returns true when a row was
	// inserted, false on a duplicate. Duplicate webhook deliveries rely on
	// this being race-safe (unique index, not read-then-write).
	CreateIfAbsent(ctx context.Context, p *Payment) (bool, error)
	// MarkProcessed attaches processedAt to an existing row. This is the only
	// post-creation mutation the projection allows.
	MarkProcessed(ctx context.Context, providerPaymentID string, at time.Time) error
	GetByProviderPaymentID(ctx context.Context, providerPaymentID string) (*Payment, error)
	GetBySubscriptionID(ctx context.Context, subscriptionID uint) ([]*Payment, error)
}
