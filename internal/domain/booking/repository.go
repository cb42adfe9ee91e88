package booking

import "context"

// BookingRepository is the slice of booking persistence the reconciliation
// engine needs. Lookups return (nil, nil) when no row matches.
type BookingRepository interface {
	Update(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id uint) (*Booking, error)
	GetBySID(ctx context.Context, sid string) (*Booking, error)
	GetByExternalReference(ctx context.Context, externalReference string) (*Booking, error)
}
