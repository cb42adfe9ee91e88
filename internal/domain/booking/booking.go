// Package booking holds the slice of the booking aggregate the payment
// reconciliation engine touches: marking a booking paid when its one-off
// provider payment is approved.
package booking

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusPaid      BookingStatus = "paid"
	StatusCancelled BookingStatus = "cancelled"
)

var ValidStatuses = map[BookingStatus]bool{
	StatusPending:   true,
	StatusPaid:      true,
	StatusCancelled: true,
}

type Booking struct {
	id                uint
	sid               string
	userID            uint
	publisherID       uint
	amountCents       int64
	currency          string
	status            BookingStatus
	providerPaymentID *string
	externalReference string
	createdAt         time.Time
	updatedAt         time.Time
}

func NewBooking(sid string, userID, publisherID uint, amountCents int64, currency, externalReference string) (*Booking, error) {
	if sid == "" {
		return nil, fmt.Errorf("booking SID is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if publisherID == 0 {
		return nil, fmt.Errorf("publisher ID is required")
	}
	if amountCents <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	now := time.Now().UTC()
	return &Booking{
		sid:               sid,
		userID:            userID,
		publisherID:       publisherID,
		amountCents:       amountCents,
		currency:          currency,
		status:            StatusPending,
		externalReference: externalReference,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

// ReconstructBooking rebuilds a booking from persistence.
func ReconstructBooking(
	id uint,
	sid string,
	userID, publisherID uint,
	amountCents int64,
	currency string,
	status BookingStatus,
	providerPaymentID *string,
	externalReference string,
	createdAt, updatedAt time.Time,
) (*Booking, error) {
	if id == 0 {
		return nil, fmt.Errorf("booking ID cannot be zero")
	}
	if !ValidStatuses[status] {
		return nil, fmt.Errorf("invalid booking status: %s", status)
	}
	return &Booking{
		id:                id,
		sid:               sid,
		userID:            userID,
		publisherID:       publisherID,
		amountCents:       amountCents,
		currency:          currency,
		status:            status,
		providerPaymentID: providerPaymentID,
		externalReference: externalReference,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}, nil
}

func (b *Booking) ID() uint                  { return b.id }
func (b *Booking) SID() string               { return b.sid }
func (b *Booking) UserID() uint              { return b.userID }
func (b *Booking) PublisherID() uint         { return b.publisherID }
func (b *Booking) AmountCents() int64        { return b.amountCents }
func (b *Booking) Currency() string          { return b.currency }
func (b *Booking) Status() BookingStatus     { return b.status }
func (b *Booking) ExternalReference() string { return b.externalReference }
func (b *Booking) CreatedAt() time.Time      { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time      { return b.updatedAt }

func (b *Booking) ProviderPaymentID() string {
	if b.providerPaymentID == nil {
		return ""
	}
	return *b.providerPaymentID
}

func (b *Booking) IsPaid() bool {
	return b.status == StatusPaid
}

// SetID sets the booking ID (only for persistence layer use)
func (b *Booking) SetID(id uint) error {
	if b.id != 0 {
		return fmt.Errorf("booking ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("booking ID cannot be zero")
	}
	b.id = id
	return nil
}

// MarkPaid records the approved provider payment. Calling it on an already
// paid booking is a no-op.
func (b *Booking) MarkPaid(providerPaymentID string) error {
	if b.status == StatusPaid {
		return nil
	}
	if b.status == StatusCancelled {
		return fmt.Errorf("cannot mark cancelled booking as paid")
	}
	if providerPaymentID == "" {
		return fmt.Errorf("provider payment ID is required")
	}
	b.status = StatusPaid
	b.providerPaymentID = &providerPaymentID
	b.updatedAt = time.Now().UTC()
	return nil
}
