package payment

import (
	"fmt"
	"time"

	vo "github.com/andar-inc/andar/internal/domain/payment/valueobjects"
	"github.com/andar-inc/andar/internal/shared/biztime"
)

// Payment is the local projection of a provider recurring charge. Rows are
// append-only: created once per providerPaymentID, never mutated afterwards
// except to attach processedAt. The initial authorization event deliberately
// produces no row.
type Payment struct {
	id                uint
	sid               string
	subscriptionID    *uint
	providerPaymentID string
	amountCents       int64
	currency          string
	status            vo.PaymentStatus
	statusDetail      string
	operationType     string
	externalReference string
	processedAt       *time.Time
	createdAt         time.Time
}

func NewPayment(
	sid string,
	subscriptionID *uint,
	providerPaymentID string,
	amountCents int64,
	currency string,
	status vo.PaymentStatus,
	statusDetail string,
	operationType string,
	externalReference string,
) (*Payment, error) {
	if sid == "" {
		return nil, fmt.Errorf("payment SID is required")
	}
	if providerPaymentID == "" {
		return nil, fmt.Errorf("provider payment ID is required")
	}
	if !vo.ValidPaymentStatuses[status] {
		return nil, fmt.Errorf("invalid payment status: %s", status)
	}
	if amountCents < 0 {
		return nil, fmt.Errorf("amount cannot be negative")
	}

	return &Payment{
		sid:               sid,
		subscriptionID:    subscriptionID,
		providerPaymentID: providerPaymentID,
		amountCents:       amountCents,
		currency:          currency,
		status:            status,
		statusDetail:      statusDetail,
		operationType:     operationType,
		externalReference: externalReference,
		createdAt:         biztime.NowUTC(),
	}, nil
}

// ReconstructPayment rebuilds a payment from persistence.
func ReconstructPayment(
	id uint,
	sid string,
	subscriptionID *uint,
	providerPaymentID string,
	amountCents int64,
	currency string,
	status vo.PaymentStatus,
	statusDetail string,
	operationType string,
	externalReference string,
	processedAt *time.Time,
	createdAt time.Time,
) (*Payment, error) {
	if id == 0 {
		return nil, fmt.Errorf("payment ID cannot be zero")
	}
	if !vo.ValidPaymentStatuses[status] {
		return nil, fmt.Errorf("invalid payment status: %s", status)
	}
	return &Payment{
		id:                id,
		sid:               sid,
		subscriptionID:    subscriptionID,
		providerPaymentID: providerPaymentID,
		amountCents:       amountCents,
		currency:          currency,
		status:            status,
		statusDetail:      statusDetail,
		operationType:     operationType,
		externalReference: externalReference,
		processedAt:       processedAt,
		createdAt:         createdAt,
	}, nil
}

func (p *Payment) ID() uint                  { return p.id }
func (p *Payment) SID() string               { return p.sid }
func (p *Payment) ProviderPaymentID() string { return p.providerPaymentID }
func (p *Payment) AmountCents() int64        { return p.amountCents }
func (p *Payment) Currency() string          { return p.currency }
func (p *Payment) Status() vo.PaymentStatus  { return p.status }
func (p *Payment) StatusDetail() string      { return p.statusDetail }
func (p *Payment) OperationType() string     { return p.operationType }
func (p *Payment) ExternalReference() string { return p.externalReference }
func (p *Payment) ProcessedAt() *time.Time   { return p.processedAt }
func (p *Payment) CreatedAt() time.Time      { return p.createdAt }

// SubscriptionID returns the owning subscription id, 0 for one-off payments.
func (p *Payment) SubscriptionID() uint {
	if p.subscriptionID == nil {
		return 0
	}
	return *p.subscriptionID
}

// SetID sets the payment ID (only for persistence layer use)
func (p *Payment) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("payment ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("payment ID cannot be zero")
	}
	p.id = id
	return nil
}

// MarkProcessed attaches the processing timestamp. This is the only mutation
// allowed after creation.
func (p *Payment) MarkProcessed(at time.Time) {
	utc := at.UTC()
	p.processedAt = &utc
}
