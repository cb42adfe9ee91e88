// Package provider defines the boundary to the external payment provider.
// The provider calls subscriptions "preapprovals".
package provider

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned when the credential used for a fetch is not
// the scope the object belongs to. The credential resolver iterates
// candidates until a fetch stops returning this.
var ErrUnauthorized = errors.New("provider rejected credential")

// ErrNotFound is returned when the provider has no object for the id.
var ErrNotFound = errors.New("provider object not found")

// Credential is a bearer token for one provider scope.
type Credential struct {
	// Label names the scope for logging (publisher/marketplace/subscriptions).
	Label string
	Token string
}

// Payment is the provider's authoritative payment object.
type Payment struct {
	ID                string
	Status            string
	StatusDetail      string
	OperationType     string
	ExternalReference string
	// TransactionAmountCents is the charge in the currency's smallest unit.
	TransactionAmountCents int64
	Currency               string
	// Metadata carries caller-supplied keys, including booking_id for
	// one-off booking payments.
	Metadata map[string]string
	PayerEmail string
}

// Preapproval is the provider's authoritative subscription object.
type Preapproval struct {
	ID                string
	Status            string
	ExternalReference string
	PayerEmail        string
	CardID            string
	PlanID            string
	InitPoint         string
	// TransactionAmountCents is the recurring charge amount.
	TransactionAmountCents int64
	Currency               string
}

// CreatePreapprovalRequest creates a provider subscription from a synced
// plan and a single-use card token. The card token is consumed by this call
// and must never be reused.
type CreatePreapprovalRequest struct {
	PlanID            string
	CardTokenID       string
	PayerEmail        string
	ExternalReference string
	Reason            string
	BackURL           string
	AmountCents       int64
	Currency          string
	FrequencyMonths   int
}

// PaymentProvider is the typed wrapper over the provider REST API. All calls
// are stateless; retries happen only at the transport level. Every call
// requires an explicit credential — there is no ambient token state.
type PaymentProvider interface {
	GetPayment(ctx context.Context, paymentID string, cred Credential) (*Payment, error)
	GetPreapproval(ctx context.Context, preapprovalID string, cred Credential) (*Preapproval, error)
	CreatePreapproval(ctx context.Context, req CreatePreapprovalRequest, cred Credential) (*Preapproval, error)
	CancelPreapproval(ctx context.Context, preapprovalID string, cred Credential) (*Preapproval, error)
}
