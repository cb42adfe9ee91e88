package subscription

import (
	"fmt"
	"time"

	vo "github.com/andar-inc/andar/internal/domain/subscription/valueobjects"
)

// Metadata keys persisted on the subscription record.
const (
	MetaInitPoint          = "init_point"
	MetaExternalReference  = "external_reference"
	MetaCardID             = "card_id"
	MetaCardTokenID        = "card_token_id"
	MetaLastProviderStatus = "last_provider_status"
)

// Subscription is the local projection of a provider-side preapproval.
// Status only ever changes through the transition methods below.
type Subscription struct {
	id                     uint
	sid                    string
	userID                 uint
	planID                 uint
	planName               string
	status                 vo.SubscriptionStatus
	providerSubscriptionID *string
	subscriptionEmail      string
	amountCents            int64
	currency               string
	billingCycle           vo.BillingCycle
	startDate              time.Time
	metadata               map[string]interface{}
	createdBy              uint
	createdAt              time.Time
	updatedAt              time.Time
}

// NewSubscription creates a subscription in pending status. Every creation
// path, including upgrades, starts here; activation only happens through
// provider reconciliation.
func NewSubscription(
	sid string,
	userID, planID uint,
	planName string,
	subscriptionEmail string,
	amountCents int64,
	currency string,
	billingCycle vo.BillingCycle,
	startDate time.Time,
	createdBy uint,
) (*Subscription, error) {
	if sid == "" {
		return nil, fmt.Errorf("subscription SID is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if subscriptionEmail == "" {
		return nil, fmt.Errorf("subscription email is required")
	}
	if amountCents <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	if currency == "" {
		return nil, fmt.Errorf("currency is required")
	}

	now := time.Now().UTC()
	return &Subscription{
		sid:               sid,
		userID:            userID,
		planID:            planID,
		planName:          planName,
		status:            vo.StatusPending,
		subscriptionEmail: subscriptionEmail,
		amountCents:       amountCents,
		currency:          currency,
		billingCycle:      billingCycle,
		startDate:         startDate,
		metadata:          make(map[string]interface{}),
		createdBy:         createdBy,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

// ReconstructSubscription rebuilds a subscription from persistence.
func ReconstructSubscription(
	id uint,
	sid string,
	userID, planID uint,
	planName string,
	status vo.SubscriptionStatus,
	providerSubscriptionID *string,
	subscriptionEmail string,
	amountCents int64,
	currency string,
	billingCycle vo.BillingCycle,
	startDate time.Time,
	metadata map[string]interface{},
	createdBy uint,
	createdAt, updatedAt time.Time,
) (*Subscription, error) {
	if id == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status: %s", status)
	}
	if metadata == nil {
		metadata = make(map[string]interface{})
	}

	return &Subscription{
		id:                     id,
		sid:                    sid,
		userID:                 userID,
		planID:                 planID,
		planName:               planName,
		status:                 status,
		providerSubscriptionID: providerSubscriptionID,
		subscriptionEmail:      subscriptionEmail,
		amountCents:            amountCents,
		currency:               currency,
		billingCycle:           billingCycle,
		startDate:              startDate,
		metadata:               metadata,
		createdBy:              createdBy,
		createdAt:              createdAt,
		updatedAt:              updatedAt,
	}, nil
}

func (s *Subscription) ID() uint                      { return s.id }
func (s *Subscription) SID() string                   { return s.sid }
func (s *Subscription) UserID() uint                  { return s.userID }
func (s *Subscription) PlanID() uint                  { return s.planID }
func (s *Subscription) PlanName() string              { return s.planName }
func (s *Subscription) Status() vo.SubscriptionStatus { return s.status }
func (s *Subscription) SubscriptionEmail() string     { return s.subscriptionEmail }
func (s *Subscription) AmountCents() int64            { return s.amountCents }
func (s *Subscription) Currency() string              { return s.currency }
func (s *Subscription) BillingCycle() vo.BillingCycle { return s.billingCycle }
func (s *Subscription) StartDate() time.Time          { return s.startDate }
func (s *Subscription) CreatedBy() uint               { return s.createdBy }
func (s *Subscription) CreatedAt() time.Time          { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time          { return s.updatedAt }

func (s *Subscription) Metadata() map[string]interface{} {
	return s.metadata
}

// ProviderSubscriptionID returns the provider-side preapproval id, or "" when
// it has not been learned yet.
func (s *Subscription) ProviderSubscriptionID() string {
	if s.providerSubscriptionID == nil {
		return ""
	}
	return *s.providerSubscriptionID
}

// SetID sets the subscription ID (only for persistence layer use)
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

// SetProviderSubscriptionID records or rewrites the provider-side id. The id
// may be backfilled when the first webhook beats the creation response, and
// rewritten if the provider reassigns it.
func (s *Subscription) SetProviderSubscriptionID(providerID string) error {
	if providerID == "" {
		return fmt.Errorf("provider subscription ID cannot be empty")
	}
	s.providerSubscriptionID = &providerID
	s.touch()
	return nil
}

// SetMetadata sets a metadata key. A nil value removes the key.
func (s *Subscription) SetMetadata(key string, value interface{}) {
	if value == nil {
		delete(s.metadata, key)
	} else {
		s.metadata[key] = value
	}
	s.touch()
}

// MetadataString returns a string metadata value, or "" when absent.
func (s *Subscription) MetadataString(key string) string {
	if v, ok := s.metadata[key].(string); ok {
		return v
	}
	return ""
}

// RecordProviderStatus keeps the raw provider status string for audit.
func (s *Subscription) RecordProviderStatus(providerStatus string) {
	s.metadata[MetaLastProviderStatus] = providerStatus
	s.touch()
}

// ApplyStatus transitions the subscription to target. It returns true when
// the status actually changed, false for an idempotent same-status apply,
// and an error for a transition the state machine forbids.
func (s *Subscription) ApplyStatus(target vo.SubscriptionStatus) (bool, error) {
	if s.status == target {
		return false, nil
	}
	if !s.status.CanTransitionTo(target) {
		return false, fmt.Errorf("invalid status transition from %s to %s", s.status, target)
	}
	s.status = target
	s.touch()
	return true, nil
}

// Activate moves the subscription to active.
func (s *Subscription) Activate() (bool, error) {
	return s.ApplyStatus(vo.StatusActive)
}

// Cancel moves the subscription to cancelled.
func (s *Subscription) Cancel() (bool, error) {
	return s.ApplyStatus(vo.StatusCancelled)
}

// Pause moves the subscription to paused.
func (s *Subscription) Pause() (bool, error) {
	return s.ApplyStatus(vo.StatusPaused)
}

// MarkAsExpired moves the subscription to expired.
func (s *Subscription) MarkAsExpired() (bool, error) {
	return s.ApplyStatus(vo.StatusExpired)
}

// IsOpen reports whether the subscription occupies the user's single
// pending/active slot for duplicate prevention.
func (s *Subscription) IsOpen() bool {
	return s.status.IsOpen()
}

// ExternalReference decodes the reference stored at creation time.
func (s *Subscription) ExternalReference() (ExternalReference, error) {
	raw := s.MetadataString(MetaExternalReference)
	if raw == "" {
		return ExternalReference{}, fmt.Errorf("subscription %d has no external reference", s.id)
	}
	return DecodeExternalReference(raw)
}

func (s *Subscription) touch() {
	s.updatedAt = time.Now().UTC()
}
