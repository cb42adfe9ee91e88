package subscription

import (
	"fmt"
	"time"
)

// UpgradePhase tracks progress of the two-phase plan change.
type UpgradePhase string

const (
	// UpgradePhase1Pending: attempt recorded, new subscription not created yet.
	UpgradePhase1Pending UpgradePhase = "phase1_pending"
	// UpgradePhase1Done: new subscription exists locally and at the provider;
	// the old one is still billing.
	UpgradePhase1Done UpgradePhase = "phase1_done"
	// UpgradePhase2Done: old subscription cancelled, upgrade complete.
	UpgradePhase2Done UpgradePhase = "phase2_done"
	// UpgradeFailed: the attempt stopped; Outcome says where and why. A
	// failure after phase 1 means two provider-side subscriptions exist and
	// requires operator attention.
	UpgradeFailed UpgradePhase = "failed"
)

// UpgradeAttempt is the saga record for a two-phase plan change. The provider
// has no cross-object transaction primitive, so partial failures must be
// queryable rather than inferred from logs.
type UpgradeAttempt struct {
	id                 uint
	sid                string
	userID             uint
	fromSubscriptionID uint
	toSubscriptionID   *uint
	fromPlanID         uint
	toPlanID           uint
	phase              UpgradePhase
	outcome            string
	createdAt          time.Time
	updatedAt          time.Time
}

func NewUpgradeAttempt(sid string, userID, fromSubscriptionID, fromPlanID, toPlanID uint) (*UpgradeAttempt, error) {
	if sid == "" {
		return nil, fmt.Errorf("upgrade attempt SID is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if fromSubscriptionID == 0 {
		return nil, fmt.Errorf("source subscription ID is required")
	}
	if toPlanID == 0 {
		return nil, fmt.Errorf("target plan ID is required")
	}
	if fromPlanID == toPlanID {
		return nil, fmt.Errorf("target plan must differ from current plan")
	}

	now := time.Now().UTC()
	return &UpgradeAttempt{
		sid:                sid,
		userID:             userID,
		fromSubscriptionID: fromSubscriptionID,
		fromPlanID:         fromPlanID,
		toPlanID:           toPlanID,
		phase:              UpgradePhase1Pending,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

// ReconstructUpgradeAttempt rebuilds an attempt from persistence.
func ReconstructUpgradeAttempt(
	id uint,
	sid string,
	userID, fromSubscriptionID uint,
	toSubscriptionID *uint,
	fromPlanID, toPlanID uint,
	phase UpgradePhase,
	outcome string,
	createdAt, updatedAt time.Time,
) (*UpgradeAttempt, error) {
	if id == 0 {
		return nil, fmt.Errorf("upgrade attempt ID cannot be zero")
	}
	return &UpgradeAttempt{
		id:                 id,
		sid:                sid,
		userID:             userID,
		fromSubscriptionID: fromSubscriptionID,
		toSubscriptionID:   toSubscriptionID,
		fromPlanID:         fromPlanID,
		toPlanID:           toPlanID,
		phase:              phase,
		outcome:            outcome,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}, nil
}

func (a *UpgradeAttempt) ID() uint                  { return a.id }
func (a *UpgradeAttempt) SID() string               { return a.sid }
func (a *UpgradeAttempt) UserID() uint              { return a.userID }
func (a *UpgradeAttempt) FromSubscriptionID() uint  { return a.fromSubscriptionID }
func (a *UpgradeAttempt) FromPlanID() uint          { return a.fromPlanID }
func (a *UpgradeAttempt) ToPlanID() uint            { return a.toPlanID }
func (a *UpgradeAttempt) Phase() UpgradePhase       { return a.phase }
func (a *UpgradeAttempt) Outcome() string           { return a.outcome }
func (a *UpgradeAttempt) CreatedAt() time.Time      { return a.createdAt }
func (a *UpgradeAttempt) UpdatedAt() time.Time      { return a.updatedAt }

func (a *UpgradeAttempt) ToSubscriptionID() uint {
	if a.toSubscriptionID == nil {
		return 0
	}
	return *a.toSubscriptionID
}

// SetID sets the attempt ID (only for persistence layer use)
func (a *UpgradeAttempt) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("upgrade attempt ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("upgrade attempt ID cannot be zero")
	}
	a.id = id
	return nil
}

// CompletePhase1 records the newly created subscription.
func (a *UpgradeAttempt) CompletePhase1(toSubscriptionID uint) error {
	if a.phase != UpgradePhase1Pending {
		return fmt.Errorf("cannot complete phase 1 from phase %s", a.phase)
	}
	if toSubscriptionID == 0 {
		return fmt.Errorf("new subscription ID is required")
	}
	a.toSubscriptionID = &toSubscriptionID
	a.phase = UpgradePhase1Done
	a.updatedAt = time.Now().UTC()
	return nil
}

// CompletePhase2 records successful cancellation of the old subscription.
func (a *UpgradeAttempt) CompletePhase2() error {
	if a.phase != UpgradePhase1Done {
		return fmt.Errorf("cannot complete phase 2 from phase %s", a.phase)
	}
	a.phase = UpgradePhase2Done
	a.outcome = "upgrade completed"
	a.updatedAt = time.Now().UTC()
	return nil
}

// Fail stops the attempt with an operator-readable outcome.
func (a *UpgradeAttempt) Fail(outcome string) error {
	if a.phase == UpgradePhase2Done {
		return fmt.Errorf("cannot fail a completed upgrade attempt")
	}
	a.phase = UpgradeFailed
	a.outcome = outcome
	a.updatedAt = time.Now().UTC()
	return nil
}

// HasBillingExposure reports whether the attempt left two provider-side
// subscriptions billing (failed after phase 1 created the new one).
func (a *UpgradeAttempt) HasBillingExposure() bool {
	return a.phase == UpgradeFailed && a.toSubscriptionID != nil
}
