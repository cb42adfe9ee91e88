package subscription

import (
	"fmt"
	"time"

	vo "github.com/andar-inc/andar/internal/domain/subscription/valueobjects"
)

// Plan is a subscription tier offered on the marketplace. Pricing and limit
// fields are immutable once an active subscription references the plan; only
// metadata fields (name, description) may change after that.
type Plan struct {
	id             uint
	sid            string
	name           string
	description    string
	priceCents     int64
	currency       string
	billingCycle   vo.BillingCycle
	providerPlanID *string
	maxPosts       int
	maxBookings    int
	active         bool
	createdAt      time.Time
	updatedAt      time.Time
}

func NewPlan(
	sid, name string,
	priceCents int64,
	currency string,
	billingCycle vo.BillingCycle,
	maxPosts, maxBookings int,
) (*Plan, error) {
	if sid == "" {
		return nil, fmt.Errorf("plan SID is required")
	}
	if name == "" {
		return nil, fmt.Errorf("plan name is required")
	}
	if priceCents <= 0 {
		return nil, fmt.Errorf("plan price must be positive")
	}
	if currency == "" {
		return nil, fmt.Errorf("plan currency is required")
	}

	now := time.Now().UTC()
	return &Plan{
		sid:          sid,
		name:         name,
		priceCents:   priceCents,
		currency:     currency,
		billingCycle: billingCycle,
		maxPosts:     maxPosts,
		maxBookings:  maxBookings,
		active:       true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructPlan rebuilds a plan from persistence.
func ReconstructPlan(
	id uint,
	sid, name, description string,
	priceCents int64,
	currency string,
	billingCycle vo.BillingCycle,
	providerPlanID *string,
	maxPosts, maxBookings int,
	active bool,
	createdAt, updatedAt time.Time,
) (*Plan, error) {
	if id == 0 {
		return nil, fmt.Errorf("plan ID cannot be zero")
	}
	return &Plan{
		id:             id,
		sid:            sid,
		name:           name,
		description:    description,
		priceCents:     priceCents,
		currency:       currency,
		billingCycle:   billingCycle,
		providerPlanID: providerPlanID,
		maxPosts:       maxPosts,
		maxBookings:    maxBookings,
		active:         active,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

func (p *Plan) ID() uint                      { return p.id }
func (p *Plan) SID() string                   { return p.sid }
func (p *Plan) Name() string                  { return p.name }
func (p *Plan) Description() string           { return p.description }
func (p *Plan) PriceCents() int64             { return p.priceCents }
func (p *Plan) Currency() string              { return p.currency }
func (p *Plan) BillingCycle() vo.BillingCycle { return p.billingCycle }
func (p *Plan) MaxPosts() int                 { return p.maxPosts }
func (p *Plan) MaxBookings() int              { return p.maxBookings }
func (p *Plan) IsActive() bool                { return p.active }
func (p *Plan) CreatedAt() time.Time          { return p.createdAt }
func (p *Plan) UpdatedAt() time.Time          { return p.updatedAt }

// ProviderPlanID returns the provider-side plan id, or "" when the plan has
// not been synced to the provider yet.
func (p *Plan) ProviderPlanID() string {
	if p.providerPlanID == nil {
		return ""
	}
	return *p.providerPlanID
}

// IsSynced reports whether the plan exists at the provider. Subscriptions
// cannot be created against an unsynced plan.
func (p *Plan) IsSynced() bool {
	return p.providerPlanID != nil && *p.providerPlanID != ""
}

// SetID sets the plan ID (only for persistence layer use)
func (p *Plan) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("plan ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("plan ID cannot be zero")
	}
	p.id = id
	return nil
}

// SetProviderPlanID records the provider-side plan id after sync.
func (p *Plan) SetProviderPlanID(providerID string) error {
	if providerID == "" {
		return fmt.Errorf("provider plan ID cannot be empty")
	}
	p.providerPlanID = &providerID
	p.updatedAt = time.Now().UTC()
	return nil
}

// UpdateMetadata changes the mutable descriptive fields.
func (p *Plan) UpdateMetadata(name, description string) error {
	if name == "" {
		return fmt.Errorf("plan name is required")
	}
	p.name = name
	p.description = description
	p.updatedAt = time.Now().UTC()
	return nil
}

func (p *Plan) Deactivate() {
	if !p.active {
		return
	}
	p.active = false
	p.updatedAt = time.Now().UTC()
}
