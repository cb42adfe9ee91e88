package valueobjects

type SubscriptionStatus string

const (
	StatusPending   SubscriptionStatus = "pending"
	StatusActive    SubscriptionStatus = "active"
	StatusCancelled SubscriptionStatus = "cancelled"
	StatusPaused    SubscriptionStatus = "paused"
	StatusExpired   SubscriptionStatus = "expired"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is allowed.
func (s SubscriptionStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusExpired
}

// IsOpen reports whether the subscription still occupies the user's single
// pending/active slot.
func (s SubscriptionStatus) IsOpen() bool {
	return s == StatusPending || s == StatusActive
}

func (s SubscriptionStatus) CanTransitionTo(target SubscriptionStatus) bool {
	transitions := map[SubscriptionStatus][]SubscriptionStatus{
		StatusPending:   {StatusActive, StatusCancelled},
		StatusActive:    {StatusCancelled, StatusPaused, StatusExpired},
		StatusPaused:    {StatusActive, StatusCancelled},
		StatusCancelled: {},
		StatusExpired:   {},
	}

	allowed, exists := transitions[s]
	if !exists {
		return false
	}

	for _, allowedStatus := range allowed {
		if allowedStatus == target {
			return true
		}
	}
	return false
}

var ValidStatuses = map[SubscriptionStatus]bool{
	StatusPending:   true,
	StatusActive:    true,
	StatusCancelled: true,
	StatusPaused:    true,
	StatusExpired:   true,
}

// FromProviderStatus maps the provider's preapproval status vocabulary onto
// the local one. The provider vocabulary is a superset; anything unmapped
// returns ok=false and must be treated as a no-op, never an error.
func FromProviderStatus(providerStatus string) (SubscriptionStatus, bool) {
	switch providerStatus {
	case "authorized":
		return StatusActive, true
	case "cancelled":
		return StatusCancelled, true
	case "paused":
		return StatusPaused, true
	default:
		return "", false
	}
}
