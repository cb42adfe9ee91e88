package subscription

import (
	"fmt"
	"strconv"
	"strings"
)

const externalReferencePrefix = "subscription"

// ExternalReference correlates a provider-side object back to the local
// (plan, user) pair that created it. The wire form is
// "subscription_{planID}_{userID}".
type ExternalReference struct {
	PlanID uint
	UserID uint
}

// NewExternalReference builds a reference for a creation attempt.
func NewExternalReference(planID, userID uint) (ExternalReference, error) {
	if planID == 0 {
		return ExternalReference{}, fmt.Errorf("plan ID is required")
	}
	if userID == 0 {
		return ExternalReference{}, fmt.Errorf("user ID is required")
	}
	return ExternalReference{PlanID: planID, UserID: userID}, nil
}

// Encode renders the wire form embedded in provider objects.
func (r ExternalReference) Encode() string {
	return fmt.Sprintf("%s_%d_%d", externalReferencePrefix, r.PlanID, r.UserID)
}

// DecodeExternalReference parses the wire form. It rejects anything that does
// not decode back to exactly one (planID, userID) pair.
func DecodeExternalReference(s string) (ExternalReference, error) {
	parts := strings.Split(s, "_")
	if len(parts) != 3 || parts[0] != externalReferencePrefix {
		return ExternalReference{}, fmt.Errorf("malformed external reference: %q", s)
	}

	planID, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil || planID == 0 {
		return ExternalReference{}, fmt.Errorf("malformed plan ID in external reference: %q", s)
	}

	userID, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil || userID == 0 {
		return ExternalReference{}, fmt.Errorf("malformed user ID in external reference: %q", s)
	}

	return ExternalReference{PlanID: uint(planID), UserID: uint(userID)}, nil
}

// IsSubscriptionReference reports whether s carries the subscription prefix.
// One-off booking payments use their own reference scheme.
func IsSubscriptionReference(s string) bool {
	return strings.HasPrefix(s, externalReferencePrefix+"_")
}
