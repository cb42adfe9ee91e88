package valueobjects

import "fmt"

// BillingCycle is the recurrence of a plan's charge.
type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
)

func ParseBillingCycle(s string) (BillingCycle, error) {
	switch BillingCycle(s) {
	case BillingCycleMonthly, BillingCycleYearly:
		return BillingCycle(s), nil
	default:
		return "", fmt.Errorf("invalid billing cycle: %q", s)
	}
}

func (b BillingCycle) String() string {
	return string(b)
}

// FrequencyMonths returns the provider auto_recurring frequency in months.
func (b BillingCycle) FrequencyMonths() int {
	if b == BillingCycleYearly {
		return 12
	}
	return 1
}
