package valueobjects

// PaymentStatus mirrors the provider's payment status vocabulary that the
// local projection cares about.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusApproved  PaymentStatus = "approved"
	PaymentStatusRejected  PaymentStatus = "rejected"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) IsApproved() bool {
	return s == PaymentStatusApproved
}

var ValidPaymentStatuses = map[PaymentStatus]bool{
	PaymentStatusPending:   true,
	PaymentStatusApproved:  true,
	PaymentStatusRejected:  true,
	PaymentStatusCancelled: true,
	PaymentStatusRefunded:  true,
}

// ParsePaymentStatus maps a provider status string onto the local vocabulary.
// Unknown values come back as-is with ok=false so callers can log them
// without corrupting local state.
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	status := PaymentStatus(s)
	if ValidPaymentStatuses[status] {
		return status, true
	}
	return status, false
}

// OperationTypeRecurringPayment is the provider operation type that produces
// a local Payment row. Everything else is a one-off booking payment.
const OperationTypeRecurringPayment = "recurring_payment"
