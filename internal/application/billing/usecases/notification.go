package usecases

// Notification type vocabulary as delivered by the provider. The provider
// has used both "preapproval" and "subscription_preapproval" for the same
// event family.
const (
	NotificationTypePayment                 = "payment"
	NotificationTypePreapproval             = "preapproval"
	NotificationTypeSubscriptionPreapproval = "subscription_preapproval"
)

// Notification is the parsed webhook body. Deliveries are at-least-once and
// possibly out of order; DataID is the provider object id to fetch
// authoritatively.
type Notification struct {
	Type   string
	Action string
	DataID string
	// ProviderUserID optionally identifies which connected account
	// originated the event; it seeds credential resolution for payments.
	ProviderUserID string
}

// IsPreapproval reports whether the notification is about a subscription
// object under either of the provider's names for it.
func (n Notification) IsPreapproval() bool {
	return n.Type == NotificationTypePreapproval || n.Type == NotificationTypeSubscriptionPreapproval
}
