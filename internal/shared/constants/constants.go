package constants

// Table names
const (
	TableUsers                = "users"
	TablePlans                = "plans"
	TableSubscriptions        = "subscriptions"
	TablePayments             = "payments"
	TableBookings             = "bookings"
	TableUpgradeAttempts      = "upgrade_attempts"
	TablePublisherCredentials = "publisher_credentials"
)

// Environments
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Context keys for HTTP middleware
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
)
