package models

// ObligationStatus tracks where a fee, fine, or payment sits in its lifecycle.
type ObligationStatus string

const (
	StatusPending ObligationStatus = "Pending"
	StatusPaid    ObligationStatus = "Paid"
	StatusOverdue ObligationStatus = "Overdue"
)

// VerificationStatus is the admin trust decision on a payment.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "Pending"
	VerificationVerified VerificationStatus = "Verified"
	VerificationRejected VerificationStatus = "Rejected"
)

// PaymentMethod is the channel a payment came in through.
type PaymentMethod string

const (
	MethodVenmo PaymentMethod = "Venmo"
	MethodCheck PaymentMethod = "Check"
	MethodCash  PaymentMethod = "Cash"
)

// FeeFrequency describes how often a fee recurs.
type FeeFrequency string

const (
	FrequencyMonthly   FeeFrequency = "Monthly"
	FrequencyQuarterly FeeFrequency = "Quarterly"
	FrequencyAnnually  FeeFrequency = "Annually"
	FrequencyOneTime   FeeFrequency = "One-time"
)
