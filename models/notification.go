package models

import "gorm.io/gorm"

// Notification is a persisted copy of a dispatched notification. Delivery
// itself is handled by the external push collaborator; this table is the
// audit trail.
type Notification struct {
	gorm.Model
	DispatchID     string `json:"dispatchId" gorm:"uniqueIndex"`
	Type           string `json:"type" gorm:"index"`
	Title          string `json:"title"`
	Body           string `json:"body"`
	Data           string `json:"data"` // JSON-encoded payload
	RecipientCount int    `json:"recipientCount"`
}
