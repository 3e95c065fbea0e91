package models

import (
	"time"

	"gorm.io/gorm"
)

// Fine is a violation-based obligation. Fines attach to one resident and are
// never shared across a household.
type Fine struct {
	gorm.Model
	ResidentID  uint             `json:"residentId" gorm:"index;not null"`
	Resident    *Member          `gorm:"foreignKey:ResidentID" json:"resident,omitempty"`
	Address     string           `json:"address"`
	Amount      float64          `json:"amount" gorm:"type:numeric(12,2)"`
	Reason      string           `json:"reason" gorm:"not null"`
	Description string           `json:"description"`
	Status      ObligationStatus `json:"status" gorm:"type:varchar(20);default:'Pending'"`
	IssuedDate  time.Time        `json:"issuedDate"`
}
