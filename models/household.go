package models

import "gorm.io/gorm"

// Household is the fee-bearing unit of the subdivision. Several members can
// share one household; the key is derived from address + unit number and the
// record is created exactly once per key.
type Household struct {
	gorm.Model
	HouseholdKey string `json:"householdKey" gorm:"uniqueIndex;not null"`
	Address      string `json:"address" gorm:"not null"`
	UnitNumber   string `json:"unitNumber"`
}
