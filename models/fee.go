// shelton-springs/models/fee.go

package models

import (
	"time"

	"gorm.io/gorm"
)

// Fee is an amount owed by a household or an individual member.
//
// Annual fees created by the generator are linked by Address (household key)
// and Year; UserID is still filled with one homeowner at that address for
// backward compatibility with records that predate household-keyed linkage.
type Fee struct {
	gorm.Model
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Amount      float64          `json:"amount" gorm:"type:numeric(12,2)"`
	Frequency   FeeFrequency     `json:"frequency" gorm:"type:varchar(20);index:idx_fees_address_year_freq"`
	FeeType     string           `json:"feeType" gorm:"index"`
	DueDate     *time.Time       `json:"dueDate"`
	Status      ObligationStatus `json:"status" gorm:"type:varchar(20);default:'Pending'"`

	UserID *uint   `json:"userId" gorm:"index"`
	User   *Member `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// Household linkage, preferred for annual fees.
	Address     string     `json:"address" gorm:"index:idx_fees_address_year_freq"`
	Year        *int       `json:"year" gorm:"index:idx_fees_address_year_freq"`
	HouseholdID *uint      `json:"householdId"`
	Household   *Household `gorm:"foreignKey:HouseholdID" json:"household,omitempty"`
}
