// shelton-springs/models/member.go

package models

import (
	"time"

	"gorm.io/gorm"
)

// Member represents a resident, renter, or board member of the subdivision.
type Member struct {
	gorm.Model
	FirstName string `json:"firstName" gorm:"not null"`
	LastName  string `json:"lastName" gorm:"not null"`
	Email     string `json:"email" gorm:"unique;not null"`
	Phone     string `json:"phone"`
	Password  string `json:"-"`
	PhotoURL  string `json:"photoUrl"`

	// --- ADDRESS ---
	Address    string `json:"address" gorm:"not null"`
	UnitNumber string `json:"unitNumber"`

	// Household is resolved from Address+UnitNumber and generated once.
	HouseholdID *uint      `json:"householdId"`
	Household   *Household `gorm:"foreignKey:HouseholdID" json:"household,omitempty"`

	// --- FLAGS ---
	IsResident    *bool `json:"isResident" gorm:"default:true"`
	IsRenter      bool  `json:"isRenter" gorm:"default:false"`
	IsBoardMember bool  `json:"isBoardMember" gorm:"default:false"`
	IsBlocked     bool  `json:"isBlocked" gorm:"default:false"`

	MoveInDate *time.Time `json:"moveInDate"`
}

// IsHomeowner reports whether the member owns their unit. Renters live here
// but the annual assessment falls on owners only.
func (m *Member) IsHomeowner() bool {
	return m.IsResident != nil && *m.IsResident && !m.IsRenter
}

// FullName is used in reports and repair-by-name matching.
func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}
