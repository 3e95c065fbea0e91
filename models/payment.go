// shelton-springs/models/payment.go

package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment is an attempt to satisfy an obligation.
//
// A payment counts toward satisfaction only when Status == Paid AND
// VerificationStatus == Verified. Self-reported channels (Venmo) start out
// Pending/Pending and go through the verification workflow exactly once;
// admin-recorded channels (Check, Cash) are created terminal Paid/Verified.
type Payment struct {
	gorm.Model
	UserID uint    `json:"userId" gorm:"index;not null"`
	User   *Member `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Amount        float64            `json:"amount" gorm:"type:numeric(12,2)"`
	PaymentMethod PaymentMethod      `json:"paymentMethod" gorm:"type:varchar(20)"`
	Status        ObligationStatus   `json:"status" gorm:"type:varchar(20);default:'Pending'"`
	Verification  VerificationStatus `json:"verificationStatus" gorm:"column:verification_status;type:varchar(20)"`
	PaymentDate   time.Time          `json:"paymentDate"`
	FeeType       string             `json:"feeType"`

	// Back-references to the obligation(s) this payment was recorded against.
	FeeID  *uint `json:"feeId"`
	Fee    *Fee  `gorm:"foreignKey:FeeID" json:"fee,omitempty"`
	FineID *uint `json:"fineId"`
	Fine   *Fine `gorm:"foreignKey:FineID" json:"fine,omitempty"`

	// TransactionID is the channel reference: the Venmo transaction id for
	// self-reported payments, synthesized for admin-recorded ones.
	TransactionID string `json:"transactionId" gorm:"uniqueIndex"`
	VenmoUsername string `json:"venmoUsername"`
	CheckNumber   string `json:"checkNumber"`

	// ReceiptRef points at the uploaded receipt image in blob storage.
	ReceiptRef string `json:"receiptRef"`
	Notes      string `json:"notes"`
	AdminNotes string `json:"adminNotes"`
}

// CountsTowardSatisfaction reports whether this payment settles anything.
func (p *Payment) CountsTowardSatisfaction() bool {
	return p.Status == StatusPaid && p.Verification == VerificationVerified
}
