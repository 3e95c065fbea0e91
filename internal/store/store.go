// Package store is the persistence boundary of the reconciliation engine.
// The engine only sees these interfaces; the server wires the GORM-backed
// implementation, tests wire the in-memory one.
package store

import (
	"context"
	"errors"

	"github.com/Ruben-Jim/shelton-springs-sub001/models"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// MemberStore reads the member roster.
type MemberStore interface {
	// Homeowners returns unblocked members with isResident && !isRenter.
	Homeowners(ctx context.Context) ([]models.Member, error)
	// Members returns the whole roster, blocked members included.
	Members(ctx context.Context) ([]models.Member, error)
	MemberByID(ctx context.Context, id uint) (*models.Member, error)
}

// HouseholdStore creates-or-fetches household records keyed by the derived
// household key. Resolve is idempotent: one record per key, ever.
type HouseholdStore interface {
	Resolve(ctx context.Context, key, address, unitNumber string) (*models.Household, error)
}

// FeeStore persists fees.
type FeeStore interface {
	CreateFee(ctx context.Context, fee *models.Fee) error
	FeeByID(ctx context.Context, id uint) (*models.Fee, error)
	// AnnualFees returns fees with frequency == Annually and the given year.
	AnnualFees(ctx context.Context, year int) ([]models.Fee, error)
	// AnnualFeesByAddress filters annual fees by household key.
	AnnualFeesByAddress(ctx context.Context, address string, year int) ([]models.Fee, error)
	// AnnualFeesByUser is the legacy lookup for fees that predate
	// household-keyed linkage.
	AnnualFeesByUser(ctx context.Context, userID uint, year int) ([]models.Fee, error)
	UnpaidFeesByUser(ctx context.Context, userID uint) ([]models.Fee, error)
	AllFees(ctx context.Context) ([]models.Fee, error)
	UpdateFeeStatus(ctx context.Context, id uint, status models.ObligationStatus) error
	UpdateFeeAmount(ctx context.Context, id uint, amount float64) error
	ReassignFeeUser(ctx context.Context, id uint, userID uint) error
}

// FineStore persists fines.
type FineStore interface {
	CreateFine(ctx context.Context, fine *models.Fine) error
	FineByID(ctx context.Context, id uint) (*models.Fine, error)
	UnpaidFinesByResident(ctx context.Context, residentID uint) ([]models.Fine, error)
	UpdateFineStatus(ctx context.Context, id uint, status models.ObligationStatus) error
}

// PaymentStore persists payments.
type PaymentStore interface {
	CreatePayment(ctx context.Context, payment *models.Payment) error
	PaymentByID(ctx context.Context, id uint) (*models.Payment, error)
	SavePayment(ctx context.Context, payment *models.Payment) error
	PaymentsByUser(ctx context.Context, userID uint) ([]models.Payment, error)
	DeletePayment(ctx context.Context, id uint) error
}
