// Package reconcile implements the fee/fine/payment reconciliation engine:
// annual obligation generation, payment intake over channels with different
// trust levels, the verification workflow, the good-standing aggregator, and
// the link-repair utility.
package reconcile

import (
	"errors"
	"log/slog"
	"time"

	"github.com/Ruben-Jim/shelton-springs-sub001/internal/blobstore"
	"github.com/Ruben-Jim/shelton-springs-sub001/internal/notify"
	"github.com/Ruben-Jim/shelton-springs-sub001/internal/store"
)

// AnnualFeeType marks annual HOA assessments. Payments recorded against the
// annual fee carry a feeType starting with this string; the status fallback
// depends on that prefix.
const AnnualFeeType = "Annual HOA Fee"

var (
	// ErrNotFound: a directly referenced fee/fine/payment id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput: a required field is missing or malformed. Raised
	// before any write happens.
	ErrInvalidInput = errors.New("invalid input")
)

// Engine wires the stores and collaborators together. All multi-record
// procedures commit record by record; there is no cross-record transaction.
type Engine struct {
	members    store.MemberStore
	households store.HouseholdStore
	fees       store.FeeStore
	fines      store.FineStore
	payments   store.PaymentStore

	notifier notify.Dispatcher
	blobs    blobstore.Store
	log      *slog.Logger

	now func() time.Time
}

// Deps carries everything an Engine needs.
type Deps struct {
	Members    store.MemberStore
	Households store.HouseholdStore
	Fees       store.FeeStore
	Fines      store.FineStore
	Payments   store.PaymentStore
	Notifier   notify.Dispatcher
	Blobs      blobstore.Store
	Log        *slog.Logger
	Now        func() time.Time
}

func New(d Deps) *Engine {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Engine{
		members:    d.Members,
		households: d.Households,
		fees:       d.Fees,
		fines:      d.Fines,
		payments:   d.Payments,
		notifier:   d.Notifier,
		blobs:      d.Blobs,
		log:        d.Log,
		now:        d.Now,
	}
}
