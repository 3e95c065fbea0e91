package reconcile

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Ruben-Jim/shelton-springs-sub001/internal/store"
	"github.com/Ruben-Jim/shelton-springs-sub001/models"
)

func pendingPaymentAgainstFee(t *testing.T, e *Engine, memberID uint, feeID *uint) *models.Payment {
	t.Helper()
	p, err := e.IntakeSelfReportedPayment(context.Background(), SelfReportedPayment{
		MemberID:      memberID,
		FeeType:       AnnualFeeType,
		Amount:        300,
		VenmoUsername: "@alice",
		TransactionID: "venmo-123",
		FeeID:         feeID,
	})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestVerifyCascadesToLinkedFee(t *testing.T) {
	e, mem, dispatcher := newTestEngine()
	ctx := context.Background()
	m := homeowner(mem, "Alice", "Nguyen", "12 Shelton Dr", "")

	fee := models.Fee{Amount: 300, Frequency: models.FrequencyAnnually, Status: models.StatusPending, UserID: &m.ID}
	if err := mem.CreateFee(ctx, &fee); err != nil {
		t.Fatal(err)
	}
	p := pendingPaymentAgainstFee(t, e, m.ID, &fee.ID)

	err := e.VerifyPayment(ctx, VerifyDecision{
		PaymentID:    p.ID,
		Status:       models.StatusPaid,
		Verification: models.VerificationVerified,
		AdminNotes:   "matched bank statement",
	})
	if err != nil {
		t.Fatal(err)
	}

	got, _ := mem.PaymentByID(ctx, p.ID)
	if !got.CountsTowardSatisfaction() {
		t.Errorf("payment = %s/%s, want Paid/Verified", got.Status, got.Verification)
	}
	cascaded, _ := mem.FeeByID(ctx, fee.ID)
	if cascaded.Status != models.StatusPaid {
		t.Errorf("linked fee status = %s, want Paid", cascaded.Status)
	}

	waitForNotification(t, dispatcher, "payment_verified")
}

func TestRejectLeavesObligationOutstanding(t *testing.T) {
	e, mem, dispatcher := newTestEngine()
	ctx := context.Background()
	m := homeowner(mem, "Alice", "Nguyen", "12 Shelton Dr", "")

	fee := models.Fee{Amount: 300, Frequency: models.FrequencyAnnually, Status: models.StatusPending, UserID: &m.ID}
	if err := mem.CreateFee(ctx, &fee); err != nil {
		t.Fatal(err)
	}
	p := pendingPaymentAgainstFee(t, e, m.ID, &fee.ID)

	err := e.VerifyPayment(ctx, VerifyDecision{
		PaymentID:    p.ID,
		Status:       models.StatusPending,
		Verification: models.VerificationRejected,
	})
	if err != nil {
		t.Fatal(err)
	}

	got, _ := mem.PaymentByID(ctx, p.ID)
	if got.Verification != models.VerificationRejected {
		t.Errorf("verification = %s, want Rejected", got.Verification)
	}
	if got.CountsTowardSatisfaction() {
		t.Error("rejected payment must not count toward satisfaction")
	}
	untouched, _ := mem.FeeByID(ctx, fee.ID)
	if untouched.Status != models.StatusPending {
		t.Errorf("fee status = %s, want still Pending after rejection", untouched.Status)
	}

	waitForNotification(t, dispatcher, "payment_rejected")
}

func TestVerifyIsTerminal(t *testing.T) {
	e, mem, _ := newTestEngine()
	ctx := context.Background()
	m := homeowner(mem, "Alice", "Nguyen", "12 Shelton Dr", "")
	p := pendingPaymentAgainstFee(t, e, m.ID, nil)

	if err := e.VerifyPayment(ctx, VerifyDecision{PaymentID: p.ID, Verification: models.VerificationVerified}); err != nil {
		t.Fatal(err)
	}
	err := e.VerifyPayment(ctx, VerifyDecision{PaymentID: p.ID, Verification: models.VerificationRejected})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("re-verification err = %v, want ErrInvalidInput", err)
	}
}

func TestVerifyCommitsDespiteDispatcherFailure(t *testing.T) {
	mem := store.NewMemoryStore()
	dispatcher := &failingDispatcher{}
	e := newTestEngineWith(mem, func(d *Deps) { d.Notifier = dispatcher })
	ctx := context.Background()
	m := homeowner(mem, "Alice", "Nguyen", "12 Shelton Dr", "")

	fee := models.Fee{Amount: 300, Frequency: models.FrequencyAnnually, Status: models.StatusPending, UserID: &m.ID}
	if err := mem.CreateFee(ctx, &fee); err != nil {
		t.Fatal(err)
	}
	p := pendingPaymentAgainstFee(t, e, m.ID, &fee.ID)

	err := e.VerifyPayment(ctx, VerifyDecision{
		PaymentID:    p.ID,
		Status:       models.StatusPaid,
		Verification: models.VerificationVerified,
	})
	if err != nil {
		t.Fatalf("a dispatch failure must not abort verification: %v", err)
	}

	got, _ := mem.PaymentByID(ctx, p.ID)
	if !got.CountsTowardSatisfaction() {
		t.Errorf("payment = %s/%s, want Paid/Verified despite dispatch failure", got.Status, got.Verification)
	}
	cascaded, _ := mem.FeeByID(ctx, fee.ID)
	if cascaded.Status != models.StatusPaid {
		t.Errorf("fee status = %s, want Paid despite dispatch failure", cascaded.Status)
	}

	// The dispatch was attempted; its failure stayed in the log.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		dispatcher.mu.Lock()
		attempted := dispatcher.attempts > 0
		dispatcher.mu.Unlock()
		if attempted {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("no dispatch attempt observed")
}

func TestVerifyUnknownPayment(t *testing.T) {
	e, _, _ := newTestEngine()
	err := e.VerifyPayment(context.Background(), VerifyDecision{
		PaymentID:    9999,
		Verification: models.VerificationVerified,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestVerifiedNotificationSpellsAmount(t *testing.T) {
	e, mem, dispatcher := newTestEngine()
	ctx := context.Background()
	m := homeowner(mem, "Alice", "Nguyen", "12 Shelton Dr", "")
	p := pendingPaymentAgainstFee(t, e, m.ID, nil)

	if err := e.VerifyPayment(ctx, VerifyDecision{PaymentID: p.ID, Verification: models.VerificationVerified}); err != nil {
		t.Fatal(err)
	}

	n := waitForNotification(t, dispatcher, "payment_verified")
	if !strings.Contains(n.Body, "three hundred") {
		t.Errorf("notification body %q should spell the amount in words", n.Body)
	}
}

// waitForNotification polls the recording dispatcher because dispatch is
// fire-and-forget on its own goroutine.
func waitForNotification(t *testing.T, d *recordingDispatcher, wantType string) *notifySnapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		d.mu.Lock()
		for _, n := range d.sent {
			if n.Type == wantType {
				snapshot := &notifySnapshot{Type: n.Type, Title: n.Title, Body: n.Body}
				d.mu.Unlock()
				return snapshot
			}
		}
		d.mu.Unlock()
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("no %q notification dispatched", wantType)
	return nil
}

type notifySnapshot struct {
	Type  string
	Title string
	Body  string
}
