package reconcile

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/Ruben-Jim/shelton-springs-sub001/internal/store"
	"github.com/Ruben-Jim/shelton-springs-sub001/models"
)

func TestSelfReportedIntakeRequiresChannelFields(t *testing.T) {
	e, mem, _ := newTestEngine()
	ctx := context.Background()
	m := homeowner(mem, "Alice", "Nguyen", "12 Shelton Dr", "")

	_, err := e.IntakeSelfReportedPayment(ctx, SelfReportedPayment{
		MemberID: m.ID, FeeType: AnnualFeeType, Amount: 300, TransactionID: "venmo-123",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("missing username: err = %v, want ErrInvalidInput", err)
	}

	_, err = e.IntakeSelfReportedPayment(ctx, SelfReportedPayment{
		MemberID: m.ID, FeeType: AnnualFeeType, Amount: 300, VenmoUsername: "@alice",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("missing txn id: err = %v, want ErrInvalidInput", err)
	}

	// Validation failures must not leave partial records behind.
	payments, _ := mem.PaymentsByUser(ctx, m.ID)
	if len(payments) != 0 {
		t.Fatalf("found %d payments after rejected intake, want 0", len(payments))
	}
}

func TestSelfReportedIntakeStartsUntrusted(t *testing.T) {
	e, mem, _ := newTestEngine()
	ctx := context.Background()
	m := homeowner(mem, "Alice", "Nguyen", "12 Shelton Dr", "")

	p, err := e.IntakeSelfReportedPayment(ctx, SelfReportedPayment{
		MemberID:      m.ID,
		FeeType:       AnnualFeeType,
		Amount:        300,
		VenmoUsername: "@alice",
		TransactionID: "venmo-123",
	})
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != models.StatusPending || p.Verification != models.VerificationPending {
		t.Errorf("payment created %s/%s, want Pending/Pending", p.Status, p.Verification)
	}
	if p.CountsTowardSatisfaction() {
		t.Error("unverified payment must not count toward satisfaction")
	}
}

func TestAdminIntakeBatchSettlesAllObligations(t *testing.T) {
	e, mem, dispatcher := newTestEngine()
	ctx := context.Background()
	m := homeowner(mem, "Alice", "Nguyen", "12 Shelton Dr", "")

	for i := 0; i < 3; i++ {
		fee := models.Fee{Amount: 100, Frequency: models.FrequencyOneTime, Status: models.StatusPending, UserID: &m.ID}
		if err := mem.CreateFee(ctx, &fee); err != nil {
			t.Fatal(err)
		}
	}
	fine := models.Fine{ResidentID: m.ID, Amount: 50, Reason: "Parking", Status: models.StatusPending}
	if err := mem.CreateFine(ctx, &fine); err != nil {
		t.Fatal(err)
	}

	result, err := e.IntakeAdminPayment(ctx, AdminPayment{
		MemberID: m.ID, FeeType: AnnualFeeType, Amount: 350, Method: models.MethodCheck, CheckNumber: "1042",
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.FeesUpdated != 3 {
		t.Errorf("FeesUpdated = %d, want 3", result.FeesUpdated)
	}
	if result.FinesUpdated != 1 {
		t.Errorf("FinesUpdated = %d, want 1", result.FinesUpdated)
	}

	left, _ := mem.UnpaidFeesByUser(ctx, m.ID)
	if len(left) != 0 {
		t.Errorf("%d unpaid fees remain, want 0", len(left))
	}

	p, _ := mem.PaymentByID(ctx, result.PaymentID)
	if !p.CountsTowardSatisfaction() {
		t.Error("admin payment must be trusted at creation")
	}
	if p.FeeID == nil || p.FineID == nil {
		t.Error("payment should back-reference the first settled fee and fine")
	}

	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	// Dispatch runs on a goroutine; zero-or-one seen here is fine, the
	// notification content is covered in verify tests.
	for _, n := range dispatcher.sent {
		if n.Type != "payment_recorded" {
			t.Errorf("unexpected notification type %q", n.Type)
		}
	}
}

func TestAdminIntakeExplicitObligationOnly(t *testing.T) {
	e, mem, _ := newTestEngine()
	ctx := context.Background()
	m := homeowner(mem, "Alice", "Nguyen", "12 Shelton Dr", "")

	target := models.Fee{Amount: 100, Frequency: models.FrequencyOneTime, Status: models.StatusPending, UserID: &m.ID}
	other := models.Fee{Amount: 100, Frequency: models.FrequencyOneTime, Status: models.StatusPending, UserID: &m.ID}
	if err := mem.CreateFee(ctx, &target); err != nil {
		t.Fatal(err)
	}
	if err := mem.CreateFee(ctx, &other); err != nil {
		t.Fatal(err)
	}

	result, err := e.IntakeAdminPayment(ctx, AdminPayment{
		MemberID: m.ID, Amount: 100, Method: models.MethodCash, FeeID: &target.ID,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.FeesUpdated != 1 {
		t.Errorf("FeesUpdated = %d, want 1", result.FeesUpdated)
	}
	untouched, _ := mem.FeeByID(ctx, other.ID)
	if untouched.Status != models.StatusPending {
		t.Errorf("unrelated fee status = %s, want Pending", untouched.Status)
	}
}

func TestSynthesizedTransactionIDFormat(t *testing.T) {
	e, _, _ := newTestEngine()

	check := e.synthesizeTransactionID(models.MethodCheck, "1042")
	if ok, _ := regexp.MatchString(`^CHK-\d+-1042$`, check); !ok {
		t.Errorf("check txn id %q does not match CHK-{epochMillis}-{checkNumber}", check)
	}

	cash := e.synthesizeTransactionID(models.MethodCash, "")
	if ok, _ := regexp.MatchString(`^CSH-\d+-MANUAL$`, cash); !ok {
		t.Errorf("cash txn id %q does not match CSH-{epochMillis}-MANUAL", cash)
	}
}

func TestReceiptImageRoundTrip(t *testing.T) {
	mem := store.NewMemoryStore()
	blobs := &mapBlobStore{blobs: map[string][]byte{"receipts/42.jpg": []byte("jpeg-bytes")}}
	e := newTestEngineWith(mem, func(d *Deps) { d.Blobs = blobs })
	ctx := context.Background()
	m := homeowner(mem, "Alice", "Nguyen", "12 Shelton Dr", "")

	p, err := e.IntakeSelfReportedPayment(ctx, SelfReportedPayment{
		MemberID:      m.ID,
		FeeType:       AnnualFeeType,
		Amount:        300,
		VenmoUsername: "@alice",
		TransactionID: "venmo-123",
		ReceiptRef:    "receipts/42.jpg",
	})
	if err != nil {
		t.Fatal(err)
	}

	data, err := e.ReceiptImage(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("receipt bytes = %q, want the stored blob", data)
	}

	if _, err := e.ReceiptImage(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown payment: err = %v, want ErrNotFound", err)
	}

	// A payment recorded without a receipt has nothing to serve.
	bare, err := e.IntakeSelfReportedPayment(ctx, SelfReportedPayment{
		MemberID: m.ID, FeeType: AnnualFeeType, Amount: 300,
		VenmoUsername: "@alice", TransactionID: "venmo-124",
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.ReceiptImage(ctx, bare.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("receipt-less payment: err = %v, want ErrNotFound", err)
	}
}

func TestAdminIntakeRejectsSelfReportedMethod(t *testing.T) {
	e, mem, _ := newTestEngine()
	m := homeowner(mem, "Alice", "Nguyen", "12 Shelton Dr", "")
	_, err := e.IntakeAdminPayment(context.Background(), AdminPayment{
		MemberID: m.ID, Amount: 300, Method: models.MethodVenmo,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}
