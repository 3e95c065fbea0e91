package reconcile

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Ruben-Jim/shelton-springs-sub001/internal/store"
	"github.com/Ruben-Jim/shelton-springs-sub001/models"
)

// failingFeeStore refuses inserts for one household key.
type failingFeeStore struct {
	*store.MemoryStore
	failAddress string
}

func (s *failingFeeStore) CreateFee(ctx context.Context, fee *models.Fee) error {
	if fee.Address == s.failAddress {
		return errors.New("insert refused")
	}
	return s.MemoryStore.CreateFee(ctx, fee)
}

func TestGenerateAnnualFeesOnePerHousehold(t *testing.T) {
	e, mem, _ := newTestEngine()
	ctx := context.Background()

	// Spouses share one address, the renter pays nothing.
	alice := homeowner(mem, "Alice", "Nguyen", "12 Shelton Dr", "")
	homeowner(mem, "Bob", "Nguyen", "12 Shelton Dr", "")
	homeowner(mem, "Cara", "Lopez", "14 Shelton Dr", "")
	renter(mem, "Dan", "Reed", "16 Shelton Dr")

	result, err := e.GenerateAnnualFees(ctx, 2025, 300, "Annual assessment")
	if err != nil {
		t.Fatalf("GenerateAnnualFees: %v", err)
	}
	if result.FeesCreated != 2 {
		t.Fatalf("FeesCreated = %d, want 2 (one per homeowner household)", result.FeesCreated)
	}

	fees, err := mem.AnnualFees(ctx, 2025)
	if err != nil {
		t.Fatal(err)
	}
	if len(fees) != 2 {
		t.Fatalf("stored %d annual fees, want 2", len(fees))
	}
	for _, f := range fees {
		if f.Frequency != models.FrequencyAnnually || f.Year == nil || *f.Year != 2025 {
			t.Errorf("fee %d not annual/2025: %+v", f.ID, f)
		}
		if f.Address == "" {
			t.Errorf("fee %d missing household key", f.ID)
		}
	}

	// Backward-compat userId goes to the first enumerated homeowner.
	shared, _ := mem.AnnualFeesByAddress(ctx, "12 Shelton Dr", 2025)
	if len(shared) != 1 {
		t.Fatalf("household fees = %d, want 1", len(shared))
	}
	if shared[0].UserID == nil || *shared[0].UserID != alice.ID {
		t.Errorf("shared fee userId = %v, want %d", shared[0].UserID, alice.ID)
	}
}

func TestGenerateAnnualFeesIdempotent(t *testing.T) {
	e, mem, _ := newTestEngine()
	ctx := context.Background()

	homeowner(mem, "Alice", "Nguyen", "12 Shelton Dr", "")
	homeowner(mem, "Cara", "Lopez", "14 Shelton Dr", "")

	first, err := e.GenerateAnnualFees(ctx, 2025, 300, "Annual assessment")
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.GenerateAnnualFees(ctx, 2025, 300, "Annual assessment")
	if err != nil {
		t.Fatal(err)
	}
	if second.FeesCreated != 0 {
		t.Errorf("second run created %d fees, want 0", second.FeesCreated)
	}
	if second.Skipped != first.FeesCreated {
		t.Errorf("second run skipped %d, want %d", second.Skipped, first.FeesCreated)
	}

	fees, _ := mem.AnnualFees(ctx, 2025)
	if len(fees) != first.FeesCreated {
		t.Errorf("total fees = %d, want %d", len(fees), first.FeesCreated)
	}
}

func TestGenerateAnnualFeesUnitNumbersSplitHouseholds(t *testing.T) {
	e, mem, _ := newTestEngine()
	ctx := context.Background()

	homeowner(mem, "Eve", "Park", "20 Shelton Dr", "1")
	homeowner(mem, "Finn", "Park", "20 Shelton Dr", "2")

	result, err := e.GenerateAnnualFees(ctx, 2025, 300, "Annual assessment")
	if err != nil {
		t.Fatal(err)
	}
	if result.FeesCreated != 2 {
		t.Errorf("FeesCreated = %d, want 2 (units are separate households)", result.FeesCreated)
	}
}

func TestBulkUpdateSkipsPaidFees(t *testing.T) {
	e, mem, _ := newTestEngine()
	ctx := context.Background()

	homeowner(mem, "Alice", "Nguyen", "12 Shelton Dr", "")
	homeowner(mem, "Cara", "Lopez", "14 Shelton Dr", "")
	if _, err := e.GenerateAnnualFees(ctx, 2025, 300, "Annual assessment"); err != nil {
		t.Fatal(err)
	}

	fees, _ := mem.AnnualFees(ctx, 2025)
	if err := mem.UpdateFeeStatus(ctx, fees[0].ID, models.StatusPaid); err != nil {
		t.Fatal(err)
	}

	result, err := e.BulkUpdateAnnualFeeAmount(ctx, 2025, 350, "")
	if err != nil {
		t.Fatal(err)
	}
	if result.UpdatedCount != 1 {
		t.Fatalf("UpdatedCount = %d, want 1", result.UpdatedCount)
	}

	paid, _ := mem.FeeByID(ctx, fees[0].ID)
	if paid.Amount != 300 {
		t.Errorf("paid fee amount changed to %v, want untouched 300", paid.Amount)
	}
	unpaid, _ := mem.FeeByID(ctx, fees[1].ID)
	if unpaid.Amount != 350 {
		t.Errorf("unpaid fee amount = %v, want 350", unpaid.Amount)
	}
}

func TestBulkUpdateWithFormula(t *testing.T) {
	e, mem, _ := newTestEngine()
	ctx := context.Background()

	homeowner(mem, "Alice", "Nguyen", "12 Shelton Dr", "")
	if _, err := e.GenerateAnnualFees(ctx, 2025, 300, "Annual assessment"); err != nil {
		t.Fatal(err)
	}

	result, err := e.BulkUpdateAnnualFeeAmount(ctx, 2025, 0, "amount + 25")
	if err != nil {
		t.Fatal(err)
	}
	if result.UpdatedCount != 1 {
		t.Fatalf("UpdatedCount = %d, want 1", result.UpdatedCount)
	}
	fees, _ := mem.AnnualFees(ctx, 2025)
	if fees[0].Amount != 325 {
		t.Errorf("amount = %v, want 325", fees[0].Amount)
	}
}

func TestGenerateContinuesPastPerHouseholdFailure(t *testing.T) {
	mem := store.NewMemoryStore()
	e := newTestEngineWith(mem, func(d *Deps) {
		d.Fees = &failingFeeStore{MemoryStore: mem, failAddress: "14 Shelton Dr"}
	})
	ctx := context.Background()

	homeowner(mem, "Alice", "Nguyen", "12 Shelton Dr", "")
	homeowner(mem, "Cara", "Lopez", "14 Shelton Dr", "")
	homeowner(mem, "Eve", "Park", "16 Shelton Dr", "")

	result, err := e.GenerateAnnualFees(ctx, 2025, 300, "Annual assessment")
	if err != nil {
		t.Fatalf("a per-household failure must not fail the batch: %v", err)
	}
	if result.Failed != 1 {
		t.Errorf("Failed = %d, want 1", result.Failed)
	}
	if result.FeesCreated != 2 {
		t.Errorf("FeesCreated = %d, want 2 (batch continues past the failure)", result.FeesCreated)
	}

	// The household after the failing one still got its fee.
	later, _ := mem.AnnualFeesByAddress(ctx, "16 Shelton Dr", 2025)
	if len(later) != 1 {
		t.Errorf("household after the failure has %d fees, want 1", len(later))
	}
	broken, _ := mem.AnnualFeesByAddress(ctx, "14 Shelton Dr", 2025)
	if len(broken) != 0 {
		t.Errorf("failed household has %d fees, want 0", len(broken))
	}
}

func TestGenerateEmitsDuesNotice(t *testing.T) {
	e, mem, dispatcher := newTestEngine()
	ctx := context.Background()

	alice := homeowner(mem, "Alice", "Nguyen", "12 Shelton Dr", "")
	bob := homeowner(mem, "Bob", "Nguyen", "12 Shelton Dr", "")

	if _, err := e.GenerateAnnualFees(ctx, 2025, 300, "Annual assessment"); err != nil {
		t.Fatal(err)
	}

	n := waitForNotification(t, dispatcher, "dues_notice")
	if !strings.Contains(n.Body, "2025") {
		t.Errorf("dues notice body %q should name the year", n.Body)
	}

	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	for _, sent := range dispatcher.sent {
		if sent.Type != "dues_notice" {
			continue
		}
		if len(sent.Recipients) != 2 {
			t.Errorf("dues notice reached %d recipients, want both spouses (%d, %d)",
				len(sent.Recipients), alice.ID, bob.ID)
		}
	}
}

func TestBulkUpdateRejectsBadFormula(t *testing.T) {
	e, _, _ := newTestEngine()
	if _, err := e.BulkUpdateAnnualFeeAmount(context.Background(), 2025, 0, "amount +"); err == nil {
		t.Fatal("expected error for malformed formula")
	}
}
