package reconcile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Ruben-Jim/shelton-springs-sub001/internal/notify"
	"github.com/Ruben-Jim/shelton-springs-sub001/internal/store"
	"github.com/Ruben-Jim/shelton-springs-sub001/models"
)

// testNow pins "current year" so fallback-by-payment-year tests are stable.
var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

// recordingDispatcher captures notifications for assertions.
type recordingDispatcher struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, n notify.Notification) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, n)
	return len(n.Recipients), nil
}

func newTestEngine() (*Engine, *store.MemoryStore, *recordingDispatcher) {
	mem := store.NewMemoryStore()
	dispatcher := &recordingDispatcher{}
	e := New(Deps{
		Members:    mem,
		Households: mem,
		Fees:       mem,
		Fines:      mem,
		Payments:   mem,
		Notifier:   dispatcher,
		Log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:        func() time.Time { return testNow },
	})
	return e, mem, dispatcher
}

// newTestEngineWith builds an engine around the memory store with selective
// dependency overrides, for failure-injection tests.
func newTestEngineWith(mem *store.MemoryStore, override func(*Deps)) *Engine {
	d := Deps{
		Members:    mem,
		Households: mem,
		Fees:       mem,
		Fines:      mem,
		Payments:   mem,
		Notifier:   &recordingDispatcher{},
		Log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:        func() time.Time { return testNow },
	}
	if override != nil {
		override(&d)
	}
	return New(d)
}

// failingDispatcher always reports the push backend as down.
type failingDispatcher struct {
	mu       sync.Mutex
	attempts int
}

func (d *failingDispatcher) Dispatch(ctx context.Context, n notify.Notification) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.attempts++
	return 0, errors.New("push backend down")
}

// mapBlobStore is an in-memory blob backend for receipt tests.
type mapBlobStore struct {
	blobs map[string][]byte
}

func (s *mapBlobStore) Fetch(ctx context.Context, ref string) ([]byte, error) {
	b, ok := s.blobs[ref]
	if !ok {
		return nil, errors.New("no such blob")
	}
	return b, nil
}

func (s *mapBlobStore) Delete(ctx context.Context, ref string) error {
	delete(s.blobs, ref)
	return nil
}

func boolPtr(b bool) *bool { return &b }

func homeowner(mem *store.MemoryStore, first, last, address, unit string) models.Member {
	return mem.PutMember(models.Member{
		FirstName:  first,
		LastName:   last,
		Email:      first + "." + last + "@example.com",
		Address:    address,
		UnitNumber: unit,
		IsResident: boolPtr(true),
	})
}

func renter(mem *store.MemoryStore, first, last, address string) models.Member {
	return mem.PutMember(models.Member{
		FirstName:  first,
		LastName:   last,
		Email:      first + "." + last + "@example.com",
		Address:    address,
		IsResident: boolPtr(true),
		IsRenter:   true,
	})
}
