package offline

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	data    map[string][]byte
	loadErr error
	saveErr error
	saves   int
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) Load(key string) ([]byte, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.data[key], nil
}

func (m *memStore) Save(key string, data []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *memStore) Close() error { return nil }

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func draft() TransactionDraft {
	return TransactionDraft{
		Items: []QueuedItem{
			{ProductID: "p1", Quantity: 2, Price: decimal.NewFromFloat(150), UnitType: "retail"},
		},
		Subtotal:      decimal.NewFromFloat(300),
		Tax:           decimal.NewFromFloat(48),
		Total:         decimal.NewFromFloat(348),
		PaymentMethod: "cash",
	}
}

func TestEnqueueAssignsIDTimestampAndPendingStatus(t *testing.T) {
	q := NewQueue(newMemStore(), testLogger())

	txn, err := q.Enqueue(draft())
	if err != nil {
		t.Fatalf("Enqueue returned error: %v", err)
	}
	if txn.ID == "" {
		t.Error("expected an assigned id")
	}
	if txn.Status != StatusPending {
		t.Errorf("status = %q, want %q", txn.Status, StatusPending)
	}
	if txn.Timestamp.IsZero() {
		t.Error("expected an assigned timestamp")
	}
}

func TestEnqueueGeneratesUniqueIDs(t *testing.T) {
	q := NewQueue(newMemStore(), testLogger())

	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		txn, err := q.Enqueue(draft())
		if err != nil {
			t.Fatalf("Enqueue %d returned error: %v", i, err)
		}
		if _, dup := seen[txn.ID]; dup {
			t.Fatalf("duplicate id %q at enqueue %d", txn.ID, i)
		}
		seen[txn.ID] = struct{}{}
	}
}

func TestEnqueueValidation(t *testing.T) {
	q := NewQueue(newMemStore(), testLogger())

	tests := []struct {
		name   string
		mutate func(*TransactionDraft)
	}{
		{"no items", func(d *TransactionDraft) { d.Items = nil }},
		{"zero quantity", func(d *TransactionDraft) { d.Items[0].Quantity = 0 }},
		{"negative quantity", func(d *TransactionDraft) { d.Items[0].Quantity = -1 }},
		{"negative price", func(d *TransactionDraft) { d.Items[0].Price = decimal.NewFromFloat(-1) }},
		{"negative total", func(d *TransactionDraft) { d.Total = decimal.NewFromFloat(-10) }},
		{"negative discount", func(d *TransactionDraft) { d.Discount = decimal.NewFromFloat(-5) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := draft()
			tt.mutate(&d)
			if _, err := q.Enqueue(d); err == nil {
				t.Error("expected a validation error")
			}
		})
	}

	if got := q.Stats().Total; got != 0 {
		t.Errorf("rejected drafts must not be stored, got %d records", got)
	}
}

func TestQueuePersistsAcrossRestart(t *testing.T) {
	store := newMemStore()
	q := NewQueue(store, testLogger())

	first, _ := q.Enqueue(draft())
	second, _ := q.Enqueue(draft())
	q.MarkFailed(second.ID)

	reloaded := NewQueue(store, testLogger())
	txns := reloaded.Transactions()
	if len(txns) != 2 {
		t.Fatalf("reloaded %d records, want 2", len(txns))
	}
	// Display order is most recent first
	if txns[0].ID != second.ID || txns[1].ID != first.ID {
		t.Errorf("unexpected display order: %q, %q", txns[0].ID, txns[1].ID)
	}
	if txns[0].Status != StatusFailed {
		t.Errorf("reloaded status = %q, want %q", txns[0].Status, StatusFailed)
	}
}

func TestCorruptSnapshotFallsBackToEmpty(t *testing.T) {
	store := newMemStore()
	store.data[KeyTransactions] = []byte("{not json")

	q := NewQueue(store, testLogger())
	if got := q.Stats().Total; got != 0 {
		t.Errorf("corrupt snapshot should yield empty queue, got %d records", got)
	}

	// The queue must stay usable after the fallback
	if _, err := q.Enqueue(draft()); err != nil {
		t.Fatalf("Enqueue after corrupt load returned error: %v", err)
	}
}

func TestLoadErrorFallsBackToEmpty(t *testing.T) {
	store := newMemStore()
	store.loadErr = io.ErrUnexpectedEOF

	q := NewQueue(store, testLogger())
	if got := q.Stats().Total; got != 0 {
		t.Errorf("load error should yield empty queue, got %d records", got)
	}
}

func TestPersistFailureDoesNotAffectMemoryState(t *testing.T) {
	store := newMemStore()
	store.saveErr = io.ErrShortWrite

	q := NewQueue(store, testLogger())
	txn, err := q.Enqueue(draft())
	if err != nil {
		t.Fatalf("Enqueue returned error: %v", err)
	}
	if _, ok := findByID(q, txn.ID); !ok {
		t.Error("record missing from in-memory queue after persist failure")
	}
}

func TestMarkSyncedAndFailed(t *testing.T) {
	q := NewQueue(newMemStore(), testLogger())
	txn, _ := q.Enqueue(draft())

	q.MarkSynced(txn.ID)
	if got, _ := findByID(q, txn.ID); got.Status != StatusSynced {
		t.Errorf("status = %q, want %q", got.Status, StatusSynced)
	}

	q.MarkFailed(txn.ID)
	if got, _ := findByID(q, txn.ID); got.Status != StatusFailed {
		t.Errorf("status = %q, want %q", got.Status, StatusFailed)
	}

	// Unknown ids are a silent no-op
	q.MarkSynced("offline-0-000000000")
	if got := q.Stats().Total; got != 1 {
		t.Errorf("unknown id mutated the queue, got %d records", got)
	}
}

func TestSetReceiptNumberPersists(t *testing.T) {
	store := newMemStore()
	q := NewQueue(store, testLogger())
	txn, _ := q.Enqueue(draft())

	q.SetReceiptNumber(txn.ID, "R250831042")

	reloaded := NewQueue(store, testLogger())
	got, _ := findByID(reloaded, txn.ID)
	if got.ReceiptNumber != "R250831042" {
		t.Errorf("receipt number = %q, want %q", got.ReceiptNumber, "R250831042")
	}
}

func TestResetFailedToPending(t *testing.T) {
	q := NewQueue(newMemStore(), testLogger())
	a, _ := q.Enqueue(draft())
	b, _ := q.Enqueue(draft())
	c, _ := q.Enqueue(draft())
	q.MarkFailed(a.ID)
	q.MarkSynced(b.ID)
	q.MarkFailed(c.ID)

	if got := q.ResetFailedToPending(); got != 2 {
		t.Fatalf("reset %d records, want 2", got)
	}

	pending := q.Pending()
	if len(pending) != 2 {
		t.Fatalf("%d pending records, want 2", len(pending))
	}
	// Reset preserves the original insertion order
	if pending[0].ID != a.ID || pending[1].ID != c.ID {
		t.Errorf("unexpected pending order: %q, %q", pending[0].ID, pending[1].ID)
	}
}

func TestPruneSyncedPreservesOrder(t *testing.T) {
	q := NewQueue(newMemStore(), testLogger())
	a, _ := q.Enqueue(draft())
	b, _ := q.Enqueue(draft())
	c, _ := q.Enqueue(draft())
	d, _ := q.Enqueue(draft())
	q.MarkSynced(b.ID)
	q.MarkSynced(d.ID)
	q.MarkFailed(c.ID)

	if got := q.PruneSynced(); got != 2 {
		t.Fatalf("pruned %d records, want 2", got)
	}

	txns := q.Transactions()
	if len(txns) != 2 {
		t.Fatalf("%d records left, want 2", len(txns))
	}
	if txns[0].ID != c.ID || txns[1].ID != a.ID {
		t.Errorf("unexpected order after prune: %q, %q", txns[0].ID, txns[1].ID)
	}
}

func TestStatsCountsByStatus(t *testing.T) {
	q := NewQueue(newMemStore(), testLogger())
	a, _ := q.Enqueue(draft())
	b, _ := q.Enqueue(draft())
	q.Enqueue(draft())
	q.MarkSynced(a.ID)
	q.MarkFailed(b.ID)

	stats := q.Stats()
	want := Stats{Pending: 1, Synced: 1, Failed: 1, Total: 3}
	if stats != want {
		t.Errorf("Stats() = %+v, want %+v", stats, want)
	}
}

func TestSnapshotCarriesVersion(t *testing.T) {
	store := newMemStore()
	q := NewQueue(store, testLogger())
	q.Enqueue(draft())

	var env envelope
	if err := json.Unmarshal(store.data[KeyTransactions], &env); err != nil {
		t.Fatalf("snapshot is not an envelope: %v", err)
	}
	if env.Version != SnapshotVersion {
		t.Errorf("snapshot version = %d, want %d", env.Version, SnapshotVersion)
	}
	if len(env.Records) == 0 {
		t.Error("snapshot envelope has no records")
	}
}

func findByID(q *Queue, id string) (QueuedTransaction, bool) {
	for _, txn := range q.Transactions() {
		if txn.ID == id {
			return txn, true
		}
	}
	return QueuedTransaction{}, false
}
