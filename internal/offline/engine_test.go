package offline

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// fakeRemote records submissions and answers from a script.
type fakeRemote struct {
	mu       sync.Mutex
	submits  []QueuedTransaction
	fail     map[string]error // ids that should be rejected
	results  map[string]*SubmitResult
	blockCh  chan struct{} // when set, SubmitTransaction blocks until closed
	entered  chan struct{}
	enterOne sync.Once
}

func (f *fakeRemote) SubmitTransaction(ctx context.Context, txn *QueuedTransaction) (*SubmitResult, error) {
	if f.entered != nil {
		f.enterOne.Do(func() { close(f.entered) })
	}
	if f.blockCh != nil {
		<-f.blockCh
	}

	f.mu.Lock()
	f.submits = append(f.submits, *txn)
	f.mu.Unlock()

	if err, ok := f.fail[txn.ID]; ok {
		return nil, err
	}
	if result, ok := f.results[txn.ID]; ok {
		return result, nil
	}
	return &SubmitResult{TransactionID: "srv-" + txn.ID, ReceiptNumber: txn.ReceiptNumber}, nil
}

func (f *fakeRemote) submitted() []QueuedTransaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]QueuedTransaction(nil), f.submits...)
}

func newTestEngine(t *testing.T, remote RemoteService, online bool) (*Engine, *Queue) {
	t.Helper()
	q := NewQueue(newMemStore(), testLogger())
	m := NewMonitor(online, testLogger())
	return NewEngine(q, remote, m, testLogger()), q
}

func TestSyncRejectedWhileOffline(t *testing.T) {
	engine, q := newTestEngine(t, &fakeRemote{}, false)
	q.Enqueue(draft())

	if _, err := engine.Sync(context.Background()); !errors.Is(err, ErrOffline) {
		t.Errorf("Sync offline: got %v, want ErrOffline", err)
	}
	if got := q.Stats().Pending; got != 1 {
		t.Errorf("offline sync mutated the queue, %d pending", got)
	}
}

func TestSyncEmptyQueue(t *testing.T) {
	remote := &fakeRemote{}
	engine, _ := newTestEngine(t, remote, true)

	report, err := engine.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync returned error: %v", err)
	}
	if report.Synced != 0 || report.Failed != 0 {
		t.Errorf("report = %+v, want empty", report)
	}
	if len(remote.submitted()) != 0 {
		t.Error("empty queue must not hit the remote")
	}
}

func TestSyncDrainsInInsertionOrder(t *testing.T) {
	remote := &fakeRemote{}
	engine, q := newTestEngine(t, remote, true)

	a, _ := q.Enqueue(draft())
	b, _ := q.Enqueue(draft())
	c, _ := q.Enqueue(draft())

	report, err := engine.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync returned error: %v", err)
	}
	if report.Synced != 3 || report.Failed != 0 {
		t.Fatalf("report = %+v, want 3 synced", report)
	}

	submits := remote.submitted()
	wantOrder := []string{a.ID, b.ID, c.ID}
	for i, want := range wantOrder {
		if submits[i].ID != want {
			t.Errorf("submit %d = %q, want %q", i, submits[i].ID, want)
		}
	}
	if got := q.Stats().Synced; got != 3 {
		t.Errorf("%d records synced, want 3", got)
	}
}

func TestSyncIsolatesFailures(t *testing.T) {
	engine, q := newTestEngine(t, nil, true)
	a, _ := q.Enqueue(draft())
	b, _ := q.Enqueue(draft())
	c, _ := q.Enqueue(draft())

	remote := &fakeRemote{fail: map[string]error{b.ID: errors.New("boom")}}
	engine.remote = remote

	report, err := engine.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync returned error: %v", err)
	}
	if report.Synced != 2 || report.Failed != 1 {
		t.Fatalf("report = %+v, want 2 synced 1 failed", report)
	}

	if got, _ := findByID(q, a.ID); got.Status != StatusSynced {
		t.Errorf("first record status = %q, want synced", got.Status)
	}
	if got, _ := findByID(q, b.ID); got.Status != StatusFailed {
		t.Errorf("rejected record status = %q, want failed", got.Status)
	}
	if got, _ := findByID(q, c.ID); got.Status != StatusSynced {
		t.Errorf("record after failure status = %q, want synced", got.Status)
	}
}

func TestSyncAllFailures(t *testing.T) {
	engine, q := newTestEngine(t, nil, true)
	a, _ := q.Enqueue(draft())
	b, _ := q.Enqueue(draft())

	remote := &fakeRemote{fail: map[string]error{
		a.ID: errors.New("boom"),
		b.ID: errors.New("boom"),
	}}
	engine.remote = remote

	report, err := engine.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync returned error: %v", err)
	}
	if report.Synced != 0 || report.Failed != 2 {
		t.Fatalf("report = %+v, want 0 synced 2 failed", report)
	}

	stats := q.Stats()
	want := Stats{Pending: 0, Synced: 0, Failed: 2, Total: 2}
	if stats != want {
		t.Errorf("Stats() = %+v, want %+v", stats, want)
	}
}

func TestSyncRejectsConcurrentDrain(t *testing.T) {
	block := make(chan struct{})
	entered := make(chan struct{})
	remote := &fakeRemote{blockCh: block, entered: entered}
	engine, q := newTestEngine(t, remote, true)
	q.Enqueue(draft())

	done := make(chan error, 1)
	go func() {
		_, err := engine.Sync(context.Background())
		done <- err
	}()

	<-entered
	if !engine.IsSyncing() {
		t.Error("IsSyncing() = false during a drain")
	}
	if _, err := engine.Sync(context.Background()); !errors.Is(err, ErrSyncBusy) {
		t.Errorf("concurrent Sync: got %v, want ErrSyncBusy", err)
	}

	close(block)
	if err := <-done; err != nil {
		t.Fatalf("first Sync returned error: %v", err)
	}
	if engine.IsSyncing() {
		t.Error("IsSyncing() = true after drain finished")
	}
}

func TestSyncAssignsReceiptOnceAndReusesOnRetry(t *testing.T) {
	engine, q := newTestEngine(t, nil, true)
	txn, _ := q.Enqueue(draft())

	failing := &fakeRemote{fail: map[string]error{txn.ID: errors.New("boom")}}
	engine.remote = failing
	if _, err := engine.Sync(context.Background()); err != nil {
		t.Fatalf("first Sync returned error: %v", err)
	}

	stored, _ := findByID(q, txn.ID)
	if stored.ReceiptNumber == "" {
		t.Fatal("receipt number not persisted after failed sync")
	}
	if stored.Status != StatusFailed {
		t.Fatalf("status = %q, want failed", stored.Status)
	}

	succeeding := &fakeRemote{}
	engine.remote = succeeding
	reset, report, err := engine.Retry(context.Background())
	if err != nil {
		t.Fatalf("Retry returned error: %v", err)
	}
	if reset != 1 || report.Synced != 1 {
		t.Fatalf("reset=%d report=%+v, want 1 reset 1 synced", reset, report)
	}

	submits := succeeding.submitted()
	if submits[0].ReceiptNumber != stored.ReceiptNumber {
		t.Errorf("retry submitted receipt %q, want original %q", submits[0].ReceiptNumber, stored.ReceiptNumber)
	}
	if !submits[0].Timestamp.Equal(txn.Timestamp) {
		t.Errorf("retry changed the timestamp: %v vs %v", submits[0].Timestamp, txn.Timestamp)
	}
}

func TestSyncKeepsRecordSyncedWhenStockDecrementFails(t *testing.T) {
	engine, q := newTestEngine(t, nil, true)
	txn, _ := q.Enqueue(draft())

	remote := &fakeRemote{results: map[string]*SubmitResult{
		txn.ID: {
			TransactionID: "srv-1",
			StockResults: []StockResult{
				{ProductID: "p1", Applied: false, Reason: "insufficient stock"},
			},
		},
	}}
	engine.remote = remote

	report, err := engine.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync returned error: %v", err)
	}
	if report.Synced != 1 || report.Failed != 0 {
		t.Fatalf("report = %+v, want 1 synced", report)
	}
	if len(report.StockResults) != 1 || report.StockResults[0].Applied {
		t.Fatalf("stock results = %+v, want one unapplied", report.StockResults)
	}
	if got, _ := findByID(q, txn.ID); got.Status != StatusSynced {
		t.Errorf("status = %q, stock failure must not fail the sale", got.Status)
	}
}

func TestSyncStopsOnCancelledContext(t *testing.T) {
	remote := &fakeRemote{}
	engine, q := newTestEngine(t, remote, true)
	q.Enqueue(draft())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := engine.Sync(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Sync with cancelled context: got %v, want context.Canceled", err)
	}
	if len(remote.submitted()) != 0 {
		t.Error("cancelled drain must not hit the remote")
	}
}
