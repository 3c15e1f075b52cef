package offline

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// envelope wraps a persisted snapshot with an explicit format version.
type envelope struct {
	Version int             `json:"version"`
	Records json.RawMessage `json:"records"`
}

// Queue owns the ordered sequence of queued transactions. Every mutation
// is mirrored to the Store as a full snapshot; persistence failures are
// logged and the queue keeps operating in memory for the session.
type Queue struct {
	mu    sync.Mutex
	store Store
	log   *logrus.Logger
	txns  []QueuedTransaction
}

// NewQueue loads any persisted snapshot and returns the queue. A corrupt
// or missing snapshot yields an empty queue, never an error.
func NewQueue(store Store, log *logrus.Logger) *Queue {
	q := &Queue{store: store, log: log}
	q.load()
	return q
}

func (q *Queue) load() {
	data, err := q.store.Load(KeyTransactions)
	if err != nil {
		q.log.WithError(err).Warn("failed to load offline transactions, starting empty")
		return
	}
	if len(data) == 0 {
		return
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		q.log.WithError(err).Warn("corrupt offline transaction snapshot, starting empty")
		return
	}

	var txns []QueuedTransaction
	if err := json.Unmarshal(env.Records, &txns); err != nil {
		q.log.WithError(err).Warn("corrupt offline transaction records, starting empty")
		return
	}
	q.txns = txns
}

// persist writes the full snapshot. Callers must hold q.mu.
func (q *Queue) persist() {
	records, err := json.Marshal(q.txns)
	if err != nil {
		q.log.WithError(err).Error("failed to serialize offline transactions")
		return
	}
	data, err := json.Marshal(envelope{Version: SnapshotVersion, Records: records})
	if err != nil {
		q.log.WithError(err).Error("failed to serialize snapshot envelope")
		return
	}
	if err := q.store.Save(KeyTransactions, data); err != nil {
		q.log.WithError(err).Error("failed to persist offline transactions")
	}
}

// newID generates a locally unique transaction id. Callers must hold
// q.mu; the taken-id check makes ids unique even within one millisecond.
func (q *Queue) newID() string {
	taken := make(map[string]struct{}, len(q.txns))
	for i := range q.txns {
		taken[q.txns[i].ID] = struct{}{}
	}
	for {
		var buf [4]byte
		_, _ = rand.Read(buf[:])
		id := fmt.Sprintf("offline-%d-%09d", time.Now().UnixMilli(), binary.BigEndian.Uint32(buf[:])%1_000_000_000)
		if _, exists := taken[id]; !exists {
			return id
		}
	}
}

// Enqueue validates the draft, assigns id and timestamp, appends it as
// pending and persists. Negative quantities and amounts are rejected
// eagerly; the total-versus-parts identity is deliberately not enforced
// to tolerate upstream rounding.
func (q *Queue) Enqueue(draft TransactionDraft) (QueuedTransaction, error) {
	if len(draft.Items) == 0 {
		return QueuedTransaction{}, fmt.Errorf("transaction needs at least one item")
	}
	for _, item := range draft.Items {
		if item.Quantity <= 0 {
			return QueuedTransaction{}, fmt.Errorf("item %s: quantity must be positive", item.ProductID)
		}
		if item.Price.IsNegative() {
			return QueuedTransaction{}, fmt.Errorf("item %s: price cannot be negative", item.ProductID)
		}
	}
	for _, amount := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"subtotal", draft.Subtotal},
		{"tax", draft.Tax},
		{"discount", draft.Discount},
		{"service_fee", draft.ServiceFee},
		{"delivery_fee", draft.DeliveryFee},
		{"total", draft.Total},
	} {
		if amount.value.IsNegative() {
			return QueuedTransaction{}, fmt.Errorf("%s cannot be negative", amount.name)
		}
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	txn := QueuedTransaction{
		ID:            q.newID(),
		Items:         append([]QueuedItem(nil), draft.Items...),
		Subtotal:      draft.Subtotal,
		Tax:           draft.Tax,
		Discount:      draft.Discount,
		ServiceFee:    draft.ServiceFee,
		DeliveryFee:   draft.DeliveryFee,
		Total:         draft.Total,
		PaymentMethod: draft.PaymentMethod,
		Status:        StatusPending,
		Timestamp:     time.Now(),
		CustomerID:    draft.CustomerID,
		IsCredit:      draft.IsCredit,
		Notes:         draft.Notes,
		ReceiptNumber: draft.ReceiptNumber,
	}

	q.txns = append(q.txns, txn)
	q.persist()
	return txn, nil
}

// MarkSynced transitions the record to synced. Unknown ids are a no-op.
func (q *Queue) MarkSynced(id string) {
	q.setStatus(id, StatusSynced)
}

// MarkFailed transitions the record to failed. Unknown ids are a no-op.
func (q *Queue) MarkFailed(id string) {
	q.setStatus(id, StatusFailed)
}

func (q *Queue) setStatus(id string, status SyncStatus) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.txns {
		if q.txns[i].ID == id {
			q.txns[i].Status = status
			q.persist()
			return
		}
	}
}

// SetReceiptNumber stores a lazily generated receipt number so a retried
// sync reuses it instead of minting a new one.
func (q *Queue) SetReceiptNumber(id, receiptNumber string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.txns {
		if q.txns[i].ID == id {
			q.txns[i].ReceiptNumber = receiptNumber
			q.persist()
			return
		}
	}
}

// ResetFailedToPending bulk-resets failed records for a manual retry.
// Position and timestamp are preserved. Returns the number reset.
func (q *Queue) ResetFailedToPending() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	count := 0
	for i := range q.txns {
		if q.txns[i].Status == StatusFailed {
			q.txns[i].Status = StatusPending
			count++
		}
	}
	if count > 0 {
		q.persist()
	}
	return count
}

// PruneSynced removes all synced records, leaving the relative order of
// the rest untouched. Returns the number removed.
func (q *Queue) PruneSynced() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.txns[:0]
	removed := 0
	for _, txn := range q.txns {
		if txn.Status == StatusSynced {
			removed++
			continue
		}
		kept = append(kept, txn)
	}
	q.txns = kept
	if removed > 0 {
		q.persist()
	}
	return removed
}

// Stats counts records by status. Computed on every call, never cached.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()

	var s Stats
	for i := range q.txns {
		switch q.txns[i].Status {
		case StatusPending:
			s.Pending++
		case StatusSynced:
			s.Synced++
		case StatusFailed:
			s.Failed++
		}
	}
	s.Total = len(q.txns)
	return s
}

// Pending returns copies of pending records in insertion order, the order
// the sync engine drains them in.
func (q *Queue) Pending() []QueuedTransaction {
	q.mu.Lock()
	defer q.mu.Unlock()

	var pending []QueuedTransaction
	for _, txn := range q.txns {
		if txn.Status == StatusPending {
			pending = append(pending, txn)
		}
	}
	return pending
}

// Transactions returns copies of all records in display order, most
// recent first.
func (q *Queue) Transactions() []QueuedTransaction {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]QueuedTransaction, len(q.txns))
	for i, txn := range q.txns {
		out[len(q.txns)-1-i] = txn
	}
	return out
}
