package offline

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/dukahub/dukapos-api/pkg/receipt"
)

var (
	// ErrOffline is returned when a sync is requested without connectivity.
	ErrOffline = errors.New("cannot sync while offline")
	// ErrSyncBusy is returned when a sync is already draining the queue.
	ErrSyncBusy = errors.New("sync already in progress")
)

// Report summarizes one drain of the queue.
type Report struct {
	Synced       int           `json:"synced"`
	Failed       int           `json:"failed"`
	StockResults []StockResult `json:"stock_results,omitempty"`
}

// Engine drains pending transactions to the remote service, one record
// at a time in insertion order. At most one drain runs at a time; a
// concurrent request is rejected, not queued.
type Engine struct {
	queue   *Queue
	remote  RemoteService
	monitor *Monitor
	log     *logrus.Logger
	syncing atomic.Bool
}

// NewEngine wires the queue, remote service and connectivity monitor.
func NewEngine(queue *Queue, remote RemoteService, monitor *Monitor, log *logrus.Logger) *Engine {
	return &Engine{queue: queue, remote: remote, monitor: monitor, log: log}
}

// IsSyncing reports whether a drain is currently running.
func (e *Engine) IsSyncing() bool {
	return e.syncing.Load()
}

// Sync drains all pending transactions. Each record succeeds or fails on
// its own; one rejection never aborts the rest. Records that fail stay
// failed until an explicit retry resets them.
func (e *Engine) Sync(ctx context.Context) (*Report, error) {
	if !e.monitor.IsOnline() {
		return nil, ErrOffline
	}
	if !e.syncing.CompareAndSwap(false, true) {
		return nil, ErrSyncBusy
	}
	defer e.syncing.Store(false)

	pending := e.queue.Pending()
	report := &Report{}
	if len(pending) == 0 {
		return report, nil
	}

	e.log.WithField("pending", len(pending)).Info("starting sync")

	for i := range pending {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		txn := pending[i]

		// Mint the receipt number once and persist it so a later retry
		// submits the same number instead of a fresh one.
		if txn.ReceiptNumber == "" {
			txn.ReceiptNumber = receipt.Number(txn.Timestamp)
			e.queue.SetReceiptNumber(txn.ID, txn.ReceiptNumber)
		}

		result, err := e.remote.SubmitTransaction(ctx, &txn)
		if err != nil {
			e.log.WithError(err).WithField("id", txn.ID).Warn("transaction sync failed")
			e.queue.MarkFailed(txn.ID)
			report.Failed++
			continue
		}

		e.queue.MarkSynced(txn.ID)
		report.Synced++

		if result.Replayed {
			e.log.WithField("id", txn.ID).Info("transaction was already recorded remotely")
		}
		for _, sr := range result.StockResults {
			if !sr.Applied {
				e.log.WithFields(logrus.Fields{
					"id":      txn.ID,
					"product": sr.ProductID,
					"reason":  sr.Reason,
				}).Warn("stock decrement not applied")
			}
		}
		report.StockResults = append(report.StockResults, result.StockResults...)
	}

	e.log.WithFields(logrus.Fields{
		"synced": report.Synced,
		"failed": report.Failed,
	}).Info("sync finished")
	return report, nil
}

// Retry resets failed records to pending and immediately drains the
// queue. Returns how many records were reset alongside the drain report.
func (e *Engine) Retry(ctx context.Context) (int, *Report, error) {
	reset := e.queue.ResetFailedToPending()
	report, err := e.Sync(ctx)
	return reset, report, err
}
