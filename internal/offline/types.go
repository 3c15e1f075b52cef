package offline

import (
	"time"

	"github.com/shopspring/decimal"
)

// SyncStatus is the lifecycle state of a queued transaction.
type SyncStatus string

const (
	StatusPending SyncStatus = "pending"
	StatusSynced  SyncStatus = "synced"
	StatusFailed  SyncStatus = "failed"
)

// Valid reports whether the status is a known value.
func (s SyncStatus) Valid() bool {
	switch s {
	case StatusPending, StatusSynced, StatusFailed:
		return true
	}
	return false
}

// QueuedItem is one line of a queued sale.
type QueuedItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	UnitType  string          `json:"unit_type"` // retail or wholesale
}

// QueuedTransaction is a sale captured on the terminal awaiting remote
// confirmation. The id and timestamp are immutable once assigned; only
// the status and a lazily assigned receipt number ever change.
type QueuedTransaction struct {
	ID            string          `json:"id"`
	Items         []QueuedItem    `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Discount      decimal.Decimal `json:"discount"`
	ServiceFee    decimal.Decimal `json:"service_fee"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	Status        SyncStatus      `json:"status"`
	Timestamp     time.Time       `json:"timestamp"`
	CustomerID    *string         `json:"customer_id,omitempty"`
	IsCredit      bool            `json:"is_credit"`
	Notes         *string         `json:"notes,omitempty"`
	ReceiptNumber string          `json:"receipt_number,omitempty"`
}

// TransactionDraft is the caller-supplied part of a queued transaction.
// The queue assigns id, timestamp and status.
type TransactionDraft struct {
	Items         []QueuedItem
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Discount      decimal.Decimal
	ServiceFee    decimal.Decimal
	DeliveryFee   decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod string
	CustomerID    *string
	IsCredit      bool
	Notes         *string
	ReceiptNumber string
}

// CachedProduct is a local mirror of a catalog entry so the terminal can
// build sales while offline.
type CachedProduct struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	SKU            string          `json:"sku"`
	Barcode        string          `json:"barcode,omitempty"`
	RetailPrice    decimal.Decimal `json:"retail_price"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	Quantity       int             `json:"quantity"`
}

// Stats are queue counts by status, computed on read.
type Stats struct {
	Pending int `json:"pending"`
	Synced  int `json:"synced"`
	Failed  int `json:"failed"`
	Total   int `json:"total"`
}
