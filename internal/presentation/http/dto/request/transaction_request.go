package request

import (
	"time"

	"github.com/google/uuid"
)

// TransactionItemRequest represents one line of a sale
type TransactionItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
	UnitType  string    `json:"unit_type"`
	UnitPrice float64   `json:"unit_price" binding:"min=0"`
}

// CreateTransactionRequest represents a sale submitted by a terminal.
// ClientTxID is the terminal-generated identifier used to detect replays
// when a sync is retried after a network failure.
type CreateTransactionRequest struct {
	ClientTxID    *string                  `json:"client_tx_id"`
	CustomerID    *uuid.UUID               `json:"customer_id"`
	ReceiptNumber *string                  `json:"receipt_number"`
	PaymentMethod string                   `json:"payment_method"`
	IsCredit      bool                     `json:"is_credit"`
	Discount      float64                  `json:"discount" binding:"min=0"`
	ServiceFee    float64                  `json:"service_fee" binding:"min=0"`
	DeliveryFee   float64                  `json:"delivery_fee" binding:"min=0"`
	Notes         *string                  `json:"notes"`
	CreatedAt     *time.Time               `json:"created_at"` // Original sale time for offline replays
	Items         []TransactionItemRequest `json:"items" binding:"required,min=1,dive"`
}

// TransactionFilterRequest represents transaction list filter parameters
type TransactionFilterRequest struct {
	Status        string `form:"status"`
	PaymentMethod string `form:"payment_method"`
	IsCredit      *bool  `form:"is_credit"`
	StartDate     string `form:"start_date"`
	EndDate       string `form:"end_date"`
	Search        string `form:"search"`
	Page          int    `form:"page"`
	PerPage       int    `form:"per_page"`
	Limit         int    `form:"limit"` // For cursor-based pagination
}
