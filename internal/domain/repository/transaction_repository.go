package repository

import (
	"context"
	"time"

	"github.com/dukahub/dukapos-api/internal/domain/entity"
	"github.com/dukahub/dukapos-api/internal/domain/enum"
	"github.com/dukahub/dukapos-api/pkg/pagination"
	"github.com/google/uuid"
)

// TransactionRepository defines the interface for transaction data operations
type TransactionRepository interface {
	Create(ctx context.Context, txn *entity.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	GetByReceiptNumber(ctx context.Context, receiptNumber string) (*entity.Transaction, error)
	// GetByClientTxID looks up a transaction by the terminal-assigned id,
	// used to detect replays of offline submissions.
	GetByClientTxID(ctx context.Context, clientTxID string) (*entity.Transaction, error)
	Update(ctx context.Context, txn *entity.Transaction) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.TransactionStatus) error
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	List(ctx context.Context, params *TransactionFilterParams) ([]entity.Transaction, int64, error)
	ListWithCursor(ctx context.Context, params *TransactionCursorFilterParams) ([]entity.Transaction, error)
}

// TransactionFilterParams contains filtering parameters for transaction queries
type TransactionFilterParams struct {
	Pagination    *pagination.PaginationParams
	Search        string
	Status        *enum.TransactionStatus
	CustomerID    *uuid.UUID
	PaymentMethod string
	IsCredit      *bool
	StartDate     *time.Time
	EndDate       *time.Time
	SortBy        string
	SortOrder     string
}

// TransactionCursorFilterParams contains cursor-based filtering for transaction queries
type TransactionCursorFilterParams struct {
	Cursor     *pagination.CursorParams
	Search     string
	Status     *enum.TransactionStatus
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// TransactionItemRepository defines the interface for transaction item data operations
type TransactionItemRepository interface {
	CreateBatch(ctx context.Context, items []entity.TransactionItem) error
	GetByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]entity.TransactionItem, error)
	DeleteByTransactionID(ctx context.Context, transactionID uuid.UUID) error
}
