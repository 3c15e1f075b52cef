package repository

import (
	"context"

	"github.com/dukahub/dukapos-api/internal/domain/entity"
	"github.com/dukahub/dukapos-api/pkg/pagination"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error)
	ListWithCursor(ctx context.Context, params *pagination.CursorParams, search string) ([]entity.Customer, error)
	// AdjustCreditBalance atomically adds delta cents to a customer's balance
	// and writes the matching ledger entry in one transaction.
	AdjustCreditBalance(ctx context.Context, customerID uuid.UUID, delta int64, entry *entity.CreditEntry) error
	// ListCreditEntries returns a customer's credit ledger, newest first.
	ListCreditEntries(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) ([]entity.CreditEntry, int64, error)
	// GetTotalOutstandingCredit sums credit balances across all customers in scope.
	GetTotalOutstandingCredit(ctx context.Context) (int64, error)
}

// SupplierRepository defines the interface for supplier data operations
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Supplier, int64, error)
}
