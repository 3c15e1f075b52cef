package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dukahub/dukapos-api/internal/domain/entity"
	"github.com/dukahub/dukapos-api/internal/domain/enum"
	"github.com/dukahub/dukapos-api/internal/domain/repository"
	"github.com/dukahub/dukapos-api/internal/infrastructure/events"
	infraRepo "github.com/dukahub/dukapos-api/internal/infrastructure/repository"
	"github.com/dukahub/dukapos-api/pkg/apperror"
	"github.com/dukahub/dukapos-api/pkg/pagination"
	"github.com/dukahub/dukapos-api/pkg/receipt"
	"github.com/google/uuid"
)

// TransactionService handles sale transactions, including offline submissions
// replayed by terminals.
type TransactionService struct {
	transactionRepo repository.TransactionRepository
	itemRepo        repository.TransactionItemRepository
	productRepo     repository.ProductRepository
	customerRepo    repository.CustomerRepository
	movementRepo    repository.StockMovementRepository
	publisher       events.Publisher
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	transactionRepo repository.TransactionRepository,
	itemRepo repository.TransactionItemRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	movementRepo repository.StockMovementRepository,
	publisher events.Publisher,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		itemRepo:        itemRepo,
		productRepo:     productRepo,
		customerRepo:    customerRepo,
		movementRepo:    movementRepo,
		publisher:       publisher,
	}
}

// TransactionItemInput represents a line item in a sale
type TransactionItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitType  enum.UnitType
	UnitPrice float64 // price the terminal charged, in major units
}

// CreateTransactionInput represents the create transaction input
type CreateTransactionInput struct {
	UserID        uuid.UUID
	CustomerID    *uuid.UUID
	ClientTxID    *string
	ReceiptNumber string // terminal-assigned; generated server side when empty
	PaymentMethod string
	IsCredit      bool
	Discount      float64
	ServiceFee    float64
	DeliveryFee   float64
	Notes         *string
	CreatedAt     *time.Time // terminal sale time; defaults to now
	Items         []TransactionItemInput
}

// StockResult records the outcome of one product's stock decrement.
// Stock updates are best effort: a failed decrement does not fail the sale.
type StockResult struct {
	ProductID uuid.UUID `json:"product_id"`
	Applied   bool      `json:"applied"`
	Reason    string    `json:"reason,omitempty"`
}

// CreateTransactionResult is the outcome of a transaction submission
type CreateTransactionResult struct {
	Transaction  *entity.Transaction `json:"transaction"`
	Replayed     bool                `json:"replayed"`
	StockResults []StockResult       `json:"stock_results,omitempty"`
}

// CreateTransaction records a completed sale. If the input carries a client
// transaction id already seen, the stored transaction is returned unchanged
// so terminals that lost an acknowledgment never double-submit.
func (s *TransactionService) CreateTransaction(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionResult, error) {
	locationID, ok := infraRepo.GetLocationID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Location context required")
	}

	// Replay detection on the terminal-assigned id
	if input.ClientTxID != nil && *input.ClientTxID != "" {
		existing, err := s.transactionRepo.GetByClientTxID(ctx, *input.ClientTxID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &CreateTransactionResult{Transaction: existing, Replayed: true}, nil
		}
	}

	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Transaction must have at least one item")
	}

	// Batch fetch all products in one query (prevents N+1)
	productIDs := make([]uuid.UUID, len(input.Items))
	for i, item := range input.Items {
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	var subtotal int64
	var tax int64
	var totalItems int
	items := make([]entity.TransactionItem, 0, len(input.Items))
	decrements := make(map[uuid.UUID]int)

	for _, item := range input.Items {
		product, exists := productMap[item.ProductID]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}
		if item.Quantity <= 0 {
			return nil, apperror.NewBadRequestError("Item quantity must be positive")
		}
		if item.UnitPrice < 0 {
			return nil, apperror.NewBadRequestError("Item price cannot be negative")
		}

		unitType := item.UnitType
		if unitType == "" {
			unitType = enum.UnitTypeRetail
		}

		// Trust the terminal's charged price when given; otherwise use the
		// catalog price for the requested tier.
		unitPriceCents := int64(item.UnitPrice * 100)
		if unitPriceCents == 0 {
			unitPriceCents = product.UnitPrice(unitType == enum.UnitTypeWholesale)
		}

		itemTotal := unitPriceCents * int64(item.Quantity)
		subtotal += itemTotal
		totalItems += item.Quantity
		tax += itemTotal * int64(product.TaxRate) / 100

		items = append(items, entity.TransactionItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitType:  unitType,
			UnitPrice: unitPriceCents,
			Total:     itemTotal,
		})

		decrements[product.ID] += item.Quantity
	}

	discount := int64(input.Discount * 100)
	serviceFee := int64(input.ServiceFee * 100)
	deliveryFee := int64(input.DeliveryFee * 100)
	if discount < 0 || serviceFee < 0 || deliveryFee < 0 {
		return nil, apperror.NewBadRequestError("Fees and discount cannot be negative")
	}
	total := subtotal + tax + serviceFee + deliveryFee - discount
	if total < 0 {
		total = 0
	}

	createdAt := time.Now()
	if input.CreatedAt != nil {
		createdAt = *input.CreatedAt
	}

	receiptNumber := input.ReceiptNumber
	if receiptNumber == "" {
		receiptNumber = receipt.Number(createdAt)
	}

	// Credit sales charge the customer's account up front
	if input.IsCredit {
		if input.CustomerID == nil {
			return nil, apperror.NewBadRequestError("Credit sale requires a customer")
		}
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		if !customer.CanCharge(total) {
			return nil, apperror.NewAppError(409, "Credit limit exceeded")
		}
	} else if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}

	txn := &entity.Transaction{
		LocationID:    locationID,
		UserID:        input.UserID,
		CustomerID:    input.CustomerID,
		ReceiptNumber: receiptNumber,
		ClientTxID:    input.ClientTxID,
		Status:        enum.TransactionStatusCompleted,
		TotalItems:    totalItems,
		Subtotal:      subtotal,
		Tax:           tax,
		Discount:      discount,
		ServiceFee:    serviceFee,
		DeliveryFee:   deliveryFee,
		Total:         total,
		PaymentMethod: input.PaymentMethod,
		IsCredit:      input.IsCredit,
		Notes:         input.Notes,
		CreatedAt:     createdAt,
	}

	if err := s.transactionRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	for i := range items {
		items[i].TransactionID = txn.ID
	}
	if err := s.itemRepo.CreateBatch(ctx, items); err != nil {
		return nil, err
	}

	if input.IsCredit {
		entry := &entity.CreditEntry{
			CustomerID:    *input.CustomerID,
			TransactionID: &txn.ID,
			Type:          enum.CreditEntryTypeCharge,
			Amount:        total,
		}
		if err := s.customerRepo.AdjustCreditBalance(ctx, *input.CustomerID, total, entry); err != nil {
			return nil, err
		}
	}

	// Best-effort stock decrement: the sale already happened at the till,
	// so insufficient stock is recorded but never rejects the transaction.
	stockResults := s.applyStockDecrements(ctx, locationID, txn, decrements)

	events.PublishAsync(s.publisher, events.ChangeEvent{
		Table:      entity.Transaction{}.TableName(),
		Action:     "created",
		RecordID:   txn.ID,
		LocationID: locationID,
	})

	full, err := s.transactionRepo.GetWithItems(ctx, txn.ID)
	if err != nil {
		return nil, err
	}

	return &CreateTransactionResult{
		Transaction:  full,
		StockResults: stockResults,
	}, nil
}

func (s *TransactionService) applyStockDecrements(ctx context.Context, locationID uuid.UUID, txn *entity.Transaction, decrements map[uuid.UUID]int) []StockResult {
	results := make([]StockResult, 0, len(decrements))
	movements := make([]entity.StockMovement, 0, len(decrements))
	ref := txn.ReceiptNumber

	for productID, qty := range decrements {
		applied, err := s.productRepo.AtomicDecrementQuantity(ctx, productID, qty)
		result := StockResult{ProductID: productID, Applied: applied}
		switch {
		case err != nil:
			result.Reason = err.Error()
		case !applied:
			result.Reason = "insufficient stock"
		default:
			movements = append(movements, entity.StockMovement{
				LocationID: locationID,
				ProductID:  productID,
				Type:       enum.MovementTypeSale,
				Quantity:   -qty,
				Reference:  &ref,
			})
		}
		results = append(results, result)
	}

	if err := s.movementRepo.CreateBatch(ctx, movements); err != nil {
		// Ledger rows are advisory; the product quantities are authoritative
		for i := range results {
			if results[i].Applied && results[i].Reason == "" {
				results[i].Reason = "movement ledger write failed"
			}
		}
	}

	if len(movements) > 0 {
		events.PublishAsync(s.publisher, events.ChangeEvent{
			Table:      entity.Product{}.TableName(),
			Action:     "updated",
			RecordID:   txn.ID,
			LocationID: locationID,
		})
	}

	return results
}

// GetTransaction retrieves a transaction by ID with its items
func (s *TransactionService) GetTransaction(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	txn, err := s.transactionRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return txn, nil
}

// GetTransactionByReceipt retrieves a transaction by its receipt number
func (s *TransactionService) GetTransactionByReceipt(ctx context.Context, receiptNumber string) (*entity.Transaction, error) {
	txn, err := s.transactionRepo.GetByReceiptNumber(ctx, receiptNumber)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return txn, nil
}

// ListTransactions lists transactions with filtering
func (s *TransactionService) ListTransactions(ctx context.Context, params *repository.TransactionFilterParams) (*pagination.PaginatedResult[entity.Transaction], error) {
	txns, total, err := s.transactionRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(txns, pag), nil
}

// ListTransactionsWithCursor lists transactions with cursor-based pagination
func (s *TransactionService) ListTransactionsWithCursor(ctx context.Context, params *repository.TransactionCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Transaction], error) {
	txns, err := s.transactionRepo.ListWithCursor(ctx, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(txns, params.Cursor.Limit,
		func(t entity.Transaction) string { return t.ID.String() },
		func(t entity.Transaction) time.Time { return t.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// VoidTransaction voids a completed transaction, restores stock and reverses
// any credit charge.
func (s *TransactionService) VoidTransaction(ctx context.Context, id uuid.UUID) error {
	txn, err := s.transactionRepo.GetWithItems(ctx, id)
	if err != nil {
		return err
	}
	if txn == nil {
		return apperror.NewNotFoundError("Transaction")
	}

	if txn.Status != enum.TransactionStatusCompleted {
		return apperror.NewAppError(400, "Only completed transactions can be voided")
	}

	increments := make(map[uuid.UUID]int)
	movements := make([]entity.StockMovement, 0, len(txn.Items))
	ref := txn.ReceiptNumber
	for _, item := range txn.Items {
		increments[item.ProductID] += item.Quantity
		movements = append(movements, entity.StockMovement{
			LocationID: txn.LocationID,
			ProductID:  item.ProductID,
			Type:       enum.MovementTypeReturn,
			Quantity:   item.Quantity,
			Reference:  &ref,
		})
	}

	if err := s.productRepo.AtomicIncrementBatch(ctx, increments); err != nil {
		return err
	}
	if err := s.movementRepo.CreateBatch(ctx, movements); err != nil {
		return err
	}

	if txn.IsCredit && txn.CustomerID != nil {
		entry := &entity.CreditEntry{
			CustomerID:    *txn.CustomerID,
			TransactionID: &txn.ID,
			Type:          enum.CreditEntryTypePayment,
			Amount:        txn.Total,
		}
		if err := s.customerRepo.AdjustCreditBalance(ctx, *txn.CustomerID, -txn.Total, entry); err != nil {
			return err
		}
	}

	if err := s.transactionRepo.UpdateStatus(ctx, id, enum.TransactionStatusVoided); err != nil {
		return err
	}

	events.PublishAsync(s.publisher, events.ChangeEvent{
		Table:      entity.Transaction{}.TableName(),
		Action:     "updated",
		RecordID:   txn.ID,
		LocationID: txn.LocationID,
	})

	return nil
}
