package repository

import (
	"context"

	"github.com/dukahub/dukapos-api/internal/domain/entity"
	"github.com/dukahub/dukapos-api/pkg/pagination"
	"github.com/google/uuid"
)

// StockMovementRepository defines the interface for the stock movement ledger
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	CreateBatch(ctx context.Context, movements []entity.StockMovement) error
	ListByProduct(ctx context.Context, productID uuid.UUID, params *pagination.PaginationParams) ([]entity.StockMovement, int64, error)
}
