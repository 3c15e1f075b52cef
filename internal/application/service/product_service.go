package service

import (
	"context"
	"time"

	"github.com/dukahub/dukapos-api/internal/domain/entity"
	"github.com/dukahub/dukapos-api/internal/domain/enum"
	"github.com/dukahub/dukapos-api/internal/domain/repository"
	"github.com/dukahub/dukapos-api/internal/infrastructure/events"
	infraRepo "github.com/dukahub/dukapos-api/internal/infrastructure/repository"
	"github.com/dukahub/dukapos-api/pkg/apperror"
	"github.com/dukahub/dukapos-api/pkg/barcode"
	"github.com/dukahub/dukapos-api/pkg/pagination"
	"github.com/dukahub/dukapos-api/pkg/utils"
	"github.com/google/uuid"
)

// ProductService handles product-related operations
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	movementRepo repository.StockMovementRepository
	publisher    events.Publisher
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	movementRepo repository.StockMovementRepository,
	publisher events.Publisher,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		movementRepo: movementRepo,
		publisher:    publisher,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	UserID          uuid.UUID
	CategoryID      *uuid.UUID
	Name            string
	SKU             string
	Barcode         *string
	GenerateBarcode bool
	Quantity        int
	QuantityAlert   int
	CostPrice       float64
	RetailPrice     float64
	WholesalePrice  float64
	TaxRate         int
	Notes           *string
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	locationID, ok := infraRepo.GetLocationID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Location context required")
	}

	if input.Quantity < 0 || input.QuantityAlert < 0 {
		return nil, apperror.NewBadRequestError("Quantities cannot be negative")
	}
	if input.CostPrice < 0 || input.RetailPrice < 0 || input.WholesalePrice < 0 {
		return nil, apperror.NewBadRequestError("Prices cannot be negative")
	}

	// Auto-generate SKU if not provided
	sku := input.SKU
	if sku == "" {
		sku = utils.GenerateSKU()
	}

	existingProduct, err := s.productRepo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existingProduct != nil {
		return nil, apperror.NewConflictError("Product SKU already exists")
	}

	code := input.Barcode
	if code != nil {
		if err := barcode.Validate(*code); err != nil {
			return nil, apperror.NewBadRequestError("Invalid barcode: " + err.Error())
		}
		existing, err := s.productRepo.GetByBarcode(ctx, *code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Barcode already assigned to another product")
		}
	} else if input.GenerateBarcode {
		seq, err := s.productRepo.NextBarcodeSequence(ctx)
		if err != nil {
			return nil, err
		}
		generated, err := barcode.Generate(seq)
		if err != nil {
			return nil, err
		}
		code = &generated
	}

	slug := utils.Slugify(input.Name)

	product := &entity.Product{
		LocationID:    locationID,
		UserID:        input.UserID,
		CategoryID:    input.CategoryID,
		Name:          input.Name,
		Slug:          slug,
		SKU:           sku,
		Barcode:       code,
		Quantity:      input.Quantity,
		QuantityAlert: input.QuantityAlert,
		TaxRate:       input.TaxRate,
		Notes:         input.Notes,
	}
	product.SetCostPriceFromDecimal(input.CostPrice)
	product.SetRetailPriceFromDecimal(input.RetailPrice)
	product.SetWholesalePriceFromDecimal(input.WholesalePrice)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	if product.Quantity > 0 {
		movement := &entity.StockMovement{
			LocationID: locationID,
			ProductID:  product.ID,
			Type:       enum.MovementTypeRestock,
			Quantity:   product.Quantity,
		}
		if err := s.movementRepo.Create(ctx, movement); err != nil {
			return nil, err
		}
	}

	events.PublishAsync(s.publisher, events.ChangeEvent{
		Table:      entity.Product{}.TableName(),
		Action:     "created",
		RecordID:   product.ID,
		LocationID: locationID,
	})

	return s.productRepo.GetByID(ctx, product.ID)
}

// GetProduct retrieves a product by slug
func (s *ProductService) GetProduct(ctx context.Context, slug string) (*entity.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// GetProductByID retrieves a product by ID
func (s *ProductService) GetProductByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// GetProductByBarcode retrieves a product by a scanned barcode
func (s *ProductService) GetProductByBarcode(ctx context.Context, code string) (*entity.Product, error) {
	if err := barcode.Validate(code); err != nil {
		return nil, apperror.NewBadRequestError("Invalid barcode: " + err.Error())
	}
	product, err := s.productRepo.GetByBarcode(ctx, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// ListProductsWithCursor lists products with cursor-based pagination
func (s *ProductService) ListProductsWithCursor(ctx context.Context, params *repository.ProductCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Product], error) {
	products, err := s.productRepo.ListWithCursor(ctx, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(products, params.Cursor.Limit,
		func(p entity.Product) string { return p.ID.String() },
		func(p entity.Product) time.Time { return p.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	ProductSlug    string
	CategoryID     *uuid.UUID
	Name           *string
	SKU            *string
	Barcode        *string
	QuantityAlert  *int
	CostPrice      *float64
	RetailPrice    *float64
	WholesalePrice *float64
	TaxRate        *int
	Notes          *string
}

// UpdateProduct updates a product. Quantity changes go through AdjustStock
// or RestockProduct so the movement ledger stays complete.
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, input.ProductSlug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.SKU != nil && *input.SKU != product.SKU {
		existingProduct, err := s.productRepo.GetBySKU(ctx, *input.SKU)
		if err != nil {
			return nil, err
		}
		if existingProduct != nil && existingProduct.ID != product.ID {
			return nil, apperror.NewConflictError("Product SKU already exists")
		}
		product.SKU = *input.SKU
	}

	if input.Barcode != nil {
		if err := barcode.Validate(*input.Barcode); err != nil {
			return nil, apperror.NewBadRequestError("Invalid barcode: " + err.Error())
		}
		existing, err := s.productRepo.GetByBarcode(ctx, *input.Barcode)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != product.ID {
			return nil, apperror.NewConflictError("Barcode already assigned to another product")
		}
		product.Barcode = input.Barcode
	}

	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if input.Name != nil {
		product.Name = *input.Name
		product.Slug = utils.Slugify(*input.Name)
	}
	if input.QuantityAlert != nil {
		product.QuantityAlert = *input.QuantityAlert
	}
	if input.CostPrice != nil {
		product.SetCostPriceFromDecimal(*input.CostPrice)
	}
	if input.RetailPrice != nil {
		product.SetRetailPriceFromDecimal(*input.RetailPrice)
	}
	if input.WholesalePrice != nil {
		product.SetWholesalePriceFromDecimal(*input.WholesalePrice)
	}
	if input.TaxRate != nil {
		product.TaxRate = *input.TaxRate
	}
	if input.Notes != nil {
		product.Notes = input.Notes
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	events.PublishAsync(s.publisher, events.ChangeEvent{
		Table:      entity.Product{}.TableName(),
		Action:     "updated",
		RecordID:   product.ID,
		LocationID: product.LocationID,
	})

	return s.productRepo.GetByID(ctx, product.ID)
}

// DeleteProduct deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, slug string) error {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}

	if err := s.productRepo.Delete(ctx, product.ID); err != nil {
		return err
	}

	events.PublishAsync(s.publisher, events.ChangeEvent{
		Table:      entity.Product{}.TableName(),
		Action:     "deleted",
		RecordID:   product.ID,
		LocationID: product.LocationID,
	})

	return nil
}

// GetLowStockProducts returns products with low stock
func (s *ProductService) GetLowStockProducts(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx)
}

// RestockProduct increases stock and records a restock movement
func (s *ProductService) RestockProduct(ctx context.Context, id uuid.UUID, quantity int, reference *string) (*entity.Product, error) {
	if quantity <= 0 {
		return nil, apperror.NewBadRequestError("Restock quantity must be positive")
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if err := s.productRepo.AtomicIncrementBatch(ctx, map[uuid.UUID]int{id: quantity}); err != nil {
		return nil, err
	}

	movement := &entity.StockMovement{
		LocationID: product.LocationID,
		ProductID:  id,
		Type:       enum.MovementTypeRestock,
		Quantity:   quantity,
		Reference:  reference,
	}
	if err := s.movementRepo.Create(ctx, movement); err != nil {
		return nil, err
	}

	events.PublishAsync(s.publisher, events.ChangeEvent{
		Table:      entity.Product{}.TableName(),
		Action:     "updated",
		RecordID:   id,
		LocationID: product.LocationID,
	})

	return s.productRepo.GetByID(ctx, id)
}

// AdjustStock sets a signed correction on a product's stock (stocktake)
func (s *ProductService) AdjustStock(ctx context.Context, id uuid.UUID, delta int, reference *string) (*entity.Product, error) {
	if delta == 0 {
		return nil, apperror.NewBadRequestError("Adjustment cannot be zero")
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if delta > 0 {
		if err := s.productRepo.AtomicIncrementBatch(ctx, map[uuid.UUID]int{id: delta}); err != nil {
			return nil, err
		}
	} else {
		ok, err := s.productRepo.AtomicDecrementQuantity(ctx, id, -delta)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperror.ErrInsufficientStock
		}
	}

	movement := &entity.StockMovement{
		LocationID: product.LocationID,
		ProductID:  id,
		Type:       enum.MovementTypeAdjustment,
		Quantity:   delta,
		Reference:  reference,
	}
	if err := s.movementRepo.Create(ctx, movement); err != nil {
		return nil, err
	}

	events.PublishAsync(s.publisher, events.ChangeEvent{
		Table:      entity.Product{}.TableName(),
		Action:     "updated",
		RecordID:   id,
		LocationID: product.LocationID,
	})

	return s.productRepo.GetByID(ctx, id)
}

// GetStockMovements returns a product's movement ledger, newest first
func (s *ProductService) GetStockMovements(ctx context.Context, productID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.StockMovement], error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	movements, total, err := s.movementRepo.ListByProduct(ctx, productID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(movements, pag), nil
}
