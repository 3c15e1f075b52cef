package request

import "github.com/google/uuid"

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	CategoryID      *uuid.UUID `json:"category_id"`
	Name            string     `json:"name" binding:"required,min=2,max=255"`
	SKU             string     `json:"sku" binding:"omitempty,max=100"`
	Barcode         *string    `json:"barcode" binding:"omitempty,max=13"`
	GenerateBarcode bool       `json:"generate_barcode"`
	Quantity        int        `json:"quantity" binding:"min=0"`
	QuantityAlert   int        `json:"quantity_alert" binding:"min=0"`
	CostPrice       float64    `json:"cost_price" binding:"min=0"`
	RetailPrice     float64    `json:"retail_price" binding:"min=0"`
	WholesalePrice  float64    `json:"wholesale_price" binding:"min=0"`
	TaxRate         int        `json:"tax_rate" binding:"min=0,max=100"`
	Notes           *string    `json:"notes"`
}

// UpdateProductRequest represents a product update request. Quantity is
// deliberately absent; stock changes go through the stock endpoints.
type UpdateProductRequest struct {
	CategoryID     *uuid.UUID `json:"category_id"`
	Name           *string    `json:"name" binding:"omitempty,min=2,max=255"`
	SKU            *string    `json:"sku" binding:"omitempty,min=1,max=100"`
	Barcode        *string    `json:"barcode" binding:"omitempty,max=13"`
	QuantityAlert  *int       `json:"quantity_alert" binding:"omitempty,min=0"`
	CostPrice      *float64   `json:"cost_price" binding:"omitempty,min=0"`
	RetailPrice    *float64   `json:"retail_price" binding:"omitempty,min=0"`
	WholesalePrice *float64   `json:"wholesale_price" binding:"omitempty,min=0"`
	TaxRate        *int       `json:"tax_rate" binding:"omitempty,min=0,max=100"`
	Notes          *string    `json:"notes"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id"`
	LowStock   bool   `form:"low_stock"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
	Limit      int    `form:"limit"` // For cursor-based pagination
}

// RestockRequest represents a restock request
type RestockRequest struct {
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	Reference *string `json:"reference"`
}

// AdjustStockRequest represents a manual stock adjustment request
type AdjustStockRequest struct {
	Delta     int     `json:"delta" binding:"required"`
	Reference *string `json:"reference"`
}
