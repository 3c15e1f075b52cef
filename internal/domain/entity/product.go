package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a product in the inventory
type Product struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	LocationID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"location_id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID     *uuid.UUID     `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	Slug           string         `gorm:"size:255;unique;not null" json:"slug"`
	SKU            string         `gorm:"size:100;unique;not null;column:sku" json:"sku"`
	Barcode        *string        `gorm:"size:13;uniqueIndex" json:"barcode,omitempty"`
	Quantity       int            `gorm:"default:0" json:"quantity"`
	QuantityAlert  int            `gorm:"default:0" json:"quantity_alert"`
	CostPrice      int64          `gorm:"default:0" json:"-"` // Stored in cents
	RetailPrice    int64          `gorm:"default:0" json:"-"` // Stored in cents
	WholesalePrice int64          `gorm:"default:0" json:"-"` // Stored in cents
	TaxRate        int            `gorm:"default:0" json:"tax_rate"`
	Notes          *string        `gorm:"type:text" json:"notes,omitempty"`
	ProductImage   *string        `gorm:"size:255" json:"product_image,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Location Location  `gorm:"foreignKey:LocationID" json:"-"`
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// GetRetailPriceDecimal returns the retail price as a decimal (for display)
func (p *Product) GetRetailPriceDecimal() float64 {
	return float64(p.RetailPrice) / 100
}

// GetWholesalePriceDecimal returns the wholesale price as a decimal (for display)
func (p *Product) GetWholesalePriceDecimal() float64 {
	return float64(p.WholesalePrice) / 100
}

// SetRetailPriceFromDecimal sets the retail price from a decimal value
func (p *Product) SetRetailPriceFromDecimal(price float64) {
	p.RetailPrice = int64(price * 100)
}

// SetWholesalePriceFromDecimal sets the wholesale price from a decimal value
func (p *Product) SetWholesalePriceFromDecimal(price float64) {
	p.WholesalePrice = int64(price * 100)
}

// SetCostPriceFromDecimal sets the cost price from a decimal value
func (p *Product) SetCostPriceFromDecimal(price float64) {
	p.CostPrice = int64(price * 100)
}

// UnitPrice returns the price in cents for the requested pricing tier
func (p *Product) UnitPrice(wholesale bool) int64 {
	if wholesale && p.WholesalePrice > 0 {
		return p.WholesalePrice
	}
	return p.RetailPrice
}

// MarshalJSON converts Product to JSON with decimal prices
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		CostPrice      float64 `json:"cost_price"`
		RetailPrice    float64 `json:"retail_price"`
		WholesalePrice float64 `json:"wholesale_price"`
	}{
		Alias:          Alias(p),
		CostPrice:      float64(p.CostPrice) / 100,
		RetailPrice:    p.GetRetailPriceDecimal(),
		WholesalePrice: p.GetWholesalePriceDecimal(),
	})
}

// Category represents a product category
type Category struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	LocationID uuid.UUID      `gorm:"type:uuid;not null;index" json:"location_id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name       string         `gorm:"size:255;not null" json:"name"`
	Slug       string         `gorm:"size:255;unique;not null" json:"slug"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Location Location  `gorm:"foreignKey:LocationID" json:"-"`
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Products []Product `gorm:"foreignKey:CategoryID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
