package entity

import (
	"encoding/json"
	"time"

	"github.com/dukahub/dukapos-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction represents a completed sale
type Transaction struct {
	ID            uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	LocationID    uuid.UUID              `gorm:"type:uuid;not null;index" json:"location_id"`
	UserID        uuid.UUID              `gorm:"type:uuid;not null;index" json:"user_id"`
	CustomerID    *uuid.UUID             `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	ReceiptNumber string                 `gorm:"size:100;unique;not null" json:"receipt_number"`
	ClientTxID    *string                `gorm:"size:100;uniqueIndex" json:"client_tx_id,omitempty"`
	Status        enum.TransactionStatus `gorm:"size:50;default:'completed'" json:"status"`
	TotalItems    int                    `gorm:"default:0" json:"total_items"`
	Subtotal      int64                  `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Tax           int64                  `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Discount      int64                  `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	ServiceFee    int64                  `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	DeliveryFee   int64                  `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Total         int64                  `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	PaymentMethod string                 `gorm:"size:50" json:"payment_method"`
	IsCredit      bool                   `gorm:"default:false" json:"is_credit"`
	Notes         *string                `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	DeletedAt     gorm.DeletedAt         `gorm:"index" json:"-"`

	// Relationships
	Location Location          `gorm:"foreignKey:LocationID" json:"-"`
	User     User              `gorm:"foreignKey:UserID" json:"-"`
	Customer *Customer         `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []TransactionItem `gorm:"foreignKey:TransactionID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (t Transaction) MarshalJSON() ([]byte, error) {
	type Alias Transaction
	return json.Marshal(&struct {
		Alias
		Subtotal    float64 `json:"subtotal"`
		Tax         float64 `json:"tax"`
		Discount    float64 `json:"discount"`
		ServiceFee  float64 `json:"service_fee"`
		DeliveryFee float64 `json:"delivery_fee"`
		Total       float64 `json:"total"`
	}{
		Alias:       Alias(t),
		Subtotal:    float64(t.Subtotal) / 100,
		Tax:         float64(t.Tax) / 100,
		Discount:    float64(t.Discount) / 100,
		ServiceFee:  float64(t.ServiceFee) / 100,
		DeliveryFee: float64(t.DeliveryFee) / 100,
		Total:       float64(t.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// GetTotalDecimal returns the total as a decimal
func (t *Transaction) GetTotalDecimal() float64 {
	return float64(t.Total) / 100
}

// TransactionItem represents a line item in a transaction
type TransactionItem struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID uuid.UUID      `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ProductID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity      int            `gorm:"not null" json:"quantity"`
	UnitType      enum.UnitType  `gorm:"size:50;default:'retail'" json:"unit_type"`
	UnitPrice     int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Total         int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Transaction Transaction `gorm:"foreignKey:TransactionID" json:"-"`
	Product     Product     `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (ti TransactionItem) MarshalJSON() ([]byte, error) {
	type Alias TransactionItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(ti),
		UnitPrice: float64(ti.UnitPrice) / 100,
		Total:     float64(ti.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new transaction item
func (ti *TransactionItem) BeforeCreate(tx *gorm.DB) error {
	if ti.ID == uuid.Nil {
		ti.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the TransactionItem model
func (TransactionItem) TableName() string {
	return "transaction_items"
}
