package entity

import (
	"time"

	"github.com/dukahub/dukapos-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockMovement is an append-only ledger row recording a stock change.
// Quantity is signed: negative for sales, positive for restocks/returns.
type StockMovement struct {
	ID         uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	LocationID uuid.UUID         `gorm:"type:uuid;not null;index" json:"location_id"`
	ProductID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"product_id"`
	Type       enum.MovementType `gorm:"size:50;not null" json:"type"`
	Quantity   int               `gorm:"not null" json:"quantity"`
	Reference  *string           `gorm:"size:255" json:"reference,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new stock movement
func (m *StockMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockMovement model
func (StockMovement) TableName() string {
	return "stock_movements"
}
