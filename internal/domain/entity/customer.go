package entity

import (
	"encoding/json"
	"time"

	"github.com/dukahub/dukapos-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a customer with an optional store-credit account
type Customer struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	LocationID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"location_id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Email         *string        `gorm:"size:255" json:"email,omitempty"`
	Phone         *string        `gorm:"size:50" json:"phone,omitempty"`
	Address       *string        `gorm:"type:text" json:"address,omitempty"`
	Photo         *string        `gorm:"size:255" json:"photo,omitempty"`
	CreditLimit   int64          `gorm:"default:0" json:"-"` // Stored in cents
	CreditBalance int64          `gorm:"default:0" json:"-"` // Stored in cents, owed to the store
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Location      Location      `gorm:"foreignKey:LocationID" json:"-"`
	User          User          `gorm:"foreignKey:UserID" json:"-"`
	Transactions  []Transaction `gorm:"foreignKey:CustomerID" json:"-"`
	CreditEntries []CreditEntry `gorm:"foreignKey:CustomerID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (c Customer) MarshalJSON() ([]byte, error) {
	type Alias Customer
	return json.Marshal(&struct {
		Alias
		CreditLimit   float64 `json:"credit_limit"`
		CreditBalance float64 `json:"credit_balance"`
	}{
		Alias:         Alias(c),
		CreditLimit:   float64(c.CreditLimit) / 100,
		CreditBalance: float64(c.CreditBalance) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// CanCharge reports whether a charge of amount cents fits within the
// customer's credit limit. A zero limit means unlimited.
func (c *Customer) CanCharge(amount int64) bool {
	if c.CreditLimit == 0 {
		return true
	}
	return c.CreditBalance+amount <= c.CreditLimit
}

// CreditEntry is one row in a customer's credit ledger
type CreditEntry struct {
	ID            uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID    uuid.UUID            `gorm:"type:uuid;not null;index" json:"customer_id"`
	TransactionID *uuid.UUID           `gorm:"type:uuid;index" json:"transaction_id,omitempty"`
	Type          enum.CreditEntryType `gorm:"size:50;not null" json:"type"`
	Amount        int64                `gorm:"not null" json:"-"` // Stored in cents, always positive
	Note          *string              `gorm:"type:text" json:"note,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`

	// Relationships
	Customer    Customer     `gorm:"foreignKey:CustomerID" json:"-"`
	Transaction *Transaction `gorm:"foreignKey:TransactionID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (e CreditEntry) MarshalJSON() ([]byte, error) {
	type Alias CreditEntry
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(e),
		Amount: float64(e.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new credit entry
func (e *CreditEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CreditEntry model
func (CreditEntry) TableName() string {
	return "credit_entries"
}
