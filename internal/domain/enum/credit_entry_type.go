package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// CreditEntryType represents the direction of a customer credit entry
type CreditEntryType string

const (
	// CreditEntryTypeCharge increases the customer's outstanding balance
	// (a sale taken on credit).
	CreditEntryTypeCharge CreditEntryType = "charge"
	// CreditEntryTypePayment decreases the outstanding balance.
	CreditEntryTypePayment CreditEntryType = "payment"
)

func (t CreditEntryType) String() string {
	return string(t)
}

func (t CreditEntryType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *CreditEntryType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = CreditEntryType(str)
	return nil
}

func (t CreditEntryType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *CreditEntryType) Scan(value interface{}) error {
	if value == nil {
		*t = CreditEntryTypeCharge
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = CreditEntryType(v)
	case []byte:
		*t = CreditEntryType(string(v))
	}
	return nil
}
