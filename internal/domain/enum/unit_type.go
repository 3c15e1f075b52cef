package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// UnitType represents the pricing tier a line item was sold at
type UnitType string

const (
	UnitTypeRetail    UnitType = "retail"
	UnitTypeWholesale UnitType = "wholesale"
)

func (t UnitType) String() string {
	return string(t)
}

// Valid reports whether the value is a known pricing tier
func (t UnitType) Valid() bool {
	return t == UnitTypeRetail || t == UnitTypeWholesale
}

func (t UnitType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *UnitType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = UnitType(str)
	return nil
}

func (t UnitType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *UnitType) Scan(value interface{}) error {
	if value == nil {
		*t = UnitTypeRetail
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = UnitType(v)
	case []byte:
		*t = UnitType(string(v))
	}
	return nil
}
