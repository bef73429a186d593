package enums

import "fmt"

// OrderType identifies which catalog an order was placed against.
type OrderType string

const (
	OrderTypeCanteen OrderType = "canteen"
	OrderTypeSuvidha OrderType = "suvidha"
)

var validOrderTypes = []OrderType{
	OrderTypeCanteen,
	OrderTypeSuvidha,
}

// String implements fmt.Stringer.
func (o OrderType) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderType.
func (o OrderType) IsValid() bool {
	for _, candidate := range validOrderTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderType converts raw input into an OrderType.
func ParseOrderType(value string) (OrderType, error) {
	for _, candidate := range validOrderTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order type %q", value)
}
