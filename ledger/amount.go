package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a (quantity, commodity) pair. Commodity == "" is the null
// commodity, used for untyped numbers that haven't been assigned a unit.
type Amount struct {
	Quantity  decimal.Decimal
	Commodity string
}

// NewAmount creates an Amount from a decimal quantity and commodity symbol.
func NewAmount(quantity decimal.Decimal, commodity string) Amount {
	return Amount{Quantity: quantity, Commodity: commodity}
}

// ParseAmount parses a string quantity into an Amount for the given commodity.
func ParseAmount(quantity string, commodity string) (Amount, error) {
	d, err := decimal.NewFromString(quantity)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount quantity %q: %w", quantity, err)
	}
	return Amount{Quantity: d, Commodity: commodity}, nil
}

// IsZero reports whether the quantity is zero, regardless of commodity.
func (a Amount) IsZero() bool {
	return a.Quantity.IsZero()
}

// Neg returns the amount with its quantity negated.
func (a Amount) Neg() Amount {
	return Amount{Quantity: a.Quantity.Neg(), Commodity: a.Commodity}
}

// String renders the amount as "quantity commodity", omitting the commodity
// when it is null.
func (a Amount) String() string {
	if a.Commodity == "" {
		return a.Quantity.String()
	}
	return fmt.Sprintf("%s %s", a.Quantity.String(), a.Commodity)
}

// SameCommodity reports whether two amounts share a commodity.
func (a Amount) SameCommodity(b Amount) bool {
	return a.Commodity == b.Commodity
}
