package ledger

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Balance holds a signed quantity for each commodity it has seen, at most
// once per commodity. Entries are kept in a sorted slice rather than a bare
// map so that iteration and rendering are deterministic.
type Balance struct {
	entries []*CommodityAmount
}

// CommodityAmount is one commodity's quantity within a Balance.
type CommodityAmount struct {
	Commodity string
	Quantity  decimal.Decimal
}

// NewBalance creates an empty balance.
func NewBalance() *Balance {
	return &Balance{}
}

// Get returns the quantity for a commodity, or zero if it is not present.
func (b *Balance) Get(commodity string) decimal.Decimal {
	for _, e := range b.entries {
		if e.Commodity == commodity {
			return e.Quantity
		}
	}
	return decimal.Zero
}

// Set sets the quantity for a commodity, inserting it if absent.
func (b *Balance) Set(commodity string, quantity decimal.Decimal) {
	for _, e := range b.entries {
		if e.Commodity == commodity {
			e.Quantity = quantity
			return
		}
	}
	b.entries = append(b.entries, &CommodityAmount{Commodity: commodity, Quantity: quantity})
	b.sort()
}

// Add adds a quantity to a commodity's running total.
func (b *Balance) Add(commodity string, quantity decimal.Decimal) {
	b.Set(commodity, b.Get(commodity).Add(quantity))
}

func (b *Balance) sort() {
	sort.Slice(b.entries, func(i, j int) bool {
		return b.entries[i].Commodity < b.entries[j].Commodity
	})
}

// IsZero reports whether every commodity's quantity is zero.
func (b *Balance) IsZero() bool {
	for _, e := range b.entries {
		if !e.Quantity.IsZero() {
			return false
		}
	}
	return true
}

// Commodities returns the commodities present, sorted.
func (b *Balance) Commodities() []string {
	out := make([]string, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.Commodity
	}
	return out
}

// Entries returns the underlying sorted entries. Callers must not mutate them.
func (b *Balance) Entries() []*CommodityAmount {
	return b.entries
}

// String renders the balance as a comma-separated list of amounts.
func (b *Balance) String() string {
	if len(b.entries) == 0 {
		return "0"
	}
	parts := make([]string, len(b.entries))
	for i, e := range b.entries {
		parts[i] = e.Quantity.String() + " " + e.Commodity
	}
	return strings.Join(parts, ", ")
}

// Merge adds every entry of other into b.
func (b *Balance) Merge(other *Balance) {
	if other == nil {
		return
	}
	for _, e := range other.entries {
		b.Add(e.Commodity, e.Quantity)
	}
}

// Neg returns a new balance with every quantity negated.
func (b *Balance) Neg() *Balance {
	out := NewBalance()
	for _, e := range b.entries {
		out.Set(e.Commodity, e.Quantity.Neg())
	}
	return out
}

// Copy returns a deep copy of the balance.
func (b *Balance) Copy() *Balance {
	if b == nil {
		return NewBalance()
	}
	out := &Balance{entries: make([]*CommodityAmount, len(b.entries))}
	for i, e := range b.entries {
		out.entries[i] = &CommodityAmount{Commodity: e.Commodity, Quantity: e.Quantity}
	}
	return out
}
