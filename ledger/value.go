package ledger

import (
	"github.com/shopspring/decimal"
)

// Value is a possibly multi-commodity signed quantity. It is one of three
// shapes: null (the zero Value), a single Amount, or a Balance spanning two
// or more commodities. Values are immutable: every operation returns a new
// Value rather than mutating its receiver or argument.
type Value struct {
	amount  *Amount
	balance *Balance
}

// NullValue is the empty Value — "nothing posted yet".
var NullValue = Value{}

// AmountValue wraps a single Amount as a Value.
func AmountValue(a Amount) Value {
	if a.IsZero() {
		// A zero amount in one commodity still carries commodity
		// identity (needed by calc's running-total snapshots), so it is
		// kept as an amount rather than collapsed to NullValue.
		return Value{amount: &a}
	}
	return Value{amount: &a}
}

// BalanceValue wraps a Balance as a Value, collapsing to NullValue or
// AmountValue when the balance holds zero or one commodity respectively.
func BalanceValue(b *Balance) Value {
	if b == nil || len(b.entries) == 0 {
		return NullValue
	}
	if len(b.entries) == 1 {
		e := b.entries[0]
		return AmountValue(Amount{Quantity: e.Quantity, Commodity: e.Commodity})
	}
	return Value{balance: b.Copy()}
}

// IsNull reports whether the Value carries no amount.
func (v Value) IsNull() bool {
	return v.amount == nil && v.balance == nil
}

// IsZero reports whether every commodity in the Value is zero, including
// the null Value (which is vacuously zero).
func (v Value) IsZero() bool {
	switch {
	case v.IsNull():
		return true
	case v.amount != nil:
		return v.amount.IsZero()
	default:
		return v.balance.IsZero()
	}
}

// Amount returns the single Amount this Value holds and true, or the zero
// Amount and false if the Value is null or spans more than one commodity.
func (v Value) Amount() (Amount, bool) {
	if v.amount != nil {
		return *v.amount, true
	}
	return Amount{}, false
}

// Balance returns the Value as a Balance, regardless of its underlying
// shape. The returned Balance is a copy; mutating it does not affect v.
func (v Value) Balance() *Balance {
	switch {
	case v.IsNull():
		return NewBalance()
	case v.amount != nil:
		b := NewBalance()
		b.Set(v.amount.Commodity, v.amount.Quantity)
		return b
	default:
		return v.balance.Copy()
	}
}

// Commodities returns the commodities held by this Value, sorted.
func (v Value) Commodities() []string {
	switch {
	case v.IsNull():
		return nil
	case v.amount != nil:
		return []string{v.amount.Commodity}
	default:
		return v.balance.Commodities()
	}
}

// Get returns the quantity held in a single commodity, or zero if the Value
// does not hold that commodity.
func (v Value) Get(commodity string) decimal.Decimal {
	switch {
	case v.IsNull():
		return decimal.Zero
	case v.amount != nil:
		if v.amount.Commodity == commodity {
			return v.amount.Quantity
		}
		return decimal.Zero
	default:
		return v.balance.Get(commodity)
	}
}

// Add returns v + other. Two null values add to null; a null value plus
// anything is that thing; two amounts in the same commodity stay an
// Amount; anything spanning more than one commodity becomes a Balance.
func (v Value) Add(other Value) Value {
	if v.IsNull() {
		return other
	}
	if other.IsNull() {
		return v
	}
	if v.amount != nil && other.amount != nil && v.amount.Commodity == other.amount.Commodity {
		return AmountValue(Amount{
			Quantity:  v.amount.Quantity.Add(other.amount.Quantity),
			Commodity: v.amount.Commodity,
		})
	}
	b := v.Balance()
	for _, e := range other.Balance().Entries() {
		b.Add(e.Commodity, e.Quantity)
	}
	return BalanceValue(b)
}

// Sub returns v - other.
func (v Value) Sub(other Value) Value {
	return v.Add(other.Neg())
}

// Neg returns -v, per commodity.
func (v Value) Neg() Value {
	switch {
	case v.IsNull():
		return NullValue
	case v.amount != nil:
		return AmountValue(v.amount.Neg())
	default:
		return BalanceValue(v.balance.Neg())
	}
}

// Equal reports whether v and other hold the same quantity in every
// commodity either one mentions.
func (v Value) Equal(other Value) bool {
	a, b := v.Balance(), other.Balance()
	seen := make(map[string]bool)
	for _, e := range a.Entries() {
		seen[e.Commodity] = true
		if !e.Quantity.Equal(b.Get(e.Commodity)) {
			return false
		}
	}
	for _, e := range b.Entries() {
		if seen[e.Commodity] {
			continue
		}
		if !e.Quantity.Equal(a.Get(e.Commodity)) {
			return false
		}
	}
	return true
}

// Compare orders two Values for sort handlers: per-commodity lexicographic
// on commodity name, then on quantity, with the null commodity sorting
// before any named commodity. Values with disjoint commodity sets compare
// by their first differing commodity/quantity pair in this order.
func (v Value) Compare(other Value) int {
	a, b := v.Balance(), other.Balance()
	ac, bc := a.Commodities(), b.Commodities()

	i, j := 0, 0
	for i < len(ac) && j < len(bc) {
		switch {
		case ac[i] < bc[j]:
			return -1
		case ac[i] > bc[j]:
			return 1
		default:
			if c := a.Get(ac[i]).Cmp(b.Get(bc[j])); c != 0 {
				return c
			}
			i++
			j++
		}
	}
	switch {
	case i < len(ac):
		return 1
	case j < len(bc):
		return -1
	default:
		return 0
	}
}

// String renders the Value for diagnostics.
func (v Value) String() string {
	switch {
	case v.IsNull():
		return "0"
	case v.amount != nil:
		return v.amount.String()
	default:
		return v.balance.String()
	}
}
